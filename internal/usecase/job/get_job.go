package job

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/usecase/common"
)

type GetJobUseCase struct {
	store repository.Store
}

func NewGetJobUseCase(store repository.Store) *GetJobUseCase {
	return &GetJobUseCase{store: store}
}

// Execute: гость видит только активные вакансии, владелец и staff - любые, кроме удалённых для владельца.
func (uc *GetJobUseCase) Execute(ctx context.Context, viewer *valueobject.Actor, jobID uuid.UUID) (*entity.Job, error) {
	job, err := uc.store.Jobs().FindByID(ctx, jobID)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrJobNotFound, "job.find")
	}
	if job.Status == valueobject.JobStatusActive {
		return job, nil
	}
	if viewer == nil {
		return nil, apperror.ErrJobNotFound
	}
	if viewer.IsStaff() {
		return job, nil
	}
	if job.Status != valueobject.JobStatusDeleted {
		profile, err := common.LoadProfile(ctx, uc.store, *viewer)
		if err != nil {
			return nil, err
		}
		if profile.OwnsEmployer(job.EmployerID) {
			return job, nil
		}
	}
	return nil, apperror.ErrJobNotFound
}

type ListEmployerJobsUseCase struct {
	store repository.Store
}

func NewListEmployerJobsUseCase(store repository.Store) *ListEmployerJobsUseCase {
	return &ListEmployerJobsUseCase{store: store}
}

func (uc *ListEmployerJobsUseCase) Execute(ctx context.Context, actor valueobject.Actor) ([]*entity.Job, error) {
	employer, err := common.RequireEmployer(ctx, uc.store, actor)
	if err != nil {
		return nil, err
	}
	jobs, err := uc.store.Jobs().FindByEmployerID(ctx, employer.ID)
	if err != nil {
		return nil, common.Translate(err, nil, "job.list_by_employer")
	}
	return jobs, nil
}

type SearchJobsUseCase struct {
	store repository.Store
}

func NewSearchJobsUseCase(store repository.Store) *SearchJobsUseCase {
	return &SearchJobsUseCase{store: store}
}

// Execute ищет только среди активных вакансий с непросроченным дедлайном.
func (uc *SearchJobsUseCase) Execute(ctx context.Context, filter repository.JobFilter) ([]*entity.Job, int, error) {
	filter.Normalize()
	jobs, total, err := uc.store.Jobs().Search(ctx, filter)
	if err != nil {
		return nil, 0, common.Translate(err, nil, "job.search")
	}
	return jobs, total, nil
}

// Ownership - проверка владения вакансией для слоя HTTP и других use case.
type Ownership struct {
	repos repository.Repositories
}

func NewOwnership(repos repository.Repositories) *Ownership {
	return &Ownership{repos: repos}
}

func (o *Ownership) BelongsToEmployer(ctx context.Context, jobID, employerID uuid.UUID) (bool, error) {
	job, err := o.repos.Jobs().FindByID(ctx, jobID)
	if err != nil {
		return false, common.Translate(err, apperror.ErrJobNotFound, "job.find")
	}
	return job.IsOwnedBy(employerID), nil
}

// CanManage: staff/admin или работодатель-владелец вакансии.
func (o *Ownership) CanManage(ctx context.Context, actor valueobject.Actor, jobID uuid.UUID) error {
	if actor.IsStaff() {
		_, err := o.repos.Jobs().FindByID(ctx, jobID)
		return common.Translate(err, apperror.ErrJobNotFound, "job.find")
	}
	employer, err := common.RequireEmployer(ctx, o.repos, actor)
	if err != nil {
		return err
	}
	owns, err := o.BelongsToEmployer(ctx, jobID, employer.ID)
	if err != nil {
		return err
	}
	if !owns {
		return apperror.ErrForbidden
	}
	return nil
}
