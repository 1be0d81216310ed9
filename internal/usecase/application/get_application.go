package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/usecase/common"
	"github.com/ignatzorin/engagement-backend/internal/usecase/job"
)

type GetApplicationUseCase struct {
	store repository.Store
}

func NewGetApplicationUseCase(store repository.Store) *GetApplicationUseCase {
	return &GetApplicationUseCase{store: store}
}

// Execute: видят автор отклика, работодатель вакансии и staff.
func (uc *GetApplicationUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.Application, error) {
	app, err := uc.store.Applications().FindByID(ctx, id)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrApplicationNotFound, "application.find")
	}
	if actor.IsTalent() {
		profile, err := common.LoadProfile(ctx, uc.store, actor)
		if err != nil {
			return nil, err
		}
		if !profile.OwnsTalent(app.TalentID) {
			return nil, apperror.ErrForbidden
		}
		return app, nil
	}
	if err := job.NewOwnership(uc.store).CanManage(ctx, actor, app.JobID); err != nil {
		return nil, err
	}
	return app, nil
}

type ListJobApplicationsUseCase struct {
	store repository.Store
}

func NewListJobApplicationsUseCase(store repository.Store) *ListJobApplicationsUseCase {
	return &ListJobApplicationsUseCase{store: store}
}

// Execute: сначала рекомендованные агентством, затем новые.
func (uc *ListJobApplicationsUseCase) Execute(ctx context.Context, actor valueobject.Actor, jobID uuid.UUID) ([]*entity.Application, error) {
	if err := job.NewOwnership(uc.store).CanManage(ctx, actor, jobID); err != nil {
		return nil, err
	}
	apps, err := uc.store.Applications().ListByJob(ctx, jobID)
	if err != nil {
		return nil, common.Translate(err, nil, "application.list_by_job")
	}
	return apps, nil
}

type ListTalentApplicationsUseCase struct {
	store repository.Store
}

func NewListTalentApplicationsUseCase(store repository.Store) *ListTalentApplicationsUseCase {
	return &ListTalentApplicationsUseCase{store: store}
}

func (uc *ListTalentApplicationsUseCase) Execute(ctx context.Context, actor valueobject.Actor) ([]*entity.Application, error) {
	talent, err := common.RequireTalent(ctx, uc.store, actor)
	if err != nil {
		return nil, err
	}
	apps, err := uc.store.Applications().ListByTalent(ctx, talent.ID)
	if err != nil {
		return nil, common.Translate(err, nil, "application.list_by_talent")
	}
	return apps, nil
}

type StatusCountsUseCase struct {
	store repository.Store
}

func NewStatusCountsUseCase(store repository.Store) *StatusCountsUseCase {
	return &StatusCountsUseCase{store: store}
}

// ForJob считает отклики вакансии по статусам.
func (uc *StatusCountsUseCase) ForJob(ctx context.Context, actor valueobject.Actor, jobID uuid.UUID) (repository.StatusCounts, error) {
	if err := job.NewOwnership(uc.store).CanManage(ctx, actor, jobID); err != nil {
		return nil, err
	}
	counts, err := uc.store.Applications().CountByStatusForJob(ctx, jobID)
	if err != nil {
		return nil, common.Translate(err, nil, "application.count_for_job")
	}
	return withAllStatuses(counts), nil
}

// ForTalent считает отклики текущего исполнителя по статусам.
func (uc *StatusCountsUseCase) ForTalent(ctx context.Context, actor valueobject.Actor) (repository.StatusCounts, error) {
	talent, err := common.RequireTalent(ctx, uc.store, actor)
	if err != nil {
		return nil, err
	}
	counts, err := uc.store.Applications().CountByStatusForTalent(ctx, talent.ID)
	if err != nil {
		return nil, common.Translate(err, nil, "application.count_for_talent")
	}
	return withAllStatuses(counts), nil
}

func withAllStatuses(counts repository.StatusCounts) repository.StatusCounts {
	out := repository.StatusCounts{}
	for _, s := range []valueobject.ApplicationStatus{
		valueobject.ApplicationStatusPending,
		valueobject.ApplicationStatusReviewed,
		valueobject.ApplicationStatusShortlisted,
		valueobject.ApplicationStatusAccepted,
		valueobject.ApplicationStatusRejected,
	} {
		out[string(s)] = counts[string(s)]
	}
	return out
}
