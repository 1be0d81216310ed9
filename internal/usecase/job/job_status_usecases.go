package job

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/usecase/common"
)

type SetJobStatusUseCase struct {
	store  repository.Store
	events event.Publisher
}

func NewSetJobStatusUseCase(store repository.Store, events event.Publisher) *SetJobStatusUseCase {
	return &SetJobStatusUseCase{store: store, events: events}
}

// Execute меняет статус вакансии.
// active, rejected и filled ставит только staff/admin; closed и deleted - также владелец.
func (uc *SetJobStatusUseCase) Execute(ctx context.Context, actor valueobject.Actor, jobID uuid.UUID, target string) (*entity.Job, error) {
	status, err := valueobject.NewJobStatus(target)
	if err != nil {
		return nil, err
	}

	job, err := uc.store.Jobs().FindByID(ctx, jobID)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrJobNotFound, "job.find")
	}

	if err := uc.authorize(ctx, actor, job, status); err != nil {
		return nil, err
	}

	previous := job.Status
	if err := job.TransitionTo(status, time.Now()); err != nil {
		return nil, err
	}

	affected, err := uc.store.Jobs().UpdateStatus(ctx, job, previous)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrJobNotFound, "job.set_status")
	}
	if affected == 0 {
		return nil, common.ErrConcurrentUpdate
	}

	employerUser, _ := common.PartyUsers(ctx, uc.store, job.EmployerID, uuid.Nil)
	uc.events.Publish(ctx, event.New(event.JobStatusChanged, event.EntityJob, job.ID, actor).
		Transition(string(previous), string(job.Status)).
		NotifyUsers(employerUser))

	return job, nil
}

func (uc *SetJobStatusUseCase) authorize(ctx context.Context, actor valueobject.Actor, job *entity.Job, target valueobject.JobStatus) error {
	if actor.IsStaff() {
		return nil
	}
	switch target {
	case valueobject.JobStatusClosed, valueobject.JobStatusDeleted:
		employer, err := common.RequireEmployer(ctx, uc.store, actor)
		if err != nil {
			return err
		}
		if !job.IsOwnedBy(employer.ID) {
			return apperror.ErrForbidden
		}
		return nil
	default:
		return apperror.ErrForbidden
	}
}
