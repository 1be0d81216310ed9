package job

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/usecase/common"
)

type UpdateJobUseCase struct {
	store  repository.Store
	events event.Publisher
}

func NewUpdateJobUseCase(store repository.Store, events event.Publisher) *UpdateJobUseCase {
	return &UpdateJobUseCase{store: store, events: events}
}

// Execute применяет правку владельца. Любая правка возвращает вакансию на модерацию.
func (uc *UpdateJobUseCase) Execute(ctx context.Context, actor valueobject.Actor, jobID uuid.UUID, input JobInput) (*entity.Job, error) {
	employer, err := common.RequireEmployer(ctx, uc.store, actor)
	if err != nil {
		return nil, err
	}

	var (
		job      *entity.Job
		previous valueobject.JobStatus
	)
	err = uc.store.Do(ctx, func(tx repository.Repositories) error {
		var err error
		job, err = tx.Jobs().FindByIDForUpdate(ctx, jobID)
		if err != nil {
			return common.Translate(err, apperror.ErrJobNotFound, "job.find_for_update")
		}
		if !job.IsOwnedBy(employer.ID) {
			return apperror.ErrForbidden
		}

		fields := input.Fields
		fields.Skills, err = resolveSkills(ctx, tx, input.Skills)
		if err != nil {
			return err
		}

		previous = job.Status
		if err := job.Edit(fields); err != nil {
			return err
		}

		affected, err := tx.Jobs().Update(ctx, job, previous)
		if err != nil {
			return common.Translate(err, apperror.ErrJobNotFound, "job.update")
		}
		if affected == 0 {
			return common.ErrConcurrentUpdate
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, event.New(event.JobUpdated, event.EntityJob, job.ID, actor).
		Transition(string(previous), string(job.Status)))

	return job, nil
}
