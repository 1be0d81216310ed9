package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/telemetry"
	"github.com/ignatzorin/engagement-backend/internal/usecase/common"
)

type ApplyInput struct {
	JobID        uuid.UUID
	CoverLetter  string
	ProposedRate *float64
}

type ApplyUseCase struct {
	store  repository.Store
	events event.Publisher
}

func NewApplyUseCase(store repository.Store, events event.Publisher) *ApplyUseCase {
	return &ApplyUseCase{store: store, events: events}
}

// Execute подаёт отклик исполнителя. Пара (вакансия, исполнитель) уникальна на уровне хранилища.
func (uc *ApplyUseCase) Execute(ctx context.Context, actor valueobject.Actor, input ApplyInput) (_ *entity.Application, err error) {
	ctx, span := telemetry.Start(ctx, "application.apply")
	defer func() { telemetry.End(span, err) }()

	var (
		app          *entity.Application
		employerUser uuid.UUID
	)
	err = uc.store.Do(ctx, func(tx repository.Repositories) error {
		talent, err := common.RequireTalent(ctx, tx, actor)
		if err != nil {
			return err
		}

		job, err := tx.Jobs().FindByID(ctx, input.JobID)
		if err != nil {
			return common.Translate(err, apperror.ErrJobNotFound, "job.find")
		}
		if !job.IsOpenForApplications(time.Now()) {
			return apperror.Validation("вакансия не принимает отклики", map[string]string{
				"job_id": "вакансия не активна или срок подачи истёк",
			})
		}

		app, err = entity.NewApplication(job.ID, talent.ID, input.CoverLetter, input.ProposedRate)
		if err != nil {
			return err
		}
		if err := tx.Applications().Create(ctx, app); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return apperror.ErrDuplicateApplication
			}
			return common.Translate(err, apperror.ErrJobNotFound, "application.create")
		}
		employerUser, _ = common.PartyUsers(ctx, tx, job.EmployerID, uuid.Nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, event.New(event.ApplicationSubmitted, event.EntityApplication, app.ID, actor).
		Transition("", string(app.Status)).
		With("job_id", app.JobID).
		NotifyUsers(employerUser))

	return app, nil
}
