package contract

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/logger"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/telemetry"
	"github.com/ignatzorin/engagement-backend/internal/usecase/common"
)

type CreateContractUseCase struct {
	store             repository.Store
	events            event.Publisher
	defaultPercentage float64
}

func NewCreateContractUseCase(store repository.Store, events event.Publisher, defaultPercentage float64) *CreateContractUseCase {
	return &CreateContractUseCase{store: store, events: events, defaultPercentage: defaultPercentage}
}

// Execute создаёт контракт и в той же транзакции закрывает вакансию (filled)
// и принимает связанный отклик (accepted). Либо видны все три записи, либо ни одной.
func (uc *CreateContractUseCase) Execute(ctx context.Context, actor valueobject.Actor, input entity.ContractFields) (_ *entity.Contract, err error) {
	ctx, span := telemetry.Start(ctx, "contract.create")
	defer func() { telemetry.End(span, err) }()

	if !actor.IsEmployer() && !actor.IsStaff() {
		return nil, apperror.ErrForbidden
	}

	var (
		contract *entity.Contract
		events   []event.Event
	)
	err = uc.store.Do(ctx, func(tx repository.Repositories) error {
		if actor.IsEmployer() {
			employer, err := common.RequireEmployer(ctx, tx, actor)
			if err != nil {
				return err
			}
			if input.EmployerID == uuid.Nil {
				input.EmployerID = employer.ID
			}
			if input.EmployerID != employer.ID {
				return apperror.ErrForbidden
			}
		}

		var err error
		contract, err = entity.NewContract(input, uc.defaultPercentage)
		if err != nil {
			return err
		}

		events, err = uc.createInTx(ctx, tx, actor, contract)
		return err
	})
	if err != nil {
		if apperror.IsConflict(err) {
			logger.Log.WithFields(logrus.Fields{
				"job_id":    input.JobID,
				"talent_id": input.TalentID,
				"actor_id":  actor.ID,
			}).Info("contract: отказ по эксклюзивности")
		}
		return nil, err
	}

	uc.events.Publish(ctx, events...)
	return contract, nil
}

func (uc *CreateContractUseCase) createInTx(ctx context.Context, tx repository.Repositories, actor valueobject.Actor, contract *entity.Contract) ([]event.Event, error) {
	now := time.Now()

	// Блокируем вакансию: параллельные создания для неё выстраиваются в очередь.
	job, err := tx.Jobs().FindByIDForUpdate(ctx, contract.JobID)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrJobNotFound, "job.find_for_update")
	}
	if job.EmployerID != contract.EmployerID {
		return nil, apperror.Validation("вакансия принадлежит другому работодателю", map[string]string{
			"employer_id": "не совпадает с владельцем вакансии",
		})
	}
	if job.Status != valueobject.JobStatusActive && job.Status != valueobject.JobStatusFilled {
		return nil, apperror.Validation("контракт можно заключить только по активной вакансии", map[string]string{
			"job_id": "статус " + string(job.Status),
		})
	}

	talent, err := tx.Talents().FindByID(ctx, contract.TalentID)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrTalentNotFound, "talent.find")
	}
	employer, err := tx.Employers().FindByID(ctx, contract.EmployerID)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrEmployerNotFound, "employer.find")
	}

	var app *entity.Application
	if contract.ApplicationID != nil {
		app, err = tx.Applications().FindByID(ctx, *contract.ApplicationID)
		if err != nil {
			return nil, common.Translate(err, apperror.ErrApplicationNotFound, "application.find")
		}
		if app.JobID != contract.JobID || app.TalentID != contract.TalentID {
			return nil, apperror.Validation("отклик не относится к этой паре вакансия/исполнитель", map[string]string{
				"application_id": "не совпадает с job_id/talent_id",
			})
		}
	}

	if _, err := tx.Contracts().FindActiveByJobAndTalent(ctx, contract.JobID, contract.TalentID); err == nil {
		return nil, apperror.ErrDuplicateActiveContract
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, common.Translate(err, nil, "contract.find_active")
	}

	// Частичный уникальный индекс страхует от гонки, которую не закрыла проверка выше.
	if err := tx.Contracts().Create(ctx, contract); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, apperror.ErrDuplicateActiveContract
		}
		return nil, common.Translate(err, nil, "contract.create")
	}

	events := []event.Event{
		event.New(event.ContractCreated, event.EntityContract, contract.ID, actor).
			Transition("", string(contract.Status)).
			With("job_id", contract.JobID).
			With("talent_id", contract.TalentID).
			With("commission_amount", contract.CommissionAmount).
			NotifyUsers(employer.UserID, talent.UserID),
	}

	previousJob := job.Status
	if err := job.TransitionTo(valueobject.JobStatusFilled, now); err != nil {
		return nil, err
	}
	affected, err := tx.Jobs().UpdateStatus(ctx, job, previousJob)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrJobNotFound, "job.fill")
	}
	if affected == 0 {
		return nil, common.ErrConcurrentUpdate
	}
	if previousJob != job.Status {
		events = append(events, event.New(event.JobStatusChanged, event.EntityJob, job.ID, actor).
			Transition(string(previousJob), string(job.Status)).
			With("contract_id", contract.ID))
	}

	if app != nil {
		previousApp := app.Status
		app.Accept(now)
		affected, err := tx.Applications().Update(ctx, app, previousApp)
		if err != nil {
			return nil, common.Translate(err, apperror.ErrApplicationNotFound, "application.accept")
		}
		if affected == 0 {
			return nil, common.ErrConcurrentUpdate
		}
		events = append(events, event.New(event.ApplicationAccepted, event.EntityApplication, app.ID, actor).
			Transition(string(previousApp), string(app.Status)).
			With("contract_id", contract.ID).
			NotifyUsers(talent.UserID))
	}

	return events, nil
}
