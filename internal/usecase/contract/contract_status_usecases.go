package contract

import (
	"context"
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

type UpdateContractStatusUseCase struct {
	store  repository.Store
	events event.Publisher
}

func NewUpdateContractStatusUseCase(store repository.Store, events event.Publisher) *UpdateContractStatusUseCase {
	return &UpdateContractStatusUseCase{store: store, events: events}
}

// Execute завершает или расторгает активный контракт.
// При завершении счётчик выполненных работ исполнителя растёт на 1 в той же транзакции.
func (uc *UpdateContractStatusUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID, target string) (_ *entity.Contract, err error) {
	ctx, span := telemetry.Start(ctx, "contract.update_status")
	defer func() { telemetry.End(span, err) }()

	status, err := valueobject.NewContractStatus(target)
	if err != nil {
		return nil, err
	}

	var (
		contract *entity.Contract
		previous valueobject.ContractStatus
		parties  [2]uuid.UUID
	)
	err = uc.store.Do(ctx, func(tx repository.Repositories) error {
		var err error
		contract, err = tx.Contracts().FindByIDForUpdate(ctx, id)
		if err != nil {
			return common.Translate(err, apperror.ErrContractNotFound, "contract.find_for_update")
		}

		profile, err := common.LoadProfile(ctx, tx, actor)
		if err != nil {
			return err
		}
		if !profile.CanAccessContract(contract) {
			return apperror.ErrForbidden
		}

		previous = contract.Status
		if err := contract.TransitionTo(status, time.Now()); err != nil {
			return err
		}

		affected, err := tx.Contracts().Update(ctx, contract, previous)
		if err != nil {
			return common.Translate(err, apperror.ErrContractNotFound, "contract.update_status")
		}
		// Повторное завершение упирается сюда и не увеличивает счётчик второй раз.
		if affected == 0 {
			return apperror.InvalidTransition("контракт", string(previous), string(status))
		}

		if status == valueobject.ContractStatusCompleted {
			if err := tx.Talents().IncrementCompletedJobs(ctx, contract.TalentID); err != nil {
				return common.Translate(err, apperror.ErrTalentNotFound, "talent.increment_completed")
			}
		}

		parties[0], parties[1] = common.PartyUsers(ctx, tx, contract.EmployerID, contract.TalentID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, event.New(event.ContractStatusChanged, event.EntityContract, contract.ID, actor).
		Transition(string(previous), string(contract.Status)).
		NotifyUsers(parties[0], parties[1]))

	return contract, nil
}

type UpdateContractUseCase struct {
	store  repository.Store
	events event.Publisher
}

func NewUpdateContractUseCase(store repository.Store, events event.Publisher) *UpdateContractUseCase {
	return &UpdateContractUseCase{store: store, events: events}
}

// Execute меняет дату окончания, сумму или документ активного контракта.
// Новая сумма пересчитывает комиссию по сохранённому проценту.
func (uc *UpdateContractUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID, changes entity.ContractChanges) (_ *entity.Contract, err error) {
	ctx, span := telemetry.Start(ctx, "contract.update")
	defer func() { telemetry.End(span, err) }()

	var contract *entity.Contract
	err = uc.store.Do(ctx, func(tx repository.Repositories) error {
		employer, err := common.RequireEmployer(ctx, tx, actor)
		if err != nil {
			return err
		}
		contract, err = tx.Contracts().FindByIDForUpdate(ctx, id)
		if err != nil {
			return common.Translate(err, apperror.ErrContractNotFound, "contract.find_for_update")
		}
		if contract.EmployerID != employer.ID {
			return apperror.ErrForbidden
		}
		if err := contract.Apply(changes, time.Now()); err != nil {
			return err
		}
		affected, err := tx.Contracts().Update(ctx, contract, valueobject.ContractStatusActive)
		if err != nil {
			return common.Translate(err, apperror.ErrContractNotFound, "contract.update")
		}
		if affected == 0 {
			return common.ErrConcurrentUpdate
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e := event.New(event.ContractUpdated, event.EntityContract, contract.ID, actor)
	if changes.TotalAmount != nil {
		e = e.With("total_amount", *contract.TotalAmount).With("commission_amount", contract.CommissionAmount)
	}
	if changes.EndDate != nil {
		e = e.With("end_date", contract.EndDate)
	}
	if changes.DocumentRef != nil {
		e = e.With("document_ref", *contract.DocumentRef)
	}
	uc.events.Publish(ctx, e)

	return contract, nil
}
