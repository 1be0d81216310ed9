package payment

import (
	"context"

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

// Invalidator сбрасывает закэшированные агрегаты реестра.
type Invalidator interface {
	InvalidateByPrefix(prefix string)
}

type RecordPaymentInput struct {
	ContractID       uuid.UUID
	Amount           float64
	CommissionAmount *float64
	PaymentMethod    string
	Notes            *string
	// Status: completed (по умолчанию) или pending.
	Status string
}

type RecordPaymentUseCase struct {
	store  repository.Store
	events event.Publisher
	cache  Invalidator
	prefix string
}

func NewRecordPaymentUseCase(store repository.Store, events event.Publisher, cache Invalidator, prefix string) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{store: store, events: events, cache: cache, prefix: prefix}
}

// Execute записывает выплату: проведённую или ожидающую. Плательщик и получатель берутся из сторон контракта.
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, actor valueobject.Actor, input RecordPaymentInput) (_ *entity.Payment, err error) {
	ctx, span := telemetry.Start(ctx, "payment.record")
	defer func() { telemetry.End(span, err) }()

	if err := common.RequireStaff(actor); err != nil {
		return nil, err
	}

	var p *entity.Payment
	err = uc.store.Do(ctx, func(tx repository.Repositories) error {
		contract, err := tx.Contracts().FindByIDForUpdate(ctx, input.ContractID)
		if err != nil {
			return common.Translate(err, apperror.ErrContractNotFound, "contract.find_for_update")
		}
		if contract.Status == valueobject.ContractStatusTerminated {
			return apperror.Validation("по расторгнутому контракту платежи не принимаются", map[string]string{
				"contract_id": "контракт расторгнут",
			})
		}

		payer, payee := common.PartyUsers(ctx, tx, contract.EmployerID, contract.TalentID)
		if payer == uuid.Nil || payee == uuid.Nil {
			return apperror.New(apperror.ErrCodeNotFound, "стороны контракта не найдены")
		}

		switch valueobject.PaymentStatus(input.Status) {
		case "", valueobject.PaymentStatusCompleted:
			p, err = entity.NewPayment(contract, payer, payee, input.Amount, input.CommissionAmount, input.PaymentMethod, input.Notes)
		case valueobject.PaymentStatusPending:
			p, err = entity.NewPendingPayment(contract, payer, payee, input.Amount, input.CommissionAmount, input.PaymentMethod, input.Notes)
		default:
			err = apperror.Validation("некорректные данные платежа", map[string]string{
				"status": "допустимо pending или completed",
			})
		}
		if err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, p); err != nil {
			return common.Translate(err, apperror.ErrContractNotFound, "payment.create")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateByPrefix(uc.prefix)
	logger.Log.WithFields(logrus.Fields{
		"payment_id":  p.ID,
		"contract_id": p.ContractID,
		"amount":      p.Amount,
		"commission":  p.CommissionAmount,
	}).Info("payment: выплата записана")

	uc.events.Publish(ctx, event.New(event.PaymentRecorded, event.EntityPayment, p.ID, actor).
		Transition("", string(p.Status)).
		With("contract_id", p.ContractID).
		With("amount", p.Amount).
		With("commission_amount", p.CommissionAmount).
		NotifyUsers(p.PayerUserID, p.PayeeUserID))

	return p, nil
}
