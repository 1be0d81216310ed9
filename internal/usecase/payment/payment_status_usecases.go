package payment

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

type UpdatePaymentStatusUseCase struct {
	store  repository.Store
	events event.Publisher
	cache  Invalidator
	prefix string
}

func NewUpdatePaymentStatusUseCase(store repository.Store, events event.Publisher, cache Invalidator, prefix string) *UpdatePaymentStatusUseCase {
	return &UpdatePaymentStatusUseCase{store: store, events: events, cache: cache, prefix: prefix}
}

func (uc *UpdatePaymentStatusUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID, target string) (_ *entity.Payment, err error) {
	ctx, span := telemetry.Start(ctx, "payment.update_status")
	defer func() { telemetry.End(span, err) }()

	if err := common.RequireStaff(actor); err != nil {
		return nil, err
	}
	status, err := valueobject.NewPaymentStatus(target)
	if err != nil {
		return nil, err
	}
	// Возврат идёт отдельной операцией с причиной.
	if status == valueobject.PaymentStatusRefunded {
		return nil, apperror.Validation("для возврата используйте refund", map[string]string{"status": "refunded"})
	}

	var (
		p        *entity.Payment
		previous valueobject.PaymentStatus
	)
	err = uc.store.Do(ctx, func(tx repository.Repositories) error {
		var err error
		p, err = tx.Payments().FindByIDForUpdate(ctx, id)
		if err != nil {
			return common.Translate(err, apperror.ErrPaymentNotFound, "payment.find_for_update")
		}
		previous = p.Status
		if err := p.TransitionTo(status, time.Now()); err != nil {
			return err
		}
		affected, err := tx.Payments().Update(ctx, p, previous)
		if err != nil {
			return common.Translate(err, apperror.ErrPaymentNotFound, "payment.update_status")
		}
		if affected == 0 {
			return apperror.InvalidTransition("платёж", string(previous), string(status))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateByPrefix(uc.prefix)
	uc.events.Publish(ctx, event.New(event.PaymentStatusChanged, event.EntityPayment, p.ID, actor).
		Transition(string(previous), string(p.Status)).
		With("contract_id", p.ContractID).
		NotifyUsers(p.PayerUserID, p.PayeeUserID))
	return p, nil
}

type RefundPaymentUseCase struct {
	store  repository.Store
	events event.Publisher
	cache  Invalidator
	prefix string
}

func NewRefundPaymentUseCase(store repository.Store, events event.Publisher, cache Invalidator, prefix string) *RefundPaymentUseCase {
	return &RefundPaymentUseCase{store: store, events: events, cache: cache, prefix: prefix}
}

// Execute возвращает только завершённый платёж, иначе ErrNotRefundable.
func (uc *RefundPaymentUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID, reason *string) (_ *entity.Payment, err error) {
	ctx, span := telemetry.Start(ctx, "payment.refund")
	defer func() { telemetry.End(span, err) }()

	if err := common.RequireStaff(actor); err != nil {
		return nil, err
	}

	var p *entity.Payment
	err = uc.store.Do(ctx, func(tx repository.Repositories) error {
		var err error
		p, err = tx.Payments().FindByIDForUpdate(ctx, id)
		if err != nil {
			return common.Translate(err, apperror.ErrPaymentNotFound, "payment.find_for_update")
		}
		if err := p.Refund(reason, time.Now()); err != nil {
			return err
		}
		affected, err := tx.Payments().Update(ctx, p, valueobject.PaymentStatusCompleted)
		if err != nil {
			return common.Translate(err, apperror.ErrPaymentNotFound, "payment.refund")
		}
		if affected == 0 {
			return apperror.ErrNotRefundable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateByPrefix(uc.prefix)
	e := event.New(event.PaymentRefunded, event.EntityPayment, p.ID, actor).
		Transition(string(valueobject.PaymentStatusCompleted), string(p.Status)).
		With("contract_id", p.ContractID).
		With("amount", p.Amount)
	if reason != nil {
		e = e.With("reason", *reason)
	}
	uc.events.Publish(ctx, e.NotifyUsers(p.PayerUserID, p.PayeeUserID))
	return p, nil
}
