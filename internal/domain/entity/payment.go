package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
)

var PaymentMethods = []string{"bank_transfer", "card", "cash", "payme", "click", "other"}

type Payment struct {
	ID               uuid.UUID
	ContractID       uuid.UUID
	PayerUserID      uuid.UUID
	PayeeUserID      uuid.UUID
	Amount           float64
	CommissionAmount float64
	PaymentMethod    string
	Status           valueobject.PaymentStatus
	Notes            *string
	RefundReason     *string
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewPayment фиксирует уже проведённую выплату по контракту.
// Комиссия всегда выводится из процента контракта.
func NewPayment(contract *Contract, payerUserID, payeeUserID uuid.UUID, amount float64, suppliedCommission *float64, method string, notes *string) (*Payment, error) {
	fields := make(map[string]string)
	if amount <= 0 {
		fields["amount"] = "должна быть больше нуля"
	}
	if !oneOf(method, PaymentMethods) {
		fields["payment_method"] = "недопустимое значение"
	}
	commission := valueobject.Commission(amount, contract.CommissionPercentage)
	if suppliedCommission != nil && *suppliedCommission != commission {
		fields["commission_amount"] = "не совпадает с процентом контракта"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("некорректные данные платежа", fields)
	}

	now := time.Now()
	return &Payment{
		ID:               uuid.New(),
		ContractID:       contract.ID,
		PayerUserID:      payerUserID,
		PayeeUserID:      payeeUserID,
		Amount:           amount,
		CommissionAmount: commission,
		PaymentMethod:    method,
		Status:           valueobject.PaymentStatusCompleted,
		Notes:            notes,
		PaidAt:           &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// NewPendingPayment - выплата, которая ещё не проведена: paid_at появится при переходе в completed.
func NewPendingPayment(contract *Contract, payerUserID, payeeUserID uuid.UUID, amount float64, suppliedCommission *float64, method string, notes *string) (*Payment, error) {
	p, err := NewPayment(contract, payerUserID, payeeUserID, amount, suppliedCommission, method, notes)
	if err != nil {
		return nil, err
	}
	p.Status = valueobject.PaymentStatusPending
	p.PaidAt = nil
	return p, nil
}

func (p *Payment) TransitionTo(target valueobject.PaymentStatus, now time.Time) error {
	if !p.Status.CanTransitionTo(target) {
		return apperror.InvalidTransition("платёж", string(p.Status), string(target))
	}
	p.Status = target
	if target == valueobject.PaymentStatusCompleted {
		p.PaidAt = &now
	}
	p.UpdatedAt = now
	return nil
}

func (p *Payment) Refund(reason *string, now time.Time) error {
	if p.Status != valueobject.PaymentStatusCompleted {
		return apperror.ErrNotRefundable
	}
	p.Status = valueobject.PaymentStatusRefunded
	p.RefundReason = reason
	p.UpdatedAt = now
	return nil
}
