package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
)

type RecordPaymentRequest struct {
	ContractID       string   `json:"contract_id" binding:"required"`
	Amount           float64  `json:"amount" binding:"required,gt=0"`
	CommissionAmount *float64 `json:"commission_amount"`
	PaymentMethod    string   `json:"payment_method" binding:"required"`
	Notes            *string  `json:"notes"`
	Status           string   `json:"status" binding:"omitempty,oneof=pending completed"`
}

type RefundRequest struct {
	Reason *string `json:"reason"`
}

type PaymentResponse struct {
	ID               uuid.UUID  `json:"id"`
	ContractID       uuid.UUID  `json:"contract_id"`
	PayerUserID      uuid.UUID  `json:"payer_user_id"`
	PayeeUserID      uuid.UUID  `json:"payee_user_id"`
	Amount           float64    `json:"amount"`
	CommissionAmount float64    `json:"commission_amount"`
	PaymentMethod    string     `json:"payment_method"`
	Status           string     `json:"status"`
	Notes            *string    `json:"notes"`
	RefundReason     *string    `json:"refund_reason"`
	PaidAt           *time.Time `json:"paid_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func ToPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:               p.ID,
		ContractID:       p.ContractID,
		PayerUserID:      p.PayerUserID,
		PayeeUserID:      p.PayeeUserID,
		Amount:           p.Amount,
		CommissionAmount: p.CommissionAmount,
		PaymentMethod:    p.PaymentMethod,
		Status:           string(p.Status),
		Notes:            p.Notes,
		RefundReason:     p.RefundReason,
		PaidAt:           p.PaidAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ToPaymentResponses(payments []*entity.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, ToPaymentResponse(p))
	}
	return out
}
