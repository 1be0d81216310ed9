package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	Update(ctx context.Context, p *entity.Payment, expected valueobject.PaymentStatus) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]*entity.Payment, error)
	Stats(ctx context.Context) (*PaymentStats, error)
	// MonthlyRevenue возвращает последние months месяцев, начиная с самого раннего.
	MonthlyRevenue(ctx context.Context, months int, now time.Time) ([]MonthlyRevenue, error)
}

type PaymentStats struct {
	TotalPayments       int     `json:"total_payments"`
	CompletedCount      int     `json:"completed_count"`
	PendingCount        int     `json:"pending_count"`
	RefundedCount       int     `json:"refunded_count"`
	FailedCount         int     `json:"failed_count"`
	CompletedAmount     float64 `json:"completed_amount"`
	PendingAmount       float64 `json:"pending_amount"`
	RefundedAmount      float64 `json:"refunded_amount"`
	CompletedCommission float64 `json:"completed_commission"`
}

type MonthlyRevenue struct {
	Month      string  `json:"month"`
	Payments   int     `json:"payments"`
	Amount     float64 `json:"amount"`
	Commission float64 `json:"commission"`
}

// MonthKeys строит ключи YYYY-MM за последние months месяцев.
func MonthKeys(months int, now time.Time) []string {
	keys := make([]string, 0, months)
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := months - 1; i >= 0; i-- {
		keys = append(keys, first.AddDate(0, -i, 0).Format("2006-01"))
	}
	return keys
}
