package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type paymentRepo struct {
	q sqlx.ExtContext
}

type paymentRow struct {
	ID               uuid.UUID  `db:"id"`
	ContractID       uuid.UUID  `db:"contract_id"`
	PayerUserID      uuid.UUID  `db:"payer_user_id"`
	PayeeUserID      uuid.UUID  `db:"payee_user_id"`
	Amount           float64    `db:"amount"`
	CommissionAmount float64    `db:"commission_amount"`
	PaymentMethod    string     `db:"payment_method"`
	Status           string     `db:"status"`
	Notes            *string    `db:"notes"`
	RefundReason     *string    `db:"refund_reason"`
	PaidAt           *time.Time `db:"paid_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

func (r paymentRow) toEntity() *entity.Payment {
	return &entity.Payment{
		ID:               r.ID,
		ContractID:       r.ContractID,
		PayerUserID:      r.PayerUserID,
		PayeeUserID:      r.PayeeUserID,
		Amount:           r.Amount,
		CommissionAmount: r.CommissionAmount,
		PaymentMethod:    r.PaymentMethod,
		Status:           valueobject.PaymentStatus(r.Status),
		Notes:            r.Notes,
		RefundReason:     r.RefundReason,
		PaidAt:           r.PaidAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

const paymentColumns = `id, contract_id, payer_user_id, payee_user_id, amount, commission_amount, payment_method,
	status, notes, refund_reason, paid_at, created_at, updated_at`

func (r paymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.q.ExecContext(ctx, query,
		p.ID, p.ContractID, p.PayerUserID, p.PayeeUserID, p.Amount, p.CommissionAmount, p.PaymentMethod,
		string(p.Status), p.Notes, p.RefundReason, p.PaidAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("payment repository: create %w", translateError(err))
	}
	return nil
}

func (r paymentRepo) Update(ctx context.Context, p *entity.Payment, expected valueobject.PaymentStatus) (int64, error) {
	query := `
		UPDATE payments
		SET status = $3, refund_reason = $4, paid_at = $5, updated_at = $6
		WHERE id = $1 AND status = $2
	`
	res, err := r.q.ExecContext(ctx, query, p.ID, string(expected), string(p.Status), p.RefundReason, p.PaidAt, p.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("payment repository: update %w", translateError(err))
	}
	return res.RowsAffected()
}

func (r paymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return r.findOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r paymentRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return r.findOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
}

func (r paymentRepo) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Payment, error) {
	var row paymentRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err)
	}
	return row.toEntity(), nil
}

func (r paymentRepo) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*entity.Payment, error) {
	var rows []paymentRow
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE contract_id = $1 ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, contractID); err != nil {
		return nil, fmt.Errorf("payment repository: list by contract %w", err)
	}
	out := make([]*entity.Payment, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, nil
}

type paymentStatsRow struct {
	TotalPayments       int     `db:"total_payments"`
	CompletedCount      int     `db:"completed_count"`
	PendingCount        int     `db:"pending_count"`
	RefundedCount       int     `db:"refunded_count"`
	FailedCount         int     `db:"failed_count"`
	CompletedAmount     float64 `db:"completed_amount"`
	PendingAmount       float64 `db:"pending_amount"`
	RefundedAmount      float64 `db:"refunded_amount"`
	CompletedCommission float64 `db:"completed_commission"`
}

func (r paymentRepo) Stats(ctx context.Context) (*repository.PaymentStats, error) {
	query := `
		SELECT COUNT(*) AS total_payments,
		       COUNT(*) FILTER (WHERE status = 'completed') AS completed_count,
		       COUNT(*) FILTER (WHERE status = 'pending') AS pending_count,
		       COUNT(*) FILTER (WHERE status = 'refunded') AS refunded_count,
		       COUNT(*) FILTER (WHERE status = 'failed') AS failed_count,
		       COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0) AS completed_amount,
		       COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0) AS pending_amount,
		       COALESCE(SUM(amount) FILTER (WHERE status = 'refunded'), 0) AS refunded_amount,
		       COALESCE(SUM(commission_amount) FILTER (WHERE status = 'completed'), 0) AS completed_commission
		FROM payments
	`
	var row paymentStatsRow
	if err := sqlx.GetContext(ctx, r.q, &row, query); err != nil {
		return nil, fmt.Errorf("payment repository: stats %w", err)
	}
	stats := repository.PaymentStats(row)
	return &stats, nil
}

type monthlyRow struct {
	Month      string  `db:"month"`
	Payments   int     `db:"payments"`
	Amount     float64 `db:"amount"`
	Commission float64 `db:"commission"`
}

// MonthlyRevenue возвращает все months месяцев, пустые месяцы - нулями.
func (r paymentRepo) MonthlyRevenue(ctx context.Context, months int, now time.Time) ([]repository.MonthlyRevenue, error) {
	keys := repository.MonthKeys(months, now)
	from, err := time.Parse("2006-01", keys[0])
	if err != nil {
		return nil, err
	}

	query := `
		SELECT to_char(date_trunc('month', paid_at AT TIME ZONE 'UTC'), 'YYYY-MM') AS month,
		       COUNT(*) AS payments,
		       COALESCE(SUM(amount), 0) AS amount,
		       COALESCE(SUM(commission_amount), 0) AS commission
		FROM payments
		WHERE status = 'completed' AND paid_at >= $1
		GROUP BY 1
	`
	var rows []monthlyRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, from); err != nil {
		return nil, fmt.Errorf("payment repository: monthly revenue %w", err)
	}
	return fillMonths(keys, rows), nil
}

func fillMonths(keys []string, rows []monthlyRow) []repository.MonthlyRevenue {
	byMonth := make(map[string]monthlyRow, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row
	}
	out := make([]repository.MonthlyRevenue, len(keys))
	for i, k := range keys {
		row := byMonth[k]
		out[i] = repository.MonthlyRevenue{Month: k, Payments: row.Payments, Amount: row.Amount, Commission: row.Commission}
	}
	return out
}
