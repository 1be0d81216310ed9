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

type contractRepo struct {
	q sqlx.ExtContext
}

type contractRow struct {
	ID                   uuid.UUID  `db:"id"`
	JobID                uuid.UUID  `db:"job_id"`
	TalentID             uuid.UUID  `db:"talent_id"`
	EmployerID           uuid.UUID  `db:"employer_id"`
	ApplicationID        *uuid.UUID `db:"application_id"`
	StartDate            time.Time  `db:"start_date"`
	EndDate              *time.Time `db:"end_date"`
	Rate                 float64    `db:"rate"`
	RateType             string     `db:"rate_type"`
	Currency             string     `db:"currency"`
	TotalAmount          *float64   `db:"total_amount"`
	CommissionPercentage float64    `db:"commission_percentage"`
	CommissionAmount     *float64   `db:"commission_amount"`
	Status               string     `db:"status"`
	DocumentRef          *string    `db:"document_ref"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

func (r contractRow) toEntity() *entity.Contract {
	return &entity.Contract{
		ID:                   r.ID,
		JobID:                r.JobID,
		TalentID:             r.TalentID,
		EmployerID:           r.EmployerID,
		ApplicationID:        r.ApplicationID,
		StartDate:            r.StartDate,
		EndDate:              r.EndDate,
		Rate:                 r.Rate,
		RateType:             r.RateType,
		Currency:             r.Currency,
		TotalAmount:          r.TotalAmount,
		CommissionPercentage: r.CommissionPercentage,
		CommissionAmount:     r.CommissionAmount,
		Status:               valueobject.ContractStatus(r.Status),
		DocumentRef:          r.DocumentRef,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

const contractColumns = `id, job_id, talent_id, employer_id, application_id, start_date, end_date, rate, rate_type,
	currency, total_amount, commission_percentage, commission_amount, status, document_ref, created_at, updated_at`

func (r contractRepo) Create(ctx context.Context, c *entity.Contract) error {
	query := `
		INSERT INTO contracts (` + contractColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.q.ExecContext(ctx, query,
		c.ID, c.JobID, c.TalentID, c.EmployerID, c.ApplicationID, c.StartDate, c.EndDate, c.Rate, c.RateType,
		c.Currency, c.TotalAmount, c.CommissionPercentage, c.CommissionAmount, string(c.Status), c.DocumentRef,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("contract repository: create %w", translateError(err))
	}
	return nil
}

// Update не трогает commission_percentage: процент фиксируется при создании.
func (r contractRepo) Update(ctx context.Context, c *entity.Contract, expected valueobject.ContractStatus) (int64, error) {
	query := `
		UPDATE contracts
		SET end_date = $3, total_amount = $4, commission_amount = $5, status = $6, document_ref = $7, updated_at = $8
		WHERE id = $1 AND status = $2
	`
	res, err := r.q.ExecContext(ctx, query,
		c.ID, string(expected), c.EndDate, c.TotalAmount, c.CommissionAmount, string(c.Status), c.DocumentRef, c.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("contract repository: update %w", translateError(err))
	}
	return res.RowsAffected()
}

func (r contractRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error) {
	return r.findOne(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id)
}

func (r contractRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Contract, error) {
	return r.findOne(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1 FOR UPDATE`, id)
}

func (r contractRepo) FindActiveByJobAndTalent(ctx context.Context, jobID, talentID uuid.UUID) (*entity.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE job_id = $1 AND talent_id = $2 AND status = 'active'`
	return r.findOne(ctx, query, jobID, talentID)
}

func (r contractRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Contract, error) {
	var row contractRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		return nil, translateError(err)
	}
	return row.toEntity(), nil
}

func (r contractRepo) List(ctx context.Context, scope repository.ContractScope) ([]*entity.Contract, error) {
	where, args := scopeWhere(scope)
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE ` + where + ` ORDER BY created_at DESC`
	var rows []contractRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("contract repository: list %w", err)
	}
	out := make([]*entity.Contract, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, nil
}

type contractStatsRow struct {
	Total           int     `db:"total"`
	Active          int     `db:"active"`
	Completed       int     `db:"completed"`
	Terminated      int     `db:"terminated"`
	TotalValue      float64 `db:"total_value"`
	TotalCommission float64 `db:"total_commission"`
}

func (r contractRepo) Stats(ctx context.Context, scope repository.ContractScope) (*repository.ContractStats, error) {
	where, args := scopeWhere(scope)
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status = 'active') AS active,
		       COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		       COUNT(*) FILTER (WHERE status = 'terminated') AS terminated,
		       COALESCE(SUM(total_amount), 0) AS total_value,
		       COALESCE(SUM(commission_amount), 0) AS total_commission
		FROM contracts
		WHERE ` + where
	var row contractStatsRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		return nil, fmt.Errorf("contract repository: stats %w", err)
	}
	return &repository.ContractStats{
		Total:           row.Total,
		Active:          row.Active,
		Completed:       row.Completed,
		Terminated:      row.Terminated,
		TotalValue:      row.TotalValue,
		TotalCommission: row.TotalCommission,
	}, nil
}

func scopeWhere(scope repository.ContractScope) (string, []any) {
	switch scope.Kind {
	case repository.ScopeEmployer:
		return "employer_id = $1", []any{scope.ID}
	case repository.ScopeTalent:
		return "talent_id = $1", []any{scope.ID}
	default:
		return "TRUE", nil
	}
}
