package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type applicationRepo struct {
	q sqlx.ExtContext
}

type applicationRow struct {
	ID                uuid.UUID  `db:"id"`
	JobID             uuid.UUID  `db:"job_id"`
	TalentID          uuid.UUID  `db:"talent_id"`
	CoverLetter       string     `db:"cover_letter"`
	ProposedRate      *float64   `db:"proposed_rate"`
	Status            string     `db:"status"`
	AgencyRecommended bool       `db:"agency_recommended"`
	AppliedAt         time.Time  `db:"applied_at"`
	ReviewedAt        *time.Time `db:"reviewed_at"`
}

func (r applicationRow) toEntity() *entity.Application {
	return &entity.Application{
		ID:                r.ID,
		JobID:             r.JobID,
		TalentID:          r.TalentID,
		CoverLetter:       r.CoverLetter,
		ProposedRate:      r.ProposedRate,
		Status:            valueobject.ApplicationStatus(r.Status),
		AgencyRecommended: r.AgencyRecommended,
		AppliedAt:         r.AppliedAt,
		ReviewedAt:        r.ReviewedAt,
	}
}

const applicationColumns = `id, job_id, talent_id, cover_letter, proposed_rate, status, agency_recommended, applied_at, reviewed_at`

func (r applicationRepo) Create(ctx context.Context, app *entity.Application) error {
	query := `INSERT INTO applications (` + applicationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.ExecContext(ctx, query,
		app.ID, app.JobID, app.TalentID, app.CoverLetter, app.ProposedRate,
		string(app.Status), app.AgencyRecommended, app.AppliedAt, app.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("application repository: create %w", translateError(err))
	}
	return nil
}

func (r applicationRepo) Update(ctx context.Context, app *entity.Application, expected valueobject.ApplicationStatus) (int64, error) {
	query := `
		UPDATE applications
		SET status = $3, reviewed_at = $4
		WHERE id = $1 AND status = $2
	`
	res, err := r.q.ExecContext(ctx, query, app.ID, string(expected), string(app.Status), app.ReviewedAt)
	if err != nil {
		return 0, fmt.Errorf("application repository: update %w", translateError(err))
	}
	return res.RowsAffected()
}

func (r applicationRepo) ToggleRecommendation(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var row applicationRow
	query := `
		UPDATE applications
		SET agency_recommended = NOT agency_recommended
		WHERE id = $1
		RETURNING ` + applicationColumns
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, fmt.Errorf("application repository: toggle recommendation %w", translateError(err))
	}
	return row.toEntity(), nil
}

func (r applicationRepo) Delete(ctx context.Context, id uuid.UUID, statuses []valueobject.ApplicationStatus) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM applications WHERE id = $1 AND status = ANY($2)`,
		id, pq.Array(statusStrings(statuses)),
	)
	if err != nil {
		return 0, fmt.Errorf("application repository: delete %w", translateError(err))
	}
	return res.RowsAffected()
}

func (r applicationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var row applicationRow
	if err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id); err != nil {
		return nil, translateError(err)
	}
	return row.toEntity(), nil
}

func (r applicationRepo) FindByJobAndTalent(ctx context.Context, jobID, talentID uuid.UUID) (*entity.Application, error) {
	var row applicationRow
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 AND talent_id = $2`
	if err := sqlx.GetContext(ctx, r.q, &row, query, jobID, talentID); err != nil {
		return nil, translateError(err)
	}
	return row.toEntity(), nil
}

func (r applicationRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*entity.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 ORDER BY agency_recommended DESC, applied_at DESC`
	return r.list(ctx, query, jobID)
}

func (r applicationRepo) ListByTalent(ctx context.Context, talentID uuid.UUID) ([]*entity.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE talent_id = $1 ORDER BY applied_at DESC`
	return r.list(ctx, query, talentID)
}

func (r applicationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Application, error) {
	var rows []applicationRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("application repository: list %w", err)
	}
	out := make([]*entity.Application, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, nil
}

func (r applicationRepo) CountByStatusForJob(ctx context.Context, jobID uuid.UUID) (repository.StatusCounts, error) {
	return r.countBy(ctx, "job_id", jobID)
}

func (r applicationRepo) CountByStatusForTalent(ctx context.Context, talentID uuid.UUID) (repository.StatusCounts, error) {
	return r.countBy(ctx, "talent_id", talentID)
}

type statusCountRow struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

// column берётся только из констант выше.
func (r applicationRepo) countBy(ctx context.Context, column string, id uuid.UUID) (repository.StatusCounts, error) {
	query := fmt.Sprintf(`SELECT status, COUNT(*) AS count FROM applications WHERE %s = $1 GROUP BY status`, column)
	var rows []statusCountRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, id); err != nil {
		return nil, fmt.Errorf("application repository: count by status %w", err)
	}
	counts := make(repository.StatusCounts, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
