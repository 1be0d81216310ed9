package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
)

type employerRepo struct {
	q sqlx.ExtContext
}

type employerRow struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	CompanyName string    `db:"company_name"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r employerRepo) Upsert(ctx context.Context, e *entity.Employer) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO employers (id, user_id, company_name, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET user_id = EXCLUDED.user_id, company_name = EXCLUDED.company_name
	`
	if _, err := r.q.ExecContext(ctx, query, e.ID, e.UserID, e.CompanyName, e.CreatedAt); err != nil {
		return fmt.Errorf("employer repository: upsert %w", translateError(err))
	}
	return nil
}

func (r employerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Employer, error) {
	return r.findOne(ctx, `SELECT id, user_id, company_name, created_at FROM employers WHERE id = $1`, id)
}

func (r employerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Employer, error) {
	return r.findOne(ctx, `SELECT id, user_id, company_name, created_at FROM employers WHERE user_id = $1`, userID)
}

func (r employerRepo) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Employer, error) {
	var row employerRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err)
	}
	return &entity.Employer{ID: row.ID, UserID: row.UserID, CompanyName: row.CompanyName, CreatedAt: row.CreatedAt}, nil
}

type talentRepo struct {
	q sqlx.ExtContext
}

type talentRow struct {
	ID                 uuid.UUID `db:"id"`
	UserID             uuid.UUID `db:"user_id"`
	DisplayName        string    `db:"display_name"`
	TotalJobsCompleted int       `db:"total_jobs_completed"`
	CreatedAt          time.Time `db:"created_at"`
}

// Upsert не трогает total_jobs_completed: счётчик ведёт только завершение контракта.
func (r talentRepo) Upsert(ctx context.Context, t *entity.Talent) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO talents (id, user_id, display_name, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET user_id = EXCLUDED.user_id, display_name = EXCLUDED.display_name
	`
	if _, err := r.q.ExecContext(ctx, query, t.ID, t.UserID, t.DisplayName, t.CreatedAt); err != nil {
		return fmt.Errorf("talent repository: upsert %w", translateError(err))
	}
	return nil
}

const talentColumns = `id, user_id, display_name, total_jobs_completed, created_at`

func (r talentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Talent, error) {
	return r.findOne(ctx, `SELECT `+talentColumns+` FROM talents WHERE id = $1`, id)
}

func (r talentRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Talent, error) {
	return r.findOne(ctx, `SELECT `+talentColumns+` FROM talents WHERE user_id = $1`, userID)
}

func (r talentRepo) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Talent, error) {
	var row talentRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err)
	}
	return &entity.Talent{
		ID:                 row.ID,
		UserID:             row.UserID,
		DisplayName:        row.DisplayName,
		TotalJobsCompleted: row.TotalJobsCompleted,
		CreatedAt:          row.CreatedAt,
	}, nil
}

func (r talentRepo) IncrementCompletedJobs(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `UPDATE talents SET total_jobs_completed = total_jobs_completed + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("talent repository: increment completed %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type skillRepo struct {
	q sqlx.ExtContext
}

type skillRow struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

func (r skillRepo) Upsert(ctx context.Context, s *entity.Skill) error {
	query := `INSERT INTO skills (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`
	if _, err := r.q.ExecContext(ctx, query, s.ID, s.Name); err != nil {
		return fmt.Errorf("skill repository: upsert %w", translateError(err))
	}
	return nil
}

func (r skillRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Skill, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []skillRow
	query := `SELECT id, name FROM skills WHERE id = ANY($1::uuid[]) ORDER BY name`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, pq.Array(uuidStrings(ids))); err != nil {
		return nil, fmt.Errorf("skill repository: find by ids %w", err)
	}
	out := make([]entity.Skill, len(rows))
	for i, row := range rows {
		out[i] = entity.Skill{ID: row.ID, Name: row.Name}
	}
	return out, nil
}

type auditRepo struct {
	q sqlx.ExtContext
}

func (r auditRepo) Save(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("audit repository: marshal payload %w", err)
	}
	var actorID *uuid.UUID
	if e.ActorID != uuid.Nil {
		actorID = &e.ActorID
	}
	query := `
		INSERT INTO audit_log (id, event_type, entity_type, entity_id, actor_id, actor_role, from_status, to_status, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10)
	`
	_, err = r.q.ExecContext(ctx, query,
		e.ID, string(e.Type), e.EntityType, e.EntityID, actorID, string(e.ActorRole), e.From, e.To, string(payload), e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("audit repository: save %w", translateError(err))
	}
	return nil
}
