package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type jobRepo struct {
	q sqlx.ExtContext
}

type jobRow struct {
	ID                 uuid.UUID  `db:"id"`
	EmployerID         uuid.UUID  `db:"employer_id"`
	Title              string     `db:"title"`
	Description        string     `db:"description"`
	JobType            string     `db:"job_type"`
	LocationType       string     `db:"location_type"`
	LocationAddress    *string    `db:"location_address"`
	SalaryMin          *float64   `db:"salary_min"`
	SalaryMax          *float64   `db:"salary_max"`
	SalaryType         string     `db:"salary_type"`
	Currency           string     `db:"currency"`
	ExperienceRequired *int       `db:"experience_required"`
	Status             string     `db:"status"`
	Deadline           *time.Time `db:"deadline"`
	FilledAt           *time.Time `db:"filled_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

func (r jobRow) toEntity() *entity.Job {
	return &entity.Job{
		ID:              r.ID,
		EmployerID:      r.EmployerID,
		Title:           r.Title,
		Description:     r.Description,
		JobType:         r.JobType,
		LocationType:    r.LocationType,
		LocationAddress: r.LocationAddress,
		Salary: valueobject.SalaryRange{
			Min:      r.SalaryMin,
			Max:      r.SalaryMax,
			Type:     r.SalaryType,
			Currency: r.Currency,
		},
		ExperienceRequired: r.ExperienceRequired,
		Status:             valueobject.JobStatus(r.Status),
		Deadline:           r.Deadline,
		FilledAt:           r.FilledAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type jobSkillRow struct {
	JobID    uuid.UUID `db:"job_id"`
	SkillID  uuid.UUID `db:"skill_id"`
	Name     string    `db:"name"`
	Required bool      `db:"required"`
}

const jobColumns = `id, employer_id, title, description, job_type, location_type, location_address,
	salary_min, salary_max, salary_type, currency, experience_required, status, deadline, filled_at,
	created_at, updated_at`

func (r jobRepo) Create(ctx context.Context, job *entity.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.q.ExecContext(ctx, query,
		job.ID, job.EmployerID, job.Title, job.Description, job.JobType, job.LocationType, job.LocationAddress,
		job.Salary.Min, job.Salary.Max, job.Salary.Type, job.Salary.Currency, job.ExperienceRequired,
		string(job.Status), job.Deadline, job.FilledAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("job repository: create %w", translateError(err))
	}
	return r.insertSkills(ctx, job)
}

func (r jobRepo) Update(ctx context.Context, job *entity.Job, expected valueobject.JobStatus) (int64, error) {
	query := `
		UPDATE jobs
		SET title = $3, description = $4, job_type = $5, location_type = $6, location_address = $7,
		    salary_min = $8, salary_max = $9, salary_type = $10, currency = $11, experience_required = $12,
		    status = $13, deadline = $14, filled_at = $15, updated_at = $16
		WHERE id = $1 AND status = $2
	`
	res, err := r.q.ExecContext(ctx, query,
		job.ID, string(expected), job.Title, job.Description, job.JobType, job.LocationType, job.LocationAddress,
		job.Salary.Min, job.Salary.Max, job.Salary.Type, job.Salary.Currency, job.ExperienceRequired,
		string(job.Status), job.Deadline, job.FilledAt, job.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("job repository: update %w", translateError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil || affected == 0 {
		return affected, err
	}

	// Набор навыков заменяется целиком.
	if _, err := r.q.ExecContext(ctx, `DELETE FROM job_skills WHERE job_id = $1`, job.ID); err != nil {
		return 0, fmt.Errorf("job repository: clear skills %w", err)
	}
	if err := r.insertSkills(ctx, job); err != nil {
		return 0, err
	}
	return affected, nil
}

func (r jobRepo) UpdateStatus(ctx context.Context, job *entity.Job, expected valueobject.JobStatus) (int64, error) {
	query := `
		UPDATE jobs
		SET status = $3, filled_at = $4, updated_at = $5
		WHERE id = $1 AND status = $2
	`
	res, err := r.q.ExecContext(ctx, query, job.ID, string(expected), string(job.Status), job.FilledAt, job.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("job repository: update status %w", translateError(err))
	}
	return res.RowsAffected()
}

func (r jobRepo) insertSkills(ctx context.Context, job *entity.Job) error {
	if len(job.Skills) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(job.Skills))
	required := make([]bool, len(job.Skills))
	for i, s := range job.Skills {
		ids[i] = s.SkillID
		required[i] = s.Required
	}
	query := `
		INSERT INTO job_skills (job_id, skill_id, required)
		SELECT $1, s.skill_id, s.required
		FROM unnest($2::uuid[], $3::boolean[]) AS s(skill_id, required)
	`
	if _, err := r.q.ExecContext(ctx, query, job.ID, pq.Array(uuidStrings(ids)), pq.Array(required)); err != nil {
		return fmt.Errorf("job repository: insert skills %w", translateError(err))
	}
	return nil
}

func (r jobRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	return r.findOne(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
}

func (r jobRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	return r.findOne(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, id)
}

func (r jobRepo) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Job, error) {
	var row jobRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err)
	}
	jobs := []*entity.Job{row.toEntity()}
	if err := r.attachSkills(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs[0], nil
}

func (r jobRepo) FindByEmployerID(ctx context.Context, employerID uuid.UUID) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE employer_id = $1 AND status <> 'deleted' ORDER BY created_at DESC`
	return r.list(ctx, query, employerID)
}

func (r jobRepo) Search(ctx context.Context, filter repository.JobFilter) ([]*entity.Job, int, error) {
	filter.Normalize()
	where, args := buildSearchWhere(filter)

	var total int
	if err := sqlx.GetContext(ctx, r.q, &total, `SELECT COUNT(*) FROM jobs j WHERE `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("job repository: search count %w", err)
	}
	if total == 0 {
		return []*entity.Job{}, 0, nil
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM jobs j WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		jobColumns, where, searchOrder(filter.Sort), len(args)-1, len(args))
	jobs, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// buildSearchWhere собирает условия публичного поиска: только активные вакансии с открытым сроком.
func buildSearchWhere(f repository.JobFilter) (string, []any) {
	conds := []string{`j.status = 'active'`}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	conds = append(conds, fmt.Sprintf("(j.deadline IS NULL OR j.deadline > %s)", arg(f.Now)))

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		p := arg("%" + kw + "%")
		conds = append(conds, fmt.Sprintf("(j.title ILIKE %s OR j.description ILIKE %s)", p, p))
	}
	if f.JobType != "" {
		conds = append(conds, "j.job_type = "+arg(f.JobType))
	}
	if f.LocationType != "" {
		conds = append(conds, "j.location_type = "+arg(f.LocationType))
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		conds = append(conds, "j.location_address ILIKE "+arg("%"+loc+"%"))
	}
	if f.SalaryMin != nil {
		conds = append(conds, "j.salary_max >= "+arg(*f.SalaryMin))
	}
	if f.SalaryMax != nil {
		conds = append(conds, "j.salary_min <= "+arg(*f.SalaryMax))
	}
	if f.ExperienceMax != nil {
		conds = append(conds, fmt.Sprintf("(j.experience_required IS NULL OR j.experience_required <= %s)", arg(*f.ExperienceMax)))
	}
	if len(f.SkillIDs) > 0 {
		// вакансия должна требовать все перечисленные навыки
		conds = append(conds, fmt.Sprintf(
			"j.id IN (SELECT job_id FROM job_skills WHERE skill_id = ANY(%s::uuid[]) GROUP BY job_id HAVING COUNT(DISTINCT skill_id) = %s)",
			arg(pq.Array(uuidStrings(f.SkillIDs))), arg(len(f.SkillIDs)),
		))
	}
	return strings.Join(conds, " AND "), args
}

func searchOrder(sort string) string {
	switch sort {
	case repository.JobSortSalaryHigh:
		return "j.salary_max DESC NULLS LAST, j.created_at DESC"
	case repository.JobSortSalaryLow:
		return "j.salary_min ASC NULLS LAST, j.created_at DESC"
	case repository.JobSortDeadline:
		return "j.deadline ASC NULLS LAST, j.created_at DESC"
	default:
		return "j.created_at DESC"
	}
}

func (r jobRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Job, error) {
	var rows []jobRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("job repository: list %w", err)
	}
	jobs := make([]*entity.Job, len(rows))
	for i := range rows {
		jobs[i] = rows[i].toEntity()
	}
	if err := r.attachSkills(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// attachSkills загружает навыки для всех вакансий одним запросом.
func (r jobRepo) attachSkills(ctx context.Context, jobs []*entity.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(jobs))
	byID := make(map[uuid.UUID]*entity.Job, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
		byID[j.ID] = j
	}

	query := `
		SELECT js.job_id, js.skill_id, s.name, js.required
		FROM job_skills js
		JOIN skills s ON s.id = js.skill_id
		WHERE js.job_id = ANY($1::uuid[])
		ORDER BY s.name
	`
	var rows []jobSkillRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, pq.Array(uuidStrings(ids))); err != nil {
		return fmt.Errorf("job repository: load skills %w", err)
	}
	for _, row := range rows {
		if j, ok := byID[row.JobID]; ok {
			j.Skills = append(j.Skills, entity.JobSkill{SkillID: row.SkillID, Name: row.Name, Required: row.Required})
		}
	}
	return nil
}
