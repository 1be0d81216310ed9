package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	// Update сохраняет вакансию, только если её статус в хранилище равен expected.
	// Набор навыков заменяется целиком.
	Update(ctx context.Context, job *entity.Job, expected valueobject.JobStatus) (int64, error)
	// UpdateStatus меняет только status, filled_at и updated_at.
	UpdateStatus(ctx context.Context, job *entity.Job, expected valueobject.JobStatus) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	FindByEmployerID(ctx context.Context, employerID uuid.UUID) ([]*entity.Job, error)
	Search(ctx context.Context, filter JobFilter) ([]*entity.Job, int, error)
}

const (
	JobSortNewest     = "newest"
	JobSortSalaryHigh = "salary_high"
	JobSortSalaryLow  = "salary_low"
	JobSortDeadline   = "deadline"
)

// JobFilter - параметры публичного поиска. Поиск всегда ограничен активными вакансиями.
type JobFilter struct {
	Keyword       string
	JobType       string
	LocationType  string
	Location      string
	SalaryMin     *float64
	SalaryMax     *float64
	ExperienceMax *int
	SkillIDs      []uuid.UUID
	Sort          string
	Limit         int
	Offset        int
	Now           time.Time
}

func (f *JobFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	switch f.Sort {
	case JobSortNewest, JobSortSalaryHigh, JobSortSalaryLow, JobSortDeadline:
	default:
		f.Sort = JobSortNewest
	}
	if f.Now.IsZero() {
		f.Now = time.Now()
	}
}
