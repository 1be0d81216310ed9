package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
)

var (
	JobTypes      = []string{"full_time", "part_time", "contract", "freelance", "internship"}
	LocationTypes = []string{"onsite", "remote", "hybrid"}
	SalaryTypes   = []string{"hourly", "daily", "monthly", "yearly", "fixed"}
)

type Job struct {
	ID                 uuid.UUID
	EmployerID         uuid.UUID
	Title              string
	Description        string
	JobType            string
	LocationType       string
	LocationAddress    *string
	Salary             valueobject.SalaryRange
	ExperienceRequired *int
	Status             valueobject.JobStatus
	Deadline           *time.Time
	FilledAt           *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Skills []JobSkill
}

type JobSkill struct {
	SkillID  uuid.UUID
	Name     string
	Required bool
}

// JobFields - редактируемые поля вакансии.
type JobFields struct {
	Title              string
	Description        string
	JobType            string
	LocationType       string
	LocationAddress    *string
	SalaryMin          *float64
	SalaryMax          *float64
	SalaryType         string
	Currency           string
	ExperienceRequired *int
	Deadline           *time.Time
	Skills             []JobSkill
}

func (f JobFields) validate(now time.Time) (valueobject.SalaryRange, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(f.Title) == "" {
		fields["title"] = "обязательное поле"
	}
	if strings.TrimSpace(f.Description) == "" {
		fields["description"] = "обязательное поле"
	}
	if !oneOf(f.JobType, JobTypes) {
		fields["job_type"] = "недопустимое значение"
	}
	if !oneOf(f.LocationType, LocationTypes) {
		fields["location_type"] = "недопустимое значение"
	}
	if f.SalaryType != "" && !oneOf(f.SalaryType, SalaryTypes) {
		fields["salary_type"] = "недопустимое значение"
	}
	if f.ExperienceRequired != nil && *f.ExperienceRequired < 0 {
		fields["experience_required"] = "не может быть отрицательным"
	}
	if f.Deadline != nil && f.Deadline.Before(now) {
		fields["deadline"] = "дедлайн не может быть в прошлом"
	}
	if len(fields) > 0 {
		return valueobject.SalaryRange{}, apperror.Validation("некорректные данные вакансии", fields)
	}
	return valueobject.NewSalaryRange(f.SalaryMin, f.SalaryMax, f.SalaryType, f.Currency)
}

// NewJob создаёт вакансию в статусе pending_approval.
func NewJob(employerID uuid.UUID, f JobFields) (*Job, error) {
	now := time.Now()
	salary, err := f.validate(now)
	if err != nil {
		return nil, err
	}
	return &Job{
		ID:                 uuid.New(),
		EmployerID:         employerID,
		Title:              strings.TrimSpace(f.Title),
		Description:        f.Description,
		JobType:            f.JobType,
		LocationType:       f.LocationType,
		LocationAddress:    f.LocationAddress,
		Salary:             salary,
		ExperienceRequired: f.ExperienceRequired,
		Status:             valueobject.JobStatusPendingApproval,
		Deadline:           f.Deadline,
		CreatedAt:          now,
		UpdatedAt:          now,
		Skills:             f.Skills,
	}, nil
}

// Edit применяет изменения и всегда возвращает вакансию на модерацию.
func (j *Job) Edit(f JobFields) error {
	if j.Status == valueobject.JobStatusDeleted {
		return apperror.InvalidTransition("вакансия", string(j.Status), string(valueobject.JobStatusPendingApproval))
	}
	now := time.Now()
	salary, err := f.validate(now)
	if err != nil {
		return err
	}
	j.Title = strings.TrimSpace(f.Title)
	j.Description = f.Description
	j.JobType = f.JobType
	j.LocationType = f.LocationType
	j.LocationAddress = f.LocationAddress
	j.Salary = salary
	j.ExperienceRequired = f.ExperienceRequired
	j.Deadline = f.Deadline
	j.Skills = f.Skills
	j.Status = valueobject.JobStatusPendingApproval
	j.FilledAt = nil
	j.UpdatedAt = now
	return nil
}

// TransitionTo переводит вакансию в новый статус, поддерживая filled_at.
func (j *Job) TransitionTo(target valueobject.JobStatus, now time.Time) error {
	if !j.Status.CanTransitionTo(target) {
		return apperror.InvalidTransition("вакансия", string(j.Status), string(target))
	}
	j.Status = target
	if target == valueobject.JobStatusFilled {
		if j.FilledAt == nil {
			j.FilledAt = &now
		}
	} else {
		j.FilledAt = nil
	}
	j.UpdatedAt = now
	return nil
}

// IsOpenForApplications: только активная вакансия с непросроченным дедлайном.
func (j *Job) IsOpenForApplications(now time.Time) bool {
	if j.Status != valueobject.JobStatusActive {
		return false
	}
	return j.Deadline == nil || j.Deadline.After(now)
}

func (j *Job) IsOwnedBy(employerID uuid.UUID) bool {
	return j.EmployerID == employerID
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
