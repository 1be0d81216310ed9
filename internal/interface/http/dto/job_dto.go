package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/usecase/job"
)

type JobRequest struct {
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	JobType            string            `json:"job_type"`
	LocationType       string            `json:"location_type"`
	LocationAddress    *string           `json:"location_address"`
	SalaryMin          *float64          `json:"salary_min"`
	SalaryMax          *float64          `json:"salary_max"`
	SalaryType         string            `json:"salary_type"`
	Currency           string            `json:"currency"`
	ExperienceRequired *int              `json:"experience_required"`
	Deadline           *string           `json:"deadline"`
	Skills             []JobSkillRequest `json:"skills"`
}

type JobSkillRequest struct {
	SkillID  string `json:"skill_id" binding:"required"`
	Required *bool  `json:"required"`
}

// ToInput переводит запрос во вход use case. Полная валидация полей - в сущности.
func (r JobRequest) ToInput() (job.JobInput, error) {
	deadline, err := ParseTime(r.Deadline)
	if err != nil {
		return job.JobInput{}, err
	}
	skills := make([]job.SkillInput, 0, len(r.Skills))
	for _, s := range r.Skills {
		id, err := uuid.Parse(s.SkillID)
		if err != nil {
			return job.JobInput{}, err
		}
		required := true
		if s.Required != nil {
			required = *s.Required
		}
		skills = append(skills, job.SkillInput{SkillID: id, Required: required})
	}
	return job.JobInput{
		Fields: entity.JobFields{
			Title:              r.Title,
			Description:        r.Description,
			JobType:            r.JobType,
			LocationType:       r.LocationType,
			LocationAddress:    r.LocationAddress,
			SalaryMin:          r.SalaryMin,
			SalaryMax:          r.SalaryMax,
			SalaryType:         r.SalaryType,
			Currency:           r.Currency,
			ExperienceRequired: r.ExperienceRequired,
			Deadline:           deadline,
		},
		Skills: skills,
	}, nil
}

type JobSkillResponse struct {
	SkillID  uuid.UUID `json:"skill_id"`
	Name     string    `json:"name"`
	Required bool      `json:"required"`
}

type JobResponse struct {
	ID                 uuid.UUID          `json:"id"`
	EmployerID         uuid.UUID          `json:"employer_id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	JobType            string             `json:"job_type"`
	LocationType       string             `json:"location_type"`
	LocationAddress    *string            `json:"location_address"`
	SalaryMin          *float64           `json:"salary_min"`
	SalaryMax          *float64           `json:"salary_max"`
	SalaryType         string             `json:"salary_type"`
	Currency           string             `json:"currency"`
	SalaryDisplay      string             `json:"salary_display"`
	ExperienceRequired *int               `json:"experience_required"`
	Status             string             `json:"status"`
	Deadline           *time.Time         `json:"deadline"`
	FilledAt           *time.Time         `json:"filled_at"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	Skills             []JobSkillResponse `json:"skills"`
}

func ToJobResponse(j *entity.Job) JobResponse {
	skills := make([]JobSkillResponse, 0, len(j.Skills))
	for _, s := range j.Skills {
		skills = append(skills, JobSkillResponse{SkillID: s.SkillID, Name: s.Name, Required: s.Required})
	}
	return JobResponse{
		ID:                 j.ID,
		EmployerID:         j.EmployerID,
		Title:              j.Title,
		Description:        j.Description,
		JobType:            j.JobType,
		LocationType:       j.LocationType,
		LocationAddress:    j.LocationAddress,
		SalaryMin:          j.Salary.Min,
		SalaryMax:          j.Salary.Max,
		SalaryType:         j.Salary.Type,
		Currency:           j.Salary.Currency,
		SalaryDisplay:      j.Salary.String(),
		ExperienceRequired: j.ExperienceRequired,
		Status:             string(j.Status),
		Deadline:           j.Deadline,
		FilledAt:           j.FilledAt,
		CreatedAt:          j.CreatedAt,
		UpdatedAt:          j.UpdatedAt,
		Skills:             skills,
	}
}

func ToJobResponses(jobs []*entity.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, ToJobResponse(j))
	}
	return out
}
