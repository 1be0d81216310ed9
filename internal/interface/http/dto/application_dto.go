package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
)

type ApplyRequest struct {
	CoverLetter  string   `json:"cover_letter"`
	ProposedRate *float64 `json:"proposed_rate"`
}

type ApplicationResponse struct {
	ID                uuid.UUID  `json:"id"`
	JobID             uuid.UUID  `json:"job_id"`
	TalentID          uuid.UUID  `json:"talent_id"`
	CoverLetter       string     `json:"cover_letter"`
	ProposedRate      *float64   `json:"proposed_rate"`
	Status            string     `json:"status"`
	AgencyRecommended bool       `json:"agency_recommended"`
	AppliedAt         time.Time  `json:"applied_at"`
	ReviewedAt        *time.Time `json:"reviewed_at"`
}

func ToApplicationResponse(a *entity.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                a.ID,
		JobID:             a.JobID,
		TalentID:          a.TalentID,
		CoverLetter:       a.CoverLetter,
		ProposedRate:      a.ProposedRate,
		Status:            string(a.Status),
		AgencyRecommended: a.AgencyRecommended,
		AppliedAt:         a.AppliedAt,
		ReviewedAt:        a.ReviewedAt,
	}
}

func ToApplicationResponses(apps []*entity.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, ToApplicationResponse(a))
	}
	return out
}
