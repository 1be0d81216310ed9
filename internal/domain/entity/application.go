package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
)

type Application struct {
	ID                uuid.UUID
	JobID             uuid.UUID
	TalentID          uuid.UUID
	CoverLetter       string
	ProposedRate      *float64
	Status            valueobject.ApplicationStatus
	AgencyRecommended bool
	AppliedAt         time.Time
	ReviewedAt        *time.Time
}

func NewApplication(jobID, talentID uuid.UUID, coverLetter string, proposedRate *float64) (*Application, error) {
	if proposedRate != nil && *proposedRate <= 0 {
		return nil, apperror.Validation("некорректная ставка", map[string]string{
			"proposed_rate": "должна быть больше нуля",
		})
	}
	return &Application{
		ID:           uuid.New(),
		JobID:        jobID,
		TalentID:     talentID,
		CoverLetter:  coverLetter,
		ProposedRate: proposedRate,
		Status:       valueobject.ApplicationStatusPending,
		AppliedAt:    time.Now(),
	}, nil
}

// SetStatus ставит новый статус и всегда обновляет reviewed_at.
func (a *Application) SetStatus(target valueobject.ApplicationStatus, now time.Time) error {
	if target == valueobject.ApplicationStatusAccepted || !a.Status.CanTransitionTo(target) {
		return apperror.InvalidTransition("отклик", string(a.Status), string(target))
	}
	a.Status = target
	a.ReviewedAt = &now
	return nil
}

// Accept вызывается только при создании контракта.
func (a *Application) Accept(now time.Time) {
	a.Status = valueobject.ApplicationStatusAccepted
	a.ReviewedAt = &now
}

func (a *Application) ToggleRecommendation() {
	a.AgencyRecommended = !a.AgencyRecommended
}

func (a *Application) IsOwnedBy(talentID uuid.UUID) bool {
	return a.TalentID == talentID
}
