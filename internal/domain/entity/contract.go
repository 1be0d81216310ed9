package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
)

var RateTypes = []string{"hourly", "daily", "weekly", "monthly", "fixed"}

type Contract struct {
	ID                   uuid.UUID
	JobID                uuid.UUID
	TalentID             uuid.UUID
	EmployerID           uuid.UUID
	ApplicationID        *uuid.UUID
	StartDate            time.Time
	EndDate              *time.Time
	Rate                 float64
	RateType             string
	Currency             string
	TotalAmount          *float64
	CommissionPercentage float64
	CommissionAmount     *float64
	Status               valueobject.ContractStatus
	DocumentRef          *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type ContractFields struct {
	JobID                uuid.UUID
	TalentID             uuid.UUID
	EmployerID           uuid.UUID
	ApplicationID        *uuid.UUID
	StartDate            *time.Time
	EndDate              *time.Time
	Rate                 float64
	RateType             string
	Currency             string
	TotalAmount          *float64
	CommissionPercentage *float64
}

// NewContract проверяет обязательные поля и считает комиссию, если сумма известна.
func NewContract(f ContractFields, defaultPercentage float64) (*Contract, error) {
	fields := make(map[string]string)
	if f.JobID == uuid.Nil {
		fields["job_id"] = "обязательное поле"
	}
	if f.TalentID == uuid.Nil {
		fields["talent_id"] = "обязательное поле"
	}
	if f.EmployerID == uuid.Nil {
		fields["employer_id"] = "обязательное поле"
	}
	if f.StartDate == nil || f.StartDate.IsZero() {
		fields["start_date"] = "обязательное поле"
	}
	if f.Rate <= 0 {
		fields["rate"] = "должна быть больше нуля"
	}
	if f.RateType == "" {
		fields["rate_type"] = "обязательное поле"
	} else if !oneOf(f.RateType, RateTypes) {
		fields["rate_type"] = "недопустимое значение"
	}
	if f.TotalAmount != nil && *f.TotalAmount < 0 {
		fields["total_amount"] = "не может быть отрицательной"
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		fields["end_date"] = "раньше даты начала"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("некорректные данные контракта", fields)
	}

	pct := defaultPercentage
	if f.CommissionPercentage != nil {
		pct = *f.CommissionPercentage
	}
	if err := valueobject.ValidatePercentage(pct); err != nil {
		return nil, err
	}

	currency := f.Currency
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	now := time.Now()
	return &Contract{
		ID:                   uuid.New(),
		JobID:                f.JobID,
		TalentID:             f.TalentID,
		EmployerID:           f.EmployerID,
		ApplicationID:        f.ApplicationID,
		StartDate:            *f.StartDate,
		EndDate:              f.EndDate,
		Rate:                 f.Rate,
		RateType:             f.RateType,
		Currency:             currency,
		TotalAmount:          f.TotalAmount,
		CommissionPercentage: pct,
		CommissionAmount:     valueobject.CommissionPtr(f.TotalAmount, pct),
		Status:               valueobject.ContractStatusActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// ContractChanges - то, что работодатель может менять у активного контракта.
type ContractChanges struct {
	EndDate     *time.Time
	TotalAmount *float64
	DocumentRef *string
}

func (c ContractChanges) IsEmpty() bool {
	return c.EndDate == nil && c.TotalAmount == nil && c.DocumentRef == nil
}

// Apply меняет поля активного контракта; процент комиссии неизменен.
func (c *Contract) Apply(ch ContractChanges, now time.Time) error {
	if c.Status != valueobject.ContractStatusActive {
		return apperror.New(apperror.ErrCodeConflict, "изменять можно только активный контракт")
	}
	if ch.IsEmpty() {
		return apperror.Validation("нет полей для изменения", nil)
	}
	if ch.TotalAmount != nil && *ch.TotalAmount < 0 {
		return apperror.Validation("некорректная сумма", map[string]string{"total_amount": "не может быть отрицательной"})
	}
	if ch.EndDate != nil && ch.EndDate.Before(c.StartDate) {
		return apperror.Validation("некорректная дата окончания", map[string]string{"end_date": "раньше даты начала"})
	}

	if ch.EndDate != nil {
		c.EndDate = ch.EndDate
	}
	if ch.TotalAmount != nil {
		c.TotalAmount = ch.TotalAmount
		c.CommissionAmount = valueobject.CommissionPtr(c.TotalAmount, c.CommissionPercentage)
	}
	if ch.DocumentRef != nil {
		c.DocumentRef = ch.DocumentRef
	}
	c.UpdatedAt = now
	return nil
}

// TransitionTo: completed и terminated терминальны.
func (c *Contract) TransitionTo(target valueobject.ContractStatus, now time.Time) error {
	if !target.IsValid() {
		return apperror.New(apperror.ErrCodeInvalidTransition, "некорректный статус контракта")
	}
	if !c.Status.CanTransitionTo(target) {
		return apperror.InvalidTransition("контракт", string(c.Status), string(target))
	}
	c.Status = target
	if target == valueobject.ContractStatusCompleted && c.CommissionAmount == nil {
		c.CommissionAmount = valueobject.CommissionPtr(c.TotalAmount, c.CommissionPercentage)
	}
	c.UpdatedAt = now
	return nil
}

// IsParticipant проверяет доступ актора к контракту по профилям.
func (c *Contract) IsParticipant(employerID, talentID *uuid.UUID) bool {
	if employerID != nil && c.EmployerID == *employerID {
		return true
	}
	return talentID != nil && c.TalentID == *talentID
}
