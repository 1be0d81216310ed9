package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
)

type CreateContractRequest struct {
	JobID                string   `json:"job_id" binding:"required"`
	TalentID             string   `json:"talent_id" binding:"required"`
	EmployerID           *string  `json:"employer_id"`
	ApplicationID        *string  `json:"application_id"`
	StartDate            *string  `json:"start_date"`
	EndDate              *string  `json:"end_date"`
	Rate                 float64  `json:"rate"`
	RateType             string   `json:"rate_type"`
	Currency             string   `json:"currency"`
	TotalAmount          *float64 `json:"total_amount"`
	CommissionPercentage *float64 `json:"commission_percentage"`
}

func (r CreateContractRequest) ToFields() (entity.ContractFields, error) {
	jobID, err := uuid.Parse(r.JobID)
	if err != nil {
		return entity.ContractFields{}, err
	}
	talentID, err := uuid.Parse(r.TalentID)
	if err != nil {
		return entity.ContractFields{}, err
	}
	var employerID uuid.UUID
	if id, err := ParseOptionalUUID(r.EmployerID); err != nil {
		return entity.ContractFields{}, err
	} else if id != nil {
		employerID = *id
	}
	applicationID, err := ParseOptionalUUID(r.ApplicationID)
	if err != nil {
		return entity.ContractFields{}, err
	}
	start, err := ParseTime(r.StartDate)
	if err != nil {
		return entity.ContractFields{}, err
	}
	end, err := ParseTime(r.EndDate)
	if err != nil {
		return entity.ContractFields{}, err
	}
	return entity.ContractFields{
		JobID:                jobID,
		TalentID:             talentID,
		EmployerID:           employerID,
		ApplicationID:        applicationID,
		StartDate:            start,
		EndDate:              end,
		Rate:                 r.Rate,
		RateType:             r.RateType,
		Currency:             r.Currency,
		TotalAmount:          r.TotalAmount,
		CommissionPercentage: r.CommissionPercentage,
	}, nil
}

type UpdateContractRequest struct {
	EndDate     *string  `json:"end_date"`
	TotalAmount *float64 `json:"total_amount"`
	DocumentRef *string  `json:"document_ref"`
}

func (r UpdateContractRequest) ToChanges() (entity.ContractChanges, error) {
	end, err := ParseTime(r.EndDate)
	if err != nil {
		return entity.ContractChanges{}, err
	}
	return entity.ContractChanges{EndDate: end, TotalAmount: r.TotalAmount, DocumentRef: r.DocumentRef}, nil
}

type ContractResponse struct {
	ID                   uuid.UUID  `json:"id"`
	JobID                uuid.UUID  `json:"job_id"`
	TalentID             uuid.UUID  `json:"talent_id"`
	EmployerID           uuid.UUID  `json:"employer_id"`
	ApplicationID        *uuid.UUID `json:"application_id"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	Rate                 float64    `json:"rate"`
	RateType             string     `json:"rate_type"`
	Currency             string     `json:"currency"`
	TotalAmount          *float64   `json:"total_amount"`
	CommissionPercentage float64    `json:"commission_percentage"`
	CommissionAmount     *float64   `json:"commission_amount"`
	Status               string     `json:"status"`
	DocumentRef          *string    `json:"document_ref"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func ToContractResponse(c *entity.Contract) ContractResponse {
	return ContractResponse{
		ID:                   c.ID,
		JobID:                c.JobID,
		TalentID:             c.TalentID,
		EmployerID:           c.EmployerID,
		ApplicationID:        c.ApplicationID,
		StartDate:            c.StartDate,
		EndDate:              c.EndDate,
		Rate:                 c.Rate,
		RateType:             c.RateType,
		Currency:             c.Currency,
		TotalAmount:          c.TotalAmount,
		CommissionPercentage: c.CommissionPercentage,
		CommissionAmount:     c.CommissionAmount,
		Status:               string(c.Status),
		DocumentRef:          c.DocumentRef,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

func ToContractResponses(contracts []*entity.Contract) []ContractResponse {
	out := make([]ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, ToContractResponse(c))
	}
	return out
}
