package valueobject

import "github.com/ignatzorin/engagement-backend/internal/pkg/apperror"

type JobStatus string

const (
	JobStatusPendingApproval JobStatus = "pending_approval"
	JobStatusActive          JobStatus = "active"
	JobStatusFilled          JobStatus = "filled"
	JobStatusClosed          JobStatus = "closed"
	JobStatusRejected        JobStatus = "rejected"
	JobStatusDeleted         JobStatus = "deleted"
)

// jobTransitions: закрыть можно и заполненную вакансию, deleted терминален.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPendingApproval: {JobStatusActive, JobStatusRejected, JobStatusClosed, JobStatusDeleted},
	JobStatusActive:          {JobStatusFilled, JobStatusClosed, JobStatusRejected, JobStatusDeleted},
	JobStatusFilled:          {JobStatusFilled, JobStatusClosed, JobStatusDeleted},
	JobStatusClosed:          {JobStatusActive, JobStatusDeleted},
	JobStatusRejected:        {JobStatusActive, JobStatusDeleted},
	JobStatusDeleted:         {},
}

func (s JobStatus) IsValid() bool {
	_, ok := jobTransitions[s]
	return ok
}

func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	return contains(jobTransitions[s], next)
}

func NewJobStatus(status string) (JobStatus, error) {
	s := JobStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeInvalidTransition, "некорректный статус вакансии")
	}
	return s, nil
}

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewed    ApplicationStatus = "reviewed"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// accepted выставляется только при создании контракта и после этого не меняется.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:     {ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusReviewed:    {ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusShortlisted: {ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusRejected:    {ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusAccepted:    {},
}

func (s ApplicationStatus) IsValid() bool {
	_, ok := applicationTransitions[s]
	return ok
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return contains(applicationTransitions[s], next)
}

// IsWithdrawable сообщает, может ли исполнитель отозвать отклик.
func (s ApplicationStatus) IsWithdrawable() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusReviewed
}

func NewApplicationStatus(status string) (ApplicationStatus, error) {
	s := ApplicationStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeInvalidTransition, "некорректный статус отклика")
	}
	return s, nil
}

type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "active"
	ContractStatusCompleted  ContractStatus = "completed"
	ContractStatusTerminated ContractStatus = "terminated"
)

var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractStatusActive:     {ContractStatusCompleted, ContractStatusTerminated},
	ContractStatusCompleted:  {},
	ContractStatusTerminated: {},
}

func (s ContractStatus) IsValid() bool {
	_, ok := contractTransitions[s]
	return ok
}

func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	return contains(contractTransitions[s], next)
}

func (s ContractStatus) IsTerminal() bool {
	return s.IsValid() && len(contractTransitions[s]) == 0
}

func NewContractStatus(status string) (ContractStatus, error) {
	s := ContractStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeInvalidTransition, "некорректный статус контракта")
	}
	return s, nil
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted: {PaymentStatusRefunded},
	PaymentStatusFailed:    {},
	PaymentStatusRefunded:  {},
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return contains(paymentTransitions[s], next)
}

func NewPaymentStatus(status string) (PaymentStatus, error) {
	s := PaymentStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeInvalidTransition, "некорректный статус платежа")
	}
	return s, nil
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
