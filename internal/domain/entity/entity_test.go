package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
)

func float(v float64) *float64 { return &v }

func validJobFields() JobFields {
	return JobFields{
		Title:        "Go разработчик",
		Description:  "Бэкенд биржи",
		JobType:      "full_time",
		LocationType: "remote",
		SalaryMin:    float(1000),
		SalaryMax:    float(2000),
		SalaryType:   "monthly",
	}
}

func TestNewJob_StartsPendingApproval(t *testing.T) {
	job, err := NewJob(uuid.New(), validJobFields())
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusPendingApproval, job.Status)
	assert.Nil(t, job.FilledAt)
}

func TestNewJob_Validation(t *testing.T) {
	f := validJobFields()
	f.Title = "  "
	f.JobType = "gig"
	past := time.Now().Add(-time.Hour)
	f.Deadline = &past

	_, err := NewJob(uuid.New(), f)
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "title")
	assert.Contains(t, appErr.Fields, "job_type")
	assert.Contains(t, appErr.Fields, "deadline")
}

func TestJob_TransitionTo_FilledAt(t *testing.T) {
	job, err := NewJob(uuid.New(), validJobFields())
	require.NoError(t, err)
	now := time.Now()

	require.NoError(t, job.TransitionTo(valueobject.JobStatusActive, now))
	require.NoError(t, job.TransitionTo(valueobject.JobStatusFilled, now))
	require.NotNil(t, job.FilledAt)
	first := *job.FilledAt

	// повторное заполнение не сдвигает filled_at
	require.NoError(t, job.TransitionTo(valueobject.JobStatusFilled, now.Add(time.Hour)))
	assert.Equal(t, first, *job.FilledAt)

	require.NoError(t, job.TransitionTo(valueobject.JobStatusClosed, now))
	assert.Nil(t, job.FilledAt)

	err = job.TransitionTo(valueobject.JobStatusFilled, now)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestJob_Edit_ReturnsToModeration(t *testing.T) {
	job, err := NewJob(uuid.New(), validJobFields())
	require.NoError(t, err)
	require.NoError(t, job.TransitionTo(valueobject.JobStatusActive, time.Now()))

	f := validJobFields()
	f.Title = "Senior Go разработчик"
	require.NoError(t, job.Edit(f))
	assert.Equal(t, valueobject.JobStatusPendingApproval, job.Status)
	assert.Equal(t, "Senior Go разработчик", job.Title)

	job.Status = valueobject.JobStatusDeleted
	assert.True(t, apperror.IsInvalidTransition(job.Edit(f)))
}

func TestJob_IsOpenForApplications(t *testing.T) {
	now := time.Now()
	job := &Job{Status: valueobject.JobStatusActive}
	assert.True(t, job.IsOpenForApplications(now))

	past := now.Add(-time.Minute)
	job.Deadline = &past
	assert.False(t, job.IsOpenForApplications(now))

	job.Deadline = nil
	job.Status = valueobject.JobStatusFilled
	assert.False(t, job.IsOpenForApplications(now))
}

func TestApplication_SetStatus(t *testing.T) {
	app, err := NewApplication(uuid.New(), uuid.New(), "", nil)
	require.NoError(t, err)
	assert.Nil(t, app.ReviewedAt)

	now := time.Now()
	require.NoError(t, app.SetStatus(valueobject.ApplicationStatusShortlisted, now))
	assert.Equal(t, now, *app.ReviewedAt)

	err = app.SetStatus(valueobject.ApplicationStatusAccepted, now)
	assert.True(t, apperror.IsInvalidTransition(err))

	app.Accept(now)
	err = app.SetStatus(valueobject.ApplicationStatusRejected, now)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestNewApplication_RejectsNonPositiveRate(t *testing.T) {
	_, err := NewApplication(uuid.New(), uuid.New(), "", float(0))
	assert.True(t, apperror.IsValidation(err))
}

func validContractFields() ContractFields {
	start := time.Now()
	return ContractFields{
		JobID:       uuid.New(),
		TalentID:    uuid.New(),
		EmployerID:  uuid.New(),
		StartDate:   &start,
		Rate:        50,
		RateType:    "hourly",
		TotalAmount: float(1_000_000),
	}
}

func TestNewContract_Commission(t *testing.T) {
	c, err := NewContract(validContractFields(), 15)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ContractStatusActive, c.Status)
	assert.Equal(t, 15.0, c.CommissionPercentage)
	require.NotNil(t, c.CommissionAmount)
	assert.Equal(t, 150_000.0, *c.CommissionAmount)
	assert.Equal(t, valueobject.DefaultCurrency, c.Currency)

	f := validContractFields()
	f.TotalAmount = nil
	f.CommissionPercentage = float(10)
	c, err = NewContract(f, 15)
	require.NoError(t, err)
	assert.Equal(t, 10.0, c.CommissionPercentage)
	assert.Nil(t, c.CommissionAmount)
}

func TestNewContract_Validation(t *testing.T) {
	f := validContractFields()
	f.Rate = 0
	f.RateType = "yearly"
	_, err := NewContract(f, 15)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "rate")
	assert.Contains(t, appErr.Fields, "rate_type")

	f = validContractFields()
	f.CommissionPercentage = float(101)
	_, err = NewContract(f, 15)
	assert.True(t, apperror.IsValidation(err))
}

func TestContract_Apply_KeepsPercentage(t *testing.T) {
	c, err := NewContract(validContractFields(), 15)
	require.NoError(t, err)

	require.NoError(t, c.Apply(ContractChanges{TotalAmount: float(2_000)}, time.Now()))
	assert.Equal(t, 15.0, c.CommissionPercentage)
	assert.Equal(t, 300.0, *c.CommissionAmount)

	assert.True(t, apperror.IsValidation(c.Apply(ContractChanges{}, time.Now())))

	require.NoError(t, c.TransitionTo(valueobject.ContractStatusTerminated, time.Now()))
	assert.True(t, apperror.IsConflict(c.Apply(ContractChanges{TotalAmount: float(1)}, time.Now())))
}

func TestContract_TransitionTo_Terminal(t *testing.T) {
	c, err := NewContract(validContractFields(), 15)
	require.NoError(t, err)

	require.NoError(t, c.TransitionTo(valueobject.ContractStatusCompleted, time.Now()))
	err = c.TransitionTo(valueobject.ContractStatusTerminated, time.Now())
	assert.True(t, apperror.IsInvalidTransition(err))
	err = c.TransitionTo(valueobject.ContractStatusCompleted, time.Now())
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestContract_IsParticipant(t *testing.T) {
	c, err := NewContract(validContractFields(), 15)
	require.NoError(t, err)
	other := uuid.New()

	assert.True(t, c.IsParticipant(&c.EmployerID, nil))
	assert.True(t, c.IsParticipant(nil, &c.TalentID))
	assert.False(t, c.IsParticipant(&other, &other))
	assert.False(t, c.IsParticipant(nil, nil))
}

func TestNewPayment(t *testing.T) {
	c, err := NewContract(validContractFields(), 15)
	require.NoError(t, err)

	p, err := NewPayment(c, uuid.New(), uuid.New(), 1000, nil, "bank_transfer", nil)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentStatusCompleted, p.Status)
	assert.Equal(t, 150.0, p.CommissionAmount)
	assert.NotNil(t, p.PaidAt)

	_, err = NewPayment(c, uuid.New(), uuid.New(), 1000, float(100), "bank_transfer", nil)
	assert.True(t, apperror.IsValidation(err))

	_, err = NewPayment(c, uuid.New(), uuid.New(), -5, nil, "barter", nil)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "amount")
	assert.Contains(t, appErr.Fields, "payment_method")
}

func TestPayment_Refund(t *testing.T) {
	c, err := NewContract(validContractFields(), 15)
	require.NoError(t, err)
	p, err := NewPayment(c, uuid.New(), uuid.New(), 1000, nil, "card", nil)
	require.NoError(t, err)

	reason := "двойное списание"
	require.NoError(t, p.Refund(&reason, time.Now()))
	assert.Equal(t, valueobject.PaymentStatusRefunded, p.Status)
	assert.Equal(t, &reason, p.RefundReason)

	assert.ErrorIs(t, p.Refund(nil, time.Now()), apperror.ErrNotRefundable)
}

func TestNewPendingPayment_StampsPaidAtOnCompletion(t *testing.T) {
	c, err := NewContract(validContractFields(), 15)
	require.NoError(t, err)

	p, err := NewPendingPayment(c, uuid.New(), uuid.New(), 1000, nil, "payme", nil)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentStatusPending, p.Status)
	assert.Nil(t, p.PaidAt)
	assert.Equal(t, 150.0, p.CommissionAmount)

	now := time.Now()
	require.NoError(t, p.TransitionTo(valueobject.PaymentStatusCompleted, now))
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, now, *p.PaidAt)

	_, err = NewPendingPayment(c, uuid.New(), uuid.New(), 0, nil, "payme", nil)
	assert.True(t, apperror.IsValidation(err))
}
