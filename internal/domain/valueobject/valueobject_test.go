package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
)

func TestCommission(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		pct   float64
		want  float64
	}{
		{"default rate", 1_000_000, 15, 150_000},
		{"zero percent", 5000, 0, 0},
		{"full percent", 120.5, 100, 120.5},
		{"rounds half up to cents", 10.01, 12.5, 1.25},
		{"fractional total", 333.33, 15, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Commission(tt.total, tt.pct))
		})
	}
}

func TestCommissionPtr_NilTotal(t *testing.T) {
	assert.Nil(t, CommissionPtr(nil, 15))

	total := 200.0
	c := CommissionPtr(&total, 10)
	require.NotNil(t, c)
	assert.Equal(t, 20.0, *c)
}

func TestValidatePercentage(t *testing.T) {
	assert.NoError(t, ValidatePercentage(0))
	assert.NoError(t, ValidatePercentage(100))
	assert.True(t, apperror.IsValidation(ValidatePercentage(-0.1)))
	assert.True(t, apperror.IsValidation(ValidatePercentage(100.5)))
}

func TestNewSalaryRange(t *testing.T) {
	lo, hi := 100.0, 50.0
	_, err := NewSalaryRange(&lo, &hi, "monthly", "")
	assert.True(t, apperror.IsValidation(err))

	neg := -1.0
	_, err = NewSalaryRange(&neg, nil, "monthly", "")
	assert.True(t, apperror.IsValidation(err))

	r, err := NewSalaryRange(&hi, &lo, "monthly", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, r.Currency)
	assert.Equal(t, "UZS 50.00 - 100.00", r.String())
	assert.Equal(t, "по договорённости", SalaryRange{}.String())
}

func TestJobStatus_Transitions(t *testing.T) {
	assert.True(t, JobStatusPendingApproval.CanTransitionTo(JobStatusActive))
	assert.True(t, JobStatusActive.CanTransitionTo(JobStatusFilled))
	assert.True(t, JobStatusFilled.CanTransitionTo(JobStatusFilled))
	assert.True(t, JobStatusFilled.CanTransitionTo(JobStatusClosed))
	assert.True(t, JobStatusClosed.CanTransitionTo(JobStatusActive))
	assert.False(t, JobStatusPendingApproval.CanTransitionTo(JobStatusFilled))
	assert.False(t, JobStatusFilled.CanTransitionTo(JobStatusActive))
	assert.False(t, JobStatusDeleted.CanTransitionTo(JobStatusActive))

	_, err := NewJobStatus("archived")
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestApplicationStatus_AcceptedIsFrozen(t *testing.T) {
	for _, s := range []ApplicationStatus{
		ApplicationStatusPending, ApplicationStatusReviewed,
		ApplicationStatusShortlisted, ApplicationStatusRejected,
	} {
		assert.False(t, ApplicationStatusAccepted.CanTransitionTo(s), s)
		assert.False(t, s.CanTransitionTo(ApplicationStatusAccepted), s)
	}
	assert.True(t, ApplicationStatusRejected.CanTransitionTo(ApplicationStatusShortlisted))
}

func TestApplicationStatus_IsWithdrawable(t *testing.T) {
	assert.True(t, ApplicationStatusPending.IsWithdrawable())
	assert.True(t, ApplicationStatusReviewed.IsWithdrawable())
	assert.False(t, ApplicationStatusShortlisted.IsWithdrawable())
	assert.False(t, ApplicationStatusAccepted.IsWithdrawable())
	assert.False(t, ApplicationStatusRejected.IsWithdrawable())
}

func TestContractStatus_Terminal(t *testing.T) {
	assert.False(t, ContractStatusActive.IsTerminal())
	assert.True(t, ContractStatusCompleted.IsTerminal())
	assert.True(t, ContractStatusTerminated.IsTerminal())
	assert.False(t, ContractStatusCompleted.CanTransitionTo(ContractStatusActive))
	assert.False(t, ContractStatus("paused").IsTerminal())
}

func TestPaymentStatus_Transitions(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusCompleted))
	assert.True(t, PaymentStatusCompleted.CanTransitionTo(PaymentStatusRefunded))
	assert.False(t, PaymentStatusPending.CanTransitionTo(PaymentStatusRefunded))
	assert.False(t, PaymentStatusRefunded.CanTransitionTo(PaymentStatusCompleted))
	assert.False(t, PaymentStatusFailed.CanTransitionTo(PaymentStatusCompleted))
}

func TestActor(t *testing.T) {
	assert.True(t, Actor{Role: RoleAdmin}.IsStaff())
	assert.True(t, Actor{Role: RoleStaff}.IsStaff())
	assert.False(t, Actor{Role: RoleEmployer}.IsStaff())
	assert.False(t, Role("guest").IsValid())
}
