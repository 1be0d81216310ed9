package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(sql.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, translateError(fmt.Errorf("wrap: %w", sql.ErrNoRows)), repository.ErrNotFound)

	unique := &pq.Error{Code: "23505", Constraint: "uq_contracts_active_job_talent"}
	err := translateError(unique)
	assert.ErrorIs(t, err, repository.ErrUniqueViolation)
	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))

	assert.ErrorIs(t, translateError(&pq.Error{Code: "23503"}), repository.ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, translateError(other))
}

func TestBuildSearchWhere_Base(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	where, args := buildSearchWhere(repository.JobFilter{Now: now})

	assert.Equal(t, "j.status = 'active' AND (j.deadline IS NULL OR j.deadline > $1)", where)
	assert.Equal(t, []any{now}, args)
}

func TestBuildSearchWhere_AllFilters(t *testing.T) {
	min, max, exp := 100.0, 500.0, 3
	skills := []uuid.UUID{uuid.New(), uuid.New()}
	where, args := buildSearchWhere(repository.JobFilter{
		Keyword:       " golang ",
		JobType:       "contract",
		LocationType:  "remote",
		Location:      "Ташкент",
		SalaryMin:     &min,
		SalaryMax:     &max,
		ExperienceMax: &exp,
		SkillIDs:      skills,
		Now:           time.Now(),
	})

	assert.Contains(t, where, "(j.title ILIKE $2 OR j.description ILIKE $2)")
	assert.Contains(t, where, "j.job_type = $3")
	assert.Contains(t, where, "j.location_type = $4")
	assert.Contains(t, where, "j.location_address ILIKE $5")
	assert.Contains(t, where, "j.salary_max >= $6")
	assert.Contains(t, where, "j.salary_min <= $7")
	assert.Contains(t, where, "j.experience_required <= $8")
	assert.Contains(t, where, "ANY($9::uuid[])")
	assert.Contains(t, where, "COUNT(DISTINCT skill_id) = $10")

	assert.Len(t, args, 10)
	assert.Equal(t, "%golang%", args[1])
	assert.Equal(t, "%Ташкент%", args[4])
	assert.Equal(t, 2, args[9])
}

func TestSearchOrder(t *testing.T) {
	assert.Equal(t, "j.created_at DESC", searchOrder(repository.JobSortNewest))
	assert.Equal(t, "j.created_at DESC", searchOrder("; DROP TABLE jobs"))
	assert.Contains(t, searchOrder(repository.JobSortSalaryHigh), "j.salary_max DESC")
	assert.Contains(t, searchOrder(repository.JobSortDeadline), "j.deadline ASC NULLS LAST")
}

func TestScopeWhere(t *testing.T) {
	id := uuid.New()

	where, args := scopeWhere(repository.ContractScope{Kind: repository.ScopeEmployer, ID: id})
	assert.Equal(t, "employer_id = $1", where)
	assert.Equal(t, []any{id}, args)

	where, _ = scopeWhere(repository.ContractScope{Kind: repository.ScopeTalent, ID: id})
	assert.Equal(t, "talent_id = $1", where)

	where, args = scopeWhere(repository.ContractScope{Kind: repository.ScopeAll})
	assert.Equal(t, "TRUE", where)
	assert.Nil(t, args)
}

func TestFillMonths(t *testing.T) {
	keys := repository.MonthKeys(3, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{"2025-12", "2026-01", "2026-02"}, keys)

	out := fillMonths(keys, []monthlyRow{{Month: "2026-01", Payments: 2, Amount: 300, Commission: 45}})
	assert.Len(t, out, 3)
	assert.Equal(t, 0, out[0].Payments)
	assert.Equal(t, repository.MonthlyRevenue{Month: "2026-01", Payments: 2, Amount: 300, Commission: 45}, out[1])
	assert.Equal(t, "2026-02", out[2].Month)
}

func TestStatusStrings(t *testing.T) {
	type status string
	assert.Equal(t, []string{"a", "b"}, statusStrings([]status{"a", "b"}))
	assert.Empty(t, uuidStrings(nil))
}
