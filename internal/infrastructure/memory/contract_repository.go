package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type contractRepo struct{ run runner }

func activeConflict(st *state, c entity.Contract) bool {
	if c.Status != valueobject.ContractStatusActive {
		return false
	}
	for id, other := range st.contracts {
		if id != c.ID && other.Status == valueobject.ContractStatusActive &&
			other.JobID == c.JobID && other.TalentID == c.TalentID {
			return true
		}
	}
	return false
}

func (r contractRepo) Create(ctx context.Context, c *entity.Contract) error {
	return r.run(func(st *state) error {
		if _, ok := st.jobs[c.JobID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := st.talents[c.TalentID]; !ok {
			return repository.ErrNotFound
		}
		// Частичный уникальный индекс (job_id, talent_id) WHERE status = 'active'.
		if activeConflict(st, *c) {
			return repository.ErrUniqueViolation
		}
		st.contracts[c.ID] = *c
		return nil
	})
}

func (r contractRepo) Update(ctx context.Context, c *entity.Contract, expected valueobject.ContractStatus) (int64, error) {
	var affected int64
	err := r.run(func(st *state) error {
		cur, ok := st.contracts[c.ID]
		if !ok || cur.Status != expected {
			return nil
		}
		if activeConflict(st, *c) {
			return repository.ErrUniqueViolation
		}
		st.contracts[c.ID] = *c
		affected = 1
		return nil
	})
	return affected, err
}

func (r contractRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error) {
	var out *entity.Contract
	err := r.run(func(st *state) error {
		c, ok := st.contracts[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r contractRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Contract, error) {
	return r.FindByID(ctx, id)
}

func (r contractRepo) FindActiveByJobAndTalent(ctx context.Context, jobID, talentID uuid.UUID) (*entity.Contract, error) {
	var out *entity.Contract
	err := r.run(func(st *state) error {
		for _, c := range st.contracts {
			if c.JobID == jobID && c.TalentID == talentID && c.Status == valueobject.ContractStatusActive {
				c := c
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func inScope(c entity.Contract, scope repository.ContractScope) bool {
	switch scope.Kind {
	case repository.ScopeEmployer:
		return c.EmployerID == scope.ID
	case repository.ScopeTalent:
		return c.TalentID == scope.ID
	default:
		return true
	}
}

func (r contractRepo) List(ctx context.Context, scope repository.ContractScope) ([]*entity.Contract, error) {
	var out []*entity.Contract
	err := r.run(func(st *state) error {
		for _, c := range st.contracts {
			if inScope(c, scope) {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, err
}

func (r contractRepo) Stats(ctx context.Context, scope repository.ContractScope) (*repository.ContractStats, error) {
	stats := &repository.ContractStats{}
	err := r.run(func(st *state) error {
		for _, c := range st.contracts {
			if !inScope(c, scope) {
				continue
			}
			stats.Total++
			switch c.Status {
			case valueobject.ContractStatusActive:
				stats.Active++
			case valueobject.ContractStatusCompleted:
				stats.Completed++
			case valueobject.ContractStatusTerminated:
				stats.Terminated++
			}
			if c.TotalAmount != nil {
				stats.TotalValue += *c.TotalAmount
			}
			if c.CommissionAmount != nil {
				stats.TotalCommission += *c.CommissionAmount
			}
		}
		return nil
	})
	return stats, err
}
