package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
)

type employerRepo struct{ run runner }

func (r employerRepo) Upsert(ctx context.Context, e *entity.Employer) error {
	return r.run(func(st *state) error {
		for id, other := range st.employers {
			if id != e.ID && other.UserID == e.UserID {
				return repository.ErrUniqueViolation
			}
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		st.employers[e.ID] = *e
		return nil
	})
}

func (r employerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Employer, error) {
	var out *entity.Employer
	err := r.run(func(st *state) error {
		e, ok := st.employers[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &e
		return nil
	})
	return out, err
}

func (r employerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Employer, error) {
	var out *entity.Employer
	err := r.run(func(st *state) error {
		for _, e := range st.employers {
			if e.UserID == userID {
				e := e
				out = &e
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

type talentRepo struct{ run runner }

func (r talentRepo) Upsert(ctx context.Context, t *entity.Talent) error {
	return r.run(func(st *state) error {
		for id, other := range st.talents {
			if id != t.ID && other.UserID == t.UserID {
				return repository.ErrUniqueViolation
			}
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
		if cur, ok := st.talents[t.ID]; ok {
			t.TotalJobsCompleted = cur.TotalJobsCompleted
		}
		st.talents[t.ID] = *t
		return nil
	})
}

func (r talentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Talent, error) {
	var out *entity.Talent
	err := r.run(func(st *state) error {
		t, ok := st.talents[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (r talentRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Talent, error) {
	var out *entity.Talent
	err := r.run(func(st *state) error {
		for _, t := range st.talents {
			if t.UserID == userID {
				t := t
				out = &t
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r talentRepo) IncrementCompletedJobs(ctx context.Context, id uuid.UUID) error {
	return r.run(func(st *state) error {
		t, ok := st.talents[id]
		if !ok {
			return repository.ErrNotFound
		}
		t.TotalJobsCompleted++
		st.talents[id] = t
		return nil
	})
}

type skillRepo struct{ run runner }

func (r skillRepo) Upsert(ctx context.Context, s *entity.Skill) error {
	return r.run(func(st *state) error {
		for id, other := range st.skills {
			if id != s.ID && other.Name == s.Name {
				return repository.ErrUniqueViolation
			}
		}
		st.skills[s.ID] = *s
		return nil
	})
}

func (r skillRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Skill, error) {
	var out []entity.Skill
	err := r.run(func(st *state) error {
		for _, id := range ids {
			if s, ok := st.skills[id]; ok {
				out = append(out, s)
			}
		}
		return nil
	})
	return out, err
}

type auditRepo struct{ run runner }

func (r auditRepo) Save(ctx context.Context, e event.Event) error {
	return r.run(func(st *state) error {
		st.audit = append(st.audit, e)
		return nil
	})
}
