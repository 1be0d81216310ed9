package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type applicationRepo struct{ run runner }

func (r applicationRepo) Create(ctx context.Context, app *entity.Application) error {
	return r.run(func(st *state) error {
		if _, ok := st.jobs[app.JobID]; !ok {
			return repository.ErrNotFound
		}
		// UNIQUE (job_id, talent_id)
		for _, a := range st.applications {
			if a.JobID == app.JobID && a.TalentID == app.TalentID {
				return repository.ErrUniqueViolation
			}
		}
		st.applications[app.ID] = *app
		return nil
	})
}

func (r applicationRepo) Update(ctx context.Context, app *entity.Application, expected valueobject.ApplicationStatus) (int64, error) {
	var affected int64
	err := r.run(func(st *state) error {
		cur, ok := st.applications[app.ID]
		if !ok || cur.Status != expected {
			return nil
		}
		// флаг рекомендации меняется только через ToggleRecommendation
		next := *app
		next.AgencyRecommended = cur.AgencyRecommended
		st.applications[app.ID] = next
		affected = 1
		return nil
	})
	return affected, err
}

func (r applicationRepo) ToggleRecommendation(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var out *entity.Application
	err := r.run(func(st *state) error {
		cur, ok := st.applications[id]
		if !ok {
			return repository.ErrNotFound
		}
		cur.ToggleRecommendation()
		st.applications[id] = cur
		out = &cur
		return nil
	})
	return out, err
}

func (r applicationRepo) Delete(ctx context.Context, id uuid.UUID, statuses []valueobject.ApplicationStatus) (int64, error) {
	var affected int64
	err := r.run(func(st *state) error {
		cur, ok := st.applications[id]
		if !ok {
			return nil
		}
		for _, s := range statuses {
			if cur.Status == s {
				delete(st.applications, id)
				affected = 1
				return nil
			}
		}
		return nil
	})
	return affected, err
}

func (r applicationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var out *entity.Application
	err := r.run(func(st *state) error {
		a, ok := st.applications[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r applicationRepo) FindByJobAndTalent(ctx context.Context, jobID, talentID uuid.UUID) (*entity.Application, error) {
	var out *entity.Application
	err := r.run(func(st *state) error {
		for _, a := range st.applications {
			if a.JobID == jobID && a.TalentID == talentID {
				a := a
				out = &a
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r applicationRepo) list(match func(a entity.Application) bool) ([]*entity.Application, error) {
	var out []*entity.Application
	err := r.run(func(st *state) error {
		for _, a := range st.applications {
			if match(a) {
				a := a
				out = append(out, &a)
			}
		}
		return nil
	})
	return out, err
}

func (r applicationRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*entity.Application, error) {
	out, err := r.list(func(a entity.Application) bool { return a.JobID == jobID })
	sort.Slice(out, func(i, k int) bool {
		if out[i].AgencyRecommended != out[k].AgencyRecommended {
			return out[i].AgencyRecommended
		}
		return out[i].AppliedAt.After(out[k].AppliedAt)
	})
	return out, err
}

func (r applicationRepo) ListByTalent(ctx context.Context, talentID uuid.UUID) ([]*entity.Application, error) {
	out, err := r.list(func(a entity.Application) bool { return a.TalentID == talentID })
	sort.Slice(out, func(i, k int) bool { return out[i].AppliedAt.After(out[k].AppliedAt) })
	return out, err
}

func (r applicationRepo) count(match func(a entity.Application) bool) (repository.StatusCounts, error) {
	counts := repository.StatusCounts{}
	err := r.run(func(st *state) error {
		for _, a := range st.applications {
			if match(a) {
				counts[string(a.Status)]++
			}
		}
		return nil
	})
	return counts, err
}

func (r applicationRepo) CountByStatusForJob(ctx context.Context, jobID uuid.UUID) (repository.StatusCounts, error) {
	return r.count(func(a entity.Application) bool { return a.JobID == jobID })
}

func (r applicationRepo) CountByStatusForTalent(ctx context.Context, talentID uuid.UUID) (repository.StatusCounts, error) {
	return r.count(func(a entity.Application) bool { return a.TalentID == talentID })
}
