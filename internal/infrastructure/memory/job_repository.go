package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type jobRepo struct{ run runner }

func copyJob(j entity.Job) *entity.Job {
	j.Skills = append([]entity.JobSkill(nil), j.Skills...)
	return &j
}

func (r jobRepo) Create(ctx context.Context, job *entity.Job) error {
	return r.run(func(st *state) error {
		if _, ok := st.jobs[job.ID]; ok {
			return repository.ErrUniqueViolation
		}
		if _, ok := st.employers[job.EmployerID]; !ok {
			return repository.ErrNotFound
		}
		st.jobs[job.ID] = *copyJob(*job)
		return nil
	})
}

func (r jobRepo) Update(ctx context.Context, job *entity.Job, expected valueobject.JobStatus) (int64, error) {
	var affected int64
	err := r.run(func(st *state) error {
		cur, ok := st.jobs[job.ID]
		if !ok || cur.Status != expected {
			return nil
		}
		st.jobs[job.ID] = *copyJob(*job)
		affected = 1
		return nil
	})
	return affected, err
}

func (r jobRepo) UpdateStatus(ctx context.Context, job *entity.Job, expected valueobject.JobStatus) (int64, error) {
	var affected int64
	err := r.run(func(st *state) error {
		cur, ok := st.jobs[job.ID]
		if !ok || cur.Status != expected {
			return nil
		}
		cur.Status = job.Status
		cur.FilledAt = job.FilledAt
		cur.UpdatedAt = job.UpdatedAt
		st.jobs[job.ID] = cur
		affected = 1
		return nil
	})
	return affected, err
}

func (r jobRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	var out *entity.Job
	err := r.run(func(st *state) error {
		j, ok := st.jobs[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = copyJob(j)
		return nil
	})
	return out, err
}

func (r jobRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	return r.FindByID(ctx, id)
}

func (r jobRepo) FindByEmployerID(ctx context.Context, employerID uuid.UUID) ([]*entity.Job, error) {
	var out []*entity.Job
	err := r.run(func(st *state) error {
		for _, j := range st.jobs {
			if j.EmployerID == employerID && j.Status != valueobject.JobStatusDeleted {
				out = append(out, copyJob(j))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, err
}

func (r jobRepo) Search(ctx context.Context, f repository.JobFilter) ([]*entity.Job, int, error) {
	f.Normalize()
	var matched []*entity.Job
	err := r.run(func(st *state) error {
		for _, j := range st.jobs {
			if matchesFilter(j, f) {
				matched = append(matched, copyJob(j))
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sortJobs(matched, f.Sort)
	total := len(matched)
	if f.Offset >= total {
		return []*entity.Job{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func matchesFilter(j entity.Job, f repository.JobFilter) bool {
	if j.Status != valueobject.JobStatusActive {
		return false
	}
	if j.Deadline != nil && !j.Deadline.After(f.Now) {
		return false
	}
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		if !strings.Contains(strings.ToLower(j.Title), kw) && !strings.Contains(strings.ToLower(j.Description), kw) {
			return false
		}
	}
	if f.JobType != "" && j.JobType != f.JobType {
		return false
	}
	if f.LocationType != "" && j.LocationType != f.LocationType {
		return false
	}
	if loc := strings.ToLower(strings.TrimSpace(f.Location)); loc != "" {
		if j.LocationAddress == nil || !strings.Contains(strings.ToLower(*j.LocationAddress), loc) {
			return false
		}
	}
	// Пересечение диапазонов зарплаты.
	if f.SalaryMin != nil && (j.Salary.Max == nil || *j.Salary.Max < *f.SalaryMin) {
		return false
	}
	if f.SalaryMax != nil && (j.Salary.Min == nil || *j.Salary.Min > *f.SalaryMax) {
		return false
	}
	if f.ExperienceMax != nil && j.ExperienceRequired != nil && *j.ExperienceRequired > *f.ExperienceMax {
		return false
	}
	for _, want := range f.SkillIDs {
		found := false
		for _, s := range j.Skills {
			if s.SkillID == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortJobs(jobs []*entity.Job, key string) {
	salary := func(v *float64, missing float64) float64 {
		if v == nil {
			return missing
		}
		return *v
	}
	sort.SliceStable(jobs, func(i, k int) bool {
		a, b := jobs[i], jobs[k]
		switch key {
		case repository.JobSortSalaryHigh:
			return salary(a.Salary.Max, -1) > salary(b.Salary.Max, -1)
		case repository.JobSortSalaryLow:
			return salary(a.Salary.Min, 1<<62) < salary(b.Salary.Min, 1<<62)
		case repository.JobSortDeadline:
			if a.Deadline == nil || b.Deadline == nil {
				return a.Deadline != nil
			}
			return a.Deadline.Before(*b.Deadline)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}
