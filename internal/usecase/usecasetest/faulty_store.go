package usecasetest

import (
	"context"

	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/infrastructure/memory"
)

// FaultyStore подменяет репозитории хранилища в памяти и на пуле, и внутри Do.
// Нужен, чтобы уронить запись посреди операции и проверить откат.
type FaultyStore struct {
	*memory.Store
	WrapJobs         func(repository.JobRepository) repository.JobRepository
	WrapApplications func(repository.ApplicationRepository) repository.ApplicationRepository
}

func (s *FaultyStore) Jobs() repository.JobRepository {
	return faultyRepos{Repositories: s.Store, s: s}.Jobs()
}

func (s *FaultyStore) Applications() repository.ApplicationRepository {
	return faultyRepos{Repositories: s.Store, s: s}.Applications()
}

func (s *FaultyStore) Do(ctx context.Context, fn func(tx repository.Repositories) error) error {
	return s.Store.Do(ctx, func(tx repository.Repositories) error {
		return fn(faultyRepos{Repositories: tx, s: s})
	})
}

type faultyRepos struct {
	repository.Repositories
	s *FaultyStore
}

func (r faultyRepos) Jobs() repository.JobRepository {
	jobs := r.Repositories.Jobs()
	if r.s.WrapJobs != nil {
		return r.s.WrapJobs(jobs)
	}
	return jobs
}

func (r faultyRepos) Applications() repository.ApplicationRepository {
	apps := r.Repositories.Applications()
	if r.s.WrapApplications != nil {
		return r.s.WrapApplications(apps)
	}
	return apps
}
