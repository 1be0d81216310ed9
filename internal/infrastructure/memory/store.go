package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
)

// Store - хранилище в памяти с теми же ограничениями уникальности, что и схема Postgres.
// Транзакции сериализуются: Do держит блокировку и работает с копией состояния.
type Store struct {
	mu    sync.Mutex
	state *state
}

type state struct {
	jobs         map[uuid.UUID]entity.Job
	applications map[uuid.UUID]entity.Application
	contracts    map[uuid.UUID]entity.Contract
	payments     map[uuid.UUID]entity.Payment
	employers    map[uuid.UUID]entity.Employer
	talents      map[uuid.UUID]entity.Talent
	skills       map[uuid.UUID]entity.Skill
	audit        []event.Event
}

func newState() *state {
	return &state{
		jobs:         make(map[uuid.UUID]entity.Job),
		applications: make(map[uuid.UUID]entity.Application),
		contracts:    make(map[uuid.UUID]entity.Contract),
		payments:     make(map[uuid.UUID]entity.Payment),
		employers:    make(map[uuid.UUID]entity.Employer),
		talents:      make(map[uuid.UUID]entity.Talent),
		skills:       make(map[uuid.UUID]entity.Skill),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.jobs {
		v.Skills = append([]entity.JobSkill(nil), v.Skills...)
		c.jobs[k] = v
	}
	for k, v := range s.applications {
		c.applications[k] = v
	}
	for k, v := range s.contracts {
		c.contracts[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.employers {
		c.employers[k] = v
	}
	for k, v := range s.talents {
		c.talents[k] = v
	}
	for k, v := range s.skills {
		c.skills[k] = v
	}
	c.audit = append([]event.Event(nil), s.audit...)
	return c
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// runner даёт репозиториям доступ к состоянию.
type runner func(fn func(st *state) error) error

func (s *Store) locked(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func (s *Store) Do(ctx context.Context, fn func(tx repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	tx := repos{run: func(f func(st *state) error) error { return f(working) }}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// AuditEvents возвращает копию записанного аудита.
func (s *Store) AuditEvents() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.Event(nil), s.state.audit...)
}

func (s *Store) pool() repos { return repos{run: s.locked} }

func (s *Store) Jobs() repository.JobRepository                 { return s.pool().Jobs() }
func (s *Store) Applications() repository.ApplicationRepository { return s.pool().Applications() }
func (s *Store) Contracts() repository.ContractRepository       { return s.pool().Contracts() }
func (s *Store) Payments() repository.PaymentRepository         { return s.pool().Payments() }
func (s *Store) Employers() repository.EmployerRepository       { return s.pool().Employers() }
func (s *Store) Talents() repository.TalentRepository           { return s.pool().Talents() }
func (s *Store) Skills() repository.SkillRepository             { return s.pool().Skills() }
func (s *Store) AuditLog() repository.AuditLogRepository        { return s.pool().AuditLog() }

type repos struct {
	run runner
}

func (r repos) Jobs() repository.JobRepository                 { return jobRepo{r.run} }
func (r repos) Applications() repository.ApplicationRepository { return applicationRepo{r.run} }
func (r repos) Contracts() repository.ContractRepository       { return contractRepo{r.run} }
func (r repos) Payments() repository.PaymentRepository         { return paymentRepo{r.run} }
func (r repos) Employers() repository.EmployerRepository       { return employerRepo{r.run} }
func (r repos) Talents() repository.TalentRepository           { return talentRepo{r.run} }
func (r repos) Skills() repository.SkillRepository             { return skillRepo{r.run} }
func (r repos) AuditLog() repository.AuditLogRepository        { return auditRepo{r.run} }
