// Package usecasetest собирает тестовое окружение use case поверх хранилища в памяти.
package usecasetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/infrastructure/memory"
)

// Recorder запоминает опубликованные события.
type Recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *Recorder) Publish(_ context.Context, events ...event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *Recorder) Types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func (r *Recorder) Count(t event.Type) int {
	n := 0
	for _, got := range r.Types() {
		if got == t {
			n++
		}
	}
	return n
}

// Fixture: один работодатель, два исполнителя, staff и активная вакансия работодателя.
type Fixture struct {
	Store  *memory.Store
	Events *Recorder

	Staff         valueobject.Actor
	EmployerActor valueobject.Actor
	TalentActor   valueobject.Actor
	OtherTalent   valueobject.Actor
	StrangerEmp   valueobject.Actor
	Employer      *entity.Employer
	Talent        *entity.Talent
	Other         *entity.Talent
	Stranger      *entity.Employer
	Job           *entity.Job
}

func New(t *testing.T) *Fixture {
	t.Helper()
	ctx := context.Background()

	f := &Fixture{
		Store:         memory.NewStore(),
		Events:        &Recorder{},
		Staff:         valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleStaff},
		EmployerActor: valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleEmployer},
		TalentActor:   valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleTalent},
		OtherTalent:   valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleTalent},
		StrangerEmp:   valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleEmployer},
	}
	f.Employer = &entity.Employer{ID: uuid.New(), UserID: f.EmployerActor.ID, CompanyName: "Silk Road Logistics"}
	f.Stranger = &entity.Employer{ID: uuid.New(), UserID: f.StrangerEmp.ID, CompanyName: "Other LLC"}
	f.Talent = &entity.Talent{ID: uuid.New(), UserID: f.TalentActor.ID, DisplayName: "Aziz"}
	f.Other = &entity.Talent{ID: uuid.New(), UserID: f.OtherTalent.ID, DisplayName: "Malika"}

	err := f.Store.Do(ctx, func(tx repository.Repositories) error {
		for _, e := range []*entity.Employer{f.Employer, f.Stranger} {
			if err := tx.Employers().Upsert(ctx, e); err != nil {
				return err
			}
		}
		for _, tl := range []*entity.Talent{f.Talent, f.Other} {
			if err := tx.Talents().Upsert(ctx, tl); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	// вакансии ссылаются на работодателя, поэтому после профилей
	f.Job = f.NewActiveJob(t, f.Employer.ID)
	return f
}

// NewActiveJob кладёт в хранилище уже одобренную вакансию.
func (f *Fixture) NewActiveJob(t *testing.T, employerID uuid.UUID) *entity.Job {
	t.Helper()
	min, max := 1000.0, 2000.0
	job, err := entity.NewJob(employerID, entity.JobFields{
		Title:        "Go разработчик",
		Description:  "Бэкенд биржи",
		JobType:      "contract",
		LocationType: "remote",
		SalaryMin:    &min,
		SalaryMax:    &max,
		SalaryType:   "monthly",
	})
	require.NoError(t, err)
	require.NoError(t, job.TransitionTo(valueobject.JobStatusActive, time.Now()))
	require.NoError(t, f.Store.Jobs().Create(context.Background(), job))
	return job
}

// ContractFields - минимальный валидный контракт по вакансии фикстуры.
func (f *Fixture) ContractFields(talentID uuid.UUID, applicationID *uuid.UUID, total *float64) entity.ContractFields {
	start := time.Now()
	return entity.ContractFields{
		JobID:         f.Job.ID,
		TalentID:      talentID,
		EmployerID:    f.Employer.ID,
		ApplicationID: applicationID,
		StartDate:     &start,
		Rate:          100,
		RateType:      "fixed",
		TotalAmount:   total,
	}
}

func Float(v float64) *float64 { return &v }
