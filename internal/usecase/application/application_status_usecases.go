package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/telemetry"
	"github.com/ignatzorin/engagement-backend/internal/usecase/common"
	"github.com/ignatzorin/engagement-backend/internal/usecase/job"
)

type UpdateApplicationStatusUseCase struct {
	store  repository.Store
	events event.Publisher
}

func NewUpdateApplicationStatusUseCase(store repository.Store, events event.Publisher) *UpdateApplicationStatusUseCase {
	return &UpdateApplicationStatusUseCase{store: store, events: events}
}

// Execute двигает отклик по статусам. accepted ставится только при создании контракта.
func (uc *UpdateApplicationStatusUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID, target string) (*entity.Application, error) {
	status, err := valueobject.NewApplicationStatus(target)
	if err != nil {
		return nil, err
	}

	app, err := uc.store.Applications().FindByID(ctx, id)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrApplicationNotFound, "application.find")
	}
	if err := job.NewOwnership(uc.store).CanManage(ctx, actor, app.JobID); err != nil {
		return nil, err
	}

	previous := app.Status
	if err := app.SetStatus(status, time.Now()); err != nil {
		return nil, err
	}

	affected, err := uc.store.Applications().Update(ctx, app, previous)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrApplicationNotFound, "application.update_status")
	}
	if affected == 0 {
		return nil, common.ErrConcurrentUpdate
	}

	_, talentUser := common.PartyUsers(ctx, uc.store, uuid.Nil, app.TalentID)
	uc.events.Publish(ctx, event.New(event.ApplicationStatusChanged, event.EntityApplication, app.ID, actor).
		Transition(string(previous), string(app.Status)).
		With("job_id", app.JobID).
		NotifyUsers(talentUser))

	return app, nil
}

type WithdrawApplicationUseCase struct {
	store  repository.Store
	events event.Publisher
}

func NewWithdrawApplicationUseCase(store repository.Store, events event.Publisher) *WithdrawApplicationUseCase {
	return &WithdrawApplicationUseCase{store: store, events: events}
}

// Execute удаляет отклик владельца, пока он в статусе pending или reviewed.
func (uc *WithdrawApplicationUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (err error) {
	ctx, span := telemetry.Start(ctx, "application.withdraw")
	defer func() { telemetry.End(span, err) }()

	var app *entity.Application
	err = uc.store.Do(ctx, func(tx repository.Repositories) error {
		talent, err := common.RequireTalent(ctx, tx, actor)
		if err != nil {
			return err
		}
		app, err = tx.Applications().FindByID(ctx, id)
		if err != nil {
			return common.Translate(err, apperror.ErrApplicationNotFound, "application.find")
		}
		if !app.IsOwnedBy(talent.ID) {
			return apperror.ErrForbidden
		}
		if !app.Status.IsWithdrawable() {
			return apperror.ErrNotWithdrawable
		}

		affected, err := tx.Applications().Delete(ctx, id, []valueobject.ApplicationStatus{
			valueobject.ApplicationStatusPending,
			valueobject.ApplicationStatusReviewed,
		})
		if err != nil {
			return common.Translate(err, apperror.ErrApplicationNotFound, "application.delete")
		}
		if affected == 0 {
			return apperror.ErrNotWithdrawable
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.events.Publish(ctx, event.New(event.ApplicationWithdrawn, event.EntityApplication, app.ID, actor).
		Transition(string(app.Status), "").
		With("job_id", app.JobID))
	return nil
}

type ToggleRecommendationUseCase struct {
	store  repository.Store
	events event.Publisher
}

func NewToggleRecommendationUseCase(store repository.Store, events event.Publisher) *ToggleRecommendationUseCase {
	return &ToggleRecommendationUseCase{store: store, events: events}
}

// Execute переключает флаг рекомендации агентства. Влияет только на сортировку.
func (uc *ToggleRecommendationUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.Application, error) {
	if err := common.RequireStaff(actor); err != nil {
		return nil, err
	}

	app, err := uc.store.Applications().ToggleRecommendation(ctx, id)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrApplicationNotFound, "application.toggle_recommendation")
	}

	uc.events.Publish(ctx, event.New(event.ApplicationRecommendationToggled, event.EntityApplication, app.ID, actor).
		With("agency_recommended", app.AgencyRecommended))

	return app, nil
}
