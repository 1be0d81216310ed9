package common

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/logger"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
)

// ErrConcurrentUpdate - запись изменилась между чтением и условным UPDATE.
var ErrConcurrentUpdate = apperror.New(apperror.ErrCodeConflict, "запись была изменена параллельно, повторите запрос")

// Translate переводит ошибки хранилища в таксономию apperror.
// AppError пропускается как есть, ErrNotFound становится notFound, остальное - DATABASE_ERROR.
func Translate(err error, notFound *apperror.AppError, op string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) && notFound != nil {
		return notFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "запрос прерван")
	}
	logger.Log.WithFields(logrus.Fields{"op": op, "error": err.Error()}).Error("ошибка хранилища")
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "ошибка базы данных")
}

func RequireStaff(actor valueobject.Actor) error {
	if !actor.IsStaff() {
		return apperror.ErrForbidden
	}
	return nil
}

// RequireEmployer возвращает профиль работодателя текущего пользователя.
func RequireEmployer(ctx context.Context, repos repository.Repositories, actor valueobject.Actor) (*entity.Employer, error) {
	if !actor.IsEmployer() {
		return nil, apperror.ErrForbidden
	}
	employer, err := repos.Employers().FindByUserID(ctx, actor.ID)
	if err != nil {
		return nil, Translate(err, apperror.ErrEmployerNotFound, "employer.find_by_user")
	}
	return employer, nil
}

// RequireTalent возвращает профиль исполнителя текущего пользователя.
func RequireTalent(ctx context.Context, repos repository.Repositories, actor valueobject.Actor) (*entity.Talent, error) {
	if !actor.IsTalent() {
		return nil, apperror.ErrForbidden
	}
	talent, err := repos.Talents().FindByUserID(ctx, actor.ID)
	if err != nil {
		return nil, Translate(err, apperror.ErrTalentNotFound, "talent.find_by_user")
	}
	return talent, nil
}

// Profile - профили, через которые актор владеет сущностями.
type Profile struct {
	Actor      valueobject.Actor
	EmployerID *uuid.UUID
	TalentID   *uuid.UUID
}

// LoadProfile не падает, если профиля нет: такой актор просто ничем не владеет.
func LoadProfile(ctx context.Context, repos repository.Repositories, actor valueobject.Actor) (*Profile, error) {
	p := &Profile{Actor: actor}
	switch actor.Role {
	case valueobject.RoleEmployer:
		e, err := repos.Employers().FindByUserID(ctx, actor.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, Translate(err, nil, "employer.find_by_user")
		}
		if e != nil {
			p.EmployerID = &e.ID
		}
	case valueobject.RoleTalent:
		t, err := repos.Talents().FindByUserID(ctx, actor.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, Translate(err, nil, "talent.find_by_user")
		}
		if t != nil {
			p.TalentID = &t.ID
		}
	}
	return p, nil
}

func (p *Profile) OwnsEmployer(id uuid.UUID) bool {
	return p.EmployerID != nil && *p.EmployerID == id
}

func (p *Profile) OwnsTalent(id uuid.UUID) bool {
	return p.TalentID != nil && *p.TalentID == id
}

// CanAccessContract: участники контракта и staff/admin.
func (p *Profile) CanAccessContract(c *entity.Contract) bool {
	return p.Actor.IsStaff() || c.IsParticipant(p.EmployerID, p.TalentID)
}

// PartyUsers возвращает user id работодателя и исполнителя для уведомлений.
func PartyUsers(ctx context.Context, repos repository.Repositories, employerID, talentID uuid.UUID) (employerUser, talentUser uuid.UUID) {
	if e, err := repos.Employers().FindByID(ctx, employerID); err == nil {
		employerUser = e.UserID
	}
	if t, err := repos.Talents().FindByID(ctx, talentID); err == nil {
		talentUser = t.UserID
	}
	return employerUser, talentUser
}
