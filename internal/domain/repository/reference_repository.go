package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
)

type EmployerRepository interface {
	Upsert(ctx context.Context, e *entity.Employer) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Employer, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Employer, error)
}

type TalentRepository interface {
	Upsert(ctx context.Context, t *entity.Talent) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Talent, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Talent, error)
	IncrementCompletedJobs(ctx context.Context, id uuid.UUID) error
}

type SkillRepository interface {
	Upsert(ctx context.Context, s *entity.Skill) error
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Skill, error)
}

type AuditLogRepository interface {
	Save(ctx context.Context, e event.Event) error
}
