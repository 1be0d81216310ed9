package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type ApplicationRepository interface {
	// Create возвращает ErrUniqueViolation, если пара (job, talent) уже есть.
	Create(ctx context.Context, app *entity.Application) error
	Update(ctx context.Context, app *entity.Application, expected valueobject.ApplicationStatus) (int64, error)
	// Delete удаляет отклик, только если его статус входит в statuses.
	Delete(ctx context.Context, id uuid.UUID, statuses []valueobject.ApplicationStatus) (int64, error)
	// ToggleRecommendation атомарно инвертирует agency_recommended и возвращает новое состояние.
	ToggleRecommendation(ctx context.Context, id uuid.UUID) (*entity.Application, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error)
	FindByJobAndTalent(ctx context.Context, jobID, talentID uuid.UUID) (*entity.Application, error)
	// ListByJob: сначала рекомендованные агентством, затем новые.
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]*entity.Application, error)
	ListByTalent(ctx context.Context, talentID uuid.UUID) ([]*entity.Application, error)
	CountByStatusForJob(ctx context.Context, jobID uuid.UUID) (StatusCounts, error)
	CountByStatusForTalent(ctx context.Context, talentID uuid.UUID) (StatusCounts, error)
}

// StatusCounts - количество записей по статусам.
type StatusCounts map[string]int

func (c StatusCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
