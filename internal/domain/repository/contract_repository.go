package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type ContractRepository interface {
	// Create возвращает ErrUniqueViolation при втором активном контракте на пару (job, talent).
	Create(ctx context.Context, c *entity.Contract) error
	Update(ctx context.Context, c *entity.Contract, expected valueobject.ContractStatus) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Contract, error)
	FindActiveByJobAndTalent(ctx context.Context, jobID, talentID uuid.UUID) (*entity.Contract, error)
	List(ctx context.Context, scope ContractScope) ([]*entity.Contract, error)
	Stats(ctx context.Context, scope ContractScope) (*ContractStats, error)
}

const (
	ScopeAll      = "all"
	ScopeEmployer = "employer"
	ScopeTalent   = "talent"
)

type ContractScope struct {
	Kind string
	ID   uuid.UUID
}

type ContractStats struct {
	Total           int     `json:"total"`
	Active          int     `json:"active"`
	Completed       int     `json:"completed"`
	Terminated      int     `json:"terminated"`
	TotalValue      float64 `json:"total_value"`
	TotalCommission float64 `json:"total_commission"`
}
