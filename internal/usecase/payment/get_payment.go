package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/cache"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/usecase/common"
)

const (
	DefaultRevenueMonths = 12
	MaxRevenueMonths     = 36
)

type GetPaymentUseCase struct {
	store repository.Store
}

func NewGetPaymentUseCase(store repository.Store) *GetPaymentUseCase {
	return &GetPaymentUseCase{store: store}
}

func (uc *GetPaymentUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.Payment, error) {
	if err := common.RequireStaff(actor); err != nil {
		return nil, err
	}
	p, err := uc.store.Payments().FindByID(ctx, id)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrPaymentNotFound, "payment.find")
	}
	return p, nil
}

type ListContractPaymentsUseCase struct {
	store repository.Store
}

func NewListContractPaymentsUseCase(store repository.Store) *ListContractPaymentsUseCase {
	return &ListContractPaymentsUseCase{store: store}
}

// Execute: участники контракта и staff.
func (uc *ListContractPaymentsUseCase) Execute(ctx context.Context, actor valueobject.Actor, contractID uuid.UUID) ([]*entity.Payment, error) {
	contract, err := uc.store.Contracts().FindByID(ctx, contractID)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrContractNotFound, "contract.find")
	}
	profile, err := common.LoadProfile(ctx, uc.store, actor)
	if err != nil {
		return nil, err
	}
	if !profile.CanAccessContract(contract) {
		return nil, apperror.ErrForbidden
	}
	payments, err := uc.store.Payments().ListByContract(ctx, contractID)
	if err != nil {
		return nil, common.Translate(err, nil, "payment.list_by_contract")
	}
	return payments, nil
}

// Stats - агрегаты реестра с TTL кэшем.
type Stats struct {
	store repository.Store
	cache *cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewStats(store repository.Store, c *cache.Cache, ttl time.Duration) *Stats {
	return &Stats{store: store, cache: c, ttl: ttl, now: time.Now}
}

func (s *Stats) Totals(ctx context.Context, actor valueobject.Actor) (*repository.PaymentStats, error) {
	if err := common.RequireStaff(actor); err != nil {
		return nil, err
	}
	v, err := s.cache.GetOrSet(ctx, cache.PaymentStatsKey(), s.ttl, func(ctx context.Context) (any, error) {
		stats, err := s.store.Payments().Stats(ctx)
		if err != nil {
			return nil, common.Translate(err, nil, "payment.stats")
		}
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*repository.PaymentStats), nil
}

// MonthlyRevenue: months <= 0 даёт 12 месяцев, больше 36 - ошибка валидации.
func (s *Stats) MonthlyRevenue(ctx context.Context, actor valueobject.Actor, months int) ([]repository.MonthlyRevenue, error) {
	if err := common.RequireStaff(actor); err != nil {
		return nil, err
	}
	if months <= 0 {
		months = DefaultRevenueMonths
	}
	if months > MaxRevenueMonths {
		return nil, apperror.Validation("слишком большой период", map[string]string{"months": "не больше 36"})
	}
	v, err := s.cache.GetOrSet(ctx, cache.MonthlyRevenueKey(months), s.ttl, func(ctx context.Context) (any, error) {
		rows, err := s.store.Payments().MonthlyRevenue(ctx, months, s.now())
		if err != nil {
			return nil, common.Translate(err, nil, "payment.monthly_revenue")
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]repository.MonthlyRevenue), nil
}
