package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type paymentRepo struct{ run runner }

func (r paymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	return r.run(func(st *state) error {
		if _, ok := st.contracts[p.ContractID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := st.payments[p.ID]; ok {
			return repository.ErrUniqueViolation
		}
		st.payments[p.ID] = *p
		return nil
	})
}

func (r paymentRepo) Update(ctx context.Context, p *entity.Payment, expected valueobject.PaymentStatus) (int64, error) {
	var affected int64
	err := r.run(func(st *state) error {
		cur, ok := st.payments[p.ID]
		if !ok || cur.Status != expected {
			return nil
		}
		st.payments[p.ID] = *p
		affected = 1
		return nil
	})
	return affected, err
}

func (r paymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.run(func(st *state) error {
		p, ok := st.payments[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r paymentRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return r.FindByID(ctx, id)
}

func (r paymentRepo) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.run(func(st *state) error {
		for _, p := range st.payments {
			if p.ContractID == contractID {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, err
}

func (r paymentRepo) Stats(ctx context.Context) (*repository.PaymentStats, error) {
	stats := &repository.PaymentStats{}
	err := r.run(func(st *state) error {
		for _, p := range st.payments {
			stats.TotalPayments++
			switch p.Status {
			case valueobject.PaymentStatusCompleted:
				stats.CompletedCount++
				stats.CompletedAmount += p.Amount
				stats.CompletedCommission += p.CommissionAmount
			case valueobject.PaymentStatusPending:
				stats.PendingCount++
				stats.PendingAmount += p.Amount
			case valueobject.PaymentStatusRefunded:
				stats.RefundedCount++
				stats.RefundedAmount += p.Amount
			case valueobject.PaymentStatusFailed:
				stats.FailedCount++
			}
		}
		return nil
	})
	return stats, err
}

func (r paymentRepo) MonthlyRevenue(ctx context.Context, months int, now time.Time) ([]repository.MonthlyRevenue, error) {
	keys := repository.MonthKeys(months, now)
	buckets := make(map[string]*repository.MonthlyRevenue, len(keys))
	out := make([]repository.MonthlyRevenue, len(keys))
	for i, k := range keys {
		out[i].Month = k
		buckets[k] = &out[i]
	}
	err := r.run(func(st *state) error {
		for _, p := range st.payments {
			if p.Status != valueobject.PaymentStatusCompleted || p.PaidAt == nil {
				continue
			}
			b, ok := buckets[p.PaidAt.UTC().Format("2006-01")]
			if !ok {
				continue
			}
			b.Payments++
			b.Amount += p.Amount
			b.Commission += p.CommissionAmount
		}
		return nil
	})
	return out, err
}
