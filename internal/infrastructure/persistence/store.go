package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
)

// Store - репозитории поверх PostgreSQL. Вне транзакции запросы идут в пул,
// внутри Do - в *sqlx.Tx.
type Store struct {
	db *sqlx.DB
	repos
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, repos: repos{q: db}}
}

// Do выполняет fn в транзакции read committed. Ошибка или паника откатывают её.
func (s *Store) Do(ctx context.Context, fn func(tx repository.Repositories) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(repos{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", translateError(err))
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// repos привязаны к пулу или к транзакции.
type repos struct {
	q sqlx.ExtContext
}

func (r repos) Jobs() repository.JobRepository                 { return jobRepo{q: r.q} }
func (r repos) Applications() repository.ApplicationRepository { return applicationRepo{q: r.q} }
func (r repos) Contracts() repository.ContractRepository       { return contractRepo{q: r.q} }
func (r repos) Payments() repository.PaymentRepository         { return paymentRepo{q: r.q} }
func (r repos) Employers() repository.EmployerRepository       { return employerRepo{q: r.q} }
func (r repos) Talents() repository.TalentRepository           { return talentRepo{q: r.q} }
func (r repos) Skills() repository.SkillRepository             { return skillRepo{q: r.q} }
func (r repos) AuditLog() repository.AuditLogRepository        { return auditRepo{q: r.q} }

var _ repository.Store = (*Store)(nil)
