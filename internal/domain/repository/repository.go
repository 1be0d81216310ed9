package repository

import (
	"context"
	"errors"
)

// Ошибки хранилища, которые use case переводят в apperror.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrUniqueViolation = errors.New("unique constraint violation")
)

// Repositories - набор репозиториев, привязанных либо к пулу, либо к транзакции.
type Repositories interface {
	Jobs() JobRepository
	Applications() ApplicationRepository
	Contracts() ContractRepository
	Payments() PaymentRepository
	Employers() EmployerRepository
	Talents() TalentRepository
	Skills() SkillRepository
	AuditLog() AuditLogRepository
}

// UnitOfWork выполняет fn в одной транзакции. Ошибка из fn откатывает все записи.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Repositories) error) error
}

type Store interface {
	Repositories
	UnitOfWork
	Ping(ctx context.Context) error
}
