package audit

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/goroutine"
	"github.com/ignatzorin/engagement-backend/internal/logger"
)

// Sink - получатель аудита: таблица audit_log, лог, websocket.
type Sink interface {
	Name() string
	Write(ctx context.Context, e event.Event) error
}

// Dispatcher рассылает события по всем sink после коммита.
// Ошибка одного sink логируется и не влияет на остальные и на бизнес-операцию.
type Dispatcher struct {
	sinks []Sink
	async bool
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

// Async переводит доставку в фоновую горутину, чтобы не задерживать ответ.
func (d *Dispatcher) Async() *Dispatcher {
	d.async = true
	return d
}

func (d *Dispatcher) Publish(ctx context.Context, events ...event.Event) {
	if len(events) == 0 {
		return
	}
	if d.async {
		goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
			d.deliver(ctx, events)
		})
		return
	}
	d.deliver(ctx, events)
}

func (d *Dispatcher) deliver(ctx context.Context, events []event.Event) {
	for _, e := range events {
		for _, sink := range d.sinks {
			if err := sink.Write(ctx, e); err != nil {
				logger.Log.WithFields(logrus.Fields{
					"sink":      sink.Name(),
					"event":     e.Type,
					"entity_id": e.EntityID,
					"error":     err.Error(),
				}).Warn("audit: не удалось записать событие")
			}
		}
	}
}

// StoreSink пишет события в audit_log.
type StoreSink struct {
	repo repository.AuditLogRepository
}

func NewStoreSink(repo repository.AuditLogRepository) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Name() string { return "store" }

func (s *StoreSink) Write(ctx context.Context, e event.Event) error {
	return s.repo.Save(ctx, e)
}

// LogSink дублирует переходы в структурированный лог.
type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Write(_ context.Context, e event.Event) error {
	logger.Log.WithFields(logrus.Fields{
		"event":       e.Type,
		"entity_type": e.EntityType,
		"entity_id":   e.EntityID,
		"actor_id":    e.ActorID,
		"actor_role":  e.ActorRole,
		"from":        e.From,
		"to":          e.To,
	}).Info("audit")
	return nil
}
