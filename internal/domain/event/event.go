package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

type Type string

const (
	JobCreated       Type = "job.created"
	JobUpdated       Type = "job.updated"
	JobStatusChanged Type = "job.status_changed"

	ApplicationSubmitted             Type = "application.submitted"
	ApplicationStatusChanged         Type = "application.status_changed"
	ApplicationWithdrawn             Type = "application.withdrawn"
	ApplicationRecommendationToggled Type = "application.recommendation_toggled"
	ApplicationAccepted              Type = "application.accepted"

	ContractCreated       Type = "contract.created"
	ContractUpdated       Type = "contract.updated"
	ContractStatusChanged Type = "contract.status_changed"

	PaymentRecorded      Type = "payment.recorded"
	PaymentStatusChanged Type = "payment.status_changed"
	PaymentRefunded      Type = "payment.refunded"
)

const (
	EntityJob         = "job"
	EntityApplication = "application"
	EntityContract    = "contract"
	EntityPayment     = "payment"
)

// Event описывает один переход состояния для аудита и push-уведомлений.
type Event struct {
	ID         uuid.UUID
	Type       Type
	EntityType string
	EntityID   uuid.UUID
	ActorID    uuid.UUID
	ActorRole  valueobject.Role
	From       string
	To         string
	Payload    map[string]any
	OccurredAt time.Time

	// Recipients - пользователи, которым событие уходит по websocket. В аудит не пишется.
	Recipients []uuid.UUID
}

func New(t Type, entityType string, entityID uuid.UUID, actor valueobject.Actor) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Payload:    map[string]any{},
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) Transition(from, to string) Event {
	e.From = from
	e.To = to
	return e
}

func (e Event) With(key string, value any) Event {
	payload := make(map[string]any, len(e.Payload)+1)
	for k, v := range e.Payload {
		payload[k] = v
	}
	payload[key] = value
	e.Payload = payload
	return e
}

func (e Event) NotifyUsers(ids ...uuid.UUID) Event {
	recipients := append([]uuid.UUID(nil), e.Recipients...)
	for _, id := range ids {
		if id != uuid.Nil {
			recipients = append(recipients, id)
		}
	}
	e.Recipients = recipients
	return e
}

// Publisher получает события после фиксации транзакции. Ошибки доставки не возвращаются.
type Publisher interface {
	Publish(ctx context.Context, events ...Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...Event) {}

// Nop отбрасывает события.
var Nop Publisher = nopPublisher{}
