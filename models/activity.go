package models

import (
	"context"
	"strconv"
	"time"

	"bitbucket.org/northguard/safety_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityEvent is what the workflow engine hands to the event sink.
// Delivery (notification UI, feeds) is entirely downstream.
type ActivityEvent struct {
	OrgId      string            `json:"org_id"`
	Type       ActivityEventType `json:"type"`
	EntityId   string            `json:"entity_id"`
	ActorId    string            `json:"actor_id"`
	ActorName  string            `json:"actor_name"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// EventSink receives engine events fire-and-forget. Implementations must not
// make workflow mutations fail: the engine logs sink errors and moves on.
type EventSink interface {
	Emit(ctx context.Context, event ActivityEvent) error
}

// ActivityEventRecord implements the transactional outbox: the engine writes
// the record durably and the outbox dispatcher publishes to Pub/Sub after the
// fact. At-least-once delivery; consumers dedupe on record id.
type ActivityEventRecord struct {
	ID            int        `gorm:"primary_key" json:"id"`
	OrgId         string     `gorm:"index;size:64;not null" json:"org_id"`
	Type          string     `gorm:"size:64;not null" json:"type"`
	EntityId      string     `gorm:"size:64;not null" json:"entity_id"`
	ActorId       string     `gorm:"size:64" json:"actor_id"`
	ActorName     string     `gorm:"size:100" json:"actor_name"`
	OccurredAt    time.Time  `gorm:"not null" json:"occurred_at"`
	CorrelationId string     `gorm:"size:64" json:"correlation_id"`
	IsProcessed   bool       `gorm:"index;not null;default:false" json:"is_processed"`
	LockedAt      *time.Time `json:"locked_at"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// OutboxSink writes activity events as outbox records.
type OutboxSink struct {
	DB *gorm.DB
}

func NewOutboxSink(db *gorm.DB) *OutboxSink {
	return &OutboxSink{DB: db}
}

func (s *OutboxSink) Emit(ctx context.Context, event ActivityEvent) error {
	record := ActivityEventRecord{
		OrgId:         event.OrgId,
		Type:          string(event.Type),
		EntityId:      event.EntityId,
		ActorId:       event.ActorId,
		ActorName:     event.ActorName,
		OccurredAt:    event.OccurredAt,
		CorrelationId: correlationIdFromContextOrNew(ctx),
		IsProcessed:   false,
	}
	return s.DB.WithContext(ctx).Create(&record).Error
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// ActorFromContext resolves the audit fields the identity provider put on the
// request context.
func ActorFromContext(ctx context.Context) (actorId string, actorName string) {
	if id, ok := utils.GetUserIdFromContext(ctx); ok {
		actorId = strconv.Itoa(id)
	}
	if name, ok := utils.GetUserNameFromContext(ctx); ok {
		actorName = name
	}
	return actorId, actorName
}
