package workflow

import (
	"context"
	"time"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OutboxDispatcher publishes durable activity events to Pub/Sub after the
// mutation that produced them has been persisted. At-least-once: a crash
// between publish and mark-processed re-publishes, and consumers dedupe on
// the record id.
type OutboxDispatcher struct {
	DB        *gorm.DB
	Logger    *logrus.Logger
	WorkerID  string
	BatchSize int
	Interval  time.Duration
	LockTTL   time.Duration
}

func NewOutboxDispatcher(db *gorm.DB, logger *logrus.Logger) *OutboxDispatcher {
	return &OutboxDispatcher{
		DB:        db,
		Logger:    logger,
		WorkerID:  "dispatch-" + time.Now().Format("20060102-150405.000"),
		BatchSize: 50,
		Interval:  2 * time.Second,
		LockTTL:   30 * time.Second,
	}
}

func (d *OutboxDispatcher) Run(ctx context.Context) {
	if d == nil || d.DB == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.processOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.Interval):
		}
	}
}

func (d *OutboxDispatcher) processOnce(ctx context.Context) {
	now := time.Now().UTC()
	staleBefore := now.Add(-d.LockTTL)

	var claimed []models.ActivityEventRecord
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.
			Where("is_processed = 0").
			Where("(locked_at IS NULL OR locked_at <= ?)", staleBefore).
			Order("id ASC").
			Limit(d.BatchSize).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		if err := q.Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}
		ids := make([]int, 0, len(claimed))
		for _, rec := range claimed {
			ids = append(ids, rec.ID)
		}
		return tx.Model(&models.ActivityEventRecord{}).
			Where("id IN ?", ids).
			Update("locked_at", now).Error
	})
	if err != nil {
		config.LogError(d.Logger, "outboxDispatcher.go", "processOnce", "claim batch", d.WorkerID, err)
		return
	}

	for _, rec := range claimed {
		d.publishOne(ctx, rec)
	}
}

func (d *OutboxDispatcher) publishOne(ctx context.Context, rec models.ActivityEventRecord) {
	msg := config.ActivityMessage{
		ID:            rec.ID,
		OrgId:         rec.OrgId,
		Type:          rec.Type,
		EntityId:      rec.EntityId,
		ActorId:       rec.ActorId,
		ActorName:     rec.ActorName,
		OccurredAt:    rec.OccurredAt,
		CorrelationId: rec.CorrelationId,
	}

	publishCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := config.PublishActivityEvent(publishCtx, msg); err != nil {
		// leave the record unprocessed; the next pass (or worker) retries
		config.LogError(d.Logger, "outboxDispatcher.go", "publishOne", "PublishActivityEvent", rec.ID, err)
		return
	}

	now := time.Now().UTC()
	err := d.DB.WithContext(ctx).Model(&models.ActivityEventRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{"is_processed": true, "published_at": now}).Error
	if err != nil {
		config.LogError(d.Logger, "outboxDispatcher.go", "publishOne", "mark processed", rec.ID, err)
	}
}
