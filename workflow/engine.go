package workflow

import (
	"context"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"bitbucket.org/northguard/safety_backend/storage"
	"github.com/sirupsen/logrus"
)

// Engine owns the inspection and finding state machines. It applies pure
// transitions against one document at a time; every write goes through the
// store's optimistic version guard, so a stale write surfaces as
// concurrent_modification and the caller retries with a fresh read.
type Engine struct {
	Store   storage.Store
	Catalog models.TemplateCatalog
	Sink    models.EventSink
	Clock   Clock
	Logger  *logrus.Logger

	// ResultPolicy decides pass/conditional/fail at completion.
	ResultPolicy models.ResultPolicy
}

func NewEngine(store storage.Store, catalog models.TemplateCatalog, sink models.EventSink, logger *logrus.Logger) *Engine {
	return &Engine{
		Store:        store,
		Catalog:      catalog,
		Sink:         sink,
		Clock:        NewRealClock(),
		Logger:       logger,
		ResultPolicy: models.DefaultResultPolicy,
	}
}

// emit is fire-and-forget: sink failures are logged and never fail the
// mutation that triggered them.
func (e *Engine) emit(ctx context.Context, orgId string, eventType models.ActivityEventType, entityId string) {
	if e.Sink == nil {
		return
	}
	actorId, actorName := models.ActorFromContext(ctx)
	event := models.ActivityEvent{
		OrgId:      orgId,
		Type:       eventType,
		EntityId:   entityId,
		ActorId:    actorId,
		ActorName:  actorName,
		OccurredAt: e.Clock.Now(),
	}
	if err := e.Sink.Emit(ctx, event); err != nil {
		config.LogError(e.Logger, "engine.go", "emit", string(eventType), entityId, err)
	}
}
