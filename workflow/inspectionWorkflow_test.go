package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"bitbucket.org/northguard/safety_backend/storage"
	"bitbucket.org/northguard/safety_backend/utils"
	"github.com/stretchr/testify/require"
)

// NOTE: These tests are intentionally DB-free. They run the engine against the
// in-memory store, which applies the same optimistic version guard as the
// MySQL-backed store. DB integration is covered by environments that can run
// MySQL.

const testOrg = "org-1"

type fakeSink struct {
	events []models.ActivityEvent
}

func (s *fakeSink) Emit(_ context.Context, event models.ActivityEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *fakeSink) typesEmitted() []models.ActivityEventType {
	out := make([]models.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestEngine(now time.Time) (*Engine, *models.StoreCatalog, *fakeSink) {
	store := storage.NewMemStore()
	catalog := models.NewStoreCatalog(store)
	catalog.Now = func() time.Time { return now }
	sink := &fakeSink{}
	engine := NewEngine(store, catalog, sink, config.GetLogger())
	engine.Clock = FixedClock{Instant: now}
	return engine, catalog, sink
}

func seedTemplate(t *testing.T, catalog *models.StoreCatalog, items []models.ChecklistItemDef) *models.InspectionTemplate {
	t.Helper()
	template, err := catalog.CreateTemplate(context.Background(), testOrg, &models.NewInspectionTemplate{
		Name:      "Monthly Site Walkthrough",
		Type:      models.InspectionTypeSite,
		Frequency: models.InspectionFrequencyMonthly,
		Items:     items,
	})
	require.NoError(t, err)
	return template
}

func statusPtr(s models.ChecklistItemStatus) *models.ChecklistItemStatus { return &s }

func TestScheduleInspection_ChecklistEmptyUntilStart(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, catalog, _ := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{
		{ItemText: "Fire extinguishers charged", IsCritical: true},
	})

	inspection, err := engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now.AddDate(0, 0, 7),
		Location:      "Yard B",
	})
	require.NoError(t, err)
	require.Equal(t, models.InspectionStatusScheduled, inspection.Status)
	require.Empty(t, inspection.ChecklistItems)
	require.Equal(t, template.Name, inspection.TemplateName)
}

func TestScheduleInspection_InactiveTemplateRejected(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, catalog, _ := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{{ItemText: "Guard rails in place"}})

	_, err := catalog.DeactivateTemplate(context.Background(), testOrg, template.Id)
	require.NoError(t, err)

	_, err = engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now.AddDate(0, 0, 1),
	})
	require.True(t, errors.Is(err, utils.ErrValidation))
}

func TestStartInspection_SnapshotsTemplateChecklist(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, catalog, _ := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{
		{Section: "A", ItemText: "Exit routes clear"},
		{Section: "A", ItemText: "Extinguishers charged", IsCritical: true},
		{Section: "B", ItemText: "PPE stocked"},
	})

	inspection, err := engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now.AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	started, err := engine.StartInspection(context.Background(), testOrg, inspection.Id, "u-7", "Aye Chan")
	require.NoError(t, err)
	require.Equal(t, models.InspectionStatusInProgress, started.Status)
	require.NotNil(t, started.StartedAt)
	require.Len(t, started.ChecklistItems, 3)
	for i, item := range started.ChecklistItems {
		require.Equal(t, template.Items[i].Id, item.Id)
		require.Equal(t, template.Items[i].ItemText, item.ItemText)
		require.Equal(t, models.ChecklistItemStatusPending, item.Status)
	}

	// later template edits must not touch the in-flight snapshot
	_, err = catalog.UpdateTemplate(context.Background(), testOrg, template.Id, &models.NewInspectionTemplate{
		Name:      template.Name,
		Type:      template.Type,
		Frequency: template.Frequency,
		Items:     []models.ChecklistItemDef{{ItemText: "Completely different item"}},
	})
	require.NoError(t, err)

	reloaded, err := engine.GetInspection(context.Background(), testOrg, inspection.Id)
	require.NoError(t, err)
	require.Len(t, reloaded.ChecklistItems, 3)
	require.Equal(t, "Exit routes clear", reloaded.ChecklistItems[0].ItemText)
}

func TestStartInspection_Guards(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, catalog, _ := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{{ItemText: "Exit routes clear"}})

	inspection, err := engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now.AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	_, err = engine.StartInspection(context.Background(), testOrg, inspection.Id, "", "   ")
	require.True(t, errors.Is(err, utils.ErrPreconditionFailed))

	_, err = engine.StartInspection(context.Background(), testOrg, inspection.Id, "u-1", "Aye Chan")
	require.NoError(t, err)

	// starting twice is a precondition failure, not a transition error
	_, err = engine.StartInspection(context.Background(), testOrg, inspection.Id, "u-1", "Aye Chan")
	require.True(t, errors.Is(err, utils.ErrPreconditionFailed))
}

func TestUpdateChecklistItem(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, catalog, _ := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{{ItemText: "Exit routes clear"}})

	inspection, err := engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now,
	})
	require.NoError(t, err)

	// not started yet: items cannot be touched
	_, err = engine.UpdateChecklistItem(context.Background(), testOrg, inspection.Id, "whatever", &models.UpdateChecklistItemInput{})
	require.True(t, errors.Is(err, utils.ErrPreconditionFailed))

	started, err := engine.StartInspection(context.Background(), testOrg, inspection.Id, "u-1", "Aye Chan")
	require.NoError(t, err)

	_, err = engine.UpdateChecklistItem(context.Background(), testOrg, inspection.Id, "no-such-item", &models.UpdateChecklistItemInput{})
	require.True(t, errors.Is(err, utils.ErrNotFound))

	notes := "blocked by pallet stack"
	updated, err := engine.UpdateChecklistItem(context.Background(), testOrg, inspection.Id, started.ChecklistItems[0].Id, &models.UpdateChecklistItemInput{
		Status: statusPtr(models.ChecklistItemStatusUnsatisfactory),
		Notes:  &notes,
		Photos: []string{"photos/abc.jpg"},
	})
	require.NoError(t, err)
	require.Equal(t, models.ChecklistItemStatusUnsatisfactory, updated.ChecklistItems[0].Status)
	require.Equal(t, notes, updated.ChecklistItems[0].Notes)
	require.Equal(t, []string{"photos/abc.jpg"}, updated.ChecklistItems[0].Photos)
}

func TestCompleteInspection_PendingItemsBlock(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, catalog, _ := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{
		{ItemText: "Exit routes clear"},
		{ItemText: "Extinguishers charged"},
	})

	inspection, err := engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now,
	})
	require.NoError(t, err)
	started, err := engine.StartInspection(context.Background(), testOrg, inspection.Id, "u-1", "Aye Chan")
	require.NoError(t, err)

	_, err = engine.UpdateChecklistItem(context.Background(), testOrg, inspection.Id, started.ChecklistItems[0].Id, &models.UpdateChecklistItemInput{
		Status: statusPtr(models.ChecklistItemStatusSatisfactory),
	})
	require.NoError(t, err)

	_, _, err = engine.CompleteInspection(context.Background(), testOrg, inspection.Id, "")
	require.True(t, errors.Is(err, utils.ErrPreconditionFailed))
	require.Contains(t, err.Error(), "1 checklist item(s) still pending")
}

func TestCompleteInspection_CriticalUnsatisfactoryFails(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, catalog, sink := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{
		{ItemText: "Exit routes clear"},
		{ItemText: "Extinguishers charged", IsCritical: true},
	})

	inspection, err := engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now,
	})
	require.NoError(t, err)
	started, err := engine.StartInspection(context.Background(), testOrg, inspection.Id, "u-1", "Aye Chan")
	require.NoError(t, err)

	_, err = engine.UpdateChecklistItem(context.Background(), testOrg, inspection.Id, started.ChecklistItems[0].Id, &models.UpdateChecklistItemInput{
		Status: statusPtr(models.ChecklistItemStatusSatisfactory),
	})
	require.NoError(t, err)
	_, err = engine.UpdateChecklistItem(context.Background(), testOrg, inspection.Id, started.ChecklistItems[1].Id, &models.UpdateChecklistItemInput{
		Status: statusPtr(models.ChecklistItemStatusUnsatisfactory),
	})
	require.NoError(t, err)

	completed, unsatisfactory, err := engine.CompleteInspection(context.Background(), testOrg, inspection.Id, "hallway B blocked")
	require.NoError(t, err)
	require.Equal(t, models.InspectionStatusCompleted, completed.Status)
	require.NotNil(t, completed.OverallResult)
	require.Equal(t, models.OverallResultFail, *completed.OverallResult)
	require.Equal(t, 1, unsatisfactory)
	require.Equal(t, []models.ActivityEventType{models.ActivityInspectionCompleted}, sink.typesEmitted())

	// completion is terminal
	_, _, err = engine.CompleteInspection(context.Background(), testOrg, inspection.Id, "")
	require.True(t, errors.Is(err, utils.ErrInvalidTransition))
}

func TestCompleteInspection_AllSatisfactoryPasses(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, catalog, _ := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{{ItemText: "Exit routes clear"}})

	inspection, err := engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now,
	})
	require.NoError(t, err)
	started, err := engine.StartInspection(context.Background(), testOrg, inspection.Id, "u-1", "Aye Chan")
	require.NoError(t, err)
	_, err = engine.UpdateChecklistItem(context.Background(), testOrg, inspection.Id, started.ChecklistItems[0].Id, &models.UpdateChecklistItemInput{
		Status: statusPtr(models.ChecklistItemStatusSatisfactory),
	})
	require.NoError(t, err)

	completed, unsatisfactory, err := engine.CompleteInspection(context.Background(), testOrg, inspection.Id, "")
	require.NoError(t, err)
	require.Equal(t, models.OverallResultPass, *completed.OverallResult)
	require.Zero(t, unsatisfactory)
}

func TestCancelInspection(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, catalog, sink := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{{ItemText: "Exit routes clear"}})

	inspection, err := engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now,
	})
	require.NoError(t, err)

	_, err = engine.CancelInspection(context.Background(), testOrg, inspection.Id, "  ")
	require.True(t, errors.Is(err, utils.ErrValidation))

	cancelled, err := engine.CancelInspection(context.Background(), testOrg, inspection.Id, "site shut for weather")
	require.NoError(t, err)
	require.Equal(t, models.InspectionStatusCancelled, cancelled.Status)
	require.Equal(t, "site shut for weather", cancelled.CancelReason)
	require.Equal(t, []models.ActivityEventType{models.ActivityInspectionCancelled}, sink.typesEmitted())

	// cancelling twice is a transition error
	_, err = engine.CancelInspection(context.Background(), testOrg, inspection.Id, "again")
	require.True(t, errors.Is(err, utils.ErrInvalidTransition))
}

func TestCancelInspection_NotAfterStart(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, catalog, _ := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{{ItemText: "Exit routes clear"}})

	inspection, err := engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now,
	})
	require.NoError(t, err)
	_, err = engine.StartInspection(context.Background(), testOrg, inspection.Id, "u-1", "Aye Chan")
	require.NoError(t, err)

	_, err = engine.CancelInspection(context.Background(), testOrg, inspection.Id, "changed my mind")
	require.True(t, errors.Is(err, utils.ErrInvalidTransition))
}

func TestUpdateInspectionDetails_OnlyWhileScheduled(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, catalog, _ := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{{ItemText: "Exit routes clear"}})

	inspection, err := engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now.AddDate(0, 0, 3),
		Location:      "Yard A",
	})
	require.NoError(t, err)

	newLocation := "Yard C"
	updated, err := engine.UpdateInspectionDetails(context.Background(), testOrg, inspection.Id, &models.UpdateInspectionDetailsInput{
		Location: &newLocation,
	})
	require.NoError(t, err)
	require.Equal(t, "Yard C", updated.Location)

	_, err = engine.StartInspection(context.Background(), testOrg, inspection.Id, "u-1", "Aye Chan")
	require.NoError(t, err)
	_, err = engine.UpdateInspectionDetails(context.Background(), testOrg, inspection.Id, &models.UpdateInspectionDetailsInput{
		Location: &newLocation,
	})
	require.True(t, errors.Is(err, utils.ErrPreconditionFailed))
}

func TestCalculatedStatus_OverdueOnReadOnly(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, catalog, _ := newTestEngine(now)
	template := seedTemplate(t, catalog, []models.ChecklistItemDef{{ItemText: "Exit routes clear"}})

	inspection, err := engine.ScheduleInspection(context.Background(), testOrg, &models.NewInspection{
		TemplateId:    template.Id,
		ScheduledDate: now.AddDate(0, 0, -2),
	})
	require.NoError(t, err)

	// persisted status stays scheduled; overdue is derived
	require.Equal(t, models.InspectionStatusScheduled, inspection.Status)
	require.Equal(t, models.CalculatedStatusOverdue, inspection.CalculatedStatus(now))
	require.Equal(t, string(models.InspectionStatusScheduled), inspection.CalculatedStatus(now.AddDate(0, 0, -5)))
}
