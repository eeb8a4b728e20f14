package workflow

import (
	"context"
	"fmt"
	"strings"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"bitbucket.org/northguard/safety_backend/storage"
	"bitbucket.org/northguard/safety_backend/utils"
	"github.com/google/uuid"
)

// ScheduleInspection creates a new inspection in state scheduled. The
// checklist stays empty until Start snapshots the template.
func (e *Engine) ScheduleInspection(ctx context.Context, orgId string, input *models.NewInspection) (*models.Inspection, error) {

	template, err := e.Catalog.GetTemplate(ctx, orgId, input.TemplateId)
	if err != nil {
		return nil, utils.NewValidationError("template not found: " + input.TemplateId)
	}
	if template.IsActive == nil || !*template.IsActive {
		return nil, utils.NewValidationError("template is not active: " + input.TemplateId)
	}

	now := e.Clock.Now()
	inspection := &models.Inspection{
		Id:             uuid.NewString(),
		OrgId:          orgId,
		TemplateId:     template.Id,
		TemplateName:   template.Name,
		Status:         models.InspectionStatusScheduled,
		ScheduledDate:  input.ScheduledDate,
		Location:       input.Location,
		InspectorName:  input.InspectorName,
		ChecklistItems: []*models.ChecklistItemInstance{},
		ScheduledAt:    now,
	}
	if err := e.Store.Insert(ctx, storage.CollectionInspections, orgId, inspection.Id, inspection); err != nil {
		config.LogError(e.Logger, "inspectionWorkflow.go", "ScheduleInspection", "Insert", inspection.Id, err)
		return nil, err
	}
	return inspection, nil
}

// StartInspection moves scheduled -> in_progress and snapshots the template's
// checklist into pending item instances. Later template edits never touch an
// in-flight or completed inspection.
func (e *Engine) StartInspection(ctx context.Context, orgId string, id string, inspectorId string, inspectorName string) (*models.Inspection, error) {

	inspection, version, err := storage.GetAs[models.Inspection](ctx, e.Store, storage.CollectionInspections, orgId, id)
	if err != nil {
		return nil, err
	}
	if inspection.Status != models.InspectionStatusScheduled {
		return nil, utils.NewPreconditionFailed("inspection", id, string(inspection.Status), "only scheduled inspections can be started")
	}
	if strings.TrimSpace(inspectorName) == "" {
		return nil, utils.NewPreconditionFailed("inspection", id, string(inspection.Status), "inspector name is required to start")
	}

	template, err := e.Catalog.GetTemplate(ctx, orgId, inspection.TemplateId)
	if err != nil {
		config.LogError(e.Logger, "inspectionWorkflow.go", "StartInspection", "GetTemplate", inspection.TemplateId, err)
		return nil, err
	}

	now := e.Clock.Now()
	inspection.Status = models.InspectionStatusInProgress
	inspection.InspectorId = inspectorId
	inspection.InspectorName = inspectorName
	inspection.ChecklistItems = models.SnapshotChecklist(template.Items)
	inspection.StartedAt = &now

	if err := e.Store.Put(ctx, storage.CollectionInspections, orgId, id, inspection, version); err != nil {
		config.LogError(e.Logger, "inspectionWorkflow.go", "StartInspection", "Put", id, err)
		return nil, err
	}
	return inspection, nil
}

// UpdateChecklistItem patches one item instance while the inspection is in
// progress. No aggregate is recomputed here; aggregation happens on read.
func (e *Engine) UpdateChecklistItem(ctx context.Context, orgId string, id string, itemId string, input *models.UpdateChecklistItemInput) (*models.Inspection, error) {

	inspection, version, err := storage.GetAs[models.Inspection](ctx, e.Store, storage.CollectionInspections, orgId, id)
	if err != nil {
		return nil, err
	}
	if inspection.Status != models.InspectionStatusInProgress {
		return nil, utils.NewPreconditionFailed("inspection", id, string(inspection.Status), "checklist items can only be updated while in progress")
	}

	item := inspection.FindChecklistItem(itemId)
	if item == nil {
		return nil, utils.NewNotFound("checklist_item", itemId)
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, utils.NewValidationError("invalid checklist item status")
		}
		item.Status = *input.Status
	}
	if input.Notes != nil {
		item.Notes = *input.Notes
	}
	if input.Photos != nil {
		item.Photos = input.Photos
	}

	if err := e.Store.Put(ctx, storage.CollectionInspections, orgId, id, inspection, version); err != nil {
		config.LogError(e.Logger, "inspectionWorkflow.go", "UpdateChecklistItem", "Put", id, err)
		return nil, err
	}
	return inspection, nil
}

// CompleteInspection finalizes an in-progress inspection. It returns the
// unsatisfactory-item count so the caller can decide whether to spawn
// findings; spawning is an explicit separate call to keep side effects
// composable.
func (e *Engine) CompleteInspection(ctx context.Context, orgId string, id string, completionNotes string) (*models.Inspection, int, error) {

	lock, err := e.acquireMutationLock(ctx, "inspection:"+id)
	if err != nil {
		return nil, 0, err
	}
	defer e.releaseMutationLock(ctx, lock)

	inspection, version, err := storage.GetAs[models.Inspection](ctx, e.Store, storage.CollectionInspections, orgId, id)
	if err != nil {
		return nil, 0, err
	}
	if inspection.Status != models.InspectionStatusInProgress {
		return nil, 0, utils.NewInvalidTransition("inspection", id, string(inspection.Status), "complete")
	}

	counts := models.AggregateChecklist(inspection.ChecklistItems)
	if counts.Pending > 0 {
		return nil, 0, utils.NewPreconditionFailed("inspection", id, string(inspection.Status),
			fmt.Sprintf("%d checklist item(s) still pending", counts.Pending))
	}

	result := e.ResultPolicy(inspection.ChecklistItems)
	now := e.Clock.Now()
	inspection.Status = models.InspectionStatusCompleted
	inspection.OverallResult = &result
	inspection.CompletionNotes = completionNotes
	inspection.CompletedAt = &now

	if err := e.Store.Put(ctx, storage.CollectionInspections, orgId, id, inspection, version); err != nil {
		config.LogError(e.Logger, "inspectionWorkflow.go", "CompleteInspection", "Put", id, err)
		return nil, 0, err
	}

	e.emit(ctx, orgId, models.ActivityInspectionCompleted, id)
	return inspection, counts.Unsatisfactory, nil
}

// CancelInspection is only reachable from scheduled. Once an inspection has
// been started or completed there is no compensating un-complete; a mistake
// means a new record.
func (e *Engine) CancelInspection(ctx context.Context, orgId string, id string, reason string) (*models.Inspection, error) {

	if strings.TrimSpace(reason) == "" {
		return nil, utils.NewValidationError("cancel reason is required")
	}

	lock, err := e.acquireMutationLock(ctx, "inspection:"+id)
	if err != nil {
		return nil, err
	}
	defer e.releaseMutationLock(ctx, lock)

	inspection, version, err := storage.GetAs[models.Inspection](ctx, e.Store, storage.CollectionInspections, orgId, id)
	if err != nil {
		return nil, err
	}
	if inspection.Status != models.InspectionStatusScheduled {
		return nil, utils.NewInvalidTransition("inspection", id, string(inspection.Status), "cancel")
	}

	now := e.Clock.Now()
	inspection.Status = models.InspectionStatusCancelled
	inspection.CancelReason = reason
	inspection.CancelledAt = &now

	if err := e.Store.Put(ctx, storage.CollectionInspections, orgId, id, inspection, version); err != nil {
		config.LogError(e.Logger, "inspectionWorkflow.go", "CancelInspection", "Put", id, err)
		return nil, err
	}

	e.emit(ctx, orgId, models.ActivityInspectionCancelled, id)
	return inspection, nil
}

// UpdateInspectionDetails edits schedule-time fields. Allowed only while the
// inspection is still scheduled.
func (e *Engine) UpdateInspectionDetails(ctx context.Context, orgId string, id string, input *models.UpdateInspectionDetailsInput) (*models.Inspection, error) {

	inspection, version, err := storage.GetAs[models.Inspection](ctx, e.Store, storage.CollectionInspections, orgId, id)
	if err != nil {
		return nil, err
	}
	if inspection.Status != models.InspectionStatusScheduled {
		return nil, utils.NewPreconditionFailed("inspection", id, string(inspection.Status), "details can only be edited while scheduled")
	}

	if input.ScheduledDate != nil {
		inspection.ScheduledDate = *input.ScheduledDate
	}
	if input.Location != nil {
		inspection.Location = *input.Location
	}
	if input.InspectorName != nil {
		inspection.InspectorName = *input.InspectorName
	}

	if err := e.Store.Put(ctx, storage.CollectionInspections, orgId, id, inspection, version); err != nil {
		config.LogError(e.Logger, "inspectionWorkflow.go", "UpdateInspectionDetails", "Put", id, err)
		return nil, err
	}
	return inspection, nil
}

func (e *Engine) GetInspection(ctx context.Context, orgId string, id string) (*models.Inspection, error) {
	inspection, _, err := storage.GetAs[models.Inspection](ctx, e.Store, storage.CollectionInspections, orgId, id)
	return inspection, err
}

func (e *Engine) ListInspections(ctx context.Context, orgId string) ([]*models.Inspection, error) {
	return storage.ListAs[models.Inspection](ctx, e.Store, storage.CollectionInspections, orgId)
}
