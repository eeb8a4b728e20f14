package workflow

import (
	"context"
	"strings"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"bitbucket.org/northguard/safety_backend/storage"
	"bitbucket.org/northguard/safety_backend/utils"
	"github.com/google/uuid"
)

// CreateFinding records a deficiency. The due date is auto-derived from risk
// level at creation time only; later risk edits never re-derive it.
func (e *Engine) CreateFinding(ctx context.Context, orgId string, input *models.NewFinding) (*models.Finding, error) {

	if strings.TrimSpace(input.Description) == "" {
		return nil, utils.NewValidationError("finding description is required")
	}
	if !input.RiskLevel.Valid() {
		return nil, utils.NewValidationError("invalid risk level")
	}
	if input.InspectionId != "" {
		// weak reference, but a dangling one at creation time is caller error
		if _, err := e.GetInspection(ctx, orgId, input.InspectionId); err != nil {
			return nil, utils.NewValidationError("inspection not found: " + input.InspectionId)
		}
	}

	now := e.Clock.Now()
	finding := &models.Finding{
		Id:               uuid.NewString(),
		OrgId:            orgId,
		InspectionId:     input.InspectionId,
		Description:      input.Description,
		Location:         input.Location,
		HazardCategory:   input.HazardCategory,
		RiskLevel:        input.RiskLevel,
		Status:           models.FindingStatusOpen,
		DueDate:          models.CorrectionDueDate(input.RiskLevel, now),
		AssignedTo:       input.AssignedTo,
		CorrectiveAction: input.CorrectiveAction,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := e.Store.Insert(ctx, storage.CollectionFindings, orgId, finding.Id, finding); err != nil {
		config.LogError(e.Logger, "findingWorkflow.go", "CreateFinding", "Insert", finding.Id, err)
		return nil, err
	}

	e.emit(ctx, orgId, models.ActivityFindingCreated, finding.Id)
	return finding, nil
}

// SetFindingStatus advances the corrective-action lifecycle. Transitions are
// forward-only: open -> in_progress -> corrected -> verified.
func (e *Engine) SetFindingStatus(ctx context.Context, orgId string, id string, input *models.SetFindingStatusInput) (*models.Finding, error) {

	if !input.Status.Valid() {
		return nil, utils.NewValidationError("invalid finding status")
	}

	finding, version, err := storage.GetAs[models.Finding](ctx, e.Store, storage.CollectionFindings, orgId, id)
	if err != nil {
		return nil, err
	}
	if !finding.Status.CanTransitionTo(input.Status) {
		return nil, utils.NewInvalidTransition("finding", id, string(finding.Status), string(input.Status))
	}

	now := e.Clock.Now()
	switch input.Status {
	case models.FindingStatusCorrected:
		if strings.TrimSpace(input.CorrectedBy) == "" {
			return nil, utils.NewValidationError("corrected_by is required to mark corrected")
		}
		finding.CorrectedBy = input.CorrectedBy
		finding.CorrectedDate = &now
	case models.FindingStatusVerified:
		if strings.TrimSpace(input.VerifiedBy) == "" {
			return nil, utils.NewValidationError("verified_by is required to mark verified")
		}
		finding.VerifiedBy = input.VerifiedBy
		finding.VerifiedDate = &now
	}
	finding.Status = input.Status
	finding.UpdatedAt = now

	if err := e.Store.Put(ctx, storage.CollectionFindings, orgId, id, finding, version); err != nil {
		config.LogError(e.Logger, "findingWorkflow.go", "SetFindingStatus", "Put", id, err)
		return nil, err
	}

	e.emit(ctx, orgId, models.ActivityFindingStatusChanged, id)
	return finding, nil
}

// UpdateFinding is the edit path for open/in_progress findings. A supplied
// due date overwrites the stored one directly; risk-level edits here never
// recompute it.
func (e *Engine) UpdateFinding(ctx context.Context, orgId string, id string, input *models.UpdateFindingInput) (*models.Finding, error) {

	finding, version, err := storage.GetAs[models.Finding](ctx, e.Store, storage.CollectionFindings, orgId, id)
	if err != nil {
		return nil, err
	}
	if finding.IsImmutable() {
		return nil, utils.NewPreconditionFailed("finding", id, string(finding.Status), "corrected or verified findings are immutable")
	}

	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, utils.NewValidationError("finding description is required")
		}
		finding.Description = *input.Description
	}
	if input.Location != nil {
		finding.Location = *input.Location
	}
	if input.HazardCategory != nil {
		finding.HazardCategory = *input.HazardCategory
	}
	if input.RiskLevel != nil {
		if !input.RiskLevel.Valid() {
			return nil, utils.NewValidationError("invalid risk level")
		}
		finding.RiskLevel = *input.RiskLevel
	}
	if input.AssignedTo != nil {
		finding.AssignedTo = *input.AssignedTo
	}
	if input.CorrectiveAction != nil {
		finding.CorrectiveAction = *input.CorrectiveAction
	}
	if input.DueDate != nil {
		finding.DueDate = *input.DueDate
	}
	finding.UpdatedAt = e.Clock.Now()

	if err := e.Store.Put(ctx, storage.CollectionFindings, orgId, id, finding, version); err != nil {
		config.LogError(e.Logger, "findingWorkflow.go", "UpdateFinding", "Put", id, err)
		return nil, err
	}
	return finding, nil
}

// LinkCapa attaches a CAPA reference. This is the one edit allowed on
// corrected/verified findings.
func (e *Engine) LinkCapa(ctx context.Context, orgId string, id string, capaId string) (*models.Finding, error) {

	if strings.TrimSpace(capaId) == "" {
		return nil, utils.NewValidationError("capa id is required")
	}

	finding, version, err := storage.GetAs[models.Finding](ctx, e.Store, storage.CollectionFindings, orgId, id)
	if err != nil {
		return nil, err
	}

	finding.LinkedCapaId = capaId
	finding.UpdatedAt = e.Clock.Now()

	if err := e.Store.Put(ctx, storage.CollectionFindings, orgId, id, finding, version); err != nil {
		config.LogError(e.Logger, "findingWorkflow.go", "LinkCapa", "Put", id, err)
		return nil, err
	}
	return finding, nil
}

func (e *Engine) GetFinding(ctx context.Context, orgId string, id string) (*models.Finding, error) {
	finding, _, err := storage.GetAs[models.Finding](ctx, e.Store, storage.CollectionFindings, orgId, id)
	return finding, err
}

func (e *Engine) ListFindings(ctx context.Context, orgId string) ([]*models.Finding, error) {
	return storage.ListAs[models.Finding](ctx, e.Store, storage.CollectionFindings, orgId)
}
