package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"bitbucket.org/northguard/safety_backend/models"
	"bitbucket.org/northguard/safety_backend/utils"
	"github.com/stretchr/testify/require"
)

func TestCreateFinding_DerivesDueDateFromRisk(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	engine, _, sink := newTestEngine(now)

	finding, err := engine.CreateFinding(context.Background(), testOrg, &models.NewFinding{
		Description: "Damaged guard rail on mezzanine",
		RiskLevel:   models.RiskLevelHigh,
		Location:    "Warehouse 2",
	})
	require.NoError(t, err)
	require.Equal(t, models.FindingStatusOpen, finding.Status)
	require.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), finding.DueDate)
	require.Equal(t, []models.ActivityEventType{models.ActivityFindingCreated}, sink.typesEmitted())
}

func TestCreateFinding_Validation(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	engine, _, _ := newTestEngine(now)

	_, err := engine.CreateFinding(context.Background(), testOrg, &models.NewFinding{
		Description: "   ",
		RiskLevel:   models.RiskLevelLow,
	})
	require.True(t, errors.Is(err, utils.ErrValidation))

	_, err = engine.CreateFinding(context.Background(), testOrg, &models.NewFinding{
		Description: "missing risk",
	})
	require.True(t, errors.Is(err, utils.ErrValidation))

	// a dangling inspection reference at creation time is caller error
	_, err = engine.CreateFinding(context.Background(), testOrg, &models.NewFinding{
		Description:  "linked to nothing",
		RiskLevel:    models.RiskLevelLow,
		InspectionId: "no-such-inspection",
	})
	require.True(t, errors.Is(err, utils.ErrValidation))
}

func TestSetFindingStatus_ForwardOnly(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	engine, _, sink := newTestEngine(created)

	finding, err := engine.CreateFinding(context.Background(), testOrg, &models.NewFinding{
		Description: "Damaged guard rail",
		RiskLevel:   models.RiskLevelHigh,
	})
	require.NoError(t, err)

	_, err = engine.SetFindingStatus(context.Background(), testOrg, finding.Id, &models.SetFindingStatusInput{
		Status: models.FindingStatusInProgress,
	})
	require.NoError(t, err)

	// correction on 2025-01-05, inside the 7-day window
	engine.Clock = FixedClock{Instant: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)}
	corrected, err := engine.SetFindingStatus(context.Background(), testOrg, finding.Id, &models.SetFindingStatusInput{
		Status:      models.FindingStatusCorrected,
		CorrectedBy: "Jane Doe",
	})
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", corrected.CorrectedBy)
	require.NotNil(t, corrected.CorrectedDate)
	require.False(t, corrected.CorrectedDate.After(corrected.DueDate))

	// backward and same-state moves are rejected
	_, err = engine.SetFindingStatus(context.Background(), testOrg, finding.Id, &models.SetFindingStatusInput{
		Status: models.FindingStatusInProgress,
	})
	require.True(t, errors.Is(err, utils.ErrInvalidTransition))
	_, err = engine.SetFindingStatus(context.Background(), testOrg, finding.Id, &models.SetFindingStatusInput{
		Status:      models.FindingStatusCorrected,
		CorrectedBy: "Jane Doe",
	})
	require.True(t, errors.Is(err, utils.ErrInvalidTransition))

	verified, err := engine.SetFindingStatus(context.Background(), testOrg, finding.Id, &models.SetFindingStatusInput{
		Status:     models.FindingStatusVerified,
		VerifiedBy: "Safety Officer",
	})
	require.NoError(t, err)
	require.NotNil(t, verified.VerifiedDate)

	require.Equal(t, []models.ActivityEventType{
		models.ActivityFindingCreated,
		models.ActivityFindingStatusChanged,
		models.ActivityFindingStatusChanged,
		models.ActivityFindingStatusChanged,
	}, sink.typesEmitted())
}

func TestSetFindingStatus_CorrectedRequiresActor(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	engine, _, _ := newTestEngine(now)

	finding, err := engine.CreateFinding(context.Background(), testOrg, &models.NewFinding{
		Description: "Damaged guard rail",
		RiskLevel:   models.RiskLevelMedium,
	})
	require.NoError(t, err)

	_, err = engine.SetFindingStatus(context.Background(), testOrg, finding.Id, &models.SetFindingStatusInput{
		Status: models.FindingStatusCorrected,
	})
	require.True(t, errors.Is(err, utils.ErrValidation))

	_, err = engine.SetFindingStatus(context.Background(), testOrg, finding.Id, &models.SetFindingStatusInput{
		Status: models.FindingStatusVerified,
	})
	require.True(t, errors.Is(err, utils.ErrValidation))
}

func TestUpdateFinding(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	engine, _, _ := newTestEngine(now)

	finding, err := engine.CreateFinding(context.Background(), testOrg, &models.NewFinding{
		Description: "Damaged guard rail",
		RiskLevel:   models.RiskLevelCritical,
	})
	require.NoError(t, err)
	originalDue := finding.DueDate

	// risk edits never re-derive the due date
	lower := models.RiskLevelLow
	updated, err := engine.UpdateFinding(context.Background(), testOrg, finding.Id, &models.UpdateFindingInput{
		RiskLevel: &lower,
	})
	require.NoError(t, err)
	require.Equal(t, models.RiskLevelLow, updated.RiskLevel)
	require.Equal(t, originalDue, updated.DueDate)

	// an explicit due date overwrites directly
	newDue := now.AddDate(0, 1, 0)
	updated, err = engine.UpdateFinding(context.Background(), testOrg, finding.Id, &models.UpdateFindingInput{
		DueDate: &newDue,
	})
	require.NoError(t, err)
	require.Equal(t, newDue, updated.DueDate)

	_, err = engine.SetFindingStatus(context.Background(), testOrg, finding.Id, &models.SetFindingStatusInput{
		Status:      models.FindingStatusCorrected,
		CorrectedBy: "Jane Doe",
	})
	require.NoError(t, err)

	// corrected findings are frozen except for the CAPA link
	desc := "edited after correction"
	_, err = engine.UpdateFinding(context.Background(), testOrg, finding.Id, &models.UpdateFindingInput{
		Description: &desc,
	})
	require.True(t, errors.Is(err, utils.ErrPreconditionFailed))

	linked, err := engine.LinkCapa(context.Background(), testOrg, finding.Id, "capa-42")
	require.NoError(t, err)
	require.Equal(t, "capa-42", linked.LinkedCapaId)
}

func TestSweepOverdueFindings(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	engine, _, sink := newTestEngine(created)

	// critical: due in 1 day; low: due in 90 days
	_, err := engine.CreateFinding(context.Background(), testOrg, &models.NewFinding{
		Description: "Exposed wiring",
		RiskLevel:   models.RiskLevelCritical,
	})
	require.NoError(t, err)
	_, err = engine.CreateFinding(context.Background(), testOrg, &models.NewFinding{
		Description: "Faded signage",
		RiskLevel:   models.RiskLevelLow,
	})
	require.NoError(t, err)

	sink.events = nil
	engine.Clock = FixedClock{Instant: created.AddDate(0, 0, 3)}

	emitted, err := engine.SweepOverdueFindings(context.Background(), testOrg)
	require.NoError(t, err)
	require.Equal(t, 1, emitted)
	require.Equal(t, []models.ActivityEventType{models.ActivityFindingOverdue}, sink.typesEmitted())
}
