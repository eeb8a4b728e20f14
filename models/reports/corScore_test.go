package reports

import (
	"testing"
	"time"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestScoreCOR_WeightedComposite(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	policy := config.DefaultScoringPolicy()

	inspections := []*models.Inspection{
		{
			Status:        models.InspectionStatusCompleted,
			ScheduledDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			CompletedAt:   timePtr(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)),
			OverallResult: resultPtr(models.OverallResultPass),
		},
		{
			Status:        models.InspectionStatusCompleted,
			ScheduledDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			CompletedAt:   timePtr(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)),
			OverallResult: resultPtr(models.OverallResultFail),
		},
	}
	findings := []*models.Finding{
		{
			Status:        models.FindingStatusCorrected,
			RiskLevel:     models.RiskLevelHigh,
			DueDate:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			CorrectedDate: timePtr(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)),
		},
		{
			Status:    models.FindingStatusInProgress,
			RiskLevel: models.RiskLevelHigh,
			DueDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	score := ScoreCOR(inspections, findings, now, policy)

	require.True(t, score.OnTimeCompletionRate.Equal(decimal.NewFromFloat(0.5)), "completion %s", score.OnTimeCompletionRate)
	require.True(t, score.PassRate.Equal(decimal.NewFromFloat(0.5)), "pass %s", score.PassRate)
	require.True(t, score.OnTimeCorrectionRate.Equal(decimal.NewFromFloat(0.5)), "correction %s", score.OnTimeCorrectionRate)

	// (0.5*0.4 + 0.5*0.3 + 0.5*0.3) * 100
	require.True(t, score.Score.Equal(decimal.NewFromInt(50)), "score %s", score.Score)

	// one overdue non-critical finding + pass rate under the floor
	require.Len(t, score.Recommendations, 2)
	require.Equal(t, "high", score.Recommendations[0].Priority)
	require.Equal(t, "high", score.Recommendations[1].Priority)
}

func TestScoreCOR_EmptyHistory(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	policy := config.DefaultScoringPolicy()

	score := ScoreCOR(nil, nil, now, policy)

	require.True(t, score.OnTimeCompletionRate.IsZero())
	require.True(t, score.PassRate.IsZero())
	// nothing to correct earns full credit rather than zeroing the component
	require.True(t, score.OnTimeCorrectionRate.Equal(decimal.NewFromInt(1)))
	require.True(t, score.Score.Equal(decimal.NewFromInt(30)), "score %s", score.Score)

	// no completion inside the activity window
	require.Len(t, score.Recommendations, 1)
	require.Equal(t, "medium", score.Recommendations[0].Priority)
}

func TestScoreCOR_CriticalOverdueLeads(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	policy := config.DefaultScoringPolicy()

	findings := []*models.Finding{
		{
			Status:    models.FindingStatusOpen,
			RiskLevel: models.RiskLevelCritical,
			DueDate:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	score := ScoreCOR(nil, findings, now, policy)

	require.NotEmpty(t, score.Recommendations)
	require.Equal(t, "critical", score.Recommendations[0].Priority)
}
