// Package reports computes read-side compliance aggregates. Everything here
// is pure over persisted documents plus a caller-supplied clock; nothing is
// cached or stored, so the numbers can never go stale.
package reports

import (
	"time"

	"bitbucket.org/northguard/safety_backend/models"
	"bitbucket.org/northguard/safety_backend/utils"
	"github.com/shopspring/decimal"
)

type InspectionSummary struct {
	ScheduledCount     int             `json:"scheduled_count"`
	OverdueCount       int             `json:"overdue_count"`
	CompletedThisMonth int             `json:"completed_this_month"`
	PassRate           decimal.Decimal `json:"pass_rate"`
	OpenFindingsCount  int             `json:"open_findings_count"`
}

func Summarize(inspections []*models.Inspection, findings []*models.Finding, now time.Time) *InspectionSummary {
	summary := &InspectionSummary{PassRate: decimal.Zero}

	completedWithResult := 0
	passed := 0
	for _, inspection := range inspections {
		switch inspection.Status {
		case models.InspectionStatusScheduled:
			summary.ScheduledCount++
			if inspection.CalculatedStatus(now) == models.CalculatedStatusOverdue {
				summary.OverdueCount++
			}
		case models.InspectionStatusCompleted:
			if inspection.CompletedAt != nil && utils.SameCalendarMonth(*inspection.CompletedAt, now) {
				summary.CompletedThisMonth++
			}
			if inspection.OverallResult != nil {
				completedWithResult++
				if *inspection.OverallResult == models.OverallResultPass {
					passed++
				}
			}
		}
	}
	// 0 when nothing has completed, avoiding division by zero
	if completedWithResult > 0 {
		summary.PassRate = decimal.NewFromInt(int64(passed)).
			Div(decimal.NewFromInt(int64(completedWithResult))).Round(4)
	}

	for _, finding := range findings {
		if finding.Status != models.FindingStatusVerified {
			summary.OpenFindingsCount++
		}
	}
	return summary
}
