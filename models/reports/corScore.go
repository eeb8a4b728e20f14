package reports

import (
	"fmt"
	"time"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"github.com/shopspring/decimal"
)

type Recommendation struct {
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// CORScore is the certificate-of-recognition readiness composite. Score is
// 0 to 100; component rates are 0 to 1.
type CORScore struct {
	Score                decimal.Decimal  `json:"score"`
	OnTimeCompletionRate decimal.Decimal  `json:"on_time_completion_rate"`
	PassRate             decimal.Decimal  `json:"pass_rate"`
	OnTimeCorrectionRate decimal.Decimal  `json:"on_time_correction_rate"`
	Recommendations      []Recommendation `json:"recommendations"`
}

// ScoreCOR computes the weighted readiness composite and its recommendations.
func ScoreCOR(inspections []*models.Inspection, findings []*models.Finding, now time.Time, policy config.ScoringPolicy) *CORScore {
	score := &CORScore{
		OnTimeCompletionRate: decimal.Zero,
		PassRate:             decimal.Zero,
		OnTimeCorrectionRate: decimal.Zero,
		Recommendations:      []Recommendation{},
	}

	completed := 0
	onTime := 0
	withResult := 0
	passed := 0
	lastCompletion := time.Time{}
	for _, inspection := range inspections {
		if inspection.Status != models.InspectionStatusCompleted || inspection.CompletedAt == nil {
			continue
		}
		completed++
		deadline := inspection.ScheduledDate.AddDate(0, 0, policy.CompletionGraceDays)
		if !inspection.CompletedAt.After(deadline) {
			onTime++
		}
		if inspection.CompletedAt.After(lastCompletion) {
			lastCompletion = *inspection.CompletedAt
		}
		if inspection.OverallResult != nil {
			withResult++
			if *inspection.OverallResult == models.OverallResultPass {
				passed++
			}
		}
	}
	if completed > 0 {
		score.OnTimeCompletionRate = ratio(onTime, completed)
	}
	if withResult > 0 {
		score.PassRate = ratio(passed, withResult)
	}

	actioned := 0
	correctedOnTime := 0
	overdueCritical := 0
	overdueOther := 0
	for _, finding := range findings {
		if finding.IsOverdue(now) {
			if finding.RiskLevel == models.RiskLevelCritical {
				overdueCritical++
			} else {
				overdueOther++
			}
		}
		if finding.Status == models.FindingStatusOpen {
			continue
		}
		actioned++
		if finding.CorrectedDate != nil && !finding.CorrectedDate.After(finding.DueDate) {
			correctedOnTime++
		}
	}
	// No actioned findings means no correction record to judge; full credit
	// rather than zeroing a third of the composite.
	if actioned > 0 {
		score.OnTimeCorrectionRate = ratio(correctedOnTime, actioned)
	} else {
		score.OnTimeCorrectionRate = decimal.NewFromInt(1)
	}

	score.Score = score.OnTimeCompletionRate.Mul(policy.OnTimeCompletionWeightDecimal()).
		Add(score.PassRate.Mul(policy.PassRateWeightDecimal())).
		Add(score.OnTimeCorrectionRate.Mul(policy.OnTimeCorrectionWeightDecimal())).
		Mul(decimal.NewFromInt(100)).Round(1)

	if overdueCritical > 0 {
		score.Recommendations = append(score.Recommendations, Recommendation{
			Priority: "critical",
			Message:  fmt.Sprintf("%d critical finding(s) past corrective-action due date", overdueCritical),
		})
	}
	if overdueOther > 0 {
		score.Recommendations = append(score.Recommendations, Recommendation{
			Priority: "high",
			Message:  fmt.Sprintf("%d finding(s) past corrective-action due date", overdueOther),
		})
	}
	if withResult > 0 && score.PassRate.LessThan(policy.PassRateFloorDecimal()) {
		score.Recommendations = append(score.Recommendations, Recommendation{
			Priority: "high",
			Message:  fmt.Sprintf("inspection pass rate %s is below the %s floor", score.PassRate.StringFixed(2), policy.PassRateFloorDecimal().StringFixed(2)),
		})
	}
	windowStart := now.AddDate(0, 0, -policy.ActivityWindowDays)
	if lastCompletion.IsZero() || lastCompletion.Before(windowStart) {
		score.Recommendations = append(score.Recommendations, Recommendation{
			Priority: "medium",
			Message:  fmt.Sprintf("no inspections completed in the last %d days", policy.ActivityWindowDays),
		})
	}
	return score
}

func ratio(numerator, denominator int) decimal.Decimal {
	return decimal.NewFromInt(int64(numerator)).
		Div(decimal.NewFromInt(int64(denominator))).Round(4)
}
