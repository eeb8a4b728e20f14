package models

import (
	"testing"
	"time"
)

func TestCorrectionDueDate(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		risk RiskLevel
		days int
	}{
		{RiskLevelCritical, 1},
		{RiskLevelHigh, 7},
		{RiskLevelMedium, 30},
		{RiskLevelLow, 90},
	}
	for _, tc := range cases {
		got := CorrectionDueDate(tc.risk, from)
		want := from.AddDate(0, 0, tc.days)
		if !got.Equal(want) {
			t.Fatalf("%s: expected %s, got %s", tc.risk, want, got)
		}
	}

	// unknown risk falls back to the widest window
	if got := CorrectionDueDate(RiskLevel("bogus"), from); !got.Equal(from.AddDate(0, 0, 90)) {
		t.Fatalf("unknown risk: expected low window, got %s", got)
	}
}

func TestFindingIsOverdue(t *testing.T) {
	due := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	finding := &Finding{Status: FindingStatusOpen, DueDate: due}

	if finding.IsOverdue(due.AddDate(0, 0, -1)) {
		t.Fatal("not overdue before the due date")
	}
	if !finding.IsOverdue(due.AddDate(0, 0, 1)) {
		t.Fatal("overdue after the due date")
	}

	// corrected and verified findings are never overdue
	finding.Status = FindingStatusCorrected
	if finding.IsOverdue(due.AddDate(0, 0, 1)) {
		t.Fatal("corrected finding reported overdue")
	}
	finding.Status = FindingStatusVerified
	if finding.IsOverdue(due.AddDate(0, 0, 1)) {
		t.Fatal("verified finding reported overdue")
	}
}

func TestFindingStatusTransitions(t *testing.T) {
	order := []FindingStatus{FindingStatusOpen, FindingStatusInProgress, FindingStatusCorrected, FindingStatusVerified}

	for i, from := range order {
		for j, to := range order {
			want := j > i
			if got := from.CanTransitionTo(to); got != want {
				t.Fatalf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}

	if FindingStatusOpen.CanTransitionTo(FindingStatus("bogus")) {
		t.Fatal("transition to invalid status allowed")
	}
}
