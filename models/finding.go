package models

import (
	"time"
)

// Finding is a recorded deficiency requiring corrective action. InspectionId
// is a weak reference: findings may be created ad hoc, and a finding outlives
// the inspection it originated from.
type Finding struct {
	Id               string        `json:"id"`
	OrgId            string        `json:"org_id"`
	InspectionId     string        `json:"inspection_id"`
	Description      string        `json:"description"`
	Location         string        `json:"location"`
	HazardCategory   string        `json:"hazard_category"`
	RiskLevel        RiskLevel     `json:"risk_level"`
	Status           FindingStatus `json:"status"`
	DueDate          time.Time     `json:"due_date"`
	AssignedTo       string        `json:"assigned_to"`
	CorrectiveAction string        `json:"corrective_action"`
	CorrectedBy      string        `json:"corrected_by"`
	CorrectedDate    *time.Time    `json:"corrected_date"`
	VerifiedBy       string        `json:"verified_by"`
	VerifiedDate     *time.Time    `json:"verified_date"`
	LinkedCapaId     string        `json:"linked_capa_id"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type NewFinding struct {
	InspectionId     string    `json:"inspection_id"`
	Description      string    `json:"description" binding:"required"`
	Location         string    `json:"location"`
	HazardCategory   string    `json:"hazard_category"`
	RiskLevel        RiskLevel `json:"risk_level" binding:"required"`
	AssignedTo       string    `json:"assigned_to"`
	CorrectiveAction string    `json:"corrective_action"`
}

// UpdateFindingInput is the edit path. A supplied DueDate overwrites the
// stored one directly; changing RiskLevel here never re-derives it.
type UpdateFindingInput struct {
	Description      *string    `json:"description"`
	Location         *string    `json:"location"`
	HazardCategory   *string    `json:"hazard_category"`
	RiskLevel        *RiskLevel `json:"risk_level"`
	AssignedTo       *string    `json:"assigned_to"`
	CorrectiveAction *string    `json:"corrective_action"`
	DueDate          *time.Time `json:"due_date"`
}

type SetFindingStatusInput struct {
	Status      FindingStatus `json:"status" binding:"required"`
	CorrectedBy string        `json:"corrected_by"`
	VerifiedBy  string        `json:"verified_by"`
}

// correction windows per risk level, in days
var correctionWindowDays = map[RiskLevel]int{
	RiskLevelCritical: 1,
	RiskLevelHigh:     7,
	RiskLevelMedium:   30,
	RiskLevelLow:      90,
}

// CorrectionDueDate derives the due date a new finding gets at creation time.
func CorrectionDueDate(risk RiskLevel, from time.Time) time.Time {
	days, ok := correctionWindowDays[risk]
	if !ok {
		days = correctionWindowDays[RiskLevelLow]
	}
	return from.AddDate(0, 0, days)
}

// IsOverdue is pure over persisted state plus the caller's clock, so it can
// never go stale.
func (f *Finding) IsOverdue(now time.Time) bool {
	if f.Status == FindingStatusCorrected || f.Status == FindingStatusVerified {
		return false
	}
	return f.DueDate.Before(now)
}

// Corrected and verified findings are frozen except for the CAPA link.
func (f *Finding) IsImmutable() bool {
	return f.Status == FindingStatusCorrected || f.Status == FindingStatusVerified
}
