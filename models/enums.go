package models

import (
	"encoding/json"
	"errors"
)

type InspectionStatus string

const (
	InspectionStatusScheduled  InspectionStatus = "scheduled"
	InspectionStatusInProgress InspectionStatus = "in_progress"
	InspectionStatusCompleted  InspectionStatus = "completed"
	InspectionStatusCancelled  InspectionStatus = "cancelled"
)

// CalculatedStatusOverdue is a read-time-only status; it is never persisted.
const CalculatedStatusOverdue = "overdue"

func (s InspectionStatus) Valid() bool {
	switch s {
	case InspectionStatusScheduled, InspectionStatusInProgress, InspectionStatusCompleted, InspectionStatusCancelled:
		return true
	}
	return false
}

func (s *InspectionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.New("inspection status must be string")
	}
	v := InspectionStatus(str)
	if !v.Valid() {
		return errors.New("invalid inspection status")
	}
	*s = v
	return nil
}

type ChecklistItemStatus string

const (
	ChecklistItemStatusPending        ChecklistItemStatus = "pending"
	ChecklistItemStatusSatisfactory   ChecklistItemStatus = "satisfactory"
	ChecklistItemStatusUnsatisfactory ChecklistItemStatus = "unsatisfactory"
	ChecklistItemStatusNA             ChecklistItemStatus = "na"
)

func (s ChecklistItemStatus) Valid() bool {
	switch s {
	case ChecklistItemStatusPending, ChecklistItemStatusSatisfactory, ChecklistItemStatusUnsatisfactory, ChecklistItemStatusNA:
		return true
	}
	return false
}

func (s *ChecklistItemStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.New("checklist item status must be string")
	}
	v := ChecklistItemStatus(str)
	if !v.Valid() {
		return errors.New("invalid checklist item status")
	}
	*s = v
	return nil
}

type OverallResult string

const (
	OverallResultPass        OverallResult = "pass"
	OverallResultConditional OverallResult = "conditional"
	OverallResultFail        OverallResult = "fail"
)

func (r OverallResult) Valid() bool {
	switch r {
	case OverallResultPass, OverallResultConditional, OverallResultFail:
		return true
	}
	return false
}

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical:
		return true
	}
	return false
}

func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.New("risk level must be string")
	}
	v := RiskLevel(str)
	if !v.Valid() {
		return errors.New("invalid risk level")
	}
	*r = v
	return nil
}

type FindingStatus string

const (
	FindingStatusOpen       FindingStatus = "open"
	FindingStatusInProgress FindingStatus = "in_progress"
	FindingStatusCorrected  FindingStatus = "corrected"
	FindingStatusVerified   FindingStatus = "verified"
)

func (s FindingStatus) Valid() bool {
	switch s {
	case FindingStatusOpen, FindingStatusInProgress, FindingStatusCorrected, FindingStatusVerified:
		return true
	}
	return false
}

func (s *FindingStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.New("finding status must be string")
	}
	v := FindingStatus(str)
	if !v.Valid() {
		return errors.New("invalid finding status")
	}
	*s = v
	return nil
}

// rank orders the finding lifecycle; transitions may only move forward.
func (s FindingStatus) rank() int {
	switch s {
	case FindingStatusOpen:
		return 0
	case FindingStatusInProgress:
		return 1
	case FindingStatusCorrected:
		return 2
	case FindingStatusVerified:
		return 3
	}
	return -1
}

func (s FindingStatus) CanTransitionTo(next FindingStatus) bool {
	return next.Valid() && next.rank() > s.rank()
}

type InspectionType string

const (
	InspectionTypeGeneral       InspectionType = "general"
	InspectionTypeSite          InspectionType = "site"
	InspectionTypeEquipment     InspectionType = "equipment"
	InspectionTypeVehicle       InspectionType = "vehicle"
	InspectionTypeEnvironmental InspectionType = "environmental"
)

func (t InspectionType) Valid() bool {
	inspectionTypes := map[InspectionType]bool{
		InspectionTypeGeneral:       true,
		InspectionTypeSite:          true,
		InspectionTypeEquipment:     true,
		InspectionTypeVehicle:       true,
		InspectionTypeEnvironmental: true,
	}
	return inspectionTypes[t]
}

type InspectionFrequency string

const (
	InspectionFrequencyDaily     InspectionFrequency = "daily"
	InspectionFrequencyWeekly    InspectionFrequency = "weekly"
	InspectionFrequencyMonthly   InspectionFrequency = "monthly"
	InspectionFrequencyQuarterly InspectionFrequency = "quarterly"
	InspectionFrequencyAnnually  InspectionFrequency = "annually"
	InspectionFrequencyOnce      InspectionFrequency = "once"
)

func (f InspectionFrequency) Valid() bool {
	inspectionFrequencies := map[InspectionFrequency]bool{
		InspectionFrequencyDaily:     true,
		InspectionFrequencyWeekly:    true,
		InspectionFrequencyMonthly:   true,
		InspectionFrequencyQuarterly: true,
		InspectionFrequencyAnnually:  true,
		InspectionFrequencyOnce:      true,
	}
	return inspectionFrequencies[f]
}

type ActivityEventType string

const (
	ActivityInspectionCompleted  ActivityEventType = "inspection.completed"
	ActivityInspectionCancelled  ActivityEventType = "inspection.cancelled"
	ActivityFindingCreated       ActivityEventType = "finding.created"
	ActivityFindingStatusChanged ActivityEventType = "finding.status_changed"
	ActivityFindingOverdue       ActivityEventType = "finding.overdue"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "A"
	UserRoleOfficer UserRole = "O"
	UserRoleCrew    UserRole = "C"
)

func (r UserRole) Name() string {
	switch r {
	case UserRoleAdmin:
		return "Admin"
	case UserRoleOfficer:
		return "Safety Officer"
	case UserRoleCrew:
		return "Crew"
	}
	return string(r)
}
