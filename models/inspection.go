package models

import (
	"time"
)

// ChecklistItemInstance is a per-inspection snapshot of a template item.
// Created once at inspection start, mutated only while the inspection is
// in progress, frozen once it completes. Photos are opaque references; the
// engine never touches file bytes.
type ChecklistItemInstance struct {
	Id                string              `json:"id"`
	Section           string              `json:"section"`
	ItemText          string              `json:"item_text"`
	ExpectedCondition string              `json:"expected_condition"`
	IsCritical        bool                `json:"is_critical"`
	Status            ChecklistItemStatus `json:"status"`
	Notes             string              `json:"notes"`
	Photos            []string            `json:"photos"`
}

type Inspection struct {
	Id              string                   `json:"id"`
	OrgId           string                   `json:"org_id"`
	TemplateId      string                   `json:"template_id"`
	TemplateName    string                   `json:"template_name"`
	Status          InspectionStatus         `json:"status"`
	ScheduledDate   time.Time                `json:"scheduled_date"`
	Location        string                   `json:"location"`
	InspectorId     string                   `json:"inspector_id"`
	InspectorName   string                   `json:"inspector_name"`
	ChecklistItems  []*ChecklistItemInstance `json:"checklist_items"`
	CompletionNotes string                   `json:"completion_notes"`
	OverallResult   *OverallResult           `json:"overall_result"`
	CancelReason    string                   `json:"cancel_reason"`
	ScheduledAt     time.Time                `json:"scheduled_at"`
	StartedAt       *time.Time               `json:"started_at"`
	CompletedAt     *time.Time               `json:"completed_at"`
	CancelledAt     *time.Time               `json:"cancelled_at"`
}

type NewInspection struct {
	TemplateId    string    `json:"template_id" binding:"required"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Location      string    `json:"location"`
	InspectorName string    `json:"inspector_name"`
}

type UpdateChecklistItemInput struct {
	Status *ChecklistItemStatus `json:"status"`
	Notes  *string              `json:"notes"`
	Photos []string             `json:"photos"`
}

type UpdateInspectionDetailsInput struct {
	ScheduledDate *time.Time `json:"scheduled_date"`
	Location      *string    `json:"location"`
	InspectorName *string    `json:"inspector_name"`
}

// CalculatedStatus derives the reporting status at read time against the
// caller's clock, so overdue never needs a background job to flip records.
func (i *Inspection) CalculatedStatus(now time.Time) string {
	if i.Status == InspectionStatusScheduled && i.ScheduledDate.Before(now) {
		return CalculatedStatusOverdue
	}
	return string(i.Status)
}

func (i *Inspection) FindChecklistItem(itemId string) *ChecklistItemInstance {
	for _, item := range i.ChecklistItems {
		if item.Id == itemId {
			return item
		}
	}
	return nil
}

// SnapshotChecklist copies the template's item definitions into pending
// instances. Later template edits never retroactively change this inspection.
func SnapshotChecklist(defs []ChecklistItemDef) []*ChecklistItemInstance {
	items := make([]*ChecklistItemInstance, 0, len(defs))
	for _, def := range defs {
		items = append(items, &ChecklistItemInstance{
			Id:                def.Id,
			Section:           def.Section,
			ItemText:          def.ItemText,
			ExpectedCondition: def.ExpectedCondition,
			IsCritical:        def.IsCritical,
			Status:            ChecklistItemStatusPending,
			Photos:            []string{},
		})
	}
	return items
}
