package models

type ChecklistCounts struct {
	Satisfactory   int `json:"satisfactory_count"`
	Unsatisfactory int `json:"unsatisfactory_count"`
	Pending        int `json:"pending_count"`
	NA             int `json:"na_count"`
}

func AggregateChecklist(items []*ChecklistItemInstance) ChecklistCounts {
	var counts ChecklistCounts
	for _, item := range items {
		switch item.Status {
		case ChecklistItemStatusSatisfactory:
			counts.Satisfactory++
		case ChecklistItemStatusUnsatisfactory:
			counts.Unsatisfactory++
		case ChecklistItemStatusNA:
			counts.NA++
		default:
			counts.Pending++
		}
	}
	return counts
}

// ResultPolicy decides the overall result of a completed checklist. The
// default three-tier rule is a policy choice, so deployments can swap it.
type ResultPolicy func(items []*ChecklistItemInstance) OverallResult

// DefaultResultPolicy: fail when any critical item is unsatisfactory,
// conditional when any item at all is unsatisfactory, pass otherwise.
func DefaultResultPolicy(items []*ChecklistItemInstance) OverallResult {
	anyUnsatisfactory := false
	for _, item := range items {
		if item.Status != ChecklistItemStatusUnsatisfactory {
			continue
		}
		if item.IsCritical {
			return OverallResultFail
		}
		anyUnsatisfactory = true
	}
	if anyUnsatisfactory {
		return OverallResultConditional
	}
	return OverallResultPass
}
