package models

import "testing"

func item(status ChecklistItemStatus, critical bool) *ChecklistItemInstance {
	return &ChecklistItemInstance{Status: status, IsCritical: critical}
}

func TestDefaultResultPolicy(t *testing.T) {
	cases := []struct {
		name  string
		items []*ChecklistItemInstance
		want  OverallResult
	}{
		{
			name:  "all satisfactory passes",
			items: []*ChecklistItemInstance{item(ChecklistItemStatusSatisfactory, true), item(ChecklistItemStatusSatisfactory, false)},
			want:  OverallResultPass,
		},
		{
			name:  "na counts as pass",
			items: []*ChecklistItemInstance{item(ChecklistItemStatusNA, true), item(ChecklistItemStatusSatisfactory, false)},
			want:  OverallResultPass,
		},
		{
			name:  "non-critical unsatisfactory is conditional",
			items: []*ChecklistItemInstance{item(ChecklistItemStatusSatisfactory, true), item(ChecklistItemStatusUnsatisfactory, false)},
			want:  OverallResultConditional,
		},
		{
			name:  "critical unsatisfactory fails",
			items: []*ChecklistItemInstance{item(ChecklistItemStatusUnsatisfactory, true), item(ChecklistItemStatusSatisfactory, false)},
			want:  OverallResultFail,
		},
		{
			name:  "critical failure dominates conditional",
			items: []*ChecklistItemInstance{item(ChecklistItemStatusUnsatisfactory, false), item(ChecklistItemStatusUnsatisfactory, true)},
			want:  OverallResultFail,
		},
		{
			name:  "empty checklist passes",
			items: nil,
			want:  OverallResultPass,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DefaultResultPolicy(tc.items); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

// Exhaustive check over every status pair: the result must depend only on
// unsatisfactory items and their criticality.
func TestDefaultResultPolicy_Exhaustive(t *testing.T) {
	statuses := []ChecklistItemStatus{
		ChecklistItemStatusPending,
		ChecklistItemStatusSatisfactory,
		ChecklistItemStatusUnsatisfactory,
		ChecklistItemStatusNA,
	}

	for _, first := range statuses {
		for _, second := range statuses {
			for _, criticalFirst := range []bool{false, true} {
				items := []*ChecklistItemInstance{item(first, criticalFirst), item(second, false)}
				got := DefaultResultPolicy(items)

				want := OverallResultPass
				if second == ChecklistItemStatusUnsatisfactory {
					want = OverallResultConditional
				}
				if first == ChecklistItemStatusUnsatisfactory {
					want = OverallResultConditional
					if criticalFirst {
						want = OverallResultFail
					}
				}
				if got != want {
					t.Fatalf("first=%s critical=%v second=%s: expected %s, got %s", first, criticalFirst, second, want, got)
				}
			}
		}
	}
}

func TestAggregateChecklist(t *testing.T) {
	counts := AggregateChecklist([]*ChecklistItemInstance{
		item(ChecklistItemStatusSatisfactory, false),
		item(ChecklistItemStatusSatisfactory, false),
		item(ChecklistItemStatusUnsatisfactory, true),
		item(ChecklistItemStatusPending, false),
		item(ChecklistItemStatusNA, false),
	})

	if counts.Satisfactory != 2 || counts.Unsatisfactory != 1 || counts.Pending != 1 || counts.NA != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
