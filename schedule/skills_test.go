package schedule_test

import (
	"reflect"
	"testing"

	"github.com/warp/shift-engine/schedule"
)

func skillIDs(ids ...string) []schedule.SkillID {
	out := make([]schedule.SkillID, len(ids))
	for i, id := range ids {
		out[i] = schedule.SkillID(id)
	}
	return out
}

// =============================================================================
// SET ARITHMETIC
// =============================================================================

func TestEvaluateCoverage(t *testing.T) {
	tests := []struct {
		name        string
		required    []schedule.SkillID
		available   []schedule.SkillID
		wantCovered []schedule.SkillID
		wantMissing []schedule.SkillID
		wantFull    bool
	}{
		{
			name:        "fully covered",
			required:    skillIDs("cashier", "barista"),
			available:   skillIDs("cashier", "barista", "kitchen"),
			wantCovered: skillIDs("cashier", "barista"),
			wantMissing: nil,
			wantFull:    true,
		},
		{
			name:        "one missing",
			required:    skillIDs("cashier", "barista"),
			available:   skillIDs("cashier"),
			wantCovered: skillIDs("cashier"),
			wantMissing: skillIDs("barista"),
			wantFull:    false,
		},
		{
			name:        "nothing available",
			required:    skillIDs("kitchen"),
			available:   nil,
			wantCovered: nil,
			wantMissing: skillIDs("kitchen"),
			wantFull:    false,
		},
		{
			name:        "empty required is trivially covered",
			required:    nil,
			available:   skillIDs("cashier"),
			wantCovered: nil,
			wantMissing: nil,
			wantFull:    true,
		},
		{
			name:        "duplicates collapse, first appearance wins",
			required:    skillIDs("cashier", "cashier", "barista"),
			available:   skillIDs("cashier"),
			wantCovered: skillIDs("cashier"),
			wantMissing: skillIDs("barista"),
			wantFull:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cov := schedule.EvaluateCoverage(tt.required, tt.available)

			if !reflect.DeepEqual(cov.Covered, tt.wantCovered) {
				t.Errorf("Covered = %v, want %v", cov.Covered, tt.wantCovered)
			}
			if !reflect.DeepEqual(cov.Missing, tt.wantMissing) {
				t.Errorf("Missing = %v, want %v", cov.Missing, tt.wantMissing)
			}
			if got := cov.FullyCovered(); got != tt.wantFull {
				t.Errorf("FullyCovered = %v, want %v", got, tt.wantFull)
			}
		})
	}
}

func TestEvaluateCoverage_PreservesRequiredOrder(t *testing.T) {
	cov := schedule.EvaluateCoverage(
		skillIDs("z-skill", "a-skill", "m-skill"),
		skillIDs("a-skill"),
	)

	wantMissing := skillIDs("z-skill", "m-skill")
	if !reflect.DeepEqual(cov.Missing, wantMissing) {
		t.Errorf("Missing = %v, want first-appearance order %v", cov.Missing, wantMissing)
	}
}
