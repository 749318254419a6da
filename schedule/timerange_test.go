package schedule_test

import (
	"testing"

	"github.com/warp/shift-engine/schedule"
)

func timeRange(t *testing.T, start, end string) schedule.TimeRange {
	t.Helper()
	s, err := schedule.ParseTimeOfDay(start)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", start, err)
	}
	e, err := schedule.ParseTimeOfDay(end)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", end, err)
	}
	return schedule.TimeRange{Start: s, End: e}
}

// =============================================================================
// OVERLAP TESTS
// =============================================================================

func TestTimeRange_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b [2]string
		want bool
	}{
		{"clear overlap", [2]string{"09:00", "13:00"}, [2]string{"12:00", "17:00"}, true},
		{"contained range", [2]string{"08:00", "20:00"}, [2]string{"10:00", "11:00"}, true},
		{"identical ranges", [2]string{"09:00", "17:00"}, [2]string{"09:00", "17:00"}, true},
		{"touching endpoints do not overlap", [2]string{"09:00", "13:00"}, [2]string{"13:00", "17:00"}, false},
		{"disjoint ranges", [2]string{"08:00", "10:00"}, [2]string{"14:00", "18:00"}, false},
		{"one minute of overlap", [2]string{"09:00", "13:01"}, [2]string{"13:00", "17:00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := timeRange(t, tt.a[0], tt.a[1])
			b := timeRange(t, tt.b[0], tt.b[1])

			if got := a.Overlaps(b); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", a, b, got, tt.want)
			}
			// Symmetry
			if a.Overlaps(b) != b.Overlaps(a) {
				t.Errorf("Overlaps not symmetric for %s and %s", a, b)
			}
		})
	}
}

// =============================================================================
// DURATION TESTS
// =============================================================================

func TestTimeRange_Duration(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"whole hours", "09:00", "17:00", "8"},
		{"half hour", "09:00", "09:30", "0.5"},
		{"quarter hour", "13:00", "13:15", "0.25"},
		{"with seconds format", "08:00:00", "14:00:00", "6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := timeRange(t, tt.start, tt.end)
			if got := r.Duration(); got.String() != tt.want {
				t.Errorf("Duration(%s-%s) = %s, want %s", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

// =============================================================================
// TIME-OF-DAY PARSING
// =============================================================================

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "09:00", want: "09:00:00"},
		{input: "09:00:30", want: "09:00:30"},
		{input: "23:59", want: "23:59:00"},
		{input: "25:00", wantErr: true},
		{input: "nine am", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := schedule.ParseTimeOfDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimeOfDay(%q) expected error, got %s", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q): %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
