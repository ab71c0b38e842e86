package interval

import (
	"testing"
	"time"
)

// at builds an instant on a fixed test day.
func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		iv   Interval
		want bool
	}{
		{name: "positive length", iv: New(at(9, 0), at(10, 0)), want: true},
		{name: "zero length", iv: New(at(9, 0), at(9, 0)), want: false},
		{name: "inverted", iv: New(at(10, 0), at(9, 0)), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.iv.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDurationMinutes(t *testing.T) {
	iv := New(at(9, 0), at(10, 30))
	if got := iv.DurationMinutes(); got != 90 {
		t.Errorf("DurationMinutes() = %v, want 90", got)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			name: "disjoint",
			a:    New(at(9, 0), at(10, 0)),
			b:    New(at(11, 0), at(12, 0)),
			want: false,
		},
		{
			name: "touching endpoints do not overlap",
			a:    New(at(9, 0), at(10, 0)),
			b:    New(at(10, 0), at(11, 0)),
			want: false,
		},
		{
			name: "partial overlap",
			a:    New(at(9, 0), at(10, 0)),
			b:    New(at(9, 30), at(10, 30)),
			want: true,
		},
		{
			name: "containment",
			a:    New(at(9, 0), at(12, 0)),
			b:    New(at(10, 0), at(11, 0)),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name   string
		a      Interval
		b      Interval
		want   Interval
		wantOK bool
	}{
		{
			name:   "partial overlap",
			a:      New(at(9, 0), at(10, 0)),
			b:      New(at(9, 30), at(11, 0)),
			want:   New(at(9, 30), at(10, 0)),
			wantOK: true,
		},
		{
			name:   "no overlap",
			a:      New(at(9, 0), at(10, 0)),
			b:      New(at(10, 0), at(11, 0)),
			wantOK: false,
		},
		{
			name:   "b inside a",
			a:      New(at(8, 0), at(18, 0)),
			b:      New(at(12, 0), at(13, 0)),
			want:   New(at(12, 0), at(13, 0)),
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			if ok != tt.wantOK {
				t.Fatalf("Intersect() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (got != tt.want) {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGapTo(t *testing.T) {
	a := New(at(9, 0), at(9, 30))
	b := New(at(10, 0), at(11, 0))

	gap, ok := a.GapTo(b)
	if !ok {
		t.Fatal("GapTo() ok = false, want true")
	}
	if gap.Start != at(9, 30) || gap.End != at(10, 0) {
		t.Errorf("GapTo() = %v, want [09:30, 10:00)", gap)
	}

	// Touching intervals have no gap
	c := New(at(9, 30), at(10, 0))
	if _, ok := a.GapTo(c); ok {
		t.Error("GapTo() ok = true for touching intervals, want false")
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		ivs  []Interval
		want []Interval
	}{
		{
			name: "empty input",
			ivs:  nil,
			want: nil,
		},
		{
			name: "disjoint stay separate",
			ivs: []Interval{
				New(at(10, 0), at(11, 0)),
				New(at(9, 0), at(9, 30)),
			},
			want: []Interval{
				New(at(9, 0), at(9, 30)),
				New(at(10, 0), at(11, 0)),
			},
		},
		{
			name: "overlapping coalesce",
			ivs: []Interval{
				New(at(9, 0), at(10, 0)),
				New(at(9, 30), at(10, 30)),
			},
			want: []Interval{
				New(at(9, 0), at(10, 30)),
			},
		},
		{
			name: "touching coalesce",
			ivs: []Interval{
				New(at(9, 0), at(10, 0)),
				New(at(10, 0), at(10, 30)),
			},
			want: []Interval{
				New(at(9, 0), at(10, 30)),
			},
		},
		{
			name: "invalid dropped",
			ivs: []Interval{
				New(at(9, 0), at(10, 0)),
				New(at(12, 0), at(11, 0)),
			},
			want: []Interval{
				New(at(9, 0), at(10, 0)),
			},
		},
		{
			name: "contained swallowed",
			ivs: []Interval{
				New(at(9, 0), at(12, 0)),
				New(at(10, 0), at(10, 30)),
			},
			want: []Interval{
				New(at(9, 0), at(12, 0)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.ivs)
			if len(got) != len(tt.want) {
				t.Fatalf("Merge() returned %d intervals, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Merge()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMergeDoesNotModifyInput(t *testing.T) {
	ivs := []Interval{
		New(at(10, 0), at(11, 0)),
		New(at(9, 0), at(9, 30)),
	}
	_ = Merge(ivs)
	if ivs[0].Start != at(10, 0) {
		t.Error("Merge() reordered the input slice")
	}
}
