package streak

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/strideapp/stride/internal/models"
)

func TestRecordGoalHit(t *testing.T) {
	tests := []struct {
		name  string
		state models.Streak
		today string
		want  models.Streak
	}{
		{
			name:  "first ever hit starts at one",
			state: models.Streak{},
			today: "2026-03-10",
			want:  models.Streak{CurrentStreak: 1, LongestStreak: 1, LastGoalDate: "2026-03-10"},
		},
		{
			name:  "consecutive day extends the run",
			state: models.Streak{CurrentStreak: 5, LongestStreak: 5, LastGoalDate: "2026-03-09"},
			today: "2026-03-10",
			want:  models.Streak{CurrentStreak: 6, LongestStreak: 6, LastGoalDate: "2026-03-10"},
		},
		{
			name:  "longest is preserved when the run is shorter",
			state: models.Streak{CurrentStreak: 2, LongestStreak: 9, LastGoalDate: "2026-03-09"},
			today: "2026-03-10",
			want:  models.Streak{CurrentStreak: 3, LongestStreak: 9, LastGoalDate: "2026-03-10"},
		},
		{
			name:  "gap restarts the run at one",
			state: models.Streak{CurrentStreak: 7, LongestStreak: 10, LastGoalDate: "2026-03-05"},
			today: "2026-03-10",
			want:  models.Streak{CurrentStreak: 1, LongestStreak: 10, LastGoalDate: "2026-03-10"},
		},
		{
			name:  "same day is a no-op",
			state: models.Streak{CurrentStreak: 6, LongestStreak: 6, LastGoalDate: "2026-03-10"},
			today: "2026-03-10",
			want:  models.Streak{CurrentStreak: 6, LongestStreak: 6, LastGoalDate: "2026-03-10"},
		},
		{
			name:  "month boundary still counts as consecutive",
			state: models.Streak{CurrentStreak: 3, LongestStreak: 3, LastGoalDate: "2026-02-28"},
			today: "2026-03-01",
			want:  models.Streak{CurrentStreak: 4, LongestStreak: 4, LastGoalDate: "2026-03-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecordGoalHit(tt.state, tt.today)
			if got != tt.want {
				t.Errorf("RecordGoalHit() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecordGoalHitIdempotentWithinDay(t *testing.T) {
	s := models.Streak{CurrentStreak: 4, LongestStreak: 8, LastGoalDate: "2026-03-09"}
	first := RecordGoalHit(s, "2026-03-10")
	second := RecordGoalHit(first, "2026-03-10")
	if first.CurrentStreak != 5 {
		t.Fatalf("first RecordGoalHit() current = %d, want 5", first.CurrentStreak)
	}
	if second != first {
		t.Errorf("second RecordGoalHit() = %+v, want unchanged %+v", second, first)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		state models.Streak
		today string
		want  models.Streak
	}{
		{
			name:  "hit today keeps the run",
			state: models.Streak{CurrentStreak: 6, LongestStreak: 6, LastGoalDate: "2026-03-10"},
			today: "2026-03-10",
			want:  models.Streak{CurrentStreak: 6, LongestStreak: 6, LastGoalDate: "2026-03-10"},
		},
		{
			name:  "hit yesterday keeps the run alive",
			state: models.Streak{CurrentStreak: 6, LongestStreak: 6, LastGoalDate: "2026-03-09"},
			today: "2026-03-10",
			want:  models.Streak{CurrentStreak: 6, LongestStreak: 6, LastGoalDate: "2026-03-09"},
		},
		{
			name:  "lapse resets current but never longest",
			state: models.Streak{CurrentStreak: 7, LongestStreak: 10, LastGoalDate: "2026-03-07"},
			today: "2026-03-10",
			want:  models.Streak{CurrentStreak: 0, LongestStreak: 10, LastGoalDate: "2026-03-07"},
		},
		{
			name:  "empty state stays zero",
			state: models.Streak{},
			today: "2026-03-10",
			want:  models.Streak{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.state, tt.today)
			if got != tt.want {
				t.Errorf("Validate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

type fakeKV struct {
	values  map[string]string
	readErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}}
}

func (f *fakeKV) GetValue(key string) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeKV) PutValue(key, value string) error {
	f.values[key] = value
	return nil
}

func (f *fakeKV) DeleteValue(key string) error {
	delete(f.values, key)
	return nil
}

func TestTrackerPersistsAcrossInstances(t *testing.T) {
	kv := newFakeKV()

	first := NewTracker(kv)
	if _, err := first.RecordGoalHit("2026-03-09"); err != nil {
		t.Fatalf("RecordGoalHit() error = %v", err)
	}
	if _, err := first.RecordGoalHit("2026-03-10"); err != nil {
		t.Fatalf("RecordGoalHit() error = %v", err)
	}

	second := NewTracker(kv)
	got := second.Current()
	if got.CurrentStreak != 2 || got.LongestStreak != 2 || got.LastGoalDate != "2026-03-10" {
		t.Errorf("Current() = %+v, want 2-day run ending 2026-03-10", got)
	}
}

func TestTrackerValidatePersistsReset(t *testing.T) {
	kv := newFakeKV()
	raw, _ := json.Marshal(models.Streak{CurrentStreak: 7, LongestStreak: 10, LastGoalDate: "2026-03-01"})
	kv.values[streakKey] = string(raw)

	tracker := NewTracker(kv)
	got, err := tracker.Validate("2026-03-10")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.CurrentStreak != 0 || got.LongestStreak != 10 {
		t.Errorf("Validate() = %+v, want current 0 and longest 10", got)
	}

	var stored models.Streak
	if err := json.Unmarshal([]byte(kv.values[streakKey]), &stored); err != nil {
		t.Fatalf("stored streak unreadable: %v", err)
	}
	if stored.CurrentStreak != 0 {
		t.Errorf("stored CurrentStreak = %d, want 0", stored.CurrentStreak)
	}
}

func TestTrackerEvaluate(t *testing.T) {
	kv := newFakeKV()
	tracker := NewTracker(kv)

	got, err := tracker.Evaluate("2026-03-10", 10250, 10000)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if got.CurrentStreak != 1 {
		t.Errorf("Evaluate() with goal met current = %d, want 1", got.CurrentStreak)
	}

	got, err = tracker.Evaluate("2026-03-12", 4000, 10000)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if got.CurrentStreak != 0 {
		t.Errorf("Evaluate() after lapse current = %d, want 0", got.CurrentStreak)
	}
	if got.LongestStreak != 1 {
		t.Errorf("Evaluate() after lapse longest = %d, want 1", got.LongestStreak)
	}
}

func TestTrackerCorruptStateFallsBackToZero(t *testing.T) {
	kv := newFakeKV()
	kv.values[streakKey] = "{not json"

	tracker := NewTracker(kv)
	got := tracker.Current()
	if got != (models.Streak{}) {
		t.Errorf("Current() with corrupt state = %+v, want zero streak", got)
	}
}

func TestTrackerReadErrorFallsBackToZero(t *testing.T) {
	kv := newFakeKV()
	kv.readErr = errors.New("disk unavailable")

	tracker := NewTracker(kv)
	got := tracker.Current()
	if got != (models.Streak{}) {
		t.Errorf("Current() with read error = %+v, want zero streak", got)
	}
}
