package autopilot

import (
	"context"
	"testing"

	"github.com/strideapp/stride/internal/utils"
)

func TestNewDaemonDefaultsToNightlySpec(t *testing.T) {
	store := newFakeStore()
	d := NewDaemon(newTestScheduler(store, &fakeCalendar{}, &fakeDispatcher{}), store, "")

	if d.spec != NightlyCronSpec {
		t.Errorf("spec = %q, want %q", d.spec, NightlyCronSpec)
	}
}

func TestDaemonRunOnceHonorsEnabledSwitch(t *testing.T) {
	store := newFakeStore()
	s := newTestScheduler(store, &fakeCalendar{}, &fakeDispatcher{})
	d := NewDaemon(s, store, "")

	d.runOnce(context.Background())
	if got := s.State().LastScheduledDate; got != "" {
		t.Fatalf("disabled autopilot scheduled %q, want no pass", got)
	}

	store.settings.AutopilotEnabled = true
	d.runOnce(context.Background())

	today, err := utils.GetTodayFromSettings(store.settings)
	if err != nil {
		t.Fatalf("GetTodayFromSettings() error = %v", err)
	}
	tomorrow, err := utils.AddDays(today, 1)
	if err != nil {
		t.Fatalf("AddDays() error = %v", err)
	}
	if got := s.State().LastScheduledDate; got != tomorrow {
		t.Errorf("LastScheduledDate = %q, want %q", got, tomorrow)
	}
}

func TestDaemonStartRejectsBadSchedule(t *testing.T) {
	store := newFakeStore()
	d := NewDaemon(newTestScheduler(store, &fakeCalendar{}, &fakeDispatcher{}), store, "not a cron spec")

	if err := d.Start(context.Background()); err == nil {
		t.Error("Start() with malformed schedule = nil error, want error")
	}
}

func TestDaemonStartRunsCatchUpPass(t *testing.T) {
	store := newFakeStore()
	store.settings.AutopilotEnabled = true
	s := newTestScheduler(store, &fakeCalendar{}, &fakeDispatcher{})
	d := NewDaemon(s, store, "@every 1h")

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer d.Stop()

	if s.State().LastScheduledDate == "" {
		t.Error("catch-up pass did not run on Start()")
	}
}
