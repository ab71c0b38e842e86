package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/utils"
	"github.com/strideapp/stride/internal/walkability"
)

type MeetingsCmd struct {
	Add    MeetingAddCmd    `cmd:"" help:"Add a meeting to the calendar."`
	List   MeetingListCmd   `cmd:"" help:"List meetings for a date."`
	Import MeetingImportCmd `cmd:"" help:"Import meetings from a JSON file."`
	Remove MeetingRemoveCmd `cmd:"" help:"Remove a meeting."`
}

type MeetingAddCmd struct {
	Title       string `arg:"" help:"Meeting title."`
	Date        string `help:"Meeting date (YYYY-MM-DD, 'today' or 'tomorrow')." default:"today"`
	Start       string `help:"Start time (HH:MM)." required:""`
	Duration    int    `help:"Duration in minutes." default:"30"`
	Attendees   int    `help:"Attendee count, including you." default:"2"`
	Organizer   bool   `help:"You organize this meeting."`
	AllDay      bool   `help:"All-day event (blocks no time)." name:"all-day"`
	OutOfOffice bool   `help:"Out-of-office marker (blocks no time)." name:"out-of-office"`
	Notes       string `help:"Free-form notes."`
}

func (c *MeetingAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	if !utils.ValidateTimeFormat(c.Start) {
		return fmt.Errorf("invalid start time %q, use HH:MM", c.Start)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", c.Duration)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return err
	}
	start, err := utils.CombineDateAndTime(date, c.Start, loc)
	if err != nil {
		return err
	}

	meeting := models.CalendarMeeting{
		ID:            uuid.New().String(),
		Title:         c.Title,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(c.Duration) * time.Minute),
		AttendeeCount: c.Attendees,
		IsOrganizer:   c.Organizer,
		IsAllDay:      c.AllDay,
		IsOutOfOffice: c.OutOfOffice,
		Notes:         c.Notes,
		Source:        models.MeetingSourceExternal,
	}
	if err := ctx.Store.AddMeeting(meeting); err != nil {
		return fmt.Errorf("failed to add meeting: %w", err)
	}

	fmt.Printf("Added meeting: %s on %s at %s\n", c.Title, date, c.Start)
	if tag := walkabilityTag(meeting); tag != "" {
		fmt.Printf("  %s\n", tag)
	}
	return nil
}

type MeetingListCmd struct {
	Date string `arg:"" help:"Date to list (YYYY-MM-DD, 'today' or 'tomorrow')." default:"today"`
}

func (c *MeetingListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	meetings, err := ctx.Store.GetMeetingsForDate(date)
	if err != nil {
		return fmt.Errorf("failed to get meetings: %w", err)
	}
	if len(meetings) == 0 {
		fmt.Printf("No meetings on %s.\n", date)
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Meetings for %s", date)))
	for _, m := range meetings {
		fmt.Println(RenderMeeting(m, walkabilityTag(m)))
	}
	return nil
}

type MeetingImportCmd struct {
	File string `arg:"" help:"JSON file containing an array of meetings."`
}

func (c *MeetingImportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	var meetings []models.CalendarMeeting
	if err := json.Unmarshal(data, &meetings); err != nil {
		return fmt.Errorf("failed to parse %s: %w", c.File, err)
	}

	imported := 0
	for _, m := range meetings {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.Source == "" {
			m.Source = models.MeetingSourceExternal
		}
		if m.EndTime.Before(m.StartTime) || m.EndTime.Equal(m.StartTime) {
			fmt.Printf("  Skipping %q: end time is not after start time\n", m.Title)
			continue
		}
		if err := ctx.Store.AddMeeting(m); err != nil {
			return fmt.Errorf("failed to import meeting %q: %w", m.Title, err)
		}
		imported++
	}

	fmt.Printf("Imported %d meeting(s) from %s\n", imported, c.File)
	return nil
}

type MeetingRemoveCmd struct {
	ID string `arg:"" help:"Meeting ID to remove."`
}

func (c *MeetingRemoveCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if _, err := ctx.Store.GetMeeting(c.ID); err != nil {
		return fmt.Errorf("failed to find meeting %s: %w", c.ID, err)
	}
	if err := ctx.Store.DeleteMeeting(c.ID); err != nil {
		return fmt.Errorf("failed to remove meeting: %w", err)
	}

	fmt.Printf("Removed meeting: %s\n", c.ID)
	return nil
}

func walkabilityTag(m models.CalendarMeeting) string {
	switch {
	case m.Source == models.MeetingSourceAutopilot:
		return "autopilot walk"
	case walkability.IsWalkingOneOnOne(m):
		return "walkable as a walking 1:1"
	case walkability.IsBackgroundListenable(m):
		return "listenable on the move"
	default:
		return ""
	}
}
