package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/storage"
)

func (s *Store) AddMeeting(m models.CalendarMeeting) error {
	if m.ID == "" {
		return fmt.Errorf("meeting ID cannot be empty")
	}
	source := m.Source
	if source == "" {
		source = models.MeetingSourceExternal
	}
	var deletedAt sql.NullString
	if m.DeletedAt != nil {
		deletedAt = sql.NullString{String: *m.DeletedAt, Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT INTO meetings (id, date, title, start_time, end_time, attendee_count, is_organizer, is_all_day, is_out_of_office, notes, source, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID,
		m.StartTime.Format(constants.DateFormat),
		m.Title,
		m.StartTime.Format(time.RFC3339),
		m.EndTime.Format(time.RFC3339),
		m.AttendeeCount,
		m.IsOrganizer,
		m.IsAllDay,
		m.IsOutOfOffice,
		m.Notes,
		string(source),
		deletedAt,
	)
	if err != nil {
		return fmt.Errorf("adding meeting %s: %w", m.ID, err)
	}
	return nil
}

func (s *Store) GetMeeting(id string) (models.CalendarMeeting, error) {
	row := s.db.QueryRow(`
		SELECT id, title, start_time, end_time, attendee_count, is_organizer, is_all_day, is_out_of_office, notes, source, deleted_at
		FROM meetings WHERE id = $1 AND deleted_at IS NULL`, id)

	m, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CalendarMeeting{}, fmt.Errorf("meeting %s: %w", id, storage.ErrNotFound)
	}
	return m, err
}

func (s *Store) GetMeetingsForDate(date string) ([]models.CalendarMeeting, error) {
	rows, err := s.db.Query(`
		SELECT id, title, start_time, end_time, attendee_count, is_organizer, is_all_day, is_out_of_office, notes, source, deleted_at
		FROM meetings WHERE date = $1 AND deleted_at IS NULL ORDER BY start_time`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []models.CalendarMeeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// GetAllMeetings returns every meeting, deleted ones included, for store
// migration.
func (s *Store) GetAllMeetings() ([]models.CalendarMeeting, error) {
	rows, err := s.db.Query(`
		SELECT id, title, start_time, end_time, attendee_count, is_organizer, is_all_day, is_out_of_office, notes, source, deleted_at
		FROM meetings ORDER BY start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []models.CalendarMeeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

func (s *Store) UpdateMeeting(m models.CalendarMeeting) error {
	res, err := s.db.Exec(`
		UPDATE meetings
		SET date = $1, title = $2, start_time = $3, end_time = $4, attendee_count = $5, is_organizer = $6, is_all_day = $7, is_out_of_office = $8, notes = $9, source = $10
		WHERE id = $11 AND deleted_at IS NULL`,
		m.StartTime.Format(constants.DateFormat),
		m.Title,
		m.StartTime.Format(time.RFC3339),
		m.EndTime.Format(time.RFC3339),
		m.AttendeeCount,
		m.IsOrganizer,
		m.IsAllDay,
		m.IsOutOfOffice,
		m.Notes,
		string(m.Source),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating meeting %s: %w", m.ID, err)
	}
	return requireAffected(res, fmt.Sprintf("meeting %s", m.ID))
}

func (s *Store) DeleteMeeting(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec("UPDATE meetings SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL", now, id)
	if err != nil {
		return fmt.Errorf("deleting meeting %s: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("meeting %s", id))
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row scanner) (models.CalendarMeeting, error) {
	var m models.CalendarMeeting
	var start, end, source string
	var deletedAt sql.NullString
	err := row.Scan(&m.ID, &m.Title, &start, &end, &m.AttendeeCount, &m.IsOrganizer, &m.IsAllDay, &m.IsOutOfOffice, &m.Notes, &source, &deletedAt)
	if err != nil {
		return models.CalendarMeeting{}, err
	}

	if m.StartTime, err = time.Parse(time.RFC3339, start); err != nil {
		return models.CalendarMeeting{}, fmt.Errorf("parsing meeting %s start time: %w", m.ID, err)
	}
	if m.EndTime, err = time.Parse(time.RFC3339, end); err != nil {
		return models.CalendarMeeting{}, fmt.Errorf("parsing meeting %s end time: %w", m.ID, err)
	}
	m.Source = models.MeetingSource(source)
	if deletedAt.Valid {
		m.DeletedAt = &deletedAt.String
	}
	return m, nil
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}
