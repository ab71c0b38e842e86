package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/storage"
)

func (s *Store) SaveDailySteps(record models.DailySteps) error {
	hourly, err := marshalHourly(record.HourlySteps)
	if err != nil {
		return fmt.Errorf("encoding hourly steps for %s: %w", record.Date, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO daily_steps (date, steps, hourly_steps) VALUES ($1, $2, $3)
		ON CONFLICT (date) DO UPDATE SET steps = EXCLUDED.steps, hourly_steps = EXCLUDED.hourly_steps`,
		record.Date, record.Steps, hourly,
	)
	if err != nil {
		return fmt.Errorf("saving steps for %s: %w", record.Date, err)
	}
	return nil
}

func (s *Store) GetDailySteps(date string) (models.DailySteps, error) {
	row := s.db.QueryRow("SELECT date, steps, hourly_steps FROM daily_steps WHERE date = $1", date)
	record, err := scanDailySteps(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailySteps{}, fmt.Errorf("steps for %s: %w", date, storage.ErrNotFound)
	}
	return record, err
}

func (s *Store) GetDailyStepsRange(startDate, endDate string) ([]models.DailySteps, error) {
	rows, err := s.db.Query(
		"SELECT date, steps, hourly_steps FROM daily_steps WHERE date BETWEEN $1 AND $2 ORDER BY date",
		startDate, endDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DailySteps
	for rows.Next() {
		record, err := scanDailySteps(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *Store) AddWorkout(w models.Workout) error {
	if w.ID == "" {
		return fmt.Errorf("workout ID cannot be empty")
	}
	start := ""
	if !w.StartTime.IsZero() {
		start = w.StartTime.Format(time.RFC3339)
	}
	_, err := s.db.Exec(`
		INSERT INTO workouts (id, date, kind, start_time, duration_min, deleted_at) VALUES ($1, $2, $3, $4, $5, NULL)
		ON CONFLICT (id) DO UPDATE SET date = EXCLUDED.date, kind = EXCLUDED.kind, start_time = EXCLUDED.start_time, duration_min = EXCLUDED.duration_min, deleted_at = NULL`,
		w.ID, w.Date, w.Kind, start, w.DurationMin,
	)
	if err != nil {
		return fmt.Errorf("adding workout %s: %w", w.ID, err)
	}
	return nil
}

func (s *Store) GetWorkoutsForDate(date string) ([]models.Workout, error) {
	return s.queryWorkouts(
		"SELECT id, date, kind, start_time, duration_min, deleted_at FROM workouts WHERE date = $1 AND deleted_at IS NULL ORDER BY start_time",
		date,
	)
}

func (s *Store) GetWorkoutsRange(startDate, endDate string) ([]models.Workout, error) {
	return s.queryWorkouts(
		"SELECT id, date, kind, start_time, duration_min, deleted_at FROM workouts WHERE date BETWEEN $1 AND $2 AND deleted_at IS NULL ORDER BY date, start_time",
		startDate, endDate,
	)
}

func (s *Store) DeleteWorkout(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec("UPDATE workouts SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL", now, id)
	if err != nil {
		return fmt.Errorf("deleting workout %s: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("workout %s", id))
}

func (s *Store) queryWorkouts(query string, args ...any) ([]models.Workout, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []models.Workout
	for rows.Next() {
		var w models.Workout
		var start string
		var deletedAt sql.NullString
		if err := rows.Scan(&w.ID, &w.Date, &w.Kind, &start, &w.DurationMin, &deletedAt); err != nil {
			return nil, err
		}
		if start != "" {
			if w.StartTime, err = time.Parse(time.RFC3339, start); err != nil {
				return nil, fmt.Errorf("parsing workout %s start time: %w", w.ID, err)
			}
		}
		if deletedAt.Valid {
			w.DeletedAt = &deletedAt.String
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func scanDailySteps(row scanner) (models.DailySteps, error) {
	var record models.DailySteps
	var hourly sql.NullString
	if err := row.Scan(&record.Date, &record.Steps, &hourly); err != nil {
		return models.DailySteps{}, err
	}
	if hourly.Valid && hourly.String != "" {
		if err := json.Unmarshal([]byte(hourly.String), &record.HourlySteps); err != nil {
			return models.DailySteps{}, fmt.Errorf("decoding hourly steps for %s: %w", record.Date, err)
		}
	}
	return record, nil
}

// marshalHourly returns NULL for empty maps so sparse rows stay small.
func marshalHourly(hourly map[int]int) (any, error) {
	if len(hourly) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(hourly)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
