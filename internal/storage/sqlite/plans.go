package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/storage"
)

// SavePlan replaces the plan row and its activities wholesale in one
// transaction. Saves carrying an epoch below the stored plan's fail with
// ErrStaleEpoch so a slow generation can never clobber a newer one.
func (s *Store) SavePlan(plan models.MovementPlan) error {
	if plan.Date == "" {
		return fmt.Errorf("plan date cannot be empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var storedEpoch int64
	err = tx.QueryRow("SELECT epoch FROM plans WHERE date = ?", plan.Date).Scan(&storedEpoch)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first plan for this date
	case err != nil:
		return fmt.Errorf("checking plan epoch for %s: %w", plan.Date, err)
	case plan.Epoch < storedEpoch:
		return fmt.Errorf("plan for %s (epoch %d, stored %d): %w", plan.Date, plan.Epoch, storedEpoch, storage.ErrStaleEpoch)
	}

	events, err := marshalEvents(plan.WalkableEvents)
	if err != nil {
		return fmt.Errorf("encoding walkable events for %s: %w", plan.Date, err)
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO plans (date, steps_needed, planned_steps, meeting_steps, confidence, reasoning, epoch, generated_at, walkable_events)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.Date,
		plan.StepsNeeded,
		plan.PlannedSteps,
		plan.MeetingSteps,
		plan.Confidence,
		plan.Reasoning,
		plan.Epoch,
		plan.GeneratedAt.Format(time.RFC3339),
		events,
	)
	if err != nil {
		return fmt.Errorf("saving plan for %s: %w", plan.Date, err)
	}

	if _, err := tx.Exec("DELETE FROM activities WHERE plan_date = ?", plan.Date); err != nil {
		return fmt.Errorf("clearing activities for %s: %w", plan.Date, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO activities (id, plan_date, type, start_time, duration_min, estimated_steps, priority, status, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range plan.Activities {
		_, err := stmt.Exec(
			a.ID,
			plan.Date,
			string(a.Type),
			a.StartTime.Format(time.RFC3339),
			a.DurationMin,
			a.EstimatedSteps,
			string(a.Priority),
			string(a.Status),
			a.Reason,
		)
		if err != nil {
			return fmt.Errorf("saving activity %s for %s: %w", a.ID, plan.Date, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetPlan(date string) (models.MovementPlan, error) {
	row := s.db.QueryRow(`
		SELECT date, steps_needed, planned_steps, meeting_steps, confidence, reasoning, epoch, generated_at, walkable_events
		FROM plans WHERE date = ?`, date)

	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MovementPlan{}, fmt.Errorf("plan for %s: %w", date, storage.ErrNotFound)
	}
	if err != nil {
		return models.MovementPlan{}, err
	}

	activities, err := s.planActivities(date)
	if err != nil {
		return models.MovementPlan{}, err
	}
	plan.Activities = activities[date]
	return plan, nil
}

func (s *Store) GetAllPlans() ([]models.MovementPlan, error) {
	rows, err := s.db.Query(`
		SELECT date, steps_needed, planned_steps, meeting_steps, confidence, reasoning, epoch, generated_at, walkable_events
		FROM plans ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.MovementPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	activities, err := s.planActivities("")
	if err != nil {
		return nil, err
	}
	for i := range plans {
		plans[i].Activities = activities[plans[i].Date]
	}
	return plans, nil
}

func (s *Store) DeletePlan(date string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM activities WHERE plan_date = ?", date); err != nil {
		return fmt.Errorf("deleting activities for %s: %w", date, err)
	}
	res, err := tx.Exec("DELETE FROM plans WHERE date = ?", date)
	if err != nil {
		return fmt.Errorf("deleting plan for %s: %w", date, err)
	}
	if err := requireAffected(res, fmt.Sprintf("plan for %s", date)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) UpdateActivityStatus(date, activityID string, status models.ActivityStatus) error {
	res, err := s.db.Exec(
		"UPDATE activities SET status = ? WHERE plan_date = ? AND id = ?",
		string(status), date, activityID,
	)
	if err != nil {
		return fmt.Errorf("updating activity %s for %s: %w", activityID, date, err)
	}
	return requireAffected(res, fmt.Sprintf("activity %s in plan for %s", activityID, date))
}

// planActivities loads activities grouped by plan date. An empty date loads
// every plan's activities in one query.
func (s *Store) planActivities(date string) (map[string][]models.PlannedActivity, error) {
	query := `
		SELECT id, plan_date, type, start_time, duration_min, estimated_steps, priority, status, reason
		FROM activities`
	var args []any
	if date != "" {
		query += " WHERE plan_date = ?"
		args = append(args, date)
	}
	query += " ORDER BY plan_date, start_time"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[string][]models.PlannedActivity)
	for rows.Next() {
		var a models.PlannedActivity
		var planDate, activityType, start, priority, status string
		if err := rows.Scan(&a.ID, &planDate, &activityType, &start, &a.DurationMin, &a.EstimatedSteps, &priority, &status, &a.Reason); err != nil {
			return nil, err
		}
		if a.StartTime, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("parsing activity %s start time: %w", a.ID, err)
		}
		a.Type = models.ActivityType(activityType)
		a.Priority = models.ActivityPriority(priority)
		a.Status = models.ActivityStatus(status)
		grouped[planDate] = append(grouped[planDate], a)
	}
	return grouped, rows.Err()
}

func scanPlan(row scanner) (models.MovementPlan, error) {
	var plan models.MovementPlan
	var generatedAt string
	var events sql.NullString
	err := row.Scan(&plan.Date, &plan.StepsNeeded, &plan.PlannedSteps, &plan.MeetingSteps, &plan.Confidence, &plan.Reasoning, &plan.Epoch, &generatedAt, &events)
	if err != nil {
		return models.MovementPlan{}, err
	}
	if plan.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt); err != nil {
		return models.MovementPlan{}, fmt.Errorf("parsing plan %s generation time: %w", plan.Date, err)
	}
	if events.Valid && events.String != "" {
		if err := json.Unmarshal([]byte(events.String), &plan.WalkableEvents); err != nil {
			return models.MovementPlan{}, fmt.Errorf("decoding walkable events for %s: %w", plan.Date, err)
		}
	}
	return plan, nil
}

func marshalEvents(events []string) (any, error) {
	if len(events) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(events)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
