package postgres

import (
	"database/sql"
	"errors"
	"fmt"
)

func (s *Store) GetValue(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM app_state WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading state %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) PutValue(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO app_state (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("writing state %s: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteValue(key string) error {
	_, err := s.db.Exec("DELETE FROM app_state WHERE key = $1", key)
	if err != nil {
		return fmt.Errorf("deleting state %s: %w", key, err)
	}
	return nil
}
