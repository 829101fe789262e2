package storage

import (
	"database/sql"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

type SQLiteSlots struct {
	db *sql.DB
}

// NewSQLiteSlots expects db to be migrated already.
func NewSQLiteSlots(db *sql.DB) *SQLiteSlots {
	return &SQLiteSlots{db: db}
}

func (s *SQLiteSlots) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		log.Errorf("could not read slot %s: %v", key, err)
		return "", false, unavailable("get", key, err)
	}
	return value, true, nil
}

func (s *SQLiteSlots) Set(key, value string) error {
	query := `INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
			  ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	stmt, err := s.db.Prepare(query)
	if err != nil {
		log.Errorf("could not prepare query: %v", err)
		return unavailable("set", key, err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(key, value, time.Now().UnixMilli()); err != nil {
		log.Errorf("could not write slot %s: %v", key, err)
		return unavailable("set", key, err)
	}
	return nil
}
