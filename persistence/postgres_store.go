package persistence

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore keeps snapshots in a PostgreSQL table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database at connectionString and creates
// the snapshots table if it is missing.
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("persistence: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("persistence: ping database: %w", err)
	}
	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("persistence: init schema: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		lines TEXT[] NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`)
	return err
}

func (s *PostgresStore) Save(name string, lines []string) error {
	_, err := s.db.Exec(`
	INSERT INTO snapshots (name, lines, updated_at) VALUES ($1, $2, NOW())
	ON CONFLICT (name) DO UPDATE SET lines = EXCLUDED.lines, updated_at = NOW()`,
		name, pq.Array(lines))
	if err != nil {
		return fmt.Errorf("persistence: save %s: %w", name, err)
	}
	return nil
}

func (s *PostgresStore) Load(name string) ([]string, error) {
	var lines []string
	err := s.db.QueryRow(`SELECT lines FROM snapshots WHERE name = $1`, name).Scan(pq.Array(&lines))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("persistence: load %s: %w", name, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("persistence: load %s: %w", name, err)
	}
	return lines, nil
}

func (s *PostgresStore) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("persistence: list: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("persistence: list: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *PostgresStore) Close() error { return s.db.Close() }
