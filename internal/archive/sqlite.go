// Package archive persists an append-only record of accepted sighting reports to SQLite.
// The live registry stays volatile; the archive is a side channel for offline
// statistics and is entirely optional.
package archive

import (
	"database/sql"
	"time"

	"github.com/hexveil/brainrelay/internal/models"
	_ "modernc.org/sqlite" // Driver sqlite
)

// Repository manages the SQLite database connection.
type Repository struct {
	db *sql.DB
}

// Open initializes a new SQLite connection, sets connection pool parameters,
// and runs schema migrations.
func Open(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// InsertSighting appends one accepted report to the archive.
func (r *Repository) InsertSighting(b models.Brainrot) error {
	_, err := r.db.Exec(`
		INSERT INTO sightings (name, display_value, job_id, value, player_count, image_url, reported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Name, b.DisplayValue, b.JobID, b.Value, b.PlayerCount, b.ImageURL,
		time.Unix(0, int64(b.Timestamp*float64(time.Second))),
	)

	return err
}

// CountSightings returns the total number of archived reports.
func (r *Repository) CountSightings() (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sightings`).Scan(&count)

	return count, err
}

// RecentSightings returns the most recently archived reports, newest first.
func (r *Repository) RecentSightings(limit int) ([]models.Brainrot, error) {
	rows, err := r.db.Query(`
		SELECT name, display_value, job_id, value, player_count, image_url, reported_at
		FROM sightings
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Brainrot
	for rows.Next() {
		var b models.Brainrot
		var reportedAt time.Time
		if err := rows.Scan(&b.Name, &b.DisplayValue, &b.JobID, &b.Value, &b.PlayerCount, &b.ImageURL, &reportedAt); err != nil {
			continue
		}
		b.Timestamp = models.UnixSeconds(reportedAt)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
