package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"video-library/internal/logging"
	"video-library/internal/metrics"
)

// Default timeout for database operations.
const defaultTimeout = 5 * time.Second

// ErrNotFound is returned when a folder or video does not exist.
var ErrNotFound = errors.New("not found")

// Database manages all store operations for the video library.
type Database struct {
	db     *sql.DB
	dbPath string

	// likeMu serializes the like counter's check-then-increment
	// sequence; the caps must not be overshot by concurrent requests.
	likeMu sync.Mutex
}

// New opens (creating if necessary) the database file at dbPath and
// ensures the schema exists. The parent directory must already exist
// and be writable; use startup.LoadConfig() for directory validation.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Database path: %s", dbPath)

	// WAL for concurrent readers, busy_timeout to ride out writer
	// contention, foreign_keys so folder/video deletes cascade to the
	// association and like tables.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Database initialized successfully at %s", dbPath)
	return d, nil
}

// initialize creates the six tables and their indexes if absent. It is
// safe to run on every start and never drops or alters existing data.
func (d *Database) initialize(ctx context.Context) error {
	start := time.Now()

	schema := `
	CREATE TABLE IF NOT EXISTS videos (
		video_id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT,
		description TEXT,
		file_path TEXT UNIQUE,
		upload_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		duration INTEGER,
		like_count INTEGER DEFAULT 0
	);

	-- folder_name holds the folder's full path; it is the dedup key
	-- that makes re-scans idempotent.
	CREATE TABLE IF NOT EXISTS folders (
		folder_id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_folder_id INTEGER REFERENCES folders(folder_id) ON DELETE CASCADE,
		folder_name TEXT,
		creation_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS folder_video_rel (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		folder_id INTEGER REFERENCES folders(folder_id) ON DELETE CASCADE,
		video_id INTEGER REFERENCES videos(video_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS likes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id INTEGER REFERENCES videos(video_id) ON DELETE CASCADE,
		ip_address TEXT,
		like_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Tag tables are part of the fixed schema but carry no behavior yet.
	CREATE TABLE IF NOT EXISTS tags (
		tag_id INTEGER PRIMARY KEY AUTOINCREMENT,
		tag_name TEXT UNIQUE
	);

	CREATE TABLE IF NOT EXISTS video_tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id INTEGER REFERENCES videos(video_id) ON DELETE CASCADE,
		tag_id INTEGER REFERENCES tags(tag_id) ON DELETE CASCADE
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_folders_name ON folders(folder_name);
	CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(parent_folder_id);
	CREATE INDEX IF NOT EXISTS idx_folder_video_folder ON folder_video_rel(folder_id);
	CREATE INDEX IF NOT EXISTS idx_folder_video_video ON folder_video_rel(video_id);
	CREATE INDEX IF NOT EXISTS idx_likes_ip_date ON likes(ip_address, like_date);
	CREATE INDEX IF NOT EXISTS idx_video_tags_video ON video_tags(video_id);
	CREATE INDEX IF NOT EXISTS idx_video_tags_tag ON video_tags(tag_id);
	`

	_, err := d.db.ExecContext(ctx, schema)
	recordQuery("initialize_schema", start, err)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// BeginBatch starts a transaction for an indexing pass.
func (d *Database) BeginBatch(ctx context.Context) (*sql.Tx, error) {
	start := time.Now()
	tx, err := d.db.BeginTx(ctx, nil)
	recordQuery("begin_batch", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// EndBatch commits the transaction if err is nil, otherwise rolls it
// back. It returns the first error encountered.
func (d *Database) EndBatch(tx *sql.Tx, err error) error {
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Error("rollback failed after batch error: %v", rbErr)
		}
		return err
	}
	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("failed to commit batch: %w", commitErr)
	}
	return nil
}

// recordQuery records the outcome and duration of a database operation.
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}
