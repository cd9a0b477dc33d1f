package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"launch-bot/models"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

// History records every announcement post and its pin status.
type History struct {
	DB  *sql.DB
	now func() time.Time
}

// InitDB opens the history database at dbPath, creating the file and the
// announcements table as needed.
func InitDB(dbPath string) (*History, error) {
	// Ensure the directory for the database file exists.
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createAnnouncementsTable(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create announcements table: %w", err)
	}

	log.Println("Successfully connected to the database at", dbPath)
	return &History{DB: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.DB.Close()
}

func createAnnouncementsTable(db *sql.DB) error {
	query := `
    CREATE TABLE IF NOT EXISTS announcements (
        db_id INTEGER PRIMARY KEY AUTOINCREMENT,
        post_id TEXT UNIQUE,
        title TEXT,
        tag_id TEXT,
        launch_count INTEGER,
        status TEXT DEFAULT 'pinned',
        created_at INTEGER,
        updated_at INTEGER
    );`
	_, err := db.Exec(query)
	return err
}

// InsertPost saves a newly published post with its pin status.
func (h *History) InsertPost(post models.AnnouncementPost, status string) error {
	query := `
    INSERT OR REPLACE INTO announcements (
        post_id, title, tag_id, launch_count, status, created_at, updated_at
    ) VALUES (?, ?, ?, ?, ?, ?, ?);`

	stmt, err := h.DB.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for saving post: %w", err)
	}
	defer stmt.Close()

	created := post.CreatedAt
	if created.IsZero() {
		created = h.now()
	}
	_, err = stmt.Exec(
		post.PostID,
		post.Title,
		post.TagID,
		post.LaunchCount,
		status,
		created.Unix(),
		h.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to execute statement for saving post %s: %w", post.PostID, err)
	}
	return nil
}

// UpdatePostStatus sets the status of a recorded post. Unknown posts are
// not an error.
func (h *History) UpdatePostStatus(postID, status string) error {
	query := `UPDATE announcements SET status = ?, updated_at = ? WHERE post_id = ?`

	stmt, err := h.DB.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for updating post status: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(status, h.now().Unix(), postID)
	if err != nil {
		return fmt.Errorf("failed to execute statement for updating post status for %s: %w", postID, err)
	}
	return nil
}
