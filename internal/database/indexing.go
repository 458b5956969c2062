package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetOrCreateFolder resolves a folder row by its full path, creating it
// under parentID if absent. parentID is nil for the root folder.
// Returns the folder id either way; re-running on the same path is a
// no-op thanks to the unique index on folder_name.
func (d *Database) GetOrCreateFolder(ctx context.Context, tx *sql.Tx, path string, parentID *int64) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		"SELECT folder_id FROM folders WHERE folder_name = ?", path,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up folder %q: %w", path, err)
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO folders (parent_folder_id, folder_name) VALUES (?, ?)",
		parentID, path,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create folder %q: %w", path, err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new folder id for %q: %w", path, err)
	}
	return id, nil
}

// VideoIDByPath looks up a video by its file path. The boolean reports
// whether a row exists.
func (d *Database) VideoIDByPath(ctx context.Context, tx *sql.Tx, path string) (int64, bool, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		"SELECT video_id FROM videos WHERE file_path = ?", path,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up video %q: %w", path, err)
	}
	return id, true, nil
}

// InsertVideo registers a newly sighted video file.
func (d *Database) InsertVideo(ctx context.Context, tx *sql.Tx, title, path string, duration int) (int64, error) {
	result, err := tx.ExecContext(ctx,
		"INSERT INTO videos (title, file_path, duration) VALUES (?, ?, ?)",
		title, path, duration,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create video %q: %w", path, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new video id for %q: %w", path, err)
	}
	return id, nil
}

// AssociateVideo idempotently links a video to a folder.
func (d *Database) AssociateVideo(ctx context.Context, tx *sql.Tx, folderID, videoID int64) error {
	var exists int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM folder_video_rel WHERE folder_id = ? AND video_id = ?",
		folderID, videoID,
	).Scan(&exists)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check association (%d, %d): %w", folderID, videoID, err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO folder_video_rel (folder_id, video_id) VALUES (?, ?)",
		folderID, videoID,
	); err != nil {
		return fmt.Errorf("failed to associate video %d with folder %d: %w", videoID, folderID, err)
	}
	return nil
}

// ListFolderPaths returns every folder row's id and full path, for the
// prune pass.
func (d *Database) ListFolderPaths(ctx context.Context) ([]FolderPath, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, "SELECT folder_id, folder_name FROM folders")
	recordQuery("list_folder_paths", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var folders []FolderPath
	for rows.Next() {
		var f FolderPath
		if err := rows.Scan(&f.ID, &f.Path); err != nil {
			return nil, fmt.Errorf("failed to scan folder row: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// ListVideoPaths returns every video row's id and file path, for the
// prune pass.
func (d *Database) ListVideoPaths(ctx context.Context) ([]VideoPath, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, "SELECT video_id, file_path FROM videos")
	recordQuery("list_video_paths", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []VideoPath
	for rows.Next() {
		var v VideoPath
		if err := rows.Scan(&v.ID, &v.Path); err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// DeleteFolder removes a folder row. Association rows cascade via the
// relational constraints.
func (d *Database) DeleteFolder(ctx context.Context, id int64) error {
	start := time.Now()
	_, err := d.db.ExecContext(ctx, "DELETE FROM folders WHERE folder_id = ?", id)
	recordQuery("delete_folder", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete folder %d: %w", id, err)
	}
	return nil
}

// DeleteVideo removes a video row. Association and like rows cascade
// via the relational constraints.
func (d *Database) DeleteVideo(ctx context.Context, id int64) error {
	start := time.Now()
	_, err := d.db.ExecContext(ctx, "DELETE FROM videos WHERE video_id = ?", id)
	recordQuery("delete_video", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete video %d: %w", id, err)
	}
	return nil
}

// CountAssociations reports the number of folder-video association
// rows, used by consistency checks and tests.
func (d *Database) CountAssociations(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM folder_video_rel").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count associations: %w", err)
	}
	return n, nil
}
