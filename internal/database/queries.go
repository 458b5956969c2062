package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"video-library/internal/mediatypes"
)

// GetFolderInfo aggregates one folder's contents: its display name,
// immediate subfolders, and the videos logically inside it. For the
// root folder (id 1) the video set is the entire collection regardless
// of association. Returns ErrNotFound if the folder does not exist.
func (d *Database) GetFolderInfo(ctx context.Context, folderID int64) (*FolderView, error) {
	start := time.Now()
	view, err := d.getFolderInfo(ctx, folderID)
	recordQuery("get_folder_info", start, err)
	return view, err
}

func (d *Database) getFolderInfo(ctx context.Context, folderID int64) (*FolderView, error) {
	view := &FolderView{CurrentFolderID: folderID}

	err := d.db.QueryRowContext(ctx,
		"SELECT folder_name, parent_folder_id FROM folders WHERE folder_id = ?",
		folderID,
	).Scan(&view.Name, &view.ParentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up folder %d: %w", folderID, err)
	}

	view.SubFolders, err = d.subfolders(ctx, folderID)
	if err != nil {
		return nil, err
	}

	view.Videos, err = d.folderVideos(ctx, folderID, "")
	if err != nil {
		return nil, err
	}

	return view, nil
}

// ListVideos returns the folder's videos ordered by the given sort key,
// along with its immediate subfolders for combined rendering. Sort keys
// outside the whitelist yield natural storage order. The folder is not
// required to exist; a missing folder simply has no contents.
func (d *Database) ListVideos(ctx context.Context, folderID int64, sort mediatypes.SortKey) ([]VideoSummary, []FolderRef, error) {
	start := time.Now()

	videos, err := d.folderVideos(ctx, folderID, sort)
	if err != nil {
		recordQuery("list_videos", start, err)
		return nil, nil, err
	}

	subFolders, err := d.subfolders(ctx, folderID)
	recordQuery("list_videos", start, err)
	if err != nil {
		return nil, nil, err
	}

	return videos, subFolders, nil
}

// subfolders returns the immediate children of a folder. Names carry
// the stored full path.
func (d *Database) subfolders(ctx context.Context, folderID int64) ([]FolderRef, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT folder_id, folder_name FROM folders WHERE parent_folder_id = ?",
		folderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query subfolders of %d: %w", folderID, err)
	}
	defer rows.Close()

	subFolders := []FolderRef{}
	for rows.Next() {
		var ref FolderRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan subfolder row: %w", err)
		}
		subFolders = append(subFolders, ref)
	}
	return subFolders, rows.Err()
}

// folderVideos runs the folder-to-videos selection shared by the
// aggregator and the sorted listing API.
func (d *Database) folderVideos(ctx context.Context, folderID int64, sort mediatypes.SortKey) ([]VideoSummary, error) {
	var (
		query string
		args  []interface{}
	)

	if folderID == RootFolderID {
		query = "SELECT video_id, title, like_count, duration, upload_date FROM videos"
	} else {
		query = "SELECT v.video_id, v.title, v.like_count, v.duration, v.upload_date " +
			"FROM videos v JOIN folder_video_rel fvr ON v.video_id = fvr.video_id " +
			"WHERE fvr.folder_id = ?"
		args = append(args, folderID)
	}

	if clause, ok := sort.OrderClause(); ok {
		query += " ORDER BY " + clause
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos for folder %d: %w", folderID, err)
	}
	defer rows.Close()

	videos := []VideoSummary{}
	for rows.Next() {
		var v VideoSummary
		var title sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(&v.ID, &title, &v.LikeCount, &duration, &v.UploadDate); err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		v.Title = title.String
		v.Duration = int(duration.Int64)
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// GetVideo returns one video's full detail, including the id of its
// containing folder (nil when the video has no association). Returns
// ErrNotFound for an unknown video id.
func (d *Database) GetVideo(ctx context.Context, videoID int64) (*VideoDetail, error) {
	start := time.Now()
	detail, err := d.getVideo(ctx, videoID)
	recordQuery("get_video", start, err)
	return detail, err
}

func (d *Database) getVideo(ctx context.Context, videoID int64) (*VideoDetail, error) {
	detail := &VideoDetail{}

	var title sql.NullString
	var duration sql.NullInt64
	err := d.db.QueryRowContext(ctx,
		"SELECT video_id, title, description, file_path, upload_date, duration, like_count "+
			"FROM videos WHERE video_id = ?",
		videoID,
	).Scan(&detail.ID, &title, &detail.Description, &detail.FilePath,
		&detail.UploadDate, &duration, &detail.LikeCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up video %d: %w", videoID, err)
	}
	detail.Title = title.String
	// Missing duration is normalized to 0 rather than surfaced.
	detail.Duration = int(duration.Int64)

	var folderID int64
	err = d.db.QueryRowContext(ctx,
		"SELECT folder_id FROM folder_video_rel WHERE video_id = ?",
		videoID,
	).Scan(&folderID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Unassociated video; folder_id stays null.
	case err != nil:
		return nil, fmt.Errorf("failed to look up folder for video %d: %w", videoID, err)
	default:
		detail.FolderID = &folderID
	}

	return detail, nil
}
