package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"video-library/internal/metrics"
)

const (
	// dailyLikeLimit caps the likes any video can accumulate in one
	// UTC calendar day.
	dailyLikeLimit = 15
	// clientDailyLikeLimit caps the likes one client address can give
	// a single video in one UTC calendar day.
	clientDailyLikeLimit = 5
)

// Caller-facing rejection reasons. These are outcomes, not errors.
const (
	ReasonDailyCap  = "Daily like limit reached for this video"
	ReasonClientCap = "You have already liked this video 5 times today"
)

// LikeVideo applies one like from clientAddr to the given video,
// subject to the daily caps. The cap checks, the counter increment, and
// the like log entry all happen inside a single transaction, serialized
// by a process-wide lock so concurrent requests cannot overshoot the
// limits. Returns ErrNotFound for an unknown video id; cap rejections
// come back as a LikeResult with Accepted=false.
func (d *Database) LikeVideo(ctx context.Context, videoID int64, clientAddr string) (*LikeResult, error) {
	d.likeMu.Lock()
	defer d.likeMu.Unlock()

	start := time.Now()
	result, err := d.likeVideo(ctx, videoID, clientAddr)
	recordQuery("like_video", start, err)

	switch {
	case errors.Is(err, ErrNotFound):
		metrics.LikesTotal.WithLabelValues("unknown_video").Inc()
	case err != nil:
		// Storage failure; no outcome to record.
	case result.Accepted:
		metrics.LikesTotal.WithLabelValues("accepted").Inc()
	case result.Reason == ReasonDailyCap:
		metrics.LikesTotal.WithLabelValues("daily_cap").Inc()
	default:
		metrics.LikesTotal.WithLabelValues("client_cap").Inc()
	}

	return result, err
}

func (d *Database) likeVideo(ctx context.Context, videoID int64, clientAddr string) (*LikeResult, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin like transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM videos WHERE video_id = ?", videoID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up video %d: %w", videoID, err)
	}

	now := time.Now().UTC()
	today := now.Format("2006-01-02")

	var likesToday int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM likes WHERE video_id = ? AND DATE(like_date) = ?",
		videoID, today,
	).Scan(&likesToday)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's likes for video %d: %w", videoID, err)
	}
	if likesToday >= dailyLikeLimit {
		return &LikeResult{Accepted: false, Reason: ReasonDailyCap}, nil
	}

	var likesFromClient int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM likes WHERE video_id = ? AND ip_address = ? AND DATE(like_date) = ?",
		videoID, clientAddr, today,
	).Scan(&likesFromClient)
	if err != nil {
		return nil, fmt.Errorf("failed to count client likes for video %d: %w", videoID, err)
	}
	if likesFromClient >= clientDailyLikeLimit {
		return &LikeResult{Accepted: false, Reason: ReasonClientCap}, nil
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE videos SET like_count = like_count + 1 WHERE video_id = ?", videoID,
	); err != nil {
		return nil, fmt.Errorf("failed to increment like count for video %d: %w", videoID, err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO likes (video_id, ip_address, like_date) VALUES (?, ?, ?)",
		videoID, clientAddr, now.Format("2006-01-02 15:04:05"),
	); err != nil {
		return nil, fmt.Errorf("failed to record like for video %d: %w", videoID, err)
	}

	var newCount int
	if err := tx.QueryRowContext(ctx,
		"SELECT like_count FROM videos WHERE video_id = ?", videoID,
	).Scan(&newCount); err != nil {
		return nil, fmt.Errorf("failed to read new like count for video %d: %w", videoID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit like for video %d: %w", videoID, err)
	}

	return &LikeResult{Accepted: true, NewCount: newCount}, nil
}
