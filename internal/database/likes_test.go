package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// TestLikeVideoAccepted verifies a plain like increments the counter
// and logs exactly one like row.
func TestLikeVideoAccepted(t *testing.T) {
	db, _ := setupTestDB(t)
	id := seedVideo(t, db, "a.mp4", "videos/a.mp4", 10)

	result, err := db.LikeVideo(context.Background(), id, "10.0.0.1")
	if err != nil {
		t.Fatalf("LikeVideo: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("like rejected: %s", result.Reason)
	}
	if result.NewCount != 1 {
		t.Errorf("new count = %d, want 1", result.NewCount)
	}
	if got := countRows(t, db, "likes"); got != 1 {
		t.Errorf("like rows = %d, want 1", got)
	}
}

// TestLikeVideoDailyCapBoundary pins the boundary inclusivity of the
// per-video daily cap: with 14 likes recorded today, the 15th is
// accepted; the 16th is rejected and the count stays at 15.
func TestLikeVideoDailyCapBoundary(t *testing.T) {
	db, _ := setupTestDB(t)
	id := seedVideo(t, db, "a.mp4", "videos/a.mp4", 10)
	ctx := context.Background()

	// 14 prior likes today from distinct clients, reflected in the
	// counter as the like transaction would have left it.
	now := time.Now().UTC()
	for i := 0; i < 14; i++ {
		seedLike(t, db, id, fmt.Sprintf("10.0.0.%d", i), now)
	}
	if _, err := db.db.Exec("UPDATE videos SET like_count = 14 WHERE video_id = ?", id); err != nil {
		t.Fatalf("seeding like_count: %v", err)
	}

	fifteenth, err := db.LikeVideo(ctx, id, "10.0.1.1")
	if err != nil {
		t.Fatalf("15th like: %v", err)
	}
	if !fifteenth.Accepted {
		t.Fatalf("15th like rejected: %s", fifteenth.Reason)
	}
	if fifteenth.NewCount != 15 {
		t.Errorf("15th like count = %d, want 15", fifteenth.NewCount)
	}

	sixteenth, err := db.LikeVideo(ctx, id, "10.0.2.2")
	if err != nil {
		t.Fatalf("16th like: %v", err)
	}
	if sixteenth.Accepted {
		t.Fatal("16th like accepted, want daily-cap rejection")
	}
	if sixteenth.Reason != ReasonDailyCap {
		t.Errorf("16th like reason = %q, want %q", sixteenth.Reason, ReasonDailyCap)
	}

	var count int
	if err := db.db.QueryRow("SELECT like_count FROM videos WHERE video_id = ?", id).Scan(&count); err != nil {
		t.Fatalf("reading like_count: %v", err)
	}
	if count != 15 {
		t.Errorf("stored like_count = %d, want 15", count)
	}
}

// TestLikeVideoClientCapBoundary pins the per-client cap: the 5th like
// from one address is accepted, the 6th rejected even though the video
// is far below the daily cap.
func TestLikeVideoClientCapBoundary(t *testing.T) {
	db, _ := setupTestDB(t)
	id := seedVideo(t, db, "a.mp4", "videos/a.mp4", 10)
	ctx := context.Background()

	const addr = "192.0.2.7"
	now := time.Now().UTC()
	for i := 0; i < 4; i++ {
		seedLike(t, db, id, addr, now)
	}

	fifth, err := db.LikeVideo(ctx, id, addr)
	if err != nil {
		t.Fatalf("5th like: %v", err)
	}
	if !fifth.Accepted {
		t.Fatalf("5th like rejected: %s", fifth.Reason)
	}

	sixth, err := db.LikeVideo(ctx, id, addr)
	if err != nil {
		t.Fatalf("6th like: %v", err)
	}
	if sixth.Accepted {
		t.Fatal("6th like accepted, want per-client rejection")
	}
	if sixth.Reason != ReasonClientCap {
		t.Errorf("6th like reason = %q, want %q", sixth.Reason, ReasonClientCap)
	}

	// A different client is still allowed.
	other, err := db.LikeVideo(ctx, id, "192.0.2.8")
	if err != nil {
		t.Fatalf("other client like: %v", err)
	}
	if !other.Accepted {
		t.Errorf("other client rejected: %s", other.Reason)
	}
}

// TestLikeVideoYesterdayDoesNotCount verifies the caps are scoped to
// the current UTC calendar day.
func TestLikeVideoYesterdayDoesNotCount(t *testing.T) {
	db, _ := setupTestDB(t)
	id := seedVideo(t, db, "a.mp4", "videos/a.mp4", 10)

	const addr = "198.51.100.4"
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	for i := 0; i < 5; i++ {
		seedLike(t, db, id, addr, yesterday)
	}

	result, err := db.LikeVideo(context.Background(), id, addr)
	if err != nil {
		t.Fatalf("LikeVideo: %v", err)
	}
	if !result.Accepted {
		t.Errorf("like rejected by stale records: %s", result.Reason)
	}
}

// TestLikeVideoUnknownVideo verifies an unknown id is a validation
// failure distinct from the cap rejections.
func TestLikeVideoUnknownVideo(t *testing.T) {
	db, _ := setupTestDB(t)

	_, err := db.LikeVideo(context.Background(), 12345, "10.0.0.1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LikeVideo(unknown) error = %v, want ErrNotFound", err)
	}
}

// TestLikeVideoCountMatchesLog verifies the transactional invariant:
// like_count always equals the number of like rows for the video.
func TestLikeVideoCountMatchesLog(t *testing.T) {
	db, _ := setupTestDB(t)
	id := seedVideo(t, db, "a.mp4", "videos/a.mp4", 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := db.LikeVideo(ctx, id, fmt.Sprintf("10.9.0.%d", i)); err != nil {
			t.Fatalf("LikeVideo #%d: %v", i, err)
		}
	}

	var count, logged int
	if err := db.db.QueryRow("SELECT like_count FROM videos WHERE video_id = ?", id).Scan(&count); err != nil {
		t.Fatalf("reading like_count: %v", err)
	}
	if err := db.db.QueryRow("SELECT COUNT(*) FROM likes WHERE video_id = ?", id).Scan(&logged); err != nil {
		t.Fatalf("counting likes: %v", err)
	}
	if count != logged || count != 3 {
		t.Errorf("like_count = %d, like rows = %d, want both 3", count, logged)
	}
}
