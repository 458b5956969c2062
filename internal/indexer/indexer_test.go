package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"video-library/internal/database"
)

// newTestIndexer builds a video tree in a temp dir, a fresh database,
// and an indexer with a stubbed duration probe.
//
// Tree:
//
//	videos/
//	├── intro.mp4
//	├── notes.txt
//	└── shows/
//	    ├── ep1.mp4
//	    └── ep2.mkv
func newTestIndexer(t *testing.T) (*Indexer, *database.Database, string) {
	t.Helper()

	base := t.TempDir()
	videoDir := filepath.Join(base, "videos")

	mustMkdir(t, filepath.Join(videoDir, "shows"))
	mustWrite(t, filepath.Join(videoDir, "intro.mp4"))
	mustWrite(t, filepath.Join(videoDir, "notes.txt"))
	mustWrite(t, filepath.Join(videoDir, "shows", "ep1.mp4"))
	mustWrite(t, filepath.Join(videoDir, "shows", "ep2.mkv"))

	db, err := database.New(context.Background(), filepath.Join(base, "library.db"))
	if err != nil {
		t.Fatalf("creating database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	idx := New(db, videoDir, 0)
	idx.SetProbe(func(ctx context.Context, path string) int { return 42 })
	return idx, db, videoDir
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// snapshot captures the entity sets the idempotence tests compare.
type snapshot struct {
	folders      map[int64]string
	videos       map[int64]string
	associations int
}

func takeSnapshot(t *testing.T, db *database.Database) snapshot {
	t.Helper()
	ctx := context.Background()

	s := snapshot{folders: map[int64]string{}, videos: map[int64]string{}}

	folders, err := db.ListFolderPaths(ctx)
	if err != nil {
		t.Fatalf("ListFolderPaths: %v", err)
	}
	for _, f := range folders {
		s.folders[f.ID] = f.Path
	}

	videos, err := db.ListVideoPaths(ctx)
	if err != nil {
		t.Fatalf("ListVideoPaths: %v", err)
	}
	for _, v := range videos {
		s.videos[v.ID] = v.Path
	}

	s.associations, err = db.CountAssociations(ctx)
	if err != nil {
		t.Fatalf("CountAssociations: %v", err)
	}
	return s
}

func equalSnapshots(a, b snapshot) bool {
	if len(a.folders) != len(b.folders) || len(a.videos) != len(b.videos) || a.associations != b.associations {
		return false
	}
	for id, path := range a.folders {
		if b.folders[id] != path {
			return false
		}
	}
	for id, path := range a.videos {
		if b.videos[id] != path {
			return false
		}
	}
	return true
}

// TestReconcileRegistersTree verifies a first pass registers the
// folders, videos, and associations, and that the root directory's
// folder row receives the reserved root id.
func TestReconcileRegistersTree(t *testing.T) {
	idx, db, _ := newTestIndexer(t)
	ctx := context.Background()

	if err := idx.Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	s := takeSnapshot(t, db)
	if len(s.folders) != 2 {
		t.Errorf("folders = %v, want 2 rows", s.folders)
	}
	if s.folders[database.RootFolderID] != "videos" {
		t.Errorf("root folder row = %q, want \"videos\" at id %d",
			s.folders[database.RootFolderID], database.RootFolderID)
	}
	if len(s.videos) != 3 {
		t.Errorf("videos = %v, want 3 rows", s.videos)
	}
	if s.associations != 3 {
		t.Errorf("associations = %d, want 3", s.associations)
	}

	// The non-video file is not registered.
	for _, path := range s.videos {
		if path == "videos/notes.txt" {
			t.Error("notes.txt registered as a video")
		}
	}

	// The stubbed probe's duration is stored on first sighting.
	view, err := db.GetFolderInfo(ctx, database.RootFolderID)
	if err != nil {
		t.Fatalf("GetFolderInfo: %v", err)
	}
	for _, v := range view.Videos {
		if v.Duration != 42 {
			t.Errorf("video %d duration = %d, want 42", v.ID, v.Duration)
		}
	}
}

// TestReconcileIdempotent verifies a second pass over an unchanged tree
// produces an identical entity set.
func TestReconcileIdempotent(t *testing.T) {
	idx, db, _ := newTestIndexer(t)
	ctx := context.Background()

	if err := idx.Reconcile(ctx); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	first := takeSnapshot(t, db)

	if err := idx.Reconcile(ctx); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	second := takeSnapshot(t, db)

	if !equalSnapshots(first, second) {
		t.Errorf("entity set changed across passes:\nfirst: %+v\nsecond: %+v", first, second)
	}
}

// TestReconcilePrunesDeletedVideo verifies a deleted file's row and
// associations are gone after the next pass, while a sibling survives.
func TestReconcilePrunesDeletedVideo(t *testing.T) {
	idx, db, videoDir := newTestIndexer(t)
	ctx := context.Background()

	if err := idx.Reconcile(ctx); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}

	if err := os.Remove(filepath.Join(videoDir, "shows", "ep1.mp4")); err != nil {
		t.Fatalf("removing ep1: %v", err)
	}

	if err := idx.Reconcile(ctx); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}

	s := takeSnapshot(t, db)
	for _, path := range s.videos {
		if path == "videos/shows/ep1.mp4" {
			t.Error("deleted video still registered")
		}
	}
	if len(s.videos) != 2 {
		t.Errorf("videos = %v, want 2 rows", s.videos)
	}
	if s.associations != 2 {
		t.Errorf("associations = %d, want 2", s.associations)
	}
}

// TestReconcilePrunesDeletedFolder verifies a removed directory takes
// its folder row, its videos' associations, and its videos with it.
func TestReconcilePrunesDeletedFolder(t *testing.T) {
	idx, db, videoDir := newTestIndexer(t)
	ctx := context.Background()

	if err := idx.Reconcile(ctx); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}

	if err := os.RemoveAll(filepath.Join(videoDir, "shows")); err != nil {
		t.Fatalf("removing shows: %v", err)
	}

	if err := idx.Reconcile(ctx); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}

	s := takeSnapshot(t, db)
	if len(s.folders) != 1 {
		t.Errorf("folders = %v, want only the root", s.folders)
	}
	if len(s.videos) != 1 {
		t.Errorf("videos = %v, want only intro.mp4", s.videos)
	}
	for _, path := range s.videos {
		if path != "videos/intro.mp4" {
			t.Errorf("surviving video = %q, want videos/intro.mp4", path)
		}
	}
	if s.associations != 1 {
		t.Errorf("associations = %d, want 1", s.associations)
	}
}

// TestReconcileProbeFailureDegrades verifies a failing probe stores
// duration 0 and does not abort the pass.
func TestReconcileProbeFailureDegrades(t *testing.T) {
	idx, db, _ := newTestIndexer(t)
	idx.SetProbe(func(ctx context.Context, path string) int { return 0 })
	ctx := context.Background()

	if err := idx.Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	view, err := db.GetFolderInfo(ctx, database.RootFolderID)
	if err != nil {
		t.Fatalf("GetFolderInfo: %v", err)
	}
	if len(view.Videos) != 3 {
		t.Fatalf("videos = %d, want 3", len(view.Videos))
	}
	for _, v := range view.Videos {
		if v.Duration != 0 {
			t.Errorf("video %d duration = %d, want 0", v.ID, v.Duration)
		}
	}
}

// TestReconcileNewFileBackfills verifies a file added between passes is
// picked up without disturbing existing rows.
func TestReconcileNewFileBackfills(t *testing.T) {
	idx, db, videoDir := newTestIndexer(t)
	ctx := context.Background()

	if err := idx.Reconcile(ctx); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	before := takeSnapshot(t, db)

	mustWrite(t, filepath.Join(videoDir, "shows", "ep3.mov"))
	if err := idx.Reconcile(ctx); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	after := takeSnapshot(t, db)

	if len(after.videos) != len(before.videos)+1 {
		t.Errorf("videos = %v, want one more than %v", after.videos, before.videos)
	}
	for id, path := range before.videos {
		if after.videos[id] != path {
			t.Errorf("existing video %d changed: %q -> %q", id, path, after.videos[id])
		}
	}
}

// TestStoredPathRoundTrip verifies the stored-path mapping used by the
// walk and by prune agree with each other.
func TestStoredPathRoundTrip(t *testing.T) {
	idx, _, videoDir := newTestIndexer(t)

	abs := filepath.Join(videoDir, "shows", "ep1.mp4")
	stored, err := idx.storedPath(abs)
	if err != nil {
		t.Fatalf("storedPath: %v", err)
	}
	if stored != "videos/shows/ep1.mp4" {
		t.Errorf("storedPath = %q, want videos/shows/ep1.mp4", stored)
	}
	if got := idx.diskPath(stored); got != abs {
		t.Errorf("diskPath(%q) = %q, want %q", stored, got, abs)
	}

	root, err := idx.storedPath(videoDir)
	if err != nil {
		t.Fatalf("storedPath(root): %v", err)
	}
	if root != "videos" {
		t.Errorf("storedPath(root) = %q, want videos", root)
	}
}
