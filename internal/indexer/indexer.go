package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"video-library/internal/database"
	"video-library/internal/logging"
	"video-library/internal/mediatypes"
	"video-library/internal/metrics"
	"video-library/internal/probe"
)

// Indexer manages reconcile passes over the video directory.
type Indexer struct {
	db            *database.Database
	videoDir      string // absolute path of the scanned tree
	storedPrefix  string // base name of videoDir; first segment of every stored path
	indexInterval time.Duration
	probeFn       probe.Func
	stopChan      chan struct{}

	indexMu              sync.Mutex
	isIndexing           bool
	lastIndexTime        time.Time
	initialIndexComplete bool
}

// New creates a new Indexer. videoDir must be absolute. An
// indexInterval of 0 disables the periodic loop.
func New(db *database.Database, videoDir string, indexInterval time.Duration) *Indexer {
	return &Indexer{
		db:            db,
		videoDir:      videoDir,
		storedPrefix:  filepath.Base(videoDir),
		indexInterval: indexInterval,
		probeFn:       probe.Duration,
		stopChan:      make(chan struct{}),
	}
}

// SetProbe replaces the duration probe. Tests use this to avoid
// shelling out to ffprobe.
func (idx *Indexer) SetProbe(fn probe.Func) {
	idx.probeFn = fn
}

// Start runs the initial reconcile in the background and, if an
// interval is configured, starts the periodic loop.
func (idx *Indexer) Start() error {
	go func() {
		logging.Info("Starting initial reconcile in background...")
		if err := idx.Reconcile(context.Background()); err != nil {
			logging.Error("Initial reconcile error: %v", err)
		}
	}()

	if idx.indexInterval > 0 {
		go idx.periodicReconcile()
	}

	return nil
}

// Stop stops the periodic loop.
func (idx *Indexer) Stop() {
	close(idx.stopChan)
}

// IsReady reports whether the initial reconcile pass has completed.
func (idx *Indexer) IsReady() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.initialIndexComplete
}

func (idx *Indexer) periodicReconcile() {
	ticker := time.NewTicker(idx.indexInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.Debug("Periodic reconcile triggered")
			if err := idx.Reconcile(context.Background()); err != nil {
				logging.Error("periodic reconcile failed: %v", err)
			}
		case <-idx.stopChan:
			return
		}
	}
}

func (idx *Indexer) tryStartIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	if idx.isIndexing {
		return false
	}
	idx.isIndexing = true
	return true
}

func (idx *Indexer) finishIndexing() {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	idx.isIndexing = false
	idx.initialIndexComplete = true
	idx.lastIndexTime = time.Now()
}

// Reconcile performs one full pass: walk the tree registering folders,
// videos, and associations, then prune rows whose backing path no
// longer exists. A pass already in progress makes this a no-op.
func (idx *Indexer) Reconcile(ctx context.Context) error {
	if !idx.tryStartIndexing() {
		logging.Info("Reconcile already in progress, skipping...")
		return nil
	}
	defer idx.finishIndexing()

	metrics.IndexerIsRunning.Set(1)
	defer metrics.IndexerIsRunning.Set(0)
	metrics.IndexerRunsTotal.Inc()

	startTime := time.Now()
	logging.Info("Starting reconcile of %s...", idx.videoDir)

	videos, folders, err := idx.walkAndIndex(ctx)
	if err != nil {
		metrics.IndexerErrors.Inc()
		return err
	}

	pruned, err := idx.prune(ctx)
	if err != nil {
		metrics.IndexerErrors.Inc()
		return err
	}

	duration := time.Since(startTime)
	metrics.IndexerLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.IndexerLastRunDuration.Set(duration.Seconds())
	metrics.IndexerVideosIndexed.Add(float64(videos))
	metrics.IndexerFoldersIndexed.Add(float64(folders))
	metrics.IndexerEntriesPruned.Add(float64(pruned))

	logging.Info("Reconcile complete in %v: %d folders, %d videos, %d pruned",
		duration, folders, videos, pruned)
	return nil
}

// storedPath converts an absolute path under videoDir into the form
// stored in the database: slash-separated and rooted at the video
// directory's base name (e.g. "videos/shows/ep1.mp4").
func (idx *Indexer) storedPath(absPath string) (string, error) {
	rel, err := filepath.Rel(idx.videoDir, absPath)
	if err != nil {
		return "", fmt.Errorf("path %q is not under %q: %w", absPath, idx.videoDir, err)
	}
	if rel == "." {
		return idx.storedPrefix, nil
	}
	return filepath.ToSlash(filepath.Join(idx.storedPrefix, rel)), nil
}

// diskPath is the inverse of storedPath.
func (idx *Indexer) diskPath(stored string) string {
	return filepath.Join(filepath.Dir(idx.videoDir), filepath.FromSlash(stored))
}

// walkAndIndex walks the tree in one transaction. Folders are resolved
// parent-first through an in-memory path-to-id table, so a folder row
// always exists before its children or videos reference it.
func (idx *Indexer) walkAndIndex(ctx context.Context) (videos, folders int, err error) {
	tx, err := idx.db.BeginBatch(ctx)
	if err != nil {
		return 0, 0, err
	}

	folderIDs := make(map[string]int64)

	walkErr := filepath.WalkDir(idx.videoDir, func(path string, d fs.DirEntry, entryErr error) error {
		if entryErr != nil {
			// Unreadable entry: skip, never fatal.
			logging.Warn("Skipping unreadable path %s: %v", path, entryErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		stored, err := idx.storedPath(path)
		if err != nil {
			logging.Warn("Skipping %s: %v", path, err)
			return nil
		}

		if d.IsDir() {
			var parentID *int64
			if stored != idx.storedPrefix {
				parent, ok := folderIDs[filepath.ToSlash(filepath.Dir(stored))]
				if !ok {
					// WalkDir visits parents first; a miss means the
					// parent itself was skipped.
					logging.Warn("Skipping %s: parent folder not indexed", path)
					return filepath.SkipDir
				}
				parentID = &parent
			}

			id, err := idx.db.GetOrCreateFolder(ctx, tx, stored, parentID)
			if err != nil {
				return err
			}
			folderIDs[stored] = id
			folders++
			return nil
		}

		if !mediatypes.IsVideoFile(path) {
			return nil
		}

		folderID, ok := folderIDs[filepath.ToSlash(filepath.Dir(stored))]
		if !ok {
			logging.Warn("Skipping %s: containing folder not indexed", path)
			return nil
		}

		videoID, exists, err := idx.db.VideoIDByPath(ctx, tx, stored)
		if err != nil {
			return err
		}
		if !exists {
			// Probe only on first sighting; failures degrade to 0.
			duration := idx.probeFn(ctx, path)
			videoID, err = idx.db.InsertVideo(ctx, tx, d.Name(), stored, duration)
			if err != nil {
				return err
			}
			logging.Debug("Video registered: %s (id %d, %ds)", stored, videoID, duration)
		}

		if err := idx.db.AssociateVideo(ctx, tx, folderID, videoID); err != nil {
			return err
		}
		videos++
		return nil
	})

	if err := idx.db.EndBatch(tx, walkErr); err != nil {
		return 0, 0, fmt.Errorf("reconcile walk failed: %w", err)
	}
	return videos, folders, nil
}

// prune deletes folders and videos whose backing path no longer exists.
// Association rows cascade via the relational constraints.
func (idx *Indexer) prune(ctx context.Context) (int, error) {
	pruned := 0

	folders, err := idx.db.ListFolderPaths(ctx)
	if err != nil {
		return pruned, err
	}
	for _, f := range folders {
		if _, err := os.Stat(idx.diskPath(f.Path)); os.IsNotExist(err) {
			if err := idx.db.DeleteFolder(ctx, f.ID); err != nil {
				return pruned, err
			}
			logging.Info("Pruned folder %s (id %d)", f.Path, f.ID)
			pruned++
		}
	}

	videos, err := idx.db.ListVideoPaths(ctx)
	if err != nil {
		return pruned, err
	}
	for _, v := range videos {
		if _, err := os.Stat(idx.diskPath(v.Path)); os.IsNotExist(err) {
			if err := idx.db.DeleteVideo(ctx, v.ID); err != nil {
				return pruned, err
			}
			logging.Info("Pruned video %s (id %d)", v.Path, v.ID)
			pruned++
		}
	}

	return pruned, nil
}
