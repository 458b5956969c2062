// Command reindex runs a single reconcile pass against the video
// library database and exits. It is intended for cron jobs and for
// rebuilding the index while the server is offline.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"video-library/internal/database"
	"video-library/internal/indexer"
	"video-library/internal/startup"
)

func main() {
	config, err := startup.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	idx := indexer.New(db, config.VideoDir, 0)

	start := time.Now()
	if err := idx.Reconcile(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "reconcile failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("reconcile finished in %s\n", time.Since(start).Round(time.Millisecond))
}
