// Package probe extracts video durations by shelling out to ffprobe.
//
// The probe is deliberately forgiving: any failure (missing binary,
// unreadable file, unparsable output) degrades to a duration of zero so
// that an indexing pass never fails on a single bad file.
package probe

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"video-library/internal/logging"
	"video-library/internal/metrics"
)

// Func returns the duration of the video at path in whole seconds,
// or 0 if the duration could not be determined.
type Func func(ctx context.Context, path string) int

// defaultTimeout bounds a single ffprobe invocation.
const defaultTimeout = 30 * time.Second

// Duration probes the file at path with ffprobe and returns its
// duration in whole seconds. Returns 0 on any failure.
func Duration(ctx context.Context, path string) int {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProbeFailures.Inc()
		logging.Warn("ffprobe failed for %s: %v - %s", path, err, strings.TrimSpace(stderr.String()))
		return 0
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil || seconds < 0 {
		metrics.ProbeFailures.Inc()
		logging.Warn("ffprobe returned unparsable duration for %s: %q", path, stdout.String())
		return 0
	}

	return int(seconds)
}
