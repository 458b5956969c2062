package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"video-library/internal/logging"
	"video-library/internal/mediatypes"
)

// ServeVideo byte-serves a video file from the configured video root.
// GET /videos/{path}. Stored file paths begin with the root's own
// directory name, so a redundant leading "videos/" segment is stripped
// before resolution. Any resolved path escaping the root is rejected
// with 403.
func (h *Handlers) ServeVideo(w http.ResponseWriter, r *http.Request) {
	reqPath := mux.Vars(r)["path"]
	reqPath = strings.TrimPrefix(reqPath, "videos/")

	fullPath := filepath.Join(h.videoDir, filepath.FromSlash(reqPath))

	absPath, err := filepath.Abs(fullPath)
	if err != nil || !isSubPath(h.videoDir, absPath) {
		logging.Warn("Rejected video path %q from %s", reqPath, clientAddr(r))
		http.Error(w, "Invalid path", http.StatusForbidden)
		return
	}

	info, err := os.Stat(absPath)
	if os.IsNotExist(err) || (err == nil && info.IsDir()) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Failed to stat video file %s: %v", absPath, err)
		http.Error(w, "Failed to access file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mediatypes.GetMimeType(absPath))
	http.ServeFile(w, r, absPath)
}

// isSubPath reports whether child resolves to parent or somewhere
// beneath it.
func isSubPath(parent, child string) bool {
	parent, err := filepath.Abs(parent)
	if err != nil {
		return false
	}
	child, err = filepath.Abs(child)
	if err != nil {
		return false
	}
	return child == parent || strings.HasPrefix(child, parent+string(filepath.Separator))
}
