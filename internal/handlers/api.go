package handlers

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strconv"

	"github.com/gorilla/mux"

	"video-library/internal/database"
	"video-library/internal/logging"
	"video-library/internal/mediatypes"
)

// CurrentFolder returns the aggregated contents of one folder as JSON.
// GET /api/current_folder?folder_id=N (default: root).
func (h *Handlers) CurrentFolder(w http.ResponseWriter, r *http.Request) {
	folderID := folderIDParam(r)

	view, err := h.db.GetFolderInfo(r.Context(), folderID)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Folder not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("CurrentFolder query failed: %v", err)
		writeJSONError(w, "Failed to load folder", http.StatusInternalServerError)
		return
	}

	writeJSON(w, view)
}

// sortedVideosResponse mirrors the historical shape of the sorted
// listing payload: no folder identity, just subfolders and videos.
type sortedVideosResponse struct {
	Name       string                  `json:"name"`
	SubFolders []database.FolderRef    `json:"subFolders"`
	Videos     []database.VideoSummary `json:"videos"`
}

// SortedVideos returns a folder's videos under a caller-chosen
// ordering. GET /api/sorted_videos?folder_id=N&sort=KEY. Malformed
// folder_id falls back to the root; unrecognized sort keys yield
// natural storage order.
func (h *Handlers) SortedVideos(w http.ResponseWriter, r *http.Request) {
	folderID := folderIDParam(r)
	sortKey := mediatypes.SortKey(r.URL.Query().Get("sort"))

	videos, subFolders, err := h.db.ListVideos(r.Context(), folderID, sortKey)
	if err != nil {
		logging.Error("SortedVideos query failed: %v", err)
		writeJSONError(w, "Failed to list videos", http.StatusInternalServerError)
		return
	}

	writeJSON(w, sortedVideosResponse{
		SubFolders: subFolders,
		Videos:     videos,
	})
}

// GetVideo returns a single video's detail as JSON, including the
// derived streaming URL. GET /api/video/{id}.
func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, "Invalid video id", http.StatusBadRequest)
		return
	}

	detail, err := h.db.GetVideo(r.Context(), videoID)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("GetVideo query failed: %v", err)
		writeJSONError(w, "Failed to load video", http.StatusInternalServerError)
		return
	}

	// The streaming URL is derived from the stored path's base name;
	// the /videos/ handler resolves it under the video root.
	detail.VideoURL = "/videos/" + path.Base(detail.FilePath)

	writeJSON(w, detail)
}

// likeResponse is the like endpoint's payload for every outcome.
type likeResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	NewLikeCount int    `json:"new_like_count,omitempty"`
}

// LikeVideo applies one rate-limited like. POST /api/like_video with a
// video_id form field. Cap rejections are 200 responses with
// success=false; only malformed or unknown ids are errors.
func (h *Handlers) LikeVideo(w http.ResponseWriter, r *http.Request) {
	raw := r.PostFormValue("video_id")
	if raw == "" {
		writeJSONStatus(w, http.StatusBadRequest, likeResponse{Success: false, Message: "Missing video_id"})
		return
	}
	videoID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSONStatus(w, http.StatusBadRequest, likeResponse{Success: false, Message: "Invalid video_id"})
		return
	}

	addr := clientAddr(r)
	result, err := h.db.LikeVideo(r.Context(), videoID, addr)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONStatus(w, http.StatusNotFound, likeResponse{Success: false, Message: "Video not found"})
		return
	}
	if err != nil {
		logging.Error("LikeVideo failed for video %d: %v", videoID, err)
		writeJSONError(w, "Failed to record like", http.StatusInternalServerError)
		return
	}

	if !result.Accepted {
		logging.Debug("Like rejected for video %d from %s: %s", videoID, addr, result.Reason)
		writeJSON(w, likeResponse{Success: false, Message: result.Reason})
		return
	}

	writeJSON(w, likeResponse{
		Success:      true,
		Message:      "Like recorded",
		NewLikeCount: result.NewCount,
	})
}

// TriggerReindex starts a reconcile pass in the background.
// POST /api/reindex.
func (h *Handlers) TriggerReindex(w http.ResponseWriter, _ *http.Request) {
	go func() {
		if err := h.indexer.Reconcile(context.Background()); err != nil {
			logging.Error("Manual reconcile failed: %v", err)
		}
	}()

	writeJSONStatus(w, http.StatusAccepted, map[string]string{"status": "reindex started"})
}
