package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"video-library/internal/database"
	"video-library/internal/logging"
)

// Home renders the browse page for the root folder. GET /.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.renderFolderPage(w, r, database.RootFolderID)
}

// FolderPage renders the browse page for one folder. GET /folder/{id}.
func (h *Handlers) FolderPage(w http.ResponseWriter, r *http.Request) {
	folderID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid folder id", http.StatusBadRequest)
		return
	}
	h.renderFolderPage(w, r, folderID)
}

func (h *Handlers) renderFolderPage(w http.ResponseWriter, r *http.Request, folderID int64) {
	if h.tmpl == nil {
		http.Error(w, "Templates unavailable", http.StatusInternalServerError)
		return
	}

	view, err := h.db.GetFolderInfo(r.Context(), folderID)
	if errors.Is(err, database.ErrNotFound) {
		http.Error(w, "Folder not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Folder page query failed: %v", err)
		http.Error(w, "Failed to load folder", http.StatusInternalServerError)
		return
	}

	if err := h.tmpl.ExecuteTemplate(w, "index.html", view); err != nil {
		logging.Error("Failed to render folder page: %v", err)
	}
}

// VideoPage renders the single-video page. GET /video/{id}.
// Unknown videos get a plain-text 404.
func (h *Handlers) VideoPage(w http.ResponseWriter, r *http.Request) {
	if h.tmpl == nil {
		http.Error(w, "Templates unavailable", http.StatusInternalServerError)
		return
	}

	videoID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid video id", http.StatusBadRequest)
		return
	}

	detail, err := h.db.GetVideo(r.Context(), videoID)
	if errors.Is(err, database.ErrNotFound) {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Video page query failed: %v", err)
		http.Error(w, "Failed to load video", http.StatusInternalServerError)
		return
	}

	if err := h.tmpl.ExecuteTemplate(w, "video.html", detail); err != nil {
		logging.Error("Failed to render video page: %v", err)
	}
}
