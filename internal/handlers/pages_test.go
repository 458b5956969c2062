package handlers

import (
	"net/http"
	"strings"
	"testing"
)

// TestHomePage verifies the root browse page renders through the
// folder template.
func TestHomePage(t *testing.T) {
	h, db, _ := newTestHandlers(t)
	seedLibrary(t, db)
	router := newTestRouter(h)

	rec := doRequest(router, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "videos") {
		t.Errorf("body %q does not contain the root folder name", rec.Body.String())
	}
}

// TestFolderPageErrors verifies the invalid-id and unknown-folder
// responses.
func TestFolderPageErrors(t *testing.T) {
	h, db, _ := newTestHandlers(t)
	seedLibrary(t, db)
	router := newTestRouter(h)

	if rec := doRequest(router, http.MethodGet, "/folder/abc", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id status = %d, want 400", rec.Code)
	}
	if rec := doRequest(router, http.MethodGet, "/folder/999", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown folder status = %d, want 404", rec.Code)
	}
}

// TestVideoPage verifies rendering and the plain-text not-found path.
func TestVideoPage(t *testing.T) {
	h, db, _ := newTestHandlers(t)
	seedLibrary(t, db)
	router := newTestRouter(h)

	rec := doRequest(router, http.MethodGet, "/video/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "intro.mp4") {
		t.Errorf("body %q does not contain the video title", rec.Body.String())
	}

	rec = doRequest(router, http.MethodGet, "/video/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown video status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Video not found") {
		t.Errorf("404 body = %q, want plain-text message", rec.Body.String())
	}
}
