package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
)

func postLike(t *testing.T, router http.Handler, videoID string) (int, likeResponse) {
	t.Helper()
	form := url.Values{}
	if videoID != "" {
		form.Set("video_id", videoID)
	}
	rec := doRequest(router, http.MethodPost, "/api/like_video", form)

	var resp likeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding like response: %v", err)
	}
	return rec.Code, resp
}

// TestLikeVideoAccepted verifies a first like succeeds and reports the
// incremented count.
func TestLikeVideoAccepted(t *testing.T) {
	h, db, _ := newTestHandlers(t)
	seedLibrary(t, db)
	router := newTestRouter(h)

	code, resp := postLike(t, router, "1")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if !resp.Success {
		t.Fatalf("success = false, want true: %q", resp.Message)
	}
	if resp.NewLikeCount != 1 {
		t.Errorf("new_like_count = %d, want 1", resp.NewLikeCount)
	}
}

// TestLikeVideoValidation verifies the missing and malformed video_id
// responses.
func TestLikeVideoValidation(t *testing.T) {
	h, db, _ := newTestHandlers(t)
	seedLibrary(t, db)
	router := newTestRouter(h)

	if code, resp := postLike(t, router, ""); code != http.StatusBadRequest || resp.Success {
		t.Errorf("missing video_id: status = %d success = %v, want 400/false", code, resp.Success)
	}
	if code, resp := postLike(t, router, "abc"); code != http.StatusBadRequest || resp.Success {
		t.Errorf("malformed video_id: status = %d success = %v, want 400/false", code, resp.Success)
	}
	if code, resp := postLike(t, router, "999"); code != http.StatusNotFound || resp.Success {
		t.Errorf("unknown video: status = %d success = %v, want 404/false", code, resp.Success)
	}
}

// TestLikeVideoClientCap verifies the per-client cap surfaces as a 200
// with success=false once the fifth like from one address has landed.
func TestLikeVideoClientCap(t *testing.T) {
	h, db, _ := newTestHandlers(t)
	seedLibrary(t, db)
	router := newTestRouter(h)

	for i := 0; i < 5; i++ {
		code, resp := postLike(t, router, "1")
		if code != http.StatusOK || !resp.Success {
			t.Fatalf("like %d: status = %d success = %v, want accepted", i+1, code, resp.Success)
		}
	}

	code, resp := postLike(t, router, "1")
	if code != http.StatusOK {
		t.Fatalf("sixth like status = %d, want 200", code)
	}
	if resp.Success {
		t.Fatal("sixth like from one client accepted, want rejected")
	}
	if resp.Message == "" {
		t.Error("rejection carries no message")
	}
	if resp.NewLikeCount != 0 {
		t.Errorf("rejection new_like_count = %d, want omitted", resp.NewLikeCount)
	}
}
