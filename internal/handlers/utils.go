package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"video-library/internal/database"
	"video-library/internal/logging"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding errors are logged since we cannot recover from them in an
// HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONStatus encodes v as JSON under an explicit status code.
func writeJSONStatus(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given
// status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		logging.Error("failed to encode JSON error response: %v", err)
	}
}

// folderIDParam reads a folder_id query parameter, defaulting to the
// root for absent or malformed values.
func folderIDParam(r *http.Request) int64 {
	raw := r.URL.Query().Get("folder_id")
	if raw == "" {
		return database.RootFolderID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logging.Debug("Invalid folder_id %q, using root", raw)
		return database.RootFolderID
	}
	return id
}

// clientAddr extracts the requesting client's address for the like
// rate limiter, without the port.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
