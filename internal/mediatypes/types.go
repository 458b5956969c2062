package mediatypes

import (
	"path/filepath"
	"strings"
)

// SortKey identifies one of the whitelisted video orderings.
type SortKey string

const (
	// SortLikeCountDesc orders by like count, most liked first.
	SortLikeCountDesc SortKey = "likeCountDesc"
	// SortLikeCountAsc orders by like count, least liked first.
	SortLikeCountAsc SortKey = "likeCountAsc"
	// SortDurationDesc orders by duration, longest first.
	SortDurationDesc SortKey = "durationDesc"
	// SortDurationAsc orders by duration, shortest first.
	SortDurationAsc SortKey = "durationAsc"
	// SortUploadDateDesc orders by upload date, newest first.
	SortUploadDateDesc SortKey = "uploadDateDesc"
	// SortUploadDateAsc orders by upload date, oldest first.
	SortUploadDateAsc SortKey = "uploadDateAsc"
)

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mkv": true,
	".mov": true,
}

// MimeTypes maps supported video extensions to their MIME types.
var MimeTypes = map[string]string{
	".mp4": "video/mp4",
	".avi": "video/x-msvideo",
	".mkv": "video/x-matroska",
	".mov": "video/quicktime",
}

// orderClauses maps each whitelisted sort key to its ORDER BY clause.
// Anything outside this map means "no ordering".
var orderClauses = map[SortKey]string{
	SortLikeCountDesc:  "like_count DESC",
	SortLikeCountAsc:   "like_count ASC",
	SortDurationDesc:   "duration DESC",
	SortDurationAsc:    "duration ASC",
	SortUploadDateDesc: "upload_date DESC",
	SortUploadDateAsc:  "upload_date ASC",
}

// IsVideoFile returns true if the path has a supported video extension.
// Matching is case-insensitive.
func IsVideoFile(path string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(path))]
}

// GetMimeType returns the MIME type for a given file path.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(path string) string {
	if mime, ok := MimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// OrderClause returns the SQL ORDER BY expression for a sort key and
// whether the key is one of the whitelisted values. Unknown keys
// (including the empty string) yield ("", false) and callers leave the
// result in natural storage order.
func (k SortKey) OrderClause() (string, bool) {
	clause, ok := orderClauses[k]
	return clause, ok
}
