package database

// RootFolderID is the well-known identifier of the synthetic root
// folder. Folder 1 aggregates the entire video collection regardless of
// direct association; the home page depends on this convention.
const RootFolderID = 1

// Video is a full row from the videos table.
type Video struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	FilePath    string  `json:"file_path"`
	UploadDate  string  `json:"upload_date"`
	Duration    int     `json:"duration"`
	LikeCount   int     `json:"like_count"`
}

// VideoDetail is the single-video API payload: the video row plus its
// containing folder and the derived streaming URL.
type VideoDetail struct {
	Video
	FolderID *int64 `json:"folder_id"`
	VideoURL string `json:"video_url"`
}

// VideoSummary is the listing shape used by folder views and the sorted
// listing API.
type VideoSummary struct {
	ID         int64  `json:"video_id"`
	Title      string `json:"title"`
	LikeCount  int    `json:"like_count"`
	Duration   int    `json:"duration"`
	UploadDate string `json:"upload_date"`
}

// FolderRef identifies a subfolder in a folder view.
type FolderRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FolderView is the aggregated contents of one folder: its display
// name, immediate subfolders, and the videos logically inside it.
type FolderView struct {
	Name            string         `json:"name"`
	SubFolders      []FolderRef    `json:"subFolders"`
	Videos          []VideoSummary `json:"videos"`
	CurrentFolderID int64          `json:"currentFolderId"`
	ParentID        *int64         `json:"parentId"`
}

// FolderPath pairs a folder row with its full path (stored in
// folder_name), as consumed by the indexer's prune pass.
type FolderPath struct {
	ID   int64
	Path string
}

// VideoPath pairs a video row with its file path, as consumed by the
// indexer's prune pass.
type VideoPath struct {
	ID   int64
	Path string
}

// LikeResult is the outcome of a like request. A cap rejection is a
// normal outcome, not an error: Accepted is false and Reason carries
// the caller-facing message.
type LikeResult struct {
	Accepted bool
	NewCount int
	Reason   string
}
