// Package handlers implements the HTTP surface of the video library:
// the server-rendered browse and video pages, the JSON folder/video
// API, the like endpoint, and byte-serving of video files with a
// path-traversal guard.
package handlers
