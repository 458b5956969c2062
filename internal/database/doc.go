// Package database manages the SQLite store backing the video library.
//
// It owns the schema (videos, folders, folder-video associations, likes,
// tags, video-tags), the folder aggregation and sorted listing queries
// used by the browsing API, the transactional rate-limited like counter,
// and the upsert/prune primitives used by the filesystem indexer.
//
// Folder id 1 is reserved for the root folder, whose contents aggregate
// every video in the store regardless of direct association. This is a
// global convention of the data model, not a derivable property; see
// RootFolderID.
package database
