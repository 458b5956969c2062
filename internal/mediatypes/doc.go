// Package mediatypes defines the supported video file formats and the
// sort keys accepted by the listing API.
//
// The extension and MIME tables are the single source of truth for what
// the indexer registers and what the byte-serving handler advertises.
package mediatypes
