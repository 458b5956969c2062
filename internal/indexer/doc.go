// Package indexer reconciles the on-disk video directory tree with the
// database: it registers folders and video files, links videos to their
// containing folders, and prunes rows whose backing path is gone.
//
// A reconcile pass is idempotent; re-running it over an unchanged tree
// changes nothing. Passes never overlap: an in-process guard skips a
// trigger while another pass is running.
package indexer
