package handlers

import (
	"html/template"
	"path/filepath"

	"video-library/internal/database"
	"video-library/internal/indexer"
	"video-library/internal/logging"
	"video-library/internal/startup"
)

// Handlers bundles the dependencies of every HTTP handler.
type Handlers struct {
	db       *database.Database
	indexer  *indexer.Indexer
	videoDir string
	tmpl     *template.Template
}

// New creates the handler set. Page templates are loaded from
// templatesDir; a load failure is logged and the page routes respond
// with 500 until the templates are fixed, while the JSON API keeps
// working.
func New(db *database.Database, idx *indexer.Indexer, config *startup.Config, templatesDir string) *Handlers {
	h := &Handlers{
		db:       db,
		indexer:  idx,
		videoDir: config.VideoDir,
	}

	tmpl, err := template.ParseGlob(filepath.Join(templatesDir, "*.html"))
	if err != nil {
		logging.Error("Failed to load templates from %s: %v", templatesDir, err)
	} else {
		h.tmpl = tmpl
	}

	return h
}
