package handlers

import (
	"tube-adventures/internal/database"
	"tube-adventures/internal/library"
	"tube-adventures/internal/navigation"
	"tube-adventures/internal/session"
)

// Indexer is the part of the library indexer the handlers report on.
type Indexer interface {
	IsReady() bool
	IsIndexing() bool
	GetHealthStatus() library.HealthStatus
	TriggerIndex()
}

// Handlers serves the inspection API.
type Handlers struct {
	db       *database.Database
	indexer  Indexer
	locator  navigation.Locator
	sources  navigation.SourceResolver
	sessions *session.Manager
}

func New(db *database.Database, idx Indexer, locator navigation.Locator, sources navigation.SourceResolver, sessions *session.Manager) *Handlers {
	return &Handlers{
		db:       db,
		indexer:  idx,
		locator:  locator,
		sources:  sources,
		sessions: sessions,
	}
}
