package ports

import (
	"context"
	"time"

	"github.com/Castore1977/project-track/domain/core/aggregates"
	"github.com/Castore1977/project-track/domain/core/valueobjects"
	"github.com/Castore1977/project-track/domain/events"
)

// EngineTable holds the catalog's engines in catalog order.
// Engines handed to or returned by a table are never mutated afterwards:
// writers replace an engine with a modified clone.
type EngineTable interface {
	// All returns a consistent view of every engine in catalog order
	All() []*aggregates.Engine

	// Get retrieves an engine by id
	Get(id valueobjects.EngineID) (*aggregates.Engine, bool)

	// Put inserts an engine at the end, or replaces it in place when its id is known
	Put(engine *aggregates.Engine)

	// Remove drops an engine and reports whether it existed
	Remove(id valueobjects.EngineID) bool

	// ReplaceAll swaps the whole catalog in one step
	ReplaceAll(engines []*aggregates.Engine)

	// Len returns the number of engines
	Len() int
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// CatalogUpgrader brings a validated raw catalog to the current exchange
// schema without modifying its input
type CatalogUpgrader interface {
	UpgradeCatalog(catalog []interface{}) ([]interface{}, error)
}

// SummaryCache memoises change summaries keyed by version pair
type SummaryCache interface {
	Get(key string) ([]string, bool)
	Set(key string, lines []string)
	Flush()
}

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
