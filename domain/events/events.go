package events

import "time"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

const (
	TypeEngineCreated      = "engine.created"
	TypeVersionAppended    = "engine.version_appended"
	TypeVersionOverwritten = "engine.version_overwritten"
	TypeVersionRolledBack  = "engine.version_rolled_back"
	TypeEngineDeleted      = "engine.deleted"
	TypeCatalogImported    = "catalog.imported"
)

// EngineCreated is raised when a new engine enters the catalog
type EngineCreated struct {
	BaseEvent
	Name      string `json:"name"`
	VersionID string `json:"version_id"`
}

// NewEngineCreated creates an EngineCreated event
func NewEngineCreated(engineID, name, versionID string, timestamp time.Time) EngineCreated {
	return EngineCreated{
		BaseEvent: BaseEvent{
			AggregateID: engineID,
			EventType:   TypeEngineCreated,
			Timestamp:   timestamp,
			Version:     1,
		},
		Name:      name,
		VersionID: versionID,
	}
}

// VersionSaved is raised by both save modes; EventType tells them apart
type VersionSaved struct {
	BaseEvent
	VersionID    string `json:"version_id"`
	ValidityDate string `json:"validity_date,omitempty"`
}

// NewVersionAppended creates a VersionSaved event for a tracked save
func NewVersionAppended(engineID, versionID, validityDate string, versionCount int, timestamp time.Time) VersionSaved {
	return VersionSaved{
		BaseEvent: BaseEvent{
			AggregateID: engineID,
			EventType:   TypeVersionAppended,
			Timestamp:   timestamp,
			Version:     versionCount,
		},
		VersionID:    versionID,
		ValidityDate: validityDate,
	}
}

// NewVersionOverwritten creates a VersionSaved event for an untracked save
func NewVersionOverwritten(engineID, versionID, validityDate string, versionCount int, timestamp time.Time) VersionSaved {
	return VersionSaved{
		BaseEvent: BaseEvent{
			AggregateID: engineID,
			EventType:   TypeVersionOverwritten,
			Timestamp:   timestamp,
			Version:     versionCount,
		},
		VersionID:    versionID,
		ValidityDate: validityDate,
	}
}

// VersionRolledBack is raised when the latest version is dropped
type VersionRolledBack struct {
	BaseEvent
	VersionID     string `json:"version_id"`
	EngineRemoved bool   `json:"engine_removed"`
}

// NewVersionRolledBack creates a VersionRolledBack event
func NewVersionRolledBack(engineID, versionID string, remaining int, timestamp time.Time) VersionRolledBack {
	return VersionRolledBack{
		BaseEvent: BaseEvent{
			AggregateID: engineID,
			EventType:   TypeVersionRolledBack,
			Timestamp:   timestamp,
			Version:     remaining,
		},
		VersionID:     versionID,
		EngineRemoved: remaining == 0,
	}
}

// EngineDeleted is raised on explicit deletion
type EngineDeleted struct {
	BaseEvent
	Name string `json:"name"`
}

// NewEngineDeleted creates an EngineDeleted event
func NewEngineDeleted(engineID, name string, timestamp time.Time) EngineDeleted {
	return EngineDeleted{
		BaseEvent: BaseEvent{
			AggregateID: engineID,
			EventType:   TypeEngineDeleted,
			Timestamp:   timestamp,
			Version:     0,
		},
		Name: name,
	}
}

// CatalogImported is raised when an import replaces the whole catalog
type CatalogImported struct {
	BaseEvent
	EngineCount  int `json:"engine_count"`
	VersionCount int `json:"version_count"`
}

// NewCatalogImported creates a CatalogImported event
func NewCatalogImported(engineCount, versionCount int, timestamp time.Time) CatalogImported {
	return CatalogImported{
		BaseEvent: BaseEvent{
			AggregateID: "catalog",
			EventType:   TypeCatalogImported,
			Timestamp:   timestamp,
			Version:     1,
		},
		EngineCount:  engineCount,
		VersionCount: versionCount,
	}
}
