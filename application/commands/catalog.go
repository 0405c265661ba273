package commands

import (
	"github.com/Castore1977/project-track/domain/core/aggregates"
	"github.com/Castore1977/project-track/domain/core/entities"
	"github.com/Castore1977/project-track/domain/core/valueobjects"
)

// CreateEngineCommand represents the command to create a new engine
type CreateEngineCommand struct {
	Name         string
	Description  string
	Data         entities.Snapshot
	ValidityDate *valueobjects.ValidityDate
}

// SaveVersionCommand records new content for an engine
type SaveVersionCommand struct {
	EngineID     valueobjects.EngineID
	Data         entities.Snapshot
	Mode         aggregates.SaveMode
	ValidityDate *valueobjects.ValidityDate
}

// LinkEntryCommand points an entry of one engine at another engine
type LinkEntryCommand struct {
	OwnerID  valueobjects.EngineID
	Section  entities.Section
	Entry    entities.LinkableEntry
	TargetID valueobjects.EngineID
}
