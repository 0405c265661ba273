package aggregates

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Castore1977/project-track/domain/core/entities"
	"github.com/Castore1977/project-track/domain/core/valueobjects"
	"github.com/Castore1977/project-track/domain/events"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"
)

// SaveMode selects how a save affects the version history
type SaveMode string

const (
	// SaveModeTrack appends a new version
	SaveModeTrack SaveMode = "track"
	// SaveModeOverwrite replaces the latest version in place
	SaveModeOverwrite SaveMode = "overwrite"
)

// ParseSaveMode converts a string into a SaveMode
func ParseSaveMode(s string) (SaveMode, error) {
	switch SaveMode(s) {
	case SaveModeTrack, SaveModeOverwrite:
		return SaveMode(s), nil
	default:
		return "", pkgerrors.NewInvalidSaveMode(s)
	}
}

// Engine is the aggregate root for one catalog entry and its history.
// The version sequence is never empty while the engine exists.
type Engine struct {
	id          valueobjects.EngineID
	name        string
	description string
	versions    []entities.Version
	events      []events.DomainEvent
}

// NewEngine creates an engine with a single initial version
func NewEngine(
	name string,
	description string,
	data entities.Snapshot,
	validity *valueobjects.ValidityDate,
	now time.Time,
	maxNameLength int,
) (*Engine, error) {
	if err := validateName(name, maxNameLength); err != nil {
		return nil, err
	}

	engine := &Engine{
		id:          valueobjects.NewEngineID(),
		name:        name,
		description: description,
		events:      []events.DomainEvent{},
	}

	initial := newVersion(data, validity, now)
	engine.versions = []entities.Version{initial}

	engine.addEvent(events.NewEngineCreated(engine.id.String(), name, initial.ID.String(), initial.Timestamp))

	return engine, nil
}

// ReconstructEngine recreates an engine from imported data.
// Versions are taken as given; ordering and link rules are not re-checked.
func ReconstructEngine(id, name, description string, versions []entities.Version) (*Engine, error) {
	if id == "" {
		return nil, pkgerrors.NewInvalidCatalog("id", "engine id is required", nil)
	}
	if len(versions) == 0 {
		return nil, pkgerrors.NewInvalidCatalog("versions", fmt.Sprintf("engine %q has no versions", id), nil)
	}

	engine := &Engine{
		id:          valueobjects.EngineID(id),
		name:        name,
		description: description,
		versions:    make([]entities.Version, len(versions)),
		events:      []events.DomainEvent{},
	}
	for i, v := range versions {
		engine.versions[i] = v.Clone()
	}
	return engine, nil
}

func validateName(name string, maxLength int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.ErrEngineNameRequired
	}
	if maxLength > 0 && utf8.RuneCountInString(name) > maxLength {
		return pkgerrors.NewEngineNameTooLong(maxLength)
	}
	return nil
}

func newVersion(data entities.Snapshot, validity *valueobjects.ValidityDate, now time.Time) entities.Version {
	v := entities.Version{
		ID:        valueobjects.NewVersionID(),
		Timestamp: now.UTC().Truncate(time.Millisecond),
		Data:      data.Normalized(),
	}
	if validity != nil {
		d := *validity
		v.ValidityDate = &d
	}
	return v
}

// ID returns the engine's unique identifier
func (e *Engine) ID() valueobjects.EngineID {
	return e.id
}

// Name returns the engine's display name
func (e *Engine) Name() string {
	return e.name
}

// Description returns the engine's description
func (e *Engine) Description() string {
	return e.description
}

// Versions returns a deep copy of the history, oldest first
func (e *Engine) Versions() []entities.Version {
	out := make([]entities.Version, len(e.versions))
	for i, v := range e.versions {
		out[i] = v.Clone()
	}
	return out
}

// VersionCount returns the number of versions
func (e *Engine) VersionCount() int {
	return len(e.versions)
}

// Latest returns a copy of the most recent version
func (e *Engine) Latest() entities.Version {
	return e.versions[len(e.versions)-1].Clone()
}

// FindVersion returns the version with the given id and its zero-based index
func (e *Engine) FindVersion(id valueobjects.VersionID) (entities.Version, int, error) {
	for i, v := range e.versions {
		if v.ID == id {
			return v.Clone(), i, nil
		}
	}
	return entities.Version{}, -1, pkgerrors.NewVersionNotFound(e.id.String(), id.String())
}

// SaveVersion records new content. In track mode a new version is appended;
// in overwrite mode the latest version keeps its id and gets the new data and
// timestamp, and its validity date changes only when one is supplied.
// A failed save leaves the engine unchanged.
func (e *Engine) SaveVersion(
	data entities.Snapshot,
	mode SaveMode,
	validity *valueobjects.ValidityDate,
	now time.Time,
) (entities.Version, error) {
	if mode != SaveModeTrack && mode != SaveModeOverwrite {
		return entities.Version{}, pkgerrors.NewInvalidSaveMode(string(mode))
	}
	if err := e.checkValidityOrder(mode, validity); err != nil {
		return entities.Version{}, err
	}
	if err := e.checkSelfLinks(data); err != nil {
		return entities.Version{}, err
	}

	if mode == SaveModeTrack {
		v := newVersion(data, validity, now)
		e.versions = append(e.versions, v)
		e.addEvent(events.NewVersionAppended(
			e.id.String(), v.ID.String(), v.ValidityString(), len(e.versions), v.Timestamp,
		))
		return v.Clone(), nil
	}

	idx := len(e.versions) - 1
	replaced := newVersion(data, e.versions[idx].ValidityDate, now)
	replaced.ID = e.versions[idx].ID
	if validity != nil {
		d := *validity
		replaced.ValidityDate = &d
	}
	e.versions[idx] = replaced
	e.addEvent(events.NewVersionOverwritten(
		e.id.String(), replaced.ID.String(), replaced.ValidityString(), len(e.versions), replaced.Timestamp,
	))
	return replaced.Clone(), nil
}

// checkValidityOrder enforces that a supplied validity date falls strictly
// after the effective date of the version it will follow. A tracked save
// follows the latest version; an overwrite follows the one before it.
func (e *Engine) checkValidityOrder(mode SaveMode, validity *valueobjects.ValidityDate) error {
	if validity == nil {
		return nil
	}

	predecessor := len(e.versions) - 1
	if mode == SaveModeOverwrite {
		predecessor--
	}
	if predecessor < 0 {
		return nil
	}

	previous := e.versions[predecessor].EffectiveDate()
	if !validity.After(previous) {
		return pkgerrors.NewValidityOrderViolation(validity.String(), previous.String())
	}
	return nil
}

func (e *Engine) checkSelfLinks(data entities.Snapshot) error {
	for _, section := range []entities.Section{entities.SectionStatisticalEngines, entities.SectionExternalEngines} {
		for _, entry := range data.LinkedEntries(section) {
			if entry.LinkedEngineID != nil && *entry.LinkedEngineID == e.id.String() {
				return pkgerrors.NewSelfLink(e.id.String(), string(section), entry.Name)
			}
		}
	}
	return nil
}

// RollbackLatest drops the most recent version. It reports the removed
// version and whether the history is now empty, in which case the caller
// must remove the engine from the catalog.
func (e *Engine) RollbackLatest(now time.Time) (entities.Version, bool) {
	idx := len(e.versions) - 1
	removed := e.versions[idx]
	e.versions = e.versions[:idx:idx]

	e.addEvent(events.NewVersionRolledBack(e.id.String(), removed.ID.String(), len(e.versions), now))

	return removed, len(e.versions) == 0
}

// MarkDeleted raises the deletion event. The catalog owns removal.
func (e *Engine) MarkDeleted(now time.Time) {
	e.addEvent(events.NewEngineDeleted(e.id.String(), e.name, now))
}

// Clone returns a deep copy without pending events
func (e *Engine) Clone() *Engine {
	return &Engine{
		id:          e.id,
		name:        e.name,
		description: e.description,
		versions:    e.Versions(),
		events:      []events.DomainEvent{},
	}
}

// Events returns the pending domain events
func (e *Engine) Events() []events.DomainEvent {
	return e.events
}

// ClearEvents clears pending events after they have been published
func (e *Engine) ClearEvents() {
	e.events = []events.DomainEvent{}
}

func (e *Engine) addEvent(event events.DomainEvent) {
	e.events = append(e.events, event)
}
