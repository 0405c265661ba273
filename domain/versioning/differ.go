package versioning

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Castore1977/project-track/domain/config"
	"github.com/Castore1977/project-track/domain/core/entities"
)

// UniverseRecordName names the universe in change records
const UniverseRecordName = "Universo di Applicazione"

// ChangeType represents the type of change
type ChangeType string

const (
	ChangeTypeAdded    ChangeType = "added"
	ChangeTypeRemoved  ChangeType = "removed"
	ChangeTypeModified ChangeType = "modified"
)

// Verb returns the word used for the change in summaries
func (t ChangeType) Verb() string {
	switch t {
	case ChangeTypeAdded:
		return "Added"
	case ChangeTypeRemoved:
		return "Removed"
	default:
		return "Modified"
	}
}

// FieldChange is the before/after pair of one field of a modified record
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// ChangeRecord is one detected change. Added and removed records carry the
// full record in Data; modified records carry field-level Changes.
type ChangeRecord struct {
	Type    ChangeType       `json:"type"`
	Section entities.Section `json:"section"`
	Name    string           `json:"name"`
	Data    entities.Record  `json:"data,omitempty"`
	Changes []FieldChange    `json:"changes,omitempty"`
}

// Differ compares snapshots. It holds no state beyond its display markers and
// never modifies its inputs.
type Differ struct {
	emptyMarker   string
	removedMarker string
}

// NewDiffer creates a differ using the markers of cfg, or the defaults when
// cfg is nil.
func NewDiffer(cfg *config.DomainConfig) *Differ {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Differ{
		emptyMarker:   cfg.EmptyMarker,
		removedMarker: cfg.RemovedMarker,
	}
}

// DiffDetailed lists the changes from previous to current: the universe
// first, then each collection in order. Within a collection, additions and
// modifications follow the current order and removals the previous order.
func (d *Differ) DiffDetailed(current, previous entities.Snapshot) []ChangeRecord {
	changes := []ChangeRecord{}

	if current.Universe != previous.Universe {
		changes = append(changes, ChangeRecord{
			Type:    ChangeTypeModified,
			Section: entities.SectionUniverse,
			Name:    UniverseRecordName,
			Changes: []FieldChange{{
				Field:  "description",
				Before: d.display(previous.Universe.Description),
				After:  d.display(current.Universe.Description),
			}},
		})
	}

	for _, section := range entities.CollectionSections {
		changes = append(changes, d.diffSection(section, current.Records(section), previous.Records(section))...)
	}

	return changes
}

func (d *Differ) diffSection(section entities.Section, current, previous []entities.Record) []ChangeRecord {
	var changes []ChangeRecord

	previousKeys, previousByKey := indexByName(previous)
	currentKeys, currentByKey := indexByName(current)

	for i, cur := range current {
		prev, found := previousByKey[currentKeys[i]]
		if !found {
			changes = append(changes, ChangeRecord{
				Type:    ChangeTypeAdded,
				Section: section,
				Name:    cur.RecordName(),
				Data:    cur,
			})
			continue
		}
		if entities.SameFields(cur, prev) {
			continue
		}
		changes = append(changes, ChangeRecord{
			Type:    ChangeTypeModified,
			Section: section,
			Name:    cur.RecordName(),
			Changes: d.diffFields(cur.Fields(), prev.Fields()),
		})
	}

	for i, prev := range previous {
		if _, found := currentByKey[previousKeys[i]]; !found {
			changes = append(changes, ChangeRecord{
				Type:    ChangeTypeRemoved,
				Section: section,
				Name:    prev.RecordName(),
				Data:    prev,
			})
		}
	}

	return changes
}

// diffFields pairs fields present in both records whose values differ, then
// marks fields that only the previous record had as removed. Fields only the
// current record has are not reported.
func (d *Differ) diffFields(current, previous []entities.Field) []FieldChange {
	changes := []FieldChange{}

	previousValues := make(map[string]string, len(previous))
	for _, f := range previous {
		previousValues[f.Key] = f.Value
	}
	currentKeys := make(map[string]struct{}, len(current))

	for _, f := range current {
		currentKeys[f.Key] = struct{}{}
		before, ok := previousValues[f.Key]
		if !ok || before == f.Value {
			continue
		}
		changes = append(changes, FieldChange{
			Field:  f.Key,
			Before: d.display(before),
			After:  d.display(f.Value),
		})
	}

	for _, f := range previous {
		if _, ok := currentKeys[f.Key]; ok {
			continue
		}
		changes = append(changes, FieldChange{
			Field:  f.Key,
			Before: d.display(f.Value),
			After:  d.removedMarker,
		})
	}

	return changes
}

func (d *Differ) display(value string) string {
	if value == "" {
		return d.emptyMarker
	}
	return value
}

// recordKey identifies a record by name and by how many records of the same
// name precede it, so the n-th "Gini" pairs with the n-th "Gini".
type recordKey struct {
	name string
	nth  int
}

// indexByName returns the key of each record, in order, and the records by key
func indexByName(records []entities.Record) ([]recordKey, map[recordKey]entities.Record) {
	keys := make([]recordKey, len(records))
	index := make(map[recordKey]entities.Record, len(records))
	seen := make(map[string]int, len(records))
	for i, r := range records {
		key := recordKey{name: r.RecordName(), nth: seen[r.RecordName()]}
		seen[r.RecordName()]++
		keys[i] = key
		index[key] = r
	}
	return keys, index
}

// Checksum returns a stable digest of a version's identity and content
func Checksum(v entities.Version) (string, error) {
	data := struct {
		ID           string            `json:"id"`
		Timestamp    int64             `json:"timestamp"`
		ValidityDate string            `json:"validity_date"`
		Data         entities.Snapshot `json:"data"`
	}{
		ID:           v.ID.String(),
		Timestamp:    v.Timestamp.UnixMilli(),
		ValidityDate: v.ValidityString(),
		Data:         v.Data.Normalized(),
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:]), nil
}
