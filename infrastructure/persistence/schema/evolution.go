package schema

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	// SchemaV1 is the original exchange form, without documentation
	SchemaV1 = 1
	// SchemaV2 adds the documentation collection to every version
	SchemaV2 = 2

	// CurrentVersion is the form the catalog decoder expects
	CurrentVersion = SchemaV2
)

// TransformFunc upgrades the data object of one version in place
type TransformFunc func(data map[string]interface{}) error

// Migration represents a single-step upgrade of version data
type Migration struct {
	FromVersion int
	ToVersion   int
	Description string
	Up          TransformFunc
}

// Report summarizes one upgrade run
type Report struct {
	VersionsSeen     int         `json:"versions_seen"`
	VersionsMigrated int         `json:"versions_migrated"`
	Applied          map[int]int `json:"applied"`
}

// SchemaEvolution upgrades raw exchange documents to CurrentVersion before
// they are decoded. Documents are expected to have passed the catalog
// validator.
type SchemaEvolution struct {
	migrations []Migration
	logger     *zap.Logger
}

// NewSchemaEvolution creates a schema evolution manager with the built-in
// migrations registered
func NewSchemaEvolution(logger *zap.Logger) *SchemaEvolution {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SchemaEvolution{
		migrations: []Migration{},
		logger:     logger,
	}
	// Built-in migrations never conflict
	_ = s.RegisterMigration(Migration{
		FromVersion: SchemaV1,
		ToVersion:   SchemaV2,
		Description: "add empty documentation collection",
		Up:          addDocumentation,
	})
	return s
}

// RegisterMigration registers a new migration
func (s *SchemaEvolution) RegisterMigration(migration Migration) error {
	if migration.FromVersion >= migration.ToVersion {
		return fmt.Errorf("invalid migration: from_version must be less than to_version")
	}
	if migration.Up == nil {
		return fmt.Errorf("migration from %d to %d has no transform", migration.FromVersion, migration.ToVersion)
	}

	for _, existing := range s.migrations {
		if existing.FromVersion == migration.FromVersion &&
			existing.ToVersion == migration.ToVersion {
			return fmt.Errorf("migration from %d to %d already exists",
				migration.FromVersion, migration.ToVersion)
		}
	}

	s.migrations = append(s.migrations, migration)
	return nil
}

// DetectVersion infers the schema version of one version's data object
func DetectVersion(data map[string]interface{}) int {
	if _, ok := data["documentation"]; ok {
		return SchemaV2
	}
	return SchemaV1
}

// Upgrade returns a deep copy of catalog with every version's data at
// CurrentVersion. The input is left untouched.
func (s *SchemaEvolution) Upgrade(catalog []interface{}) ([]interface{}, Report, error) {
	report := Report{Applied: make(map[int]int)}
	upgraded, _ := deepCopy(catalog).([]interface{})

	for i, rawEngine := range upgraded {
		engine, ok := rawEngine.(map[string]interface{})
		if !ok {
			return nil, report, fmt.Errorf("engine %d is not an object", i)
		}
		versions, _ := engine["versions"].([]interface{})
		for j, rawVersion := range versions {
			version, ok := rawVersion.(map[string]interface{})
			if !ok {
				return nil, report, fmt.Errorf("engine %d version %d is not an object", i, j)
			}
			data, ok := version["data"].(map[string]interface{})
			if !ok {
				return nil, report, fmt.Errorf("engine %d version %d has no data", i, j)
			}

			report.VersionsSeen++
			from := DetectVersion(data)
			if from == CurrentVersion {
				continue
			}
			if err := s.upgradeData(data, from, CurrentVersion, report.Applied); err != nil {
				return nil, report, fmt.Errorf("engine %d version %d: %w", i, j, err)
			}
			report.VersionsMigrated++
		}
	}

	if report.VersionsMigrated > 0 {
		s.logger.Info("Upgraded catalog schema",
			zap.Int("versions_seen", report.VersionsSeen),
			zap.Int("versions_migrated", report.VersionsMigrated),
			zap.Int("target_version", CurrentVersion),
		)
	}
	return upgraded, report, nil
}

// upgradeData performs forward migrations
func (s *SchemaEvolution) upgradeData(data map[string]interface{}, from, to int, applied map[int]int) error {
	for current := from; current < to; current++ {
		migration := s.findMigration(current, current+1)
		if migration == nil {
			return fmt.Errorf("no migration found from version %d to %d", current, current+1)
		}
		if err := migration.Up(data); err != nil {
			return fmt.Errorf("migration %d->%d failed: %w",
				migration.FromVersion, migration.ToVersion, err)
		}
		applied[migration.ToVersion]++
	}
	return nil
}

// findMigration finds a migration between two versions
func (s *SchemaEvolution) findMigration(from, to int) *Migration {
	for i := range s.migrations {
		if s.migrations[i].FromVersion == from && s.migrations[i].ToVersion == to {
			return &s.migrations[i]
		}
	}
	return nil
}

func addDocumentation(data map[string]interface{}) error {
	data["documentation"] = []interface{}{}
	return nil
}

// deepCopy copies a decoded JSON tree
func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}

// UpgradeCatalog upgrades a catalog and discards the report
func (s *SchemaEvolution) UpgradeCatalog(catalog []interface{}) ([]interface{}, error) {
	upgraded, _, err := s.Upgrade(catalog)
	return upgraded, err
}
