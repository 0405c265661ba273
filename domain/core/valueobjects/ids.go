package valueobjects

import "github.com/google/uuid"

// EngineID identifies an engine in the catalog. Imported catalogs may carry
// any non-empty string; newly created engines get a random UUID.
type EngineID string

// NewEngineID creates a new random EngineID
func NewEngineID() EngineID {
	return EngineID(uuid.New().String())
}

// String returns the string representation
func (id EngineID) String() string {
	return string(id)
}

// IsZero checks if the EngineID is the zero value
func (id EngineID) IsZero() bool {
	return id == ""
}

// VersionID identifies one version within an engine's history
type VersionID string

// NewVersionID creates a new random VersionID
func NewVersionID() VersionID {
	return VersionID(uuid.New().String())
}

// String returns the string representation
func (id VersionID) String() string {
	return string(id)
}

// IsZero checks if the VersionID is the zero value
func (id VersionID) IsZero() bool {
	return id == ""
}
