package versioning

import (
	"fmt"

	"github.com/Castore1977/project-track/domain/core/entities"
	"github.com/Castore1977/project-track/domain/core/valueobjects"
)

const (
	// NoChangesLine is the summary of two versions with nothing to report
	NoChangesLine = "No tracked changes."
	// InitialVersionLine summarizes a version that has no predecessor
	InitialVersionLine = "Initial engine version."

	unsetValidity = "not set"
)

// FormatChange renders a change record as a single summary sentence
func FormatChange(c ChangeRecord) string {
	return fmt.Sprintf("%s %s: %s", c.Type.Verb(), c.Section.Label(), c.Name)
}

// FormatChanges renders change records in order
func FormatChanges(changes []ChangeRecord) []string {
	lines := make([]string, len(changes))
	for i, c := range changes {
		lines[i] = FormatChange(c)
	}
	return lines
}

// DiffSummary describes what changed between two versions, one line per
// changed record. A validity date transition is reported first. When nothing
// changed, the result is the single NoChangesLine.
func (d *Differ) DiffSummary(current, previous entities.Version) []string {
	lines := FormatChanges(d.DiffDetailed(current.Data, previous.Data))

	if line, changed := ValidityTransition(current, previous); changed {
		lines = append([]string{line}, lines...)
	}

	if len(lines) == 0 {
		return []string{NoChangesLine}
	}
	return lines
}

// ValidityTransition returns the line describing a validity date change
// between two versions, and whether the dates differ at all.
func ValidityTransition(current, previous entities.Version) (string, bool) {
	if valueobjects.SameDate(current.ValidityDate, previous.ValidityDate) {
		return "", false
	}
	return fmt.Sprintf("Validity date: %s -> %s", validityOrUnset(previous), validityOrUnset(current)), true
}

func validityOrUnset(v entities.Version) string {
	if s := v.ValidityString(); s != "" {
		return s
	}
	return unsetValidity
}

// CapSummary keeps the first limit lines and collapses the rest into a count
func CapSummary(lines []string, limit int) []string {
	if limit <= 0 || len(lines) <= limit {
		return lines
	}
	capped := make([]string, 0, limit+1)
	capped = append(capped, lines[:limit]...)
	capped = append(capped, fmt.Sprintf("...and %d more changes. Open the detail view.", len(lines)-limit))
	return capped
}
