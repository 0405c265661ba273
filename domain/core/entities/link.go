package entities

import "strings"

// LinkedDescriptionPrefix starts the pointer text of a linked entry
const LinkedDescriptionPrefix = "See details in: "

// LinkTo points the entry at another engine and replaces its description
// with pointer text naming that engine.
func (e LinkableEntry) LinkTo(engineID, engineName string) LinkableEntry {
	id := engineID
	e.LinkedEngineID = &id
	if engineName == "" {
		engineName = "Linked engine"
	}
	e.Description = LinkedDescriptionPrefix + engineName
	return e
}

// Unlink clears the link. The description is cleared only when it is still
// the generated pointer text.
func (e LinkableEntry) Unlink() LinkableEntry {
	e.LinkedEngineID = nil
	if strings.HasPrefix(e.Description, LinkedDescriptionPrefix) {
		e.Description = ""
	}
	return e
}
