package entities

import (
	"time"

	"github.com/Castore1977/project-track/domain/core/valueobjects"
)

// Version is one point in an engine's history
type Version struct {
	ID           valueobjects.VersionID
	Timestamp    time.Time
	ValidityDate *valueobjects.ValidityDate
	Data         Snapshot
}

// EffectiveDate is the validity date when set, else the calendar day of the
// timestamp.
func (v Version) EffectiveDate() valueobjects.ValidityDate {
	if v.ValidityDate != nil {
		return *v.ValidityDate
	}
	return valueobjects.DateOf(v.Timestamp)
}

// ValidityString returns the validity date or an empty string
func (v Version) ValidityString() string {
	if v.ValidityDate == nil {
		return ""
	}
	return v.ValidityDate.String()
}

// Clone returns a deep copy
func (v Version) Clone() Version {
	out := v
	out.Data = v.Data.Clone()
	if v.ValidityDate != nil {
		d := *v.ValidityDate
		out.ValidityDate = &d
	}
	return out
}
