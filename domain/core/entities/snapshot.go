package entities

// Universe is the free-form scope statement of an engine
type Universe struct {
	Description string `json:"description"`
}

// Snapshot is the content of one version. Values are treated as immutable
// once stored: every mutation path works on a Clone.
type Snapshot struct {
	Universe           Universe            `json:"universe"`
	StatisticalEngines []LinkableEntry     `json:"statisticalEngines"`
	ExternalEngines    []LinkableEntry     `json:"externalEngines"`
	LogicDetails       []LogicDetail       `json:"logicDetails"`
	KPIs               []KPI               `json:"kpis"`
	Documentation      []DocumentationLink `json:"documentation"`
}

// Normalized returns a copy whose collections are never nil. Older catalogs
// have no documentation; they read as an empty collection.
func (s Snapshot) Normalized() Snapshot {
	out := s.Clone()
	if out.StatisticalEngines == nil {
		out.StatisticalEngines = []LinkableEntry{}
	}
	if out.ExternalEngines == nil {
		out.ExternalEngines = []LinkableEntry{}
	}
	if out.LogicDetails == nil {
		out.LogicDetails = []LogicDetail{}
	}
	if out.KPIs == nil {
		out.KPIs = []KPI{}
	}
	if out.Documentation == nil {
		out.Documentation = []DocumentationLink{}
	}
	return out
}

// Clone returns a deep copy
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Universe:           s.Universe,
		StatisticalEngines: cloneEntries(s.StatisticalEngines),
		ExternalEngines:    cloneEntries(s.ExternalEngines),
		LogicDetails:       cloneSlice(s.LogicDetails),
		KPIs:               cloneSlice(s.KPIs),
		Documentation:      cloneSlice(s.Documentation),
	}
}

// Records returns the records of a collection section. The universe is not a
// collection and yields nil.
func (s Snapshot) Records(section Section) []Record {
	switch section {
	case SectionStatisticalEngines:
		return toRecords(s.StatisticalEngines)
	case SectionExternalEngines:
		return toRecords(s.ExternalEngines)
	case SectionLogicDetails:
		return toRecords(s.LogicDetails)
	case SectionKPIs:
		return toRecords(s.KPIs)
	case SectionDocumentation:
		return toRecords(s.Documentation)
	default:
		return nil
	}
}

// LinkedEntries returns the linkable entries of a section
func (s Snapshot) LinkedEntries(section Section) []LinkableEntry {
	switch section {
	case SectionStatisticalEngines:
		return s.StatisticalEngines
	case SectionExternalEngines:
		return s.ExternalEngines
	default:
		return nil
	}
}

// Equal reports deep value equality, treating nil and empty collections alike
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Universe != other.Universe {
		return false
	}
	for _, section := range CollectionSections {
		a, b := s.Records(section), other.Records(section)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !SameFields(a[i], b[i]) {
				return false
			}
		}
	}
	return true
}

func toRecords[T Record](items []T) []Record {
	records := make([]Record, len(items))
	for i, item := range items {
		records[i] = item
	}
	return records
}

func cloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func cloneEntries(items []LinkableEntry) []LinkableEntry {
	if items == nil {
		return nil
	}
	out := make([]LinkableEntry, len(items))
	for i, item := range items {
		out[i] = item
		if item.LinkedEngineID != nil {
			id := *item.LinkedEngineID
			out[i].LinkedEngineID = &id
		}
	}
	return out
}
