package entities

// Section names a tracked part of a snapshot
type Section string

const (
	SectionUniverse           Section = "universe"
	SectionStatisticalEngines Section = "statisticalEngines"
	SectionExternalEngines    Section = "externalEngines"
	SectionLogicDetails       Section = "logicDetails"
	SectionKPIs               Section = "kpis"
	SectionDocumentation      Section = "documentation"
)

// CollectionSections lists the record collections in comparison order
var CollectionSections = []Section{
	SectionStatisticalEngines,
	SectionExternalEngines,
	SectionLogicDetails,
	SectionKPIs,
	SectionDocumentation,
}

// Label returns the display label used in change summaries
func (s Section) Label() string {
	switch s {
	case SectionUniverse:
		return "Universe"
	case SectionStatisticalEngines:
		return "Statistical Engine"
	case SectionExternalEngines:
		return "External Engine"
	case SectionLogicDetails:
		return "Logic"
	case SectionKPIs:
		return "KPI"
	case SectionDocumentation:
		return "Documentation"
	default:
		return string(s)
	}
}

// IsLinkable reports whether entries of this section may link to engines
func (s Section) IsLinkable() bool {
	return s == SectionStatisticalEngines || s == SectionExternalEngines
}
