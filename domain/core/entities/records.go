package entities

// Field is one named scalar value of a record. Fields that a record does not
// carry are simply absent from its field list.
type Field struct {
	Key   string
	Value string
}

// Record is an element of one of the snapshot's ordered collections.
// Records are identified by name when versions are compared.
type Record interface {
	RecordName() string
	Fields() []Field
}

// LinkableEntry is a statistical or external engine reference. When
// LinkedEngineID is set the description mirrors the linked engine and is not
// authored content.
type LinkableEntry struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	LinkedEngineID *string `json:"linkedEngineId"`
}

// RecordName implements Record
func (e LinkableEntry) RecordName() string { return e.Name }

// Fields implements Record. linkedEngineId is only present while set.
func (e LinkableEntry) Fields() []Field {
	fields := []Field{
		{Key: "name", Value: e.Name},
		{Key: "description", Value: e.Description},
	}
	if e.LinkedEngineID != nil {
		fields = append(fields, Field{Key: "linkedEngineId", Value: *e.LinkedEngineID})
	}
	return fields
}

// IsLinked reports whether the entry points at another engine
func (e LinkableEntry) IsLinked() bool {
	return e.LinkedEngineID != nil && *e.LinkedEngineID != ""
}

// LogicDetail describes one piece of engine logic
type LogicDetail struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RecordName implements Record
func (l LogicDetail) RecordName() string { return l.Name }

// Fields implements Record
func (l LogicDetail) Fields() []Field {
	return []Field{
		{Key: "name", Value: l.Name},
		{Key: "description", Value: l.Description},
	}
}

// KPI is an impact indicator of the engine
type KPI struct {
	Name        string `json:"name"`
	Calculation string `json:"calculation"`
	Impact      string `json:"impact"`
}

// RecordName implements Record
func (k KPI) RecordName() string { return k.Name }

// Fields implements Record
func (k KPI) Fields() []Field {
	return []Field{
		{Key: "name", Value: k.Name},
		{Key: "calculation", Value: k.Calculation},
		{Key: "impact", Value: k.Impact},
	}
}

// DocumentationLink points at external documentation
type DocumentationLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RecordName implements Record
func (d DocumentationLink) RecordName() string { return d.Name }

// Fields implements Record
func (d DocumentationLink) Fields() []Field {
	return []Field{
		{Key: "name", Value: d.Name},
		{Key: "url", Value: d.URL},
	}
}

// SameFields reports whether two records carry exactly the same fields with
// the same values, in the same order.
func SameFields(a, b Record) bool {
	fa, fb := a.Fields(), b.Fields()
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if fa[i] != fb[i] {
			return false
		}
	}
	return true
}
