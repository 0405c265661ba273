package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Castore1977/project-track/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Universe: Universe{Description: "Retail customers"},
		StatisticalEngines: []LinkableEntry{
			{Name: "Scorecard", Description: "Logistic model", LinkedEngineID: strPtr("engine-2")},
		},
		KPIs: []KPI{{Name: "Gini", Calculation: "2*AUC-1", Impact: "High"}},
	}
}

func TestSnapshot_NormalizedFillsMissingCollections(t *testing.T) {
	s := sampleSnapshot().Normalized()

	assert.NotNil(t, s.ExternalEngines)
	assert.NotNil(t, s.LogicDetails)
	assert.NotNil(t, s.Documentation)
	assert.Empty(t, s.Documentation)
	assert.Len(t, s.KPIs, 1)
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	original := sampleSnapshot()
	copied := original.Clone()

	copied.KPIs[0].Calculation = "changed"
	*copied.StatisticalEngines[0].LinkedEngineID = "engine-9"

	assert.Equal(t, "2*AUC-1", original.KPIs[0].Calculation)
	assert.Equal(t, "engine-2", *original.StatisticalEngines[0].LinkedEngineID)
}

func TestSnapshot_Equal(t *testing.T) {
	a := sampleSnapshot()
	b := sampleSnapshot().Normalized()
	assert.True(t, a.Equal(b), "nil and empty collections compare equal")

	b.KPIs[0].Impact = "Low"
	assert.False(t, a.Equal(b))
}

func TestSnapshot_DocumentationMissingInJSON(t *testing.T) {
	raw := `{"universe":{"description":"x"},"statisticalEngines":[],"externalEngines":[],"logicDetails":[],"kpis":[]}`

	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Empty(t, s.Normalized().Documentation)
	assert.Empty(t, s.Records(SectionDocumentation))
}

func TestLinkableEntry_Fields(t *testing.T) {
	unlinked := LinkableEntry{Name: "A", Description: "d"}
	assert.Len(t, unlinked.Fields(), 2)

	linked := unlinked.LinkTo("engine-7", "Fraud")
	require.Len(t, linked.Fields(), 3)
	assert.Equal(t, Field{Key: "linkedEngineId", Value: "engine-7"}, linked.Fields()[2])
	assert.Equal(t, "See details in: Fraud", linked.Description)
	assert.True(t, linked.IsLinked())
}

func TestLinkableEntry_Unlink(t *testing.T) {
	linked := LinkableEntry{Name: "A"}.LinkTo("engine-7", "Fraud")
	assert.Equal(t, "", linked.Unlink().Description)

	edited := linked
	edited.Description = "Hand written"
	assert.Equal(t, "Hand written", edited.Unlink().Description)
	assert.Nil(t, edited.Unlink().LinkedEngineID)
}

func TestVersion_EffectiveDate(t *testing.T) {
	ts := time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)
	v := Version{Timestamp: ts}
	assert.Equal(t, "2025-01-15", v.EffectiveDate().String())

	d, err := valueobjects.ParseValidityDate("2025-03-01")
	require.NoError(t, err)
	v.ValidityDate = &d
	assert.Equal(t, "2025-03-01", v.EffectiveDate().String())
}
