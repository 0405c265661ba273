package aggregates

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Castore1977/project-track/domain/core/entities"
	"github.com/Castore1977/project-track/domain/core/valueobjects"
	"github.com/Castore1977/project-track/domain/events"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)

func date(t *testing.T, s string) *valueobjects.ValidityDate {
	t.Helper()
	d, err := valueobjects.ParseValidityDate(s)
	require.NoError(t, err)
	return &d
}

func kpiSnapshot(calculation string) entities.Snapshot {
	return entities.Snapshot{
		Universe: entities.Universe{Description: "Retail"},
		KPIs:     []entities.KPI{{Name: "Gini", Calculation: calculation, Impact: "High"}},
	}
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine("Credit Score", "PD model", kpiSnapshot("v1"), nil, baseTime, 200)
	require.NoError(t, err)

	assert.False(t, engine.ID().IsZero())
	assert.Equal(t, "Credit Score", engine.Name())
	require.Equal(t, 1, engine.VersionCount())

	latest := engine.Latest()
	assert.Nil(t, latest.ValidityDate)
	assert.Equal(t, baseTime, latest.Timestamp)
	assert.NotNil(t, latest.Data.Documentation, "collections are normalized on creation")

	require.Len(t, engine.Events(), 1)
	assert.Equal(t, events.TypeEngineCreated, engine.Events()[0].GetEventType())
}

func TestNewEngine_RejectsInvalidName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: pkgerrors.ErrEngineNameRequired},
		{name: "blank", input: "   ", wantErr: pkgerrors.ErrEngineNameRequired},
		{name: "too long", input: "abcdefghijk", wantErr: pkgerrors.ErrEngineNameTooLong},
		{name: "too long multibyte", input: strings.Repeat("è", 11), wantErr: pkgerrors.ErrEngineNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(tt.input, "", entities.Snapshot{}, nil, baseTime, 10)
			assert.Nil(t, engine)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestNewEngine_NameLengthCountsCharacters(t *testing.T) {
	engine, err := NewEngine(strings.Repeat("è", 10), "", entities.Snapshot{}, nil, baseTime, 10)
	require.NoError(t, err)
	assert.Equal(t, "èèèèèèèèèè", engine.Name())
}

func TestSaveVersion_ValidityOrdering(t *testing.T) {
	tests := []struct {
		name     string
		validity string
		wantErr  bool
	}{
		{name: "same day rejected", validity: "2025-03-01", wantErr: true},
		{name: "earlier day rejected", validity: "2025-02-01", wantErr: true},
		{name: "next day accepted", validity: "2025-03-02", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine("Credit Score", "", kpiSnapshot("v1"), date(t, "2025-03-01"), baseTime, 0)
			require.NoError(t, err)

			_, err = engine.SaveVersion(kpiSnapshot("v2"), SaveModeTrack, date(t, tt.validity), baseTime.Add(time.Hour))
			if tt.wantErr {
				assert.True(t, errors.Is(err, pkgerrors.ErrValidityOrderViolation))
				assert.Equal(t, 1, engine.VersionCount(), "rejected save leaves history unchanged")
				assert.Equal(t, "v1", engine.Latest().Data.KPIs[0].Calculation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, engine.VersionCount())
		})
	}
}

func TestSaveVersion_ComparesAgainstTimestampDayWhenUndated(t *testing.T) {
	engine, err := NewEngine("Credit Score", "", kpiSnapshot("v1"), nil, baseTime, 0)
	require.NoError(t, err)

	_, err = engine.SaveVersion(kpiSnapshot("v2"), SaveModeTrack, date(t, "2025-01-10"), baseTime)
	assert.True(t, errors.Is(err, pkgerrors.ErrValidityOrderViolation))

	_, err = engine.SaveVersion(kpiSnapshot("v2"), SaveModeTrack, date(t, "2025-01-11"), baseTime)
	assert.NoError(t, err)
}

func TestSaveVersion_TrackWithoutValiditySkipsOrdering(t *testing.T) {
	engine, err := NewEngine("Credit Score", "", kpiSnapshot("v1"), date(t, "2030-01-01"), baseTime, 0)
	require.NoError(t, err)

	v, err := engine.SaveVersion(kpiSnapshot("v2"), SaveModeTrack, nil, baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, v.ValidityDate)
	assert.Equal(t, 2, engine.VersionCount())
}

func TestSaveVersion_Overwrite(t *testing.T) {
	engine, err := NewEngine("Credit Score", "", kpiSnapshot("v1"), date(t, "2025-03-01"), baseTime, 0)
	require.NoError(t, err)
	originalID := engine.Latest().ID
	later := baseTime.Add(48 * time.Hour)

	t.Run("keeps identity and validity when none supplied", func(t *testing.T) {
		v, err := engine.SaveVersion(kpiSnapshot("v1b"), SaveModeOverwrite, nil, later)
		require.NoError(t, err)

		assert.Equal(t, originalID, v.ID)
		assert.Equal(t, 1, engine.VersionCount())
		assert.Equal(t, later, v.Timestamp)
		assert.Equal(t, "2025-03-01", v.ValidityString())
		assert.Equal(t, "v1b", engine.Latest().Data.KPIs[0].Calculation)
	})

	t.Run("replaces validity when supplied", func(t *testing.T) {
		v, err := engine.SaveVersion(kpiSnapshot("v1c"), SaveModeOverwrite, date(t, "2024-12-01"), later)
		require.NoError(t, err)
		assert.Equal(t, "2024-12-01", v.ValidityString(), "the only version has no predecessor")
	})
}

func TestSaveVersion_OverwriteChecksPredecessor(t *testing.T) {
	engine, err := NewEngine("Credit Score", "", kpiSnapshot("v1"), date(t, "2025-03-01"), baseTime, 0)
	require.NoError(t, err)
	_, err = engine.SaveVersion(kpiSnapshot("v2"), SaveModeTrack, date(t, "2025-04-01"), baseTime)
	require.NoError(t, err)

	_, err = engine.SaveVersion(kpiSnapshot("v2b"), SaveModeOverwrite, date(t, "2025-03-01"), baseTime)
	assert.True(t, errors.Is(err, pkgerrors.ErrValidityOrderViolation))
	assert.Equal(t, "2025-04-01", engine.Latest().ValidityString())

	_, err = engine.SaveVersion(kpiSnapshot("v2b"), SaveModeOverwrite, date(t, "2025-03-15"), baseTime)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", engine.Latest().ValidityString())
}

func TestSaveVersion_RejectsSelfLink(t *testing.T) {
	engine, err := NewEngine("Credit Score", "", kpiSnapshot("v1"), nil, baseTime, 0)
	require.NoError(t, err)

	data := kpiSnapshot("v2")
	data.ExternalEngines = []entities.LinkableEntry{
		entities.LinkableEntry{Name: "Me"}.LinkTo(engine.ID().String(), engine.Name()),
	}

	_, err = engine.SaveVersion(data, SaveModeTrack, nil, baseTime)
	assert.True(t, errors.Is(err, pkgerrors.ErrSelfLink))
	assert.Equal(t, 1, engine.VersionCount())
}

func TestSaveVersion_InvalidMode(t *testing.T) {
	engine, err := NewEngine("Credit Score", "", kpiSnapshot("v1"), nil, baseTime, 0)
	require.NoError(t, err)

	_, err = engine.SaveVersion(kpiSnapshot("v2"), SaveMode("append"), nil, baseTime)
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidSaveMode))
}

func TestRollbackLatest(t *testing.T) {
	engine, err := NewEngine("Credit Score", "", kpiSnapshot("v1"), nil, baseTime, 0)
	require.NoError(t, err)
	v2, err := engine.SaveVersion(kpiSnapshot("v2"), SaveModeTrack, nil, baseTime.Add(time.Hour))
	require.NoError(t, err)

	removed, empty := engine.RollbackLatest(baseTime)
	assert.Equal(t, v2.ID, removed.ID)
	assert.False(t, empty)
	assert.Equal(t, "v1", engine.Latest().Data.KPIs[0].Calculation)

	_, empty = engine.RollbackLatest(baseTime)
	assert.True(t, empty)
	assert.Equal(t, 0, engine.VersionCount())
}

func TestEngine_CloneIsIndependent(t *testing.T) {
	engine, err := NewEngine("Credit Score", "", kpiSnapshot("v1"), nil, baseTime, 0)
	require.NoError(t, err)

	copied := engine.Clone()
	_, err = copied.SaveVersion(kpiSnapshot("v2"), SaveModeTrack, nil, baseTime)
	require.NoError(t, err)

	assert.Equal(t, 1, engine.VersionCount())
	assert.Equal(t, 2, copied.VersionCount())
	assert.Empty(t, engine.Clone().Events())
}

func TestFindVersion(t *testing.T) {
	engine, err := NewEngine("Credit Score", "", kpiSnapshot("v1"), nil, baseTime, 0)
	require.NoError(t, err)
	first := engine.Latest()

	found, idx, err := engine.FindVersion(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, first.ID, found.ID)

	_, _, err = engine.FindVersion("missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestParseSaveMode(t *testing.T) {
	mode, err := ParseSaveMode("overwrite")
	require.NoError(t, err)
	assert.Equal(t, SaveModeOverwrite, mode)

	_, err = ParseSaveMode("")
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidSaveMode))
}
