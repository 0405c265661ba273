package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[
	{
		"id": "e1",
		"name": "Credit Score",
		"description": "",
		"versions": [
			{
				"versionId": "v1",
				"timestamp": "2025-01-10T09:00:00.000Z",
				"validityDate": "2025-01-10",
				"data": {
					"universe": {"description": "Retail"},
					"statisticalEngines": [],
					"externalEngines": [],
					"logicDetails": [],
					"kpis": [{"name": "Gini", "calculation": "v1", "impact": "high"}],
					"documentation": []
				}
			},
			{
				"versionId": "v2",
				"timestamp": "2025-02-10T09:00:00.000Z",
				"validityDate": "2025-02-10",
				"data": {
					"universe": {"description": "Retail"},
					"statisticalEngines": [],
					"externalEngines": [],
					"logicDetails": [],
					"kpis": [{"name": "Gini", "calculation": "v2", "impact": "high"}],
					"documentation": []
				}
			}
		]
	}
]`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	path := writeFile(t, sampleCatalog)

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid catalog, 1 engines, 2 versions")
}

func TestValidate_RejectsBrokenCatalog(t *testing.T) {
	path := writeFile(t, `[{"id": "e1", "name": "Credit Score", "versions": [{"versionId": "v1"}]}]`)

	_, err := run(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_CATALOG")
	assert.Contains(t, err.Error(), "$[0].versions[0].timestamp")
	assert.Contains(t, err.Error(), "record:")
}

func TestTimeline(t *testing.T) {
	path := writeFile(t, sampleCatalog)

	out, err := run(t, "timeline", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Credit Score v2 (latest)")
	assert.Contains(t, out, "- Modified KPI: Gini")
	assert.Contains(t, out, "- Initial engine version.")

	out, err = run(t, "timeline", path, "--json")
	require.NoError(t, err)
	var result struct {
		TotalCount int `json:"totalCount"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.TotalCount)
}

func TestDiff(t *testing.T) {
	path := writeFile(t, sampleCatalog)

	out, err := run(t, "diff", path, "--engine", "e1", "--version", "v2")
	require.NoError(t, err)
	assert.Contains(t, out, "Credit Score v2 (2025-02-10) vs Credit Score v1 (2025-01-10)")
	assert.Contains(t, out, "Gini.calculation: v1 -> v2")

	_, err = run(t, "diff", path, "--engine", "e1", "--version", "v1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NO_PREVIOUS_VERSION")
}

func TestDiff_RequiresEngineAndVersion(t *testing.T) {
	path := writeFile(t, sampleCatalog)

	_, err := run(t, "diff", path, "--version", "v2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"engine"`)

	_, err = run(t, "diff", path, "--engine", "e1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"version"`)
}
