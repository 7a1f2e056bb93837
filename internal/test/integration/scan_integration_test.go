// # internal/test/integration/scan_integration_test.go
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"asnmeta/internal/output"
	"asnmeta/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFiles(t *testing.T, tmpDir string) {
	depthSchema := `
DepthModule DEFINITIONS ::= BEGIN

DepthReading ::= SEQUENCE {
    -- [Meta]
    -- @Scale 0.1
    -- @Range -12.8, 12.7
    -- @Units 'm/s'
    ascent-rate INTEGER (-128..127),

    -- [Meta]
    -- @Description 'Depth below surface'
    depth INTEGER (0..11000),

    sensor-id OCTET-STRING
}

END
`
	err := os.WriteFile(filepath.Join(tmpDir, "depth.asn"), []byte(depthSchema), 0o644)
	require.NoError(t, err)

	powerSchema := `
PowerModule DEFINITIONS ::= BEGIN

BatteryState ::= SEQUENCE {
    -- [Meta]
    -- @Scale 0.01
    voltage INTEGER (0..1200),

    charging BOOLEAN
}

END
`
	err = os.WriteFile(filepath.Join(tmpDir, "power.asn"), []byte(powerSchema), 0o644)
	require.NoError(t, err)
}

func TestFullExtractionPipeline(t *testing.T) {
	tmpDir := t.TempDir()
	createTestFiles(t, tmpDir)

	patterns, err := filepath.Glob(filepath.Join(tmpDir, "*.asn"))
	require.NoError(t, err)
	require.Len(t, patterns, 2)

	sources := make([]parser.Source, 0, len(patterns))
	for _, path := range patterns {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		sources = append(sources, parser.Source{Path: path, Content: content})
	}

	mapping, warnings, err := parser.Extract(sources, parser.DuplicateReplace)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// Both modules present, no cross-contamination.
	require.Len(t, mapping, 2)
	require.Contains(t, mapping, "DepthModule")
	require.Contains(t, mapping, "PowerModule")

	ascent := mapping["DepthModule"]["DepthReading"]["ascent-rate"]
	assert.Equal(t, "INTEGER", ascent.DeclaredType)
	require.NotNil(t, ascent.Constraint)
	assert.Equal(t, -128, ascent.Constraint.Min)
	assert.Equal(t, 127, ascent.Constraint.Max)
	assert.Equal(t, parser.NumberValue(0.1), ascent.Meta["Scale"])
	assert.Equal(t, parser.PairValue(-12.8, 12.7), ascent.Meta["Range"])
	assert.Equal(t, parser.StringValue("m/s"), ascent.Meta["Units"])

	// The field without a metadata block never appears.
	_, ok := mapping["DepthModule"]["DepthReading"]["sensor-id"]
	assert.False(t, ok)

	voltage := mapping["PowerModule"]["BatteryState"]["voltage"]
	assert.Equal(t, parser.NumberValue(0.01), voltage.Meta["Scale"])

	// The JSON projection is valid and order-stable.
	rendered, err := output.RenderJSON(mapping)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(rendered), &decoded))

	again, err := output.RenderJSON(mapping)
	require.NoError(t, err)
	assert.Equal(t, rendered, again)
}

func TestPipelineSurvivesMalformedInput(t *testing.T) {
	tmpDir := t.TempDir()

	messy := `
MessyModule DEFINITIONS ::= BEGIN

MessyType ::= SEQUENCE {
    -- [Meta]
    -- @Scale 0.5
    -- orphaned before scope change
}

SecondType ::= SEQUENCE {
    -- [Meta]
    -- @Good 1
    -- this line has no key marker
    value INTEGER (0..10)
}

END
`
	err := os.WriteFile(filepath.Join(tmpDir, "messy.asn"), []byte(messy), 0o644)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(tmpDir, "messy.asn"))
	require.NoError(t, err)

	mapping, warnings, err := parser.Extract([]parser.Source{
		{Path: "messy.asn", Content: content},
	}, parser.DuplicateReplace)
	require.NoError(t, err)

	kinds := make(map[parser.WarningKind]int)
	for _, w := range warnings {
		kinds[w.Kind]++
	}
	assert.Equal(t, 1, kinds[parser.WarnOrphanBlock], "orphan block should warn")
	assert.Equal(t, 1, kinds[parser.WarnMalformedMetaLine], "bad meta line should warn")

	// The valid field still made it through.
	value := mapping["MessyModule"]["SecondType"]["value"]
	assert.Equal(t, parser.NumberValue(1), value.Meta["Good"])
	assert.Len(t, value.Meta, 1)
}
