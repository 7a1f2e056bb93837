// # internal/output/output_test.go
package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"asnmeta/internal/parser"
)

func sampleMapping() parser.ResultMapping {
	return parser.ResultMapping{
		"MyModule": {
			"MyType": {
				"speed-value": parser.FieldData{
					DeclaredType: "INTEGER",
					Constraint:   &parser.Constraint{Min: -128, Max: 127},
					Meta: map[string]parser.MetaValue{
						"Scale": parser.NumberValue(0.1),
						"Range": parser.PairValue(-12.8, 12.7),
						"Units": parser.StringValue("m/s"),
					},
				},
				"flag": parser.FieldData{
					DeclaredType: "BOOLEAN",
					Meta:         map[string]parser.MetaValue{},
				},
			},
		},
	}
}

func TestRenderJSON(t *testing.T) {
	out, err := RenderJSON(sampleMapping())
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]map[string]map[string]struct {
		Type       string          `json:"type"`
		RestrictTo *struct{ Min, Max int } `json:"restrict-to"`
		Meta       map[string]json.RawMessage `json:"meta"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	field := decoded["MyModule"]["MyType"]["speed-value"]
	if field.Type != "INTEGER" {
		t.Errorf("Expected INTEGER, got %s", field.Type)
	}
	if field.RestrictTo == nil || field.RestrictTo.Min != -128 || field.RestrictTo.Max != 127 {
		t.Errorf("Unexpected constraint: %+v", field.RestrictTo)
	}
	if string(field.Meta["Scale"]) != "0.1" {
		t.Errorf("Expected Scale 0.1, got %s", field.Meta["Scale"])
	}
	if string(field.Meta["Range"]) != "[-12.8,12.7]" {
		t.Errorf("Expected Range array, got %s", field.Meta["Range"])
	}

	// BOOLEAN field carries no constraint.
	if decoded["MyModule"]["MyType"]["flag"].RestrictTo != nil {
		t.Error("BOOLEAN field must not carry a constraint")
	}

	// Order-stable projection.
	again, err := RenderJSON(sampleMapping())
	if err != nil {
		t.Fatal(err)
	}
	if out != again {
		t.Error("JSON rendering is not order-stable")
	}
}

func TestRenderTSV(t *testing.T) {
	out := RenderTSV(sampleMapping())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Header + 3 meta rows for speed-value + 1 row for flag.
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Module\tType\tField") {
		t.Errorf("Unexpected header: %s", lines[0])
	}

	// flag sorts before speed-value; its key/value columns are empty.
	if !strings.Contains(lines[1], "flag\tBOOLEAN\t\t\t\t") {
		t.Errorf("Unexpected flag row: %q", lines[1])
	}
	if !strings.Contains(lines[3], "Scale\t0.1") {
		t.Errorf("Expected Scale row, got %q", lines[3])
	}
	if !strings.Contains(lines[2], "Range\t(-12.8, 12.7)") {
		t.Errorf("Expected Range row, got %q", lines[2])
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleMapping())
	for _, want := range []string{"MyModule", "speed-value", "-128..127", "Scale=0.1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected table to contain %q:\n%s", want, out)
		}
	}

	if got := RenderTable(parser.ResultMapping{}); !strings.Contains(got, "no annotated fields") {
		t.Errorf("Unexpected empty rendering: %q", got)
	}
}

func TestEncodeMsgpack(t *testing.T) {
	data, err := EncodeMsgpack(sampleMapping())
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]map[string]map[string]map[string]any
	if err := msgpack.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Round trip failed: %v", err)
	}

	field := decoded["MyModule"]["MyType"]["speed-value"]
	if field["type"] != "INTEGER" {
		t.Errorf("Expected INTEGER, got %v", field["type"])
	}
	if _, ok := field["restrict-to"]; !ok {
		t.Error("Expected restrict-to entry")
	}
	if _, ok := decoded["MyModule"]["MyType"]["flag"]["restrict-to"]; ok {
		t.Error("BOOLEAN field must not carry restrict-to")
	}
}
