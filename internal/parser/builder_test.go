// # internal/parser/builder_test.go
package parser

import (
	"strings"
	"testing"
)

func TestParseFieldLine(t *testing.T) {
	name, typ, c, ok := ParseFieldLine("speed-value INTEGER (-128..127),")
	if !ok {
		t.Fatal("Expected field line to parse")
	}
	if name != "speed-value" || typ != "INTEGER" {
		t.Errorf("Unexpected name/type: %s %s", name, typ)
	}
	if c == nil || c.Min != -128 || c.Max != 127 {
		t.Errorf("Expected constraint (-128, 127), got %+v", c)
	}

	name, typ, c, ok = ParseFieldLine("enabled BOOLEAN,")
	if !ok || name != "enabled" || typ != "BOOLEAN" {
		t.Errorf("Unexpected parse: %s %s %v", name, typ, ok)
	}
	if c != nil {
		t.Errorf("Non-INTEGER field must not yield a constraint, got %+v", c)
	}

	// A range on a non-INTEGER type is ignored.
	_, _, c, _ = ParseFieldLine("voltage Stat32u (0..10)")
	if c != nil {
		t.Errorf("Constraint on non-INTEGER type should be ignored, got %+v", c)
	}

	if _, _, _, ok := ParseFieldLine("!!!"); ok {
		t.Error("Expected unparseable line to fail")
	}
}

func TestParseMetaLine(t *testing.T) {
	key, val, ok := ParseMetaLine("@Scale 0.1")
	if !ok || key != "Scale" {
		t.Fatalf("Unexpected parse: %s %v", key, ok)
	}
	if val.Kind != ValueNumber || val.Number != 0.1 {
		t.Errorf("Expected number 0.1, got %+v", val)
	}

	if _, _, ok := ParseMetaLine("Scale with no marker"); ok {
		t.Error("Expected line without key marker to fail")
	}
	if _, _, ok := ParseMetaLine("@KeyOnly"); ok {
		t.Error("Expected key without value to fail")
	}
}

func scanAndBuild(t *testing.T, policy DuplicatePolicy, files map[string]string, order []string) (*Builder, []Warning) {
	t.Helper()
	b := NewBuilder(policy)
	var warnings []Warning
	for _, path := range order {
		s := NewScanner(path)
		events := s.Scan([]byte(files[path]))
		warnings = append(warnings, s.Warnings()...)
		if err := b.Apply(path, events); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}
	return b, append(warnings, b.Warnings()...)
}

func TestBuildEndToEnd(t *testing.T) {
	src := `
MyModule DEFINITIONS ::= BEGIN
MyType ::= SEQUENCE {
    -- [Meta]
    -- @Scale 0.1
    -- @Range -12.8, 12.7
    speed-value INTEGER (-128..127),

    voltage Stat32u
}
END
`
	b, warnings := scanAndBuild(t, DuplicateReplace, map[string]string{"a.asn": src}, []string{"a.asn"})
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	m := b.Mapping()
	field, ok := m["MyModule"]["MyType"]["speed-value"]
	if !ok {
		t.Fatalf("Expected MyModule.MyType.speed-value in mapping, got %+v", m)
	}
	if field.DeclaredType != "INTEGER" {
		t.Errorf("Expected INTEGER, got %s", field.DeclaredType)
	}
	if field.Constraint == nil || field.Constraint.Min != -128 || field.Constraint.Max != 127 {
		t.Errorf("Expected constraint (-128, 127), got %+v", field.Constraint)
	}
	if v := field.Meta["Scale"]; v.Kind != ValueNumber || v.Number != 0.1 {
		t.Errorf("Expected Scale 0.1, got %+v", v)
	}
	if v := field.Meta["Range"]; v.Kind != ValuePair || v.Pair != [2]float64{-12.8, 12.7} {
		t.Errorf("Expected Range (-12.8, 12.7), got %+v", v)
	}

	// The field without a metadata block never appears.
	if _, ok := m["MyModule"]["MyType"]["voltage"]; ok {
		t.Error("voltage has no metadata block and must not appear")
	}
	if b.ModulesSeen() != 1 || b.TypesSeen() != 1 {
		t.Errorf("Unexpected scope counts: %d modules, %d types", b.ModulesSeen(), b.TypesSeen())
	}
}

func TestBuildMalformedMetaLineSkipped(t *testing.T) {
	src := `
M DEFINITIONS ::= BEGIN
T ::= SEQUENCE {
    -- [Meta]
    -- @Scale 0.1
    -- not a meta entry
    x INTEGER (0..10)
}
END
`
	b, warnings := scanAndBuild(t, DuplicateReplace, map[string]string{"a.asn": src}, []string{"a.asn"})

	found := false
	for _, w := range warnings {
		if w.Kind == WarnMalformedMetaLine {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a malformed-meta-line warning, got %v", warnings)
	}

	field := b.Mapping()["M"]["T"]["x"]
	if len(field.Meta) != 1 {
		t.Errorf("Expected the valid line to survive, got %+v", field.Meta)
	}
	if v := field.Meta["Scale"]; v.Number != 0.1 {
		t.Errorf("Expected Scale 0.1, got %+v", v)
	}
}

func TestBuildLastWriteWins(t *testing.T) {
	src := `
M DEFINITIONS ::= BEGIN
T ::= SEQUENCE {
    -- [Meta]
    -- @Scale 0.1
    x INTEGER (0..10),
    -- [Meta]
    -- @Scale 0.2
    x INTEGER (0..20)
}
END
`
	b, warnings := scanAndBuild(t, DuplicateReplace, map[string]string{"a.asn": src}, []string{"a.asn"})

	field := b.Mapping()["M"]["T"]["x"]
	if v := field.Meta["Scale"]; v.Number != 0.2 {
		t.Errorf("Expected later record to win, got Scale %+v", v)
	}
	if field.Constraint == nil || field.Constraint.Max != 20 {
		t.Errorf("Expected later constraint, got %+v", field.Constraint)
	}

	found := false
	for _, w := range warnings {
		if w.Kind == WarnDuplicatePath {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a duplicate-path note, got %v", warnings)
	}
}

func TestBuildDuplicateErrorPolicy(t *testing.T) {
	src := `
M DEFINITIONS ::= BEGIN
T ::= SEQUENCE {
    -- [Meta]
    -- @Scale 0.1
    x INTEGER (0..10),
    -- [Meta]
    -- @Scale 0.2
    x INTEGER (0..20)
}
END
`
	b := NewBuilder(DuplicateError)
	s := NewScanner("dup.asn")
	err := b.Apply("dup.asn", s.Scan([]byte(src)))
	if err == nil {
		t.Fatal("Expected duplicate path error")
	}
	if !strings.Contains(err.Error(), "M.T.x") {
		t.Errorf("Expected the path in the error, got %v", err)
	}
}

func TestExtractMultiFileDisjointModules(t *testing.T) {
	fileA := `
ModA DEFINITIONS ::= BEGIN
TA ::= SEQUENCE {
    -- [Meta]
    -- @Units 'V'
    voltage INTEGER (0..255)
}
END
`
	fileB := `
ModB DEFINITIONS ::= BEGIN
TB ::= SEQUENCE {
    -- [Meta]
    -- @Units 'A'
    current INTEGER (0..100)
}
END
`
	m, warnings, err := Extract([]Source{
		{Path: "a.asn", Content: []byte(fileA)},
		{Path: "b.asn", Content: []byte(fileB)},
	}, DuplicateReplace)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	if len(m) != 2 {
		t.Fatalf("Expected two modules, got %v", m)
	}
	if _, ok := m["ModA"]["TA"]["voltage"]; !ok {
		t.Error("ModA.TA.voltage missing")
	}
	if _, ok := m["ModB"]["TB"]["current"]; !ok {
		t.Error("ModB.TB.current missing")
	}
	if _, ok := m["ModA"]["TB"]; ok {
		t.Error("Cross-contamination between modules")
	}
}

func TestExtractIdempotent(t *testing.T) {
	src := []Source{{Path: "a.asn", Content: []byte(sampleModule)}}

	first, _, err := Extract(src, DuplicateReplace)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := Extract(src, DuplicateReplace)
	if err != nil {
		t.Fatal(err)
	}

	if first.Fields() != second.Fields() || first.Types() != second.Types() || len(first) != len(second) {
		t.Errorf("Extraction not idempotent: %+v vs %+v", first, second)
	}
}
