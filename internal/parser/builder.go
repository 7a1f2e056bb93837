// # internal/parser/builder.go
package parser

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	fieldRe    = regexp.MustCompile(`^([\w-]+)\s+([\w-]+)(?:\s*\((-?\d+)\.\.(-?\d+)\))?,?`)
	metaLineRe = regexp.MustCompile(`^@(\w+)\s+(.*)`)
)

type DuplicatePolicy int

const (
	// DuplicateReplace keeps the later-encountered record when the same
	// (module, type, field) path is produced twice. The default.
	DuplicateReplace DuplicatePolicy = iota
	// DuplicateError turns a repeated path into a hard error.
	DuplicateError
)

// Builder consumes Scanner event streams across any number of files and
// assembles the shared ResultMapping.
type Builder struct {
	mapping  ResultMapping
	policy   DuplicatePolicy
	warnings []Warning
	modules  map[string]struct{}
	types    map[ScopePath]struct{}
}

func NewBuilder(policy DuplicatePolicy) *Builder {
	return &Builder{
		mapping: make(ResultMapping),
		policy:  policy,
		modules: make(map[string]struct{}),
		types:   make(map[ScopePath]struct{}),
	}
}

// Mapping returns the mapping assembled so far. The Builder retains
// ownership; callers must not mutate it while applying further events.
func (b *Builder) Mapping() ResultMapping {
	return b.mapping
}

// Warnings returns the soft anomalies collected across all Apply calls.
func (b *Builder) Warnings() []Warning {
	return b.warnings
}

// ModulesSeen reports how many distinct module scopes the event streams
// entered, whether or not they produced fields.
func (b *Builder) ModulesSeen() int { return len(b.modules) }

// TypesSeen reports how many distinct type scopes the event streams
// entered.
func (b *Builder) TypesSeen() int { return len(b.types) }

// Apply folds one file's event stream into the mapping. The only error is
// a duplicate path under DuplicateError; all other anomalies are soft.
func (b *Builder) Apply(file string, events []Event) error {
	module := "UnknownModule"
	for _, ev := range events {
		switch ev.Kind {
		case EventModuleEnter:
			module = ev.Name
			b.modules[module] = struct{}{}
		case EventTypeEnter:
			b.types[ScopePath{Module: module, Type: ev.Name}] = struct{}{}
		case EventFieldRecord:
			if err := b.applyRecord(file, ev.Record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) applyRecord(file string, rec *FieldRecord) error {
	name, data, ok := b.buildField(file, rec)
	if !ok {
		return nil
	}

	types, ok := b.mapping[rec.Scope.Module]
	if !ok {
		types = make(map[string]map[string]FieldData)
		b.mapping[rec.Scope.Module] = types
	}
	fields, ok := types[rec.Scope.Type]
	if !ok {
		fields = make(map[string]FieldData)
		types[rec.Scope.Type] = fields
	}

	if _, exists := fields[name]; exists {
		path := fmt.Sprintf("%s.%s.%s", rec.Scope.Module, rec.Scope.Type, name)
		if b.policy == DuplicateError {
			return fmt.Errorf("duplicate field path %s at %s:%d", path, file, rec.Line)
		}
		b.warn(WarnDuplicatePath, file, rec.Line, "field path "+path+" redefined, keeping later record")
	}
	fields[name] = data
	return nil
}

// buildField parses the declaration line and the metadata lines of one
// record. A record with an unparseable declaration is dropped; a bad
// metadata line only loses that line.
func (b *Builder) buildField(file string, rec *FieldRecord) (string, FieldData, bool) {
	name, typ, constraint, ok := ParseFieldLine(rec.FieldLine)
	if !ok {
		b.warn(WarnBadFieldLine, file, rec.Line, "cannot parse field declaration "+strconv.Quote(rec.FieldLine))
		return "", FieldData{}, false
	}

	meta := make(map[string]MetaValue)
	for i, line := range rec.MetaLines {
		key, val, ok := ParseMetaLine(line)
		if !ok {
			b.warn(WarnMalformedMetaLine, file, rec.Line-len(rec.MetaLines)+i, "cannot split key and value in "+strconv.Quote(line))
			continue
		}
		meta[key] = val
	}

	return name, FieldData{DeclaredType: typ, Constraint: constraint, Meta: meta}, true
}

func (b *Builder) warn(kind WarningKind, file string, line int, detail string) {
	b.warnings = append(b.warnings, Warning{Kind: kind, File: file, Line: line, Detail: detail})
}

// ParseFieldLine splits a declaration line into the field identifier, the
// declared type token and, for INTEGER fields with a parenthesized
// (min..max) range, the extracted constraint.
func ParseFieldLine(line string) (name, typ string, constraint *Constraint, ok bool) {
	m := fieldRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", nil, false
	}
	name, typ = m[1], m[2]
	if typ == "INTEGER" && m[3] != "" && m[4] != "" {
		min, errMin := strconv.Atoi(m[3])
		max, errMax := strconv.Atoi(m[4])
		if errMin == nil && errMax == nil {
			constraint = &Constraint{Min: min, Max: max}
		}
	}
	return name, typ, constraint, true
}

// ParseMetaLine splits one stripped metadata line of the form
// `@Key value...` and coerces the value.
func ParseMetaLine(line string) (string, MetaValue, bool) {
	m := metaLineRe.FindStringSubmatch(line)
	if m == nil {
		return "", MetaValue{}, false
	}
	return m[1], CoerceValue(m[2]), true
}
