// # internal/parser/scanner.go
package parser

import (
	"regexp"
	"strings"
)

var (
	moduleRe    = regexp.MustCompile(`^([\w-]+)\s+DEFINITIONS\b`)
	typeRe      = regexp.MustCompile(`^([\w-]+)\s*::=\s*SEQUENCE\s*\{`)
	metaStartRe = regexp.MustCompile(`^--\s*\[Meta\]\s*$`)
)

// Scanner walks the lines of one ASN.1 source file in a single forward
// pass and emits scope changes and candidate field records. A metadata
// block is a `-- [Meta]` comment followed by further comment lines; the
// first non-comment, non-blank line after the block is taken as the field
// declaration it annotates.
type Scanner struct {
	file     string
	warnings []Warning
}

func NewScanner(file string) *Scanner {
	return &Scanner{file: file}
}

// Warnings returns the soft anomalies collected by the last Scan call.
func (s *Scanner) Warnings() []Warning {
	return s.warnings
}

// Scan produces the ordered event stream for content. It never fails;
// malformed structure is reported through Warnings.
func (s *Scanner) Scan(content []byte) []Event {
	s.warnings = nil

	var (
		events  []Event
		module  = "UnknownModule"
		inType  bool
		pending []string // nil when no block is being accumulated
		start   int      // line the pending block opened on
		typ     string
	)

	lines := strings.Split(string(content), "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		if pending != nil {
			if isComment(line) {
				if metaStartRe.MatchString(line) {
					// Stacked blocks: only the block nearest the field
					// survives.
					s.warn(WarnStaleBlock, start, "metadata block replaced before any field declaration")
					pending = []string{}
					start = lineNo
					continue
				}
				pending = append(pending, stripCommentLeader(line))
				continue
			}
			if line == "" {
				continue
			}
			// Scope changes invalidate the block: there is no field left
			// for it to annotate.
			if m := moduleRe.FindStringSubmatch(line); m != nil {
				s.warn(WarnOrphanBlock, start, "metadata block not followed by a field declaration")
				pending = nil
				module, typ, inType = m[1], "", false
				events = append(events, Event{Kind: EventModuleEnter, Name: module, Line: lineNo})
				continue
			}
			if m := typeRe.FindStringSubmatch(line); m != nil {
				s.warn(WarnOrphanBlock, start, "metadata block not followed by a field declaration")
				pending = nil
				typ, inType = m[1], true
				events = append(events, Event{Kind: EventTypeEnter, Name: typ, Line: lineNo})
				continue
			}
			if line == "}" {
				s.warn(WarnOrphanBlock, start, "metadata block not followed by a field declaration")
				pending = nil
				typ, inType = "", false
				continue
			}

			events = append(events, Event{
				Kind: EventFieldRecord,
				Line: lineNo,
				Record: &FieldRecord{
					Scope:     ScopePath{Module: module, Type: typ},
					FieldLine: line,
					Line:      lineNo,
					MetaLines: pending,
				},
			})
			pending = nil
			continue
		}

		if line == "" {
			continue
		}
		if m := moduleRe.FindStringSubmatch(line); m != nil {
			module, typ, inType = m[1], "", false
			events = append(events, Event{Kind: EventModuleEnter, Name: module, Line: lineNo})
			continue
		}
		if m := typeRe.FindStringSubmatch(line); m != nil {
			// A nested SEQUENCE replaces the open type scope; the format
			// has no closing marker other than a bare brace.
			typ, inType = m[1], true
			events = append(events, Event{Kind: EventTypeEnter, Name: typ, Line: lineNo})
			continue
		}
		if inType && line == "}" {
			typ, inType = "", false
			continue
		}
		if inType && metaStartRe.MatchString(line) {
			pending = []string{}
			start = lineNo
			continue
		}
		// Ordinary comments and fields without a metadata block are
		// skipped.
	}

	if pending != nil {
		s.warn(WarnOrphanBlock, start, "metadata block still open at end of file")
	}

	return events
}

func (s *Scanner) warn(kind WarningKind, line int, detail string) {
	s.warnings = append(s.warnings, Warning{Kind: kind, File: s.file, Line: line, Detail: detail})
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "--")
}

func stripCommentLeader(line string) string {
	return strings.TrimLeft(strings.TrimPrefix(line, "--"), " \t")
}
