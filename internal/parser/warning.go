// # internal/parser/warning.go
package parser

import "fmt"

type WarningKind int

const (
	// WarnOrphanBlock marks a metadata block with no following field
	// declaration before a scope change or end of file.
	WarnOrphanBlock WarningKind = iota
	// WarnStaleBlock marks a metadata block that was replaced by a newer
	// block before any field declaration appeared.
	WarnStaleBlock
	// WarnMalformedMetaLine marks a metadata line with no parseable
	// key/value split.
	WarnMalformedMetaLine
	// WarnBadFieldLine marks a declaration line that could not be parsed
	// into an identifier and a type token.
	WarnBadFieldLine
	// WarnDuplicatePath marks a (module, type, field) path produced more
	// than once. Informational under the default last-write-wins policy.
	WarnDuplicatePath
)

func (k WarningKind) String() string {
	switch k {
	case WarnOrphanBlock:
		return "orphan-block"
	case WarnStaleBlock:
		return "stale-block"
	case WarnMalformedMetaLine:
		return "malformed-meta-line"
	case WarnBadFieldLine:
		return "bad-field-line"
	case WarnDuplicatePath:
		return "duplicate-path"
	default:
		return "unknown"
	}
}

// Warning is a soft, non-fatal anomaly. Scanning and building always
// continue past one.
type Warning struct {
	Kind   WarningKind
	File   string
	Line   int
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at %s:%d: %s", w.Kind, w.File, w.Line, w.Detail)
}
