// # internal/parser/types.go
package parser

// ScopePath identifies the (module, type) pair a field declaration is
// nested inside.
type ScopePath struct {
	Module string
	Type   string
}

// FieldRecord is a candidate emitted by the Scanner: the metadata block
// that was being accumulated, paired with the declaration line that
// terminated it. MetaLines hold the block's lines with the comment leader
// already stripped, in source order.
type FieldRecord struct {
	Scope     ScopePath
	FieldLine string
	Line      int
	MetaLines []string
}

type EventKind int

const (
	EventModuleEnter EventKind = iota
	EventTypeEnter
	EventFieldRecord
)

// Event is one item of the Scanner's output stream. Name is set for scope
// enters, Record for field candidates.
type Event struct {
	Kind   EventKind
	Name   string
	Line   int
	Record *FieldRecord
}

// Constraint is the inclusive integer range extracted from an
// INTEGER (min..max) declaration.
type Constraint struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FieldData is the merged result for one field: its declared ASN.1 type,
// the optional integer constraint, and the parsed metadata entries.
type FieldData struct {
	DeclaredType string               `json:"type"`
	Constraint   *Constraint          `json:"restrict-to,omitempty"`
	Meta         map[string]MetaValue `json:"meta"`
}

// ResultMapping nests module name -> type name -> field name -> FieldData.
type ResultMapping map[string]map[string]map[string]FieldData

// Fields returns the total number of field entries across all modules.
func (m ResultMapping) Fields() int {
	n := 0
	for _, types := range m {
		for _, fields := range types {
			n += len(fields)
		}
	}
	return n
}

// Types returns the total number of type entries across all modules.
func (m ResultMapping) Types() int {
	n := 0
	for _, types := range m {
		n += len(types)
	}
	return n
}
