// # internal/output/msgpack.go
package output

import (
	"github.com/vmihailenco/msgpack/v5"

	"asnmeta/internal/parser"
)

// EncodeMsgpack serializes the mapping for machine consumers. MetaValues
// are encoded as their native payloads (number, two-element array, or
// string), mirroring the JSON projection.
func EncodeMsgpack(m parser.ResultMapping) ([]byte, error) {
	native := make(map[string]any, len(m))
	for module, types := range m {
		typesOut := make(map[string]any, len(types))
		for typ, fields := range types {
			fieldsOut := make(map[string]any, len(fields))
			for field, data := range fields {
				entry := map[string]any{
					"type": data.DeclaredType,
					"meta": nativeMeta(data.Meta),
				}
				if data.Constraint != nil {
					entry["restrict-to"] = []int{data.Constraint.Min, data.Constraint.Max}
				}
				fieldsOut[field] = entry
			}
			typesOut[typ] = fieldsOut
		}
		native[module] = typesOut
	}
	return msgpack.Marshal(native)
}

func nativeMeta(meta map[string]parser.MetaValue) map[string]any {
	out := make(map[string]any, len(meta))
	for key, val := range meta {
		out[key] = val.Native()
	}
	return out
}
