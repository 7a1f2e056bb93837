// # internal/output/json.go
package output

import (
	"encoding/json"

	"asnmeta/internal/parser"
)

// RenderJSON renders the mapping as indented JSON. Map keys are emitted
// in sorted order, so the projection is order-stable across runs.
func RenderJSON(m parser.ResultMapping) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
