// # internal/output/table.go
package output

import (
	"fmt"
	"strings"

	"github.com/bndr/gotabulate"

	"asnmeta/internal/parser"
	"asnmeta/internal/shared/util"
)

// RenderTable renders the mapping as a grid table for terminal use, one
// row per field with the metadata entries folded into the last column.
func RenderTable(m parser.ResultMapping) string {
	if m.Fields() == 0 {
		return "<no annotated fields>\n"
	}

	var rows [][]any
	for _, module := range util.SortedStringKeys(m) {
		for _, typ := range util.SortedStringKeys(m[module]) {
			for _, field := range util.SortedStringKeys(m[module][typ]) {
				data := m[module][typ][field]

				constraint := ""
				if data.Constraint != nil {
					constraint = fmt.Sprintf("%d..%d", data.Constraint.Min, data.Constraint.Max)
				}

				entries := make([]string, 0, len(data.Meta))
				for _, key := range util.SortedStringKeys(data.Meta) {
					entries = append(entries, fmt.Sprintf("%s=%s", key, data.Meta[key]))
				}

				rows = append(rows, []any{
					module, typ, field, data.DeclaredType, constraint, strings.Join(entries, ", "),
				})
			}
		}
	}

	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"module", "type", "field", "declared", "constraint", "meta"})
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(60)
	return t.Render("grid")
}
