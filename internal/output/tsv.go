// # internal/output/tsv.go
package output

import (
	"fmt"
	"strings"

	"asnmeta/internal/parser"
	"asnmeta/internal/shared/util"
)

// RenderTSV renders one row per (field, metadata key), with an empty key
// column for fields whose block carried no entries. Rows are sorted by
// module, type, field and key.
func RenderTSV(m parser.ResultMapping) string {
	var buf strings.Builder

	buf.WriteString("Module\tType\tField\tDeclaredType\tMin\tMax\tKey\tValue\n")

	for _, module := range util.SortedStringKeys(m) {
		for _, typ := range util.SortedStringKeys(m[module]) {
			for _, field := range util.SortedStringKeys(m[module][typ]) {
				data := m[module][typ][field]
				min, max := "", ""
				if data.Constraint != nil {
					min = fmt.Sprintf("%d", data.Constraint.Min)
					max = fmt.Sprintf("%d", data.Constraint.Max)
				}
				if len(data.Meta) == 0 {
					buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t\t\n",
						module, typ, field, data.DeclaredType, min, max))
					continue
				}
				for _, key := range util.SortedStringKeys(data.Meta) {
					buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						module, typ, field, data.DeclaredType, min, max, key, data.Meta[key]))
				}
			}
		}
	}

	return buf.String()
}
