// # internal/parser/parse.go
package parser

// Source is one input file held in memory.
type Source struct {
	Path    string
	Content []byte
}

// Extract runs the Scanner and Builder over a sequence of file contents
// and returns the merged ResultMapping together with all soft warnings.
// Files are processed in the order given; repeated paths follow the
// duplicate policy. This is the pure, in-memory entry point; the CLI adds
// globbing and I/O on top of it.
func Extract(sources []Source, policy DuplicatePolicy) (ResultMapping, []Warning, error) {
	builder := NewBuilder(policy)
	var warnings []Warning

	for _, src := range sources {
		scanner := NewScanner(src.Path)
		events := scanner.Scan(src.Content)
		warnings = append(warnings, scanner.Warnings()...)
		if err := builder.Apply(src.Path, events); err != nil {
			return nil, warnings, err
		}
	}

	warnings = append(warnings, builder.Warnings()...)
	return builder.Mapping(), warnings, nil
}
