package schema

import "reflect"

// BuildExtensions derives the flat list of path-qualified schema entries for
// one root type, tagged with the owning-source label. For array-shaped
// members the element type's descendant entries precede the member's own
// entry. Outputs from multiple roots are concatenated by the caller.
func (r *Registry) BuildExtensions(prefix string, root any, from string) ([]Extension, error) {
	t := baseType(reflect.TypeOf(root))

	var out []Extension
	err := r.Walk(t, prefix, from, func(m Member) {
		out = append(out, Extension{
			Name:     m.Path,
			Type:     Normalize(m.Field.Type),
			Nullable: Nullable(m.Field.Type),
			From:     m.From,
			Metadata: m.Field.Metadata,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GroupByName folds a fresh extension batch into a mapping keyed by dotted
// path, last write winning on duplicate keys within the batch.
func GroupByName(entries []Extension) ExtensionMap {
	out := make(ExtensionMap, len(entries))
	for _, e := range entries {
		out[e.Name] = e
	}
	return out
}
