package schema

import (
	"reflect"

	"github.com/buildforge/schemagen/pkg/errors"
)

// Member is a transient descriptor for one accepted, path-qualified member
// reached during traversal. Members are produced in order: for array-shaped
// fields the element type's descendants come first, then the field itself.
type Member struct {
	// Path is the dotted path from the traversal root.
	Path string

	// Field is the allow-list entry the member was built from.
	Field FieldDef

	// From is the owning-source label of the traversal.
	From string
}

// Walk traverses the registered definition of t, invoking visit for every
// accepted member reachable from it. Traversal is type-driven: array-shaped
// fields recurse into their element type under the field's own qualified
// path, whether or not the field itself is accepted, so a skipped container
// still contributes descendant members. Non-array fields do not recurse.
func (r *Registry) Walk(t reflect.Type, prefix, from string, visit func(Member)) error {
	td, ok := r.Lookup(t)
	if !ok {
		return errors.NewRegistryError(typeName(baseType(t)), "", "no descriptor registered")
	}

	for _, f := range td.Fields {
		path := qualify(prefix, f.Name)

		ft := baseType(f.Type)
		if isArrayShaped(ft) {
			elem := baseType(ft.Elem())
			if _, registered := r.Lookup(elem); registered {
				if err := r.Walk(elem, path, from, visit); err != nil {
					return err
				}
			}
		}

		if f.Accepted {
			visit(Member{Path: path, Field: f, From: from})
		}
	}

	return nil
}

// qualify joins a dotted-path prefix with a member name.
func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
