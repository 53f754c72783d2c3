package schema

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/buildforge/schemagen/pkg/errors"
)

// Struct tags read once during registration. The external-name tag names the
// addressable path segment; the metadata tag opts the field into the schema
// and carries its descriptive fields.
const (
	nameTag     = "json"
	metadataTag = "schema"
)

// overridableFlag marks a field as an extension-point placeholder intended to
// be replaced wholly by a nested definition.
const overridableFlag = "overridable"

// FieldDef is the allow-list entry for one member of a configuration type.
// A field is Accepted only when it carries both the external-name tag and the
// schema-metadata tag; array-shaped fields without both tags are still
// recorded so traversal can reach their element types.
type FieldDef struct {
	// GoName is the Go struct field name.
	GoName string

	// Name is the external name used as the path segment.
	Name string

	// Type is the declared Go type of the field.
	Type reflect.Type

	// Accepted reports whether the field contributes a schema node itself.
	Accepted bool

	// Overridable marks an extension-point placeholder.
	Overridable bool

	// Metadata holds the parsed fields of the schema tag.
	Metadata map[string]any
}

// TypeDef is the static description of one configuration type, built once by
// Describe. Field order matches declaration order.
type TypeDef struct {
	Type   reflect.Type
	Fields []FieldDef
}

// Accepted returns the fields that contribute schema nodes, in declaration
// order.
func (td *TypeDef) Accepted() []FieldDef {
	out := make([]FieldDef, 0, len(td.Fields))
	for _, f := range td.Fields {
		if f.Accepted {
			out = append(out, f)
		}
	}
	return out
}

// Registry is the descriptor table the extractor and builders consume.
// Registration is the only step that touches reflection tags; everything
// downstream reads the table.
type Registry struct {
	defs map[reflect.Type]*TypeDef
}

// NewRegistry creates an empty descriptor registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[reflect.Type]*TypeDef)}
}

// Describe registers the type of v and every struct type reachable from it
// through fields and array element types. Registration is idempotent; the
// contract type graphs are finite and non-self-referential.
func (r *Registry) Describe(v any) (*TypeDef, error) {
	t := baseType(reflect.TypeOf(v))
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.NewRegistryError(typeName(t), "", "only struct types can be described")
	}
	return r.describe(t)
}

// MustDescribe is Describe that panics on error, for package-level
// registration of the contract roots.
func (r *Registry) MustDescribe(v any) *TypeDef {
	td, err := r.Describe(v)
	if err != nil {
		panic(err)
	}
	return td
}

// Lookup returns the descriptor for t, if registered.
func (r *Registry) Lookup(t reflect.Type) (*TypeDef, bool) {
	td, ok := r.defs[baseType(t)]
	return td, ok
}

func (r *Registry) describe(t reflect.Type) (*TypeDef, error) {
	if td, ok := r.defs[t]; ok {
		return td, nil
	}

	td := &TypeDef{Type: t}
	r.defs[t] = td

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, hasName := externalName(sf)
		if name == "-" {
			continue
		}
		meta, overridable, hasMeta := parseMetadataTag(sf)

		fd := FieldDef{
			GoName:      sf.Name,
			Name:        name,
			Type:        sf.Type,
			Accepted:    hasName && hasMeta,
			Overridable: overridable,
			Metadata:    meta,
		}
		td.Fields = append(td.Fields, fd)

		// Register reachable struct types: array element types always, object
		// field types for the nested standard document.
		ft := baseType(sf.Type)
		if isArrayShaped(ft) {
			ft = baseType(ft.Elem())
		}
		if ft.Kind() == reflect.Struct {
			if _, err := r.describe(ft); err != nil {
				return nil, err
			}
		}
	}

	return td, nil
}

// externalName returns the field's external name and whether the name tag was
// present. Absent the tag, a lowerCamel form of the Go name still serves as
// the path segment for traversal into unaccepted array fields.
func externalName(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup(nameTag)
	if !ok {
		return lowerCamel(sf.Name), false
	}
	name := tag
	if idx := strings.Index(tag, ","); idx >= 0 {
		name = tag[:idx]
	}
	if name == "" {
		return lowerCamel(sf.Name), false
	}
	return name, true
}

// parseMetadataTag parses the comma-separated key=value schema tag. Bare
// words are flags; values parse to bool or number when they look like one.
func parseMetadataTag(sf reflect.StructField) (map[string]any, bool, bool) {
	tag, ok := sf.Tag.Lookup(metadataTag)
	if !ok {
		return nil, false, false
	}

	meta := make(map[string]any)
	overridable := false
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			if key == overridableFlag {
				overridable = true
				continue
			}
			meta[key] = true
			continue
		}
		meta[key] = coerceTagValue(value)
	}
	if len(meta) == 0 {
		meta = nil
	}
	return meta, overridable, true
}

// coerceTagValue converts tag values that look like booleans or numbers.
func coerceTagValue(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

// baseType unwraps pointers to the underlying declared type.
func baseType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// isArrayShaped reports whether t is a slice or array type.
func isArrayShaped(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

// typeName returns a printable name for error messages.
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// lowerCamel lowercases the leading rune of a Go field name.
func lowerCamel(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
