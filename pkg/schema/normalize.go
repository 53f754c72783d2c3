package schema

import (
	"reflect"
	"strings"
)

// reservedNames are the six canonical primitive names that survive
// normalization as themselves.
var reservedNames = map[string]struct{}{
	TypeString:  {},
	TypeArray:   {},
	TypeObject:  {},
	TypeBoolean: {},
	TypeNumber:  {},
	TypeNull:    {},
}

// Normalize maps a declared Go type to its canonical type name. Pointers
// unwrap to their inner type first; slices and arrays collapse to "array";
// booleans, numerics and strings map to their primitive names; everything
// else falls back to the name rule: strip any generic suffix, lowercase, and
// collapse to "object" unless the result is one of the six reserved names.
func Normalize(t reflect.Type) string {
	if t == nil {
		return TypeNull
	}
	t = baseType(t)

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.String:
		return TypeString
	}

	name := strings.ToLower(bareName(t))
	if _, ok := reservedNames[name]; ok {
		return name
	}
	return TypeObject
}

// Nullable reports whether a declared type admits a null value. A pointer is
// always nullable; so is every type that normalizes to a non-primitive name.
// This is a coarse heuristic by policy: structured types count as nullable
// regardless of how they are referenced.
func Nullable(t reflect.Type) bool {
	if t == nil {
		return true
	}
	if t.Kind() == reflect.Pointer {
		return true
	}
	switch Normalize(t) {
	case TypeBoolean, TypeNumber, TypeString:
		return false
	default:
		return true
	}
}

// bareName returns the type's name with any generic instantiation suffix
// stripped, e.g. "Optional[int]" becomes "Optional".
func bareName(t reflect.Type) string {
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}
	return name
}
