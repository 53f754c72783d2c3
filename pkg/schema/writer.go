package schema

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/buildforge/schemagen/pkg/constants"
	"github.com/buildforge/schemagen/pkg/errors"
)

// Output formats supported by the writer. JSON is the persisted format; YAML
// is an inspection aid for the standard document.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WriteOptions configures a single serialization call. A fresh value is
// passed at every call site; there is no shared serializer state.
type WriteOptions struct {
	// Format selects the output encoding, FormatJSON or FormatYAML.
	Format string

	// Indent is the JSON indentation string.
	Indent string

	// OmitOverridable suppresses properties whose descriptor marks them as
	// overridable extension-point placeholders.
	OmitOverridable bool
}

// DefaultWriteOptions returns the options used for persisted artifacts.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		Format:          FormatJSON,
		Indent:          constants.JSONIndent,
		OmitOverridable: true,
	}
}

// Encode serializes a schema artifact (an ExtensionMap or a *Document) to
// indented text. Empty fields are omitted; map keys serialize in ascending
// lexicographic order.
func Encode(v any, opts WriteOptions) ([]byte, error) {
	if opts.Indent == "" {
		opts.Indent = constants.JSONIndent
	}

	if doc, ok := v.(*Document); ok && opts.OmitOverridable {
		v = pruneOverridable(doc, make(map[*Document]*Document))
	}

	data, err := json.MarshalIndent(v, "", opts.Indent)
	if err != nil {
		return nil, errors.WrapParse(FormatJSON, "", err)
	}

	switch opts.Format {
	case "", FormatJSON:
		return data, nil
	case FormatYAML:
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return nil, errors.WrapParse(FormatYAML, "", err)
		}
		return out, nil
	default:
		return nil, errors.NewValidationError("format", opts.Format, "unsupported output format")
	}
}

// WriteFile serializes the artifact and replaces any existing content at
// path.
func WriteFile(path string, v any, opts WriteOptions) error {
	data, err := Encode(v, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// pruneOverridable returns a copy of doc with overridable properties removed
// at every depth. The seen map short-circuits shared or cyclic nodes instead
// of failing on them.
func pruneOverridable(doc *Document, seen map[*Document]*Document) *Document {
	if doc == nil {
		return nil
	}
	if copied, ok := seen[doc]; ok {
		return copied
	}

	out := &Document{
		Schema:      doc.Schema,
		Type:        doc.Type,
		Metadata:    doc.Metadata,
		Overridable: doc.Overridable,
	}
	seen[doc] = out

	out.Items = pruneOverridable(doc.Items, seen)
	if doc.Properties != nil {
		props := NewProperties()
		for _, name := range doc.Properties.Keys() {
			child, _ := doc.Properties.Get(name)
			if child != nil && child.Overridable {
				continue
			}
			props.Set(name, pruneOverridable(child, seen))
		}
		if props.Len() > 0 {
			out.Properties = props
		}
	}
	return out
}
