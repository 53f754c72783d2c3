package schema

import (
	"reflect"

	"github.com/buildforge/schemagen/pkg/errors"
)

// BuildStandard builds the fully nested schema document rooted at the given
// type and stamps the JSON-Schema dialect URI on the root node.
func (r *Registry) BuildStandard(root any) (*Document, error) {
	t := baseType(reflect.TypeOf(root))
	if _, ok := r.Lookup(t); !ok {
		return nil, errors.NewRegistryError(typeName(t), "", "no descriptor registered")
	}

	doc, err := r.buildNode(t, nil)
	if err != nil {
		return nil, err
	}
	doc.Schema = DraftURI
	return doc, nil
}

// buildNode builds the schema node for one type. A nil field means a bare
// node (traversal root or array element) without metadata. Array-shaped
// types get an element schema under Items; registered object types get their
// accepted members under Properties.
func (r *Registry) buildNode(t reflect.Type, f *FieldDef) (*Document, error) {
	doc := &Document{Type: Normalize(t)}
	if f != nil {
		doc.Metadata = f.Metadata
		doc.Overridable = f.Overridable
	}

	bt := baseType(t)
	if isArrayShaped(bt) {
		items, err := r.buildNode(bt.Elem(), nil)
		if err != nil {
			return nil, err
		}
		doc.Items = items
		return doc, nil
	}

	td, ok := r.Lookup(bt)
	if !ok {
		return doc, nil
	}
	props := NewProperties()
	for _, fd := range td.Fields {
		if !fd.Accepted {
			continue
		}
		fd := fd
		child, err := r.buildNode(fd.Type, &fd)
		if err != nil {
			return nil, err
		}
		props.Set(fd.Name, child)
	}
	if props.Len() > 0 {
		doc.Properties = props
	}
	return doc, nil
}

// SpliceItemProperties copies the top-level properties of src into the
// element schema of the named array-typed property of dst. This is the
// one-shot composition used to stitch the nested-build root into the primary
// configuration tree; it is deliberately not a general schema merge.
func SpliceItemProperties(dst *Document, property string, src *Document) error {
	if dst == nil || dst.Properties == nil {
		return errors.NewValidationError(property, nil, "destination has no properties")
	}
	node, ok := dst.Properties.Get(property)
	if !ok {
		return errors.NewValidationError(property, nil, "property not found in destination")
	}
	if node.Type != TypeArray || node.Items == nil {
		return errors.NewValidationError(property, node.Type, "splice target must be an array property")
	}
	if src == nil || src.Properties == nil || src.Properties.Len() == 0 {
		return nil
	}

	if node.Items.Properties == nil {
		node.Items.Properties = NewProperties()
	}
	for _, name := range src.Properties.Keys() {
		child, _ := src.Properties.Get(name)
		node.Items.Properties.Set(name, child)
	}
	return nil
}
