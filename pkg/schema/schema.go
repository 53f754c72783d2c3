// Package schema derives machine-readable configuration schemas from the
// registered pipeline data contracts. It produces two artifact shapes: a flat,
// path-addressable extension list and a nested JSON-Schema-like document.
package schema

import (
	"bytes"
	stdjson "encoding/json"
	"sort"

	"github.com/goccy/go-json"

	"github.com/buildforge/schemagen/pkg/errors"
)

// DraftURI is the fixed JSON-Schema dialect identifier emitted on the root
// node of standard documents.
const DraftURI = "http://json-schema.org/draft-04/schema#"

// Canonical type names. Every type the generator sees normalizes to exactly
// one of these.
const (
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeBoolean = "boolean"
	TypeNumber  = "number"
	TypeNull    = "null"
)

// Extension is one flat schema entry addressed by its dotted path. Metadata
// fields from the schema tag are flattened beside the fixed fields on the
// wire.
type Extension struct {
	Name     string
	Type     string
	Nullable bool
	From     string
	Metadata map[string]any
}

// ExtensionMap is the persisted extension artifact: dotted path to entry.
// Keys are unique; ordering is insignificant on read and lexicographic on
// write.
type ExtensionMap map[string]Extension

// MarshalJSON flattens metadata fields beside name/type/nullable/from.
// The fixed fields win on a key collision.
func (e Extension) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Metadata)+4)
	for k, v := range e.Metadata {
		m[k] = v
	}
	m["name"] = e.Name
	m["type"] = e.Type
	m["nullable"] = e.Nullable
	m["from"] = e.From
	return json.Marshal(m)
}

// UnmarshalJSON recovers the fixed fields and gathers everything else into
// Metadata.
func (e *Extension) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if v, ok := m["name"].(string); ok {
		e.Name = v
	}
	if v, ok := m["type"].(string); ok {
		e.Type = v
	}
	if v, ok := m["nullable"].(bool); ok {
		e.Nullable = v
	}
	if v, ok := m["from"].(string); ok {
		e.From = v
	}
	delete(m, "name")
	delete(m, "type")
	delete(m, "nullable")
	delete(m, "from")
	if len(m) > 0 {
		e.Metadata = m
	} else {
		e.Metadata = nil
	}
	return nil
}

// Document is one node of the nested standard schema. A node is exactly one
// of: a primitive leaf, an object node (Properties set), or an array node
// (Items set).
type Document struct {
	// Schema carries the JSON-Schema dialect URI. Set on the root node only.
	Schema string

	// Type is the canonical type name for this node.
	Type string

	// Properties maps accepted member names to their schemas, in declaration
	// order. Nil for non-object nodes.
	Properties *Properties

	// Items is the element schema for array-typed nodes.
	Items *Document

	// Metadata holds the schema-tag fields of the member this node was built
	// from. Empty for bare root and element nodes.
	Metadata map[string]any

	// Overridable marks an extension-point placeholder meant to be replaced
	// wholly by a nested definition. Never serialized; the Writer consults it
	// when pruning.
	Overridable bool
}

// MarshalJSON emits fields in a stable order: $schema, type, metadata fields
// (sorted), properties, items. Empty fields are omitted.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true

	writeField := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(v)
		return nil
	}

	if d.Schema != "" {
		if err := writeField("$schema", d.Schema); err != nil {
			return nil, err
		}
	}
	if d.Type != "" {
		if err := writeField("type", d.Type); err != nil {
			return nil, err
		}
	}
	keys := make([]string, 0, len(d.Metadata))
	for k := range d.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeField(k, d.Metadata[k]); err != nil {
			return nil, err
		}
	}
	if d.Properties != nil && d.Properties.Len() > 0 {
		if err := writeField("properties", d.Properties); err != nil {
			return nil, err
		}
	}
	if d.Items != nil {
		if err := writeField("items", d.Items); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON recovers a document, preserving property order and gathering
// unknown fields into Metadata. Token streaming goes through encoding/json;
// the goccy decoder does not expose a token stream.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(stdjson.Delim); !ok || delim != '{' {
		return errors.NewParseError("json", "", "schema document must be a JSON object", nil)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		switch key {
		case "$schema":
			if err := dec.Decode(&d.Schema); err != nil {
				return err
			}
		case "type":
			if err := dec.Decode(&d.Type); err != nil {
				return err
			}
		case "properties":
			props := NewProperties()
			if err := dec.Decode(props); err != nil {
				return err
			}
			d.Properties = props
		case "items":
			var items Document
			if err := dec.Decode(&items); err != nil {
				return err
			}
			d.Items = &items
		default:
			var value any
			if err := dec.Decode(&value); err != nil {
				return err
			}
			if d.Metadata == nil {
				d.Metadata = make(map[string]any)
			}
			d.Metadata[key] = value
		}
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Properties is an insertion-ordered mapping from member name to schema node.
// Declaration order of the source type is preserved through serialization.
type Properties struct {
	keys   []string
	values map[string]*Document
}

// NewProperties creates an empty ordered property set.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]*Document)}
}

// Set adds or replaces a property, keeping first-insertion order.
func (p *Properties) Set(name string, doc *Document) {
	if _, exists := p.values[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.values[name] = doc
}

// Get returns the schema for the named property.
func (p *Properties) Get(name string) (*Document, bool) {
	doc, ok := p.values[name]
	return doc, ok
}

// Delete removes the named property.
func (p *Properties) Delete(name string) {
	if _, exists := p.values[name]; !exists {
		return
	}
	delete(p.values, name)
	for i, k := range p.keys {
		if k == name {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	return len(p.keys)
}

// Keys returns the property names in insertion order.
func (p *Properties) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// MarshalJSON emits properties in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON recovers properties in their serialized order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	if p.values == nil {
		p.values = make(map[string]*Document)
	}
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(stdjson.Delim); !ok || delim != '{' {
		return errors.NewParseError("json", "", "properties must be a JSON object", nil)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var doc Document
		if err := dec.Decode(&doc); err != nil {
			return err
		}
		p.Set(key, &doc)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
