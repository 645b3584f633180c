// Package params reads and writes ARM deployment parameters documents.
package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/chiptune-stack/chiptune/internal/constants"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"

	"github.com/spf13/afero"
)

// Document is an ARM deployment parameters file:
//
//	{"$schema": ..., "contentVersion": ..., "parameters": {"name": {"value": ...}}}
//
// Fields other than the ones modeled here are kept and written back unchanged.
type Document struct {
	Schema         string
	ContentVersion string
	Parameters     map[string]*Parameter

	extra map[string]json.RawMessage
}

// Parameter is one entry of the parameters object.
type Parameter struct {
	Value any

	extra map[string]json.RawMessage
}

// New returns an empty document.
func New() *Document {
	return &Document{Parameters: make(map[string]*Parameter)}
}

// Load reads and decodes the document at path.
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, apperrors.ErrFileSystem("read", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, apperrors.ErrInvalidDocument(path, err)
	}
	return doc, nil
}

// Parse decodes a parameters document.
func Parse(data []byte) (*Document, error) {
	doc := New()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Set overwrites the value of name, adding the parameter when absent.
func (d *Document) Set(name string, value any) {
	p, ok := d.Parameters[name]
	if !ok {
		p = &Parameter{}
		d.Parameters[name] = p
	}
	p.Value = value
}

// Get returns the value of name.
func (d *Document) Get(name string) (any, bool) {
	p, ok := d.Parameters[name]
	if !ok {
		return nil, false
	}
	return p.Value, true
}

// GetString returns the value of name when it is a string.
func (d *Document) GetString(name string) string {
	v, _ := d.Get(name)
	s, _ := v.(string)
	return s
}

// Names returns the parameter names in sorted order.
func (d *Document) Names() []string {
	return slices.Sorted(maps.Keys(d.Parameters))
}

// Save encodes the document with two-space indentation and a trailing newline.
func (d *Document) Save(fs afero.Fs, path string) error {
	data, err := d.Encode()
	if err != nil {
		return apperrors.ErrInvalidDocument(path, err)
	}
	if err := afero.WriteFile(fs, path, data, constants.ProjectFilePermissions); err != nil {
		return apperrors.ErrFileSystem("write", path, err)
	}
	return nil
}

// Encode renders the document. HTML characters are not escaped so generated secrets stay readable.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("parameters document is not an object")
	}

	if err := takeString(raw, "$schema", &d.Schema); err != nil {
		return err
	}
	if err := takeString(raw, "contentVersion", &d.ContentVersion); err != nil {
		return err
	}

	d.Parameters = make(map[string]*Parameter)
	if body, ok := raw["parameters"]; ok {
		delete(raw, "parameters")
		if err := json.Unmarshal(body, &d.Parameters); err != nil {
			return fmt.Errorf("invalid parameters object: %w", err)
		}
		if d.Parameters == nil {
			d.Parameters = make(map[string]*Parameter)
		}
		for name, p := range d.Parameters {
			if p == nil {
				d.Parameters[name] = &Parameter{}
			}
		}
	}

	d.extra = raw
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.extra)+3)
	for k, v := range d.extra {
		out[k] = v
	}
	if d.Schema != "" {
		out["$schema"] = d.Schema
	}
	if d.ContentVersion != "" {
		out["contentVersion"] = d.ContentVersion
	}
	parameters := d.Parameters
	if parameters == nil {
		parameters = map[string]*Parameter{}
	}
	out["parameters"] = parameters
	return marshalNoEscape(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["value"]; ok {
		delete(raw, "value")
		if err := json.Unmarshal(v, &p.Value); err != nil {
			return err
		}
	}
	p.extra = raw
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *Parameter) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.extra)+1)
	for k, v := range p.extra {
		out[k] = v
	}
	out["value"] = p.Value
	return marshalNoEscape(out)
}

func takeString(raw map[string]json.RawMessage, key string, dst *string) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
