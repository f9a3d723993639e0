// Package gltf provides a minimal glTF 2.0 document model for tools that
// rewire images, textures and material extensions. Only the arrays the tools
// touch are parsed into typed structs; every other field of the document and
// of the parsed objects is carried through untouched as raw JSON, so a
// load/save round trip does not disturb parts of the file it does not
// understand.
package gltf

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the root of a glTF file.
type Document struct {
	Images    []Image
	Textures  []Texture
	Materials []Material

	extra map[string]json.RawMessage
}

// Image is an entry of the document's images array.
type Image struct {
	Name string
	URI  string

	extra map[string]json.RawMessage
}

// Texture binds an image to a sampler.
type Texture struct {
	Sampler *int
	Source  *int

	extra map[string]json.RawMessage
}

// Load reads and parses a glTF document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gltf: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

// Save writes the document to path as 2-space-indented JSON with object keys
// sorted at every level this package re-encodes.
func Save(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding gltf: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// UnmarshalJSON parses the images, textures and materials arrays and keeps
// every other top-level field verbatim.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["images"]; ok {
		if err := json.Unmarshal(v, &d.Images); err != nil {
			return fmt.Errorf("images: %w", err)
		}
		delete(raw, "images")
	}
	if v, ok := raw["textures"]; ok {
		if err := json.Unmarshal(v, &d.Textures); err != nil {
			return fmt.Errorf("textures: %w", err)
		}
		delete(raw, "textures")
	}
	if v, ok := raw["materials"]; ok {
		if err := json.Unmarshal(v, &d.Materials); err != nil {
			return fmt.Errorf("materials: %w", err)
		}
		delete(raw, "materials")
	}
	d.extra = raw
	return nil
}

// MarshalJSON re-assembles the document. Arrays that were absent from the
// source and never written to stay absent.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.extra)+3)
	for k, v := range d.extra {
		out[k] = v
	}
	if d.Images != nil {
		v, err := json.Marshal(d.Images)
		if err != nil {
			return nil, err
		}
		out["images"] = v
	}
	if d.Textures != nil {
		v, err := json.Marshal(d.Textures)
		if err != nil {
			return nil, err
		}
		out["textures"] = v
	}
	if d.Materials != nil {
		v, err := json.Marshal(d.Materials)
		if err != nil {
			return nil, err
		}
		out["materials"] = v
	}
	return json.Marshal(out)
}

func (i *Image) UnmarshalJSON(data []byte) error {
	raw, err := splitFields(data, map[string]*string{"name": &i.Name, "uri": &i.URI})
	if err != nil {
		return err
	}
	i.extra = raw
	return nil
}

func (i Image) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(i.extra)+2)
	for k, v := range i.extra {
		out[k] = v
	}
	if i.Name != "" {
		out["name"], _ = json.Marshal(i.Name)
	}
	if i.URI != "" {
		out["uri"], _ = json.Marshal(i.URI)
	}
	return json.Marshal(out)
}

func (t *Texture) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["sampler"]; ok {
		if err := json.Unmarshal(v, &t.Sampler); err != nil {
			return fmt.Errorf("sampler: %w", err)
		}
		delete(raw, "sampler")
	}
	if v, ok := raw["source"]; ok {
		if err := json.Unmarshal(v, &t.Source); err != nil {
			return fmt.Errorf("source: %w", err)
		}
		delete(raw, "source")
	}
	t.extra = raw
	return nil
}

func (t Texture) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(t.extra)+2)
	for k, v := range t.extra {
		out[k] = v
	}
	if t.Sampler != nil {
		out["sampler"], _ = json.Marshal(*t.Sampler)
	}
	if t.Source != nil {
		out["source"], _ = json.Marshal(*t.Source)
	}
	return json.Marshal(out)
}

// splitFields pulls named string fields out of a JSON object and returns the
// remaining fields as a raw map.
func splitFields(data []byte, fields map[string]*string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for name, dst := range fields {
		v, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		delete(raw, name)
	}
	return raw, nil
}
