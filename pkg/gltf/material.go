package gltf

import (
	"encoding/json"
	"fmt"
)

// ExtDisplacement is the material extension key for displacement mapping.
const ExtDisplacement = "KHR_materials_displacement"

// TextureSlots are the material fields through which a texture can be
// referenced, searched when resolving which materials use an image.
var TextureSlots = []string{
	"baseColorTexture",
	"metallicRoughnessTexture",
	"emissiveTexture",
	"normalTexture",
	"occlusionTexture",
}

// Material is an entry of the document's materials array. Fields other than
// name and extensions are kept as raw JSON in Props so that texture slot
// lookups can inspect them and a save leaves them untouched.
type Material struct {
	Name       string
	Extensions map[string]json.RawMessage
	Props      map[string]json.RawMessage
}

// TextureRef points at an entry of the textures array.
type TextureRef struct {
	Index int `json:"index"`
}

// Displacement is the KHR_materials_displacement extension block.
type Displacement struct {
	Factor  float64    `json:"displacementGeometryFactor"`
	Offset  float64    `json:"displacementGeometryOffset"`
	Texture TextureRef `json:"displacementGeometryTexture"`
}

func (m *Material) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["name"]; ok {
		if err := json.Unmarshal(v, &m.Name); err != nil {
			return fmt.Errorf("name: %w", err)
		}
		delete(raw, "name")
	}
	if v, ok := raw["extensions"]; ok {
		if err := json.Unmarshal(v, &m.Extensions); err != nil {
			return fmt.Errorf("extensions: %w", err)
		}
		delete(raw, "extensions")
	}
	m.Props = raw
	return nil
}

func (m Material) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.Props)+2)
	for k, v := range m.Props {
		out[k] = v
	}
	if m.Name != "" {
		out["name"], _ = json.Marshal(m.Name)
	}
	if len(m.Extensions) > 0 {
		v, err := json.Marshal(m.Extensions)
		if err != nil {
			return nil, err
		}
		out["extensions"] = v
	}
	return json.Marshal(out)
}

// HasDisplacement reports whether the displacement extension is present.
func (m *Material) HasDisplacement() bool {
	_, ok := m.Extensions[ExtDisplacement]
	return ok
}

// Displacement decodes the displacement extension block, if present.
func (m *Material) Displacement() (Displacement, bool) {
	raw, ok := m.Extensions[ExtDisplacement]
	if !ok {
		return Displacement{}, false
	}
	var d Displacement
	if err := json.Unmarshal(raw, &d); err != nil {
		return Displacement{}, false
	}
	return d, true
}

// SetDisplacement attaches or replaces the displacement extension block.
func (m *Material) SetDisplacement(d Displacement) {
	raw, _ := json.Marshal(d)
	if m.Extensions == nil {
		m.Extensions = make(map[string]json.RawMessage)
	}
	m.Extensions[ExtDisplacement] = raw
}

// ReferencesTexture reports whether the material references the given texture
// index through any of the named slots. A slot value may be a bare integer or
// an object carrying an "index" field. The search descends into nested
// objects up to depth levels below the material's own fields; depth 1 covers
// grouped blocks such as pbrMetallicRoughness and is the intended bound.
func (m *Material) ReferencesTexture(texture int, slots []string, depth int) bool {
	return refInFields(m.Props, slots, texture, depth)
}

func refInFields(fields map[string]json.RawMessage, slots []string, texture, depth int) bool {
	for _, slot := range slots {
		raw, ok := fields[slot]
		if !ok {
			continue
		}
		if idx, ok := slotIndex(raw); ok && idx == texture {
			return true
		}
	}
	if depth <= 0 {
		return false
	}
	for _, raw := range fields {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			continue
		}
		if refInFields(nested, slots, texture, depth-1) {
			return true
		}
	}
	return false
}

// slotIndex extracts a texture index from a slot value.
func slotIndex(raw json.RawMessage) (int, bool) {
	var direct int
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct, true
	}
	var wrapped struct {
		Index *int `json:"index"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Index != nil {
		return *wrapped.Index, true
	}
	return 0, false
}
