package gltf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDoc = `{
  "asset": {"version": "2.0", "generator": "test"},
  "scenes": [{"nodes": [0]}],
  "images": [
    {"uri": "textures/color.png", "mimeType": "image/png"},
    {"name": "mask", "uri": "mask%20map.png"}
  ],
  "textures": [
    {"sampler": 0, "source": 0, "extras": {"tag": 7}}
  ],
  "materials": [
    {
      "name": "Wood",
      "doubleSided": true,
      "pbrMetallicRoughness": {"baseColorTexture": {"index": 0}}
    }
  ]
}`

func loadSample(t *testing.T) (*Document, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.gltf")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load document: %v", err)
	}
	return doc, path
}

func TestLoad(t *testing.T) {
	doc, _ := loadSample(t)

	if len(doc.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(doc.Images))
	}
	if doc.Images[0].URI != "textures/color.png" {
		t.Errorf("unexpected image uri %q", doc.Images[0].URI)
	}
	if doc.Images[1].Name != "mask" {
		t.Errorf("unexpected image name %q", doc.Images[1].Name)
	}
	if len(doc.Textures) != 1 || doc.Textures[0].Source == nil || *doc.Textures[0].Source != 0 {
		t.Fatalf("texture source not parsed: %+v", doc.Textures)
	}
	if doc.Materials[0].Name != "Wood" {
		t.Errorf("unexpected material name %q", doc.Materials[0].Name)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	doc, path := loadSample(t)

	if err := Save(doc, path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	out := string(data)

	// Fields this package does not model must survive the round trip.
	for _, want := range []string{`"generator"`, `"scenes"`, `"mimeType"`, `"extras"`, `"doubleSided"`} {
		if !strings.Contains(out, want) {
			t.Errorf("saved document lost %s", want)
		}
	}

	// Top-level keys come out sorted.
	if strings.Index(out, `"asset"`) > strings.Index(out, `"images"`) {
		t.Error("expected asset before images in output")
	}
	if strings.Index(out, `"images"`) > strings.Index(out, `"materials"`) {
		t.Error("expected images before materials in output")
	}

	// Saving again must be byte-identical.
	again, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("re-encoding: %v", err)
	}
	if string(again) != out {
		t.Error("second encode differs from first")
	}
}

func TestAbsentArraysStayAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "min.gltf")
	if err := os.WriteFile(path, []byte(`{"asset": {"version": "2.0"}}`), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	if strings.Contains(string(data), "images") {
		t.Errorf("images array appeared from nowhere: %s", data)
	}
}

func TestDisplacementAccessors(t *testing.T) {
	var m Material
	if m.HasDisplacement() {
		t.Fatal("fresh material reports displacement")
	}
	m.SetDisplacement(Displacement{Factor: 2.5, Offset: -0.5, Texture: TextureRef{Index: 3}})
	if !m.HasDisplacement() {
		t.Fatal("displacement not attached")
	}
	d, ok := m.Displacement()
	if !ok {
		t.Fatal("displacement not decodable")
	}
	if d.Factor != 2.5 || d.Offset != -0.5 || d.Texture.Index != 3 {
		t.Errorf("unexpected displacement %+v", d)
	}

	raw := string(m.Extensions[ExtDisplacement])
	for _, want := range []string{"displacementGeometryFactor", "displacementGeometryOffset", "displacementGeometryTexture", `"index":3`} {
		if !strings.Contains(raw, want) {
			t.Errorf("extension json missing %s: %s", want, raw)
		}
	}
}

func TestReferencesTexture(t *testing.T) {
	mat := Material{Props: map[string]json.RawMessage{
		"normalTexture":        json.RawMessage(`{"index": 2, "scale": 1.0}`),
		"emissiveTexture":      json.RawMessage(`4`),
		"pbrMetallicRoughness": json.RawMessage(`{"baseColorTexture": {"index": 0}, "metallicRoughnessTexture": 1}`),
		"extras":               json.RawMessage(`{"wrapper": {"baseColorTexture": {"index": 9}}}`),
	}}

	// Direct object wrapper and bare integer at the top level.
	if !mat.ReferencesTexture(2, TextureSlots, 0) {
		t.Error("wrapped top-level slot not found")
	}
	if !mat.ReferencesTexture(4, TextureSlots, 0) {
		t.Error("bare integer slot not found")
	}

	// One level of nesting requires depth 1.
	if mat.ReferencesTexture(0, TextureSlots, 0) {
		t.Error("nested slot found at depth 0")
	}
	if !mat.ReferencesTexture(0, TextureSlots, 1) {
		t.Error("nested wrapped slot not found at depth 1")
	}
	if !mat.ReferencesTexture(1, TextureSlots, 1) {
		t.Error("nested bare slot not found at depth 1")
	}

	// Two levels down is out of contract at depth 1.
	if mat.ReferencesTexture(9, TextureSlots, 1) {
		t.Error("doubly nested slot found at depth 1")
	}
	if !mat.ReferencesTexture(9, TextureSlots, 2) {
		t.Error("doubly nested slot not found at depth 2")
	}

	if mat.ReferencesTexture(7, TextureSlots, 2) {
		t.Error("unreferenced texture reported as referenced")
	}
}

func TestURICoding(t *testing.T) {
	enc := EncodeURI(filepath.Join("tex dir", "color height.png"))
	if enc != "tex%20dir/color%20height.png" {
		t.Errorf("unexpected encoding %q", enc)
	}
	dec, err := DecodeURI(enc)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if dec != filepath.Join("tex dir", "color height.png") {
		t.Errorf("round trip mismatch: %q", dec)
	}

	if _, err := DecodeURI("bad%zz"); err == nil {
		t.Error("expected error for malformed escape")
	}
}
