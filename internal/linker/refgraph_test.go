package linker

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/meshpipe/heightlink/pkg/gltf"
)

func TestBuildRefGraphSamplerFallback(t *testing.T) {
	doc := &gltf.Document{
		Images: []gltf.Image{{URI: "color.png"}},
		Textures: []gltf.Texture{
			{Source: intp(0)},
			{Sampler: intp(2), Source: intp(0)},
		},
		Materials: []gltf.Material{{Name: "Wood", Props: map[string]json.RawMessage{
			"baseColorTexture": json.RawMessage(`0`),
		}}},
	}

	g, err := buildRefGraph(doc, t.TempDir(), zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("graph build failed: %v", err)
	}
	if len(g.Images) != 1 {
		t.Fatalf("expected 1 resolved image, got %d", len(g.Images))
	}
	// The first referencing texture has no sampler; the next one's is used.
	if g.Images[0].Sampler == nil || *g.Images[0].Sampler != 2 {
		t.Errorf("expected sampler 2, got %v", g.Images[0].Sampler)
	}
}
