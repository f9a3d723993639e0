package linker

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/meshpipe/heightlink/pkg/gltf"
)

// slotSearchDepth bounds how far below a material's own fields the texture
// slot lookup descends. One level covers grouped PBR blocks such as
// pbrMetallicRoughness; deliberately nothing deeper.
const slotSearchDepth = 1

// ImageRef is a document image resolved to the filesystem, together with the
// materials that reach it through a texture.
type ImageRef struct {
	ID   int    // index into the document's images array
	Path string // absolute filesystem path
	Rel  string // path relative to the document directory

	// Sampler is the first non-nil sampler among the textures referencing
	// this image; copied onto textures created for heightmaps matched
	// against it.
	Sampler *int

	// Materials referencing this image through any recognized texture
	// slot. Empty when no texture or no material reaches the image; such
	// images are excluded from matching.
	Materials []int
}

// RefGraph maps a document's uri-backed images to the materials referencing
// them.
type RefGraph struct {
	Images []ImageRef
	byPath map[string]int
}

// Registered reports whether an absolute path is already a document image.
func (g *RefGraph) Registered(path string) bool {
	_, ok := g.byPath[path]
	return ok
}

// buildRefGraph resolves every uri-backed image to an absolute path and
// follows the two-hop image -> texture -> material reference chain.
func buildRefGraph(doc *gltf.Document, docDir string, log *zap.SugaredLogger) (*RefGraph, error) {
	g := &RefGraph{byPath: make(map[string]int)}

	for id, img := range doc.Images {
		if img.URI == "" {
			continue
		}
		rel, err := gltf.DecodeURI(img.URI)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(docDir, rel)
		g.byPath[path] = len(g.Images)
		g.Images = append(g.Images, ImageRef{ID: id, Path: path, Rel: rel})
	}

	for i := range g.Images {
		ref := &g.Images[i]

		var textures []int
		for tid, tex := range doc.Textures {
			if tex.Source != nil && *tex.Source == ref.ID {
				textures = append(textures, tid)
				if ref.Sampler == nil {
					ref.Sampler = tex.Sampler
				}
			}
		}
		if len(textures) == 0 {
			log.Debugf("no texture using image %d, %q", ref.ID, ref.Rel)
			continue
		}

		seen := make(map[int]bool)
		for _, tid := range textures {
			for mid := range doc.Materials {
				if seen[mid] {
					continue
				}
				if doc.Materials[mid].ReferencesTexture(tid, gltf.TextureSlots, slotSearchDepth) {
					seen[mid] = true
					ref.Materials = append(ref.Materials, mid)
				}
			}
		}
		if len(ref.Materials) == 0 {
			log.Debugf("no material using textures %v (using image %d, %q)", textures, ref.ID, ref.Rel)
		}
	}

	return g, nil
}
