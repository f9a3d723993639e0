package linker

import (
	"path/filepath"

	"github.com/meshpipe/heightlink/pkg/gltf"
)

// mutate writes the finalized assignments into the document: one new
// image/texture pair per distinct candidate filename (reused across
// assignments naming the same file) and a displacement extension block on
// each target material. Materials that turn out to already carry the
// extension are reported and skipped. Returns the applied assignments and
// whether the document changed.
func (l *Linker) mutate(doc *gltf.Document, assignments []Assignment) ([]Assignment, bool) {
	added := make(map[string]int) // candidate filename -> created texture index
	var applied []Assignment
	changed := false

	for _, a := range assignments {
		mat := &doc.Materials[a.MaterialID]

		if d, ok := mat.Displacement(); ok {
			uri := ""
			if ti := d.Texture.Index; ti >= 0 && ti < len(doc.Textures) && doc.Textures[ti].Source != nil {
				if si := *doc.Textures[ti].Source; si >= 0 && si < len(doc.Images) {
					uri = doc.Images[si].URI
				}
			}
			l.log.Errorf("error adding %q: %s already exists for material %q (using image %q), skipping",
				a.Candidate.Rel, gltf.ExtDisplacement, a.MaterialName, uri)
			continue
		}

		base := filepath.Base(a.Candidate.Path)
		texID, ok := added[base]
		if !ok {
			imgID := len(doc.Images)
			doc.Images = append(doc.Images, gltf.Image{
				Name: base,
				URI:  gltf.EncodeURI(a.Candidate.Rel),
			})
			texID = len(doc.Textures)
			src := imgID
			doc.Textures = append(doc.Textures, gltf.Texture{
				Sampler: a.Sampler,
				Source:  &src,
			})
			added[base] = texID
			l.log.Debugf("pending image %d texture %d: %s", imgID, texID, base)
		}

		mat.SetDisplacement(gltf.Displacement{
			Factor:  l.opts.Scale,
			Offset:  l.opts.Bias,
			Texture: gltf.TextureRef{Index: texID},
		})
		applied = append(applied, a)
		changed = true
	}

	return applied, changed
}

// copyFromTemplate overwrites the displacement scale and bias of every
// already-linked material that has a same-named, linked counterpart in the
// template document with differing values. This is the only path that may
// touch an existing extension, and it runs whether or not the matching
// stages assigned anything.
func (l *Linker) copyFromTemplate(doc *gltf.Document) bool {
	if l.template == nil {
		return false
	}
	changed := false
	for i := range doc.Materials {
		mat := &doc.Materials[i]
		if !l.materialAllowed(mat.Name) {
			continue
		}
		d, ok := mat.Displacement()
		if !ok {
			continue
		}
		for j := range l.template.Materials {
			other := &l.template.Materials[j]
			if other.Name != mat.Name {
				continue
			}
			od, ok := other.Displacement()
			if !ok {
				continue
			}
			if od.Factor != d.Factor || od.Offset != d.Offset {
				l.log.Infof("updating material %q with scale %v and bias %v from template", mat.Name, od.Factor, od.Offset)
				d.Factor = od.Factor
				d.Offset = od.Offset
				mat.SetDisplacement(d)
				changed = true
			}
		}
	}
	return changed
}
