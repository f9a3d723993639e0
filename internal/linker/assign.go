package linker

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/meshpipe/heightlink/pkg/gltf"
)

// Assignment is a finalized material <- heightmap pairing.
type Assignment struct {
	MaterialID   int
	MaterialName string
	Candidate    Candidate
	// Image is the existing image the candidate was matched against, nil
	// for materials-only matches.
	Image *ImageRef
	// Sampler to copy onto the texture created for the heightmap.
	Sampler *int
}

// assign consumes matches in descending score order and pairs each candidate
// with materials, enforcing one assignment per material and, optionally, one
// image per candidate filename and one material per candidate. A candidate
// filename is pinned to an image only once a tuple against that image yields
// an assignment; tuples that die against claimed or filtered materials do not
// block lower-scoring tuples. Ties are broken by candidate path then image
// path so the outcome does not depend on discovery order.
func (l *Linker) assign(doc *gltf.Document, docDir string, matches []Match) []Assignment {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Candidate.Rel != matches[j].Candidate.Rel {
			return matches[i].Candidate.Rel < matches[j].Candidate.Rel
		}
		return imageRel(&matches[i]) < imageRel(&matches[j])
	})

	claimed := make(map[int]bool)      // material id -> taken by an earlier tuple
	imageFor := make(map[string]int)   // candidate filename -> accepted image id
	satisfied := make(map[string]bool) // candidate filename -> already assigned
	warnedAmbiguous := false

	var out []Assignment
	for i := range matches {
		m := &matches[i]
		base := filepath.Base(m.Candidate.Path)
		imgID := -1
		if m.Image != nil {
			imgID = m.Image.ID
		}

		if prev, ok := imageFor[base]; ok && prev != imgID {
			if !warnedAmbiguous {
				l.log.Warnf("heightmap %q matches more than one image; keeping the highest-scoring match", base)
				warnedAmbiguous = true
			}
			if l.opts.MatchOneImage {
				continue
			}
		}
		if l.opts.MatchOneMaterial && satisfied[base] {
			continue
		}

		var remaining []int
		for _, mid := range m.Materials {
			if claimed[mid] {
				continue
			}
			if !l.materialAllowed(doc.Materials[mid].Name) {
				continue
			}
			remaining = append(remaining, mid)
		}
		if len(remaining) == 0 {
			continue
		}

		// Prefer materials whose names resemble the candidate.
		candLower := strings.ToLower(m.Candidate.Rel)
		sims := make(map[int]float64, len(remaining))
		for _, mid := range remaining {
			sims[mid] = similarity(candLower, strings.ToLower(doc.Materials[mid].Name))
		}
		sort.SliceStable(remaining, func(i, j int) bool {
			if sims[remaining[i]] != sims[remaining[j]] {
				return sims[remaining[i]] > sims[remaining[j]]
			}
			return remaining[i] < remaining[j]
		})

		assigned := false
		for _, mid := range remaining {
			mat := &doc.Materials[mid]
			claimed[mid] = true

			if d, ok := mat.Displacement(); ok {
				existing, existingRel := displacementImage(doc, docDir, d)
				if existing == m.Candidate.Path {
					l.log.Infof("heightmap %q is already assigned to material %q", m.Candidate.Rel, mat.Name)
				} else {
					l.log.Errorf("not adding %q to material %q: %s already exists (using image %q)",
						m.Candidate.Rel, mat.Name, gltf.ExtDisplacement, existingRel)
				}
				continue
			}

			var sampler *int
			if m.Image != nil {
				sampler = m.Image.Sampler
			}
			out = append(out, Assignment{
				MaterialID:   mid,
				MaterialName: mat.Name,
				Candidate:    m.Candidate,
				Image:        m.Image,
				Sampler:      sampler,
			})
			assigned = true
			satisfied[base] = true
			if l.opts.MatchOneMaterial {
				break
			}
		}
		if assigned {
			if _, ok := imageFor[base]; !ok {
				imageFor[base] = imgID
			}
		}
	}
	return out
}

func imageRel(m *Match) string {
	if m.Image == nil {
		return ""
	}
	return m.Image.Rel
}

// displacementImage resolves the image a displacement extension points at,
// returning its absolute and document-relative paths. Empty strings when the
// chain is broken.
func displacementImage(doc *gltf.Document, docDir string, d gltf.Displacement) (string, string) {
	ti := d.Texture.Index
	if ti < 0 || ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
		return "", ""
	}
	si := *doc.Textures[ti].Source
	if si < 0 || si >= len(doc.Images) {
		return "", ""
	}
	rel, err := gltf.DecodeURI(doc.Images[si].URI)
	if err != nil {
		return "", ""
	}
	return filepath.Join(docDir, rel), rel
}
