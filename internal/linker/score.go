package linker

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/meshpipe/heightlink/pkg/gltf"
)

// indicatorPlaceholder replaces heightmap indicator substrings before
// similarity comparison, so that shared terms like "height" do not inflate
// similarity between unrelated files that both mention them.
const indicatorPlaceholder = "#"

// Match pairs a candidate with a document image and the materials that would
// receive it, weighted by name similarity.
type Match struct {
	Score     float64
	Candidate Candidate
	// Image is nil for pseudo-matches produced in materials-only mode.
	Image     *ImageRef
	Materials []int
}

// scoreMatches computes a composite score for every (candidate, image) pair
// where the image is reachable from at least one material:
//
//	score = image_similarity*W_image + material_similarity*W_material + indicator_count
//
// In materials-only mode it additionally scores every candidate against every
// material by name alone. The output order is unspecified; the assigner sorts.
func (l *Linker) scoreMatches(doc *gltf.Document, g *RefGraph, candidates []Candidate) []Match {
	var out []Match
	for _, cand := range candidates {
		stripped := l.pattern.ReplaceAllString(cand.Rel, indicatorPlaceholder)
		terms := float64(len(l.pattern.FindAllStringIndex(cand.Rel, -1)))

		for i := range g.Images {
			img := &g.Images[i]
			if len(img.Materials) == 0 {
				continue
			}
			names := make([]string, len(img.Materials))
			for j, mid := range img.Materials {
				names[j] = doc.Materials[mid].Name
			}
			imageSim := similarity(stripped, img.Rel)
			materialSim := similarity(strings.ToLower(stripped), strings.ToLower(strings.Join(names, "$")))
			score := imageSim*l.opts.ImageNameWeight + materialSim*l.opts.MaterialNameWeight + terms

			l.log.Debugf("similarity score %v (image %v, material %v, heightmap terms %v): %q vs %q, materials %v",
				score, imageSim*l.opts.ImageNameWeight, materialSim*l.opts.MaterialNameWeight, terms,
				cand.Rel, img.Rel, names)

			out = append(out, Match{
				Score:     score,
				Candidate: cand,
				Image:     img,
				Materials: append([]int(nil), img.Materials...),
			})
		}

		if l.opts.MaterialsOnly {
			for mid := range doc.Materials {
				materialSim := similarity(strings.ToLower(stripped), strings.ToLower(doc.Materials[mid].Name))
				score := materialSim*l.opts.MaterialNameWeight + terms
				out = append(out, Match{
					Score:     score,
					Candidate: cand,
					Materials: []int{mid},
				})
			}
		}
	}
	return out
}

// similarity is the sequence-match ratio between two strings compared per
// character: twice the number of matched characters over the total length.
// Symmetric, deterministic, 1.0 for identical strings.
func similarity(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}
