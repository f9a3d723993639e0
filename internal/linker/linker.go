// Package linker implements the heightmap linking pipeline: it discovers
// loose heightmap files near a glTF document, matches them to materials
// through the image reference graph and fuzzy name similarity, and writes the
// winners into the document as KHR_materials_displacement extensions.
//
// A document flows through five stages in order: reference graph build,
// candidate discovery, scoring, greedy assignment, document mutation. Each
// stage is a pure function over the document and the previous stage's output;
// only the mutation stage writes to the document.
package linker

import (
	"fmt"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"

	"github.com/meshpipe/heightlink/pkg/gltf"
)

// Options is the per-run configuration for the linking pipeline.
type Options struct {
	Scale float64 // displacementGeometryFactor for new links
	Bias  float64 // displacementGeometryOffset for new links

	ExtraPaths []string // additional candidate search directories
	Filter     []string // material name include regexes
	FilterOut  []string // material name exclude regexes, win over Filter

	// HeightmapPattern marks a filename as a heightmap candidate. Matched
	// case-insensitively. Empty means the default "height|disp".
	HeightmapPattern string

	// KnownExtensions seeds the recognized image suffix set. Empty means
	// DefaultExtensions. The set is widened by the suffixes of the
	// document's own images before discovery.
	KnownExtensions []string

	ImageNameWeight    float64 // weight of the image name similarity term
	MaterialNameWeight float64 // weight of the material name similarity term

	// MatchOneImage pins each candidate filename to the image of its
	// highest-scoring match; lower-scoring matches against other images
	// are skipped.
	MatchOneImage bool

	// MatchOneMaterial stops after the first successful assignment per
	// candidate filename.
	MatchOneMaterial bool

	// MaterialsOnly additionally matches every material by name alone,
	// so materials without any texture reference can receive a heightmap.
	MaterialsOnly bool
}

// DefaultOptions returns the options used when flags say nothing.
func DefaultOptions() Options {
	return Options{
		Scale:              1.0,
		Bias:               0.0,
		HeightmapPattern:   "height|disp",
		ImageNameWeight:    1.0,
		MaterialNameWeight: 0.1,
		MatchOneImage:      true,
	}
}

// Linker runs the pipeline over glTF documents.
type Linker struct {
	opts     Options
	pattern  *regexp.Regexp
	include  []*regexp.Regexp
	exclude  []*regexp.Regexp
	template *gltf.Document
	log      *zap.SugaredLogger
}

// New compiles the configured patterns and returns a ready Linker. The
// template document may be nil; when present its displacement scale/bias
// override those of same-named materials in every processed document.
func New(opts Options, template *gltf.Document, log *zap.SugaredLogger) (*Linker, error) {
	pat := opts.HeightmapPattern
	if pat == "" {
		pat = "height|disp"
	}
	pattern, err := regexp.Compile("(?i:" + pat + ")")
	if err != nil {
		return nil, fmt.Errorf("heightmap pattern: %w", err)
	}
	include, err := compileAll(opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	exclude, err := compileAll(opts.FilterOut)
	if err != nil {
		return nil, fmt.Errorf("filter-out: %w", err)
	}
	return &Linker{
		opts:     opts,
		pattern:  pattern,
		include:  include,
		exclude:  exclude,
		template: template,
		log:      log,
	}, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// materialAllowed applies the include/exclude name filters. Exclude wins.
func (l *Linker) materialAllowed(name string) bool {
	for _, re := range l.exclude {
		if re.MatchString(name) {
			l.log.Debugf("skipping material %q due to filter-out list", name)
			return false
		}
	}
	if len(l.include) == 0 {
		return true
	}
	for _, re := range l.include {
		if re.MatchString(name) {
			return true
		}
	}
	l.log.Debugf("skipping material %q due to filter list", name)
	return false
}

// Result summarizes one document run.
type Result struct {
	// Assignments that were applied to the document.
	Assignments []Assignment
	// Changed reports whether the in-memory document was mutated.
	Changed bool
	// Written reports whether the document was saved back to disk.
	Written bool
	// Aborted is set when the confirmer asked to stop the whole batch.
	Aborted bool
}

// ProcessFile runs the full pipeline on one glTF document. When confirm is
// non-nil it is consulted before writing; a No answer keeps the mutation
// in memory only, an Abort answer additionally flags the result so callers
// stop the batch. Documents that end up unchanged are never rewritten.
func (l *Linker) ProcessFile(path string, confirm Confirmer) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	docDir := filepath.Dir(abs)

	doc, err := gltf.Load(abs)
	if err != nil {
		return nil, err
	}

	graph, err := buildRefGraph(doc, docDir, l.log)
	if err != nil {
		return nil, fmt.Errorf("resolving references in %s: %w", path, err)
	}

	candidates, err := l.discoverCandidates(graph, docDir)
	if err != nil {
		return nil, fmt.Errorf("searching heightmaps for %s: %w", path, err)
	}

	matches := l.scoreMatches(doc, graph, candidates)
	assignments := l.assign(doc, docDir, matches)
	if len(assignments) == 0 {
		l.log.Infof("no extra heightmaps found for %s", path)
	}

	res := &Result{}
	res.Assignments, res.Changed = l.mutate(doc, assignments)
	if l.copyFromTemplate(doc) {
		res.Changed = true
	}
	if !res.Changed {
		return res, nil
	}

	if confirm != nil {
		decision, err := confirm.Confirm(path, res.Assignments)
		if err != nil {
			return res, fmt.Errorf("confirming %s: %w", path, err)
		}
		switch decision {
		case DecisionAbort:
			res.Aborted = true
			return res, nil
		case DecisionYes:
		default:
			return res, nil
		}
	}

	if err := gltf.Save(doc, abs); err != nil {
		return res, err
	}
	res.Written = true
	return res, nil
}
