package linker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the image suffixes recognized without having seen
// them in a document. The per-run set is widened by the suffixes of the
// document's own images.
var DefaultExtensions = []string{
	".png", ".jpg", ".jpeg", ".tga", ".bmp", ".gif",
	".webp", ".exr", ".tif", ".tiff", ".ktx2", ".dds",
}

// Candidate is a file suspected to be a heightmap for some material.
type Candidate struct {
	Path string // absolute filesystem path
	Rel  string // path relative to the document directory
}

// discoverCandidates lists the directories of the document's images plus the
// configured extra paths and keeps every file whose suffix is a known image
// extension, whose name matches the heightmap pattern, and which is not
// already registered as a document image. The result is sorted by path for
// stable diagnostics only; downstream stages impose their own order.
func (l *Linker) discoverCandidates(g *RefGraph, docDir string) ([]Candidate, error) {
	exts := make(map[string]bool)
	for _, e := range l.knownExtensions() {
		exts[strings.ToLower(e)] = true
	}
	for _, img := range g.Images {
		if e := strings.ToLower(filepath.Ext(img.Path)); e != "" {
			exts[e] = true
		}
	}

	dirs := make(map[string]bool)
	for _, img := range g.Images {
		dirs[filepath.Dir(img.Path)] = true
	}
	for _, p := range l.opts.ExtraPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving extra path %s: %w", p, err)
		}
		dirs[abs] = true
	}

	sorted := make([]string, 0, len(dirs))
	for dir := range dirs {
		sorted = append(sorted, dir)
	}
	sort.Strings(sorted)

	var out []Candidate
	for _, dir := range sorted {
		l.log.Debugf("searching %q...", dir)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !exts[strings.ToLower(filepath.Ext(name))] {
				continue
			}
			if !l.pattern.MatchString(name) {
				continue
			}
			path := filepath.Join(dir, name)
			if g.Registered(path) {
				continue
			}
			rel, err := filepath.Rel(docDir, path)
			if err != nil {
				rel = path
			}
			l.log.Debugf("found candidate %q", path)
			out = append(out, Candidate{Path: path, Rel: rel})
		}
	}
	return out, nil
}

func (l *Linker) knownExtensions() []string {
	if len(l.opts.KnownExtensions) > 0 {
		return l.opts.KnownExtensions
	}
	return DefaultExtensions
}
