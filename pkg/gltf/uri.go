package gltf

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// DecodeURI converts a percent-encoded glTF uri into a filesystem path,
// relative to the directory of the document that contains it.
func DecodeURI(uri string) (string, error) {
	s, err := url.PathUnescape(uri)
	if err != nil {
		return "", fmt.Errorf("decoding uri %q: %w", uri, err)
	}
	return filepath.FromSlash(s), nil
}

// EncodeURI percent-encodes a document-relative filesystem path for use as a
// glTF uri. Separators are emitted as forward slashes and left unescaped.
func EncodeURI(rel string) string {
	u := url.URL{Path: filepath.ToSlash(rel)}
	return u.EscapedPath()
}
