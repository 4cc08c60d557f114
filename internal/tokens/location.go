package tokens

import (
	"path/filepath"

	"github.com/viant/afs/url"
)

// NormalizeLocation converts a local path into a file:// URL that afs
// understands and leaves URLs with a scheme untouched.
func NormalizeLocation(location string) string {
	norm := location
	if url.Scheme(norm, "") == "" && url.IsRelative(norm) {
		if abs, err := filepath.Abs(norm); err == nil {
			norm = abs
		}
	}
	if url.Scheme(norm, "") == "" && !url.IsRelative(norm) {
		norm = url.ToFileURL(norm)
	}
	return norm
}
