package catalog

import (
	"context"
	"errors"
	"mime"
	"path"
	"strings"
)

// ErrNotFound is returned when a catalog has no entry for a URI.
var ErrNotFound = errors.New("catalog: entry not found")

// DefaultMimeType is reported when nothing more specific is known.
const DefaultMimeType = "application/octet-stream"

// Entry is the display metadata recorded for one content URI.
type Entry struct {
	URI         string `json:"uri"`
	DisplayName string `json:"display_name,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
}

// Catalog resolves display metadata for content URIs.
// Implementations must be safe for concurrent use.
type Catalog interface {
	// Lookup returns the entry for uri, or an error satisfying
	// errors.Is(err, ErrNotFound).
	Lookup(ctx context.Context, uri string) (Entry, error)
}

// MimeTypeByName guesses a MIME type from the extension of name. Parameters
// such as charset are dropped. Unknown extensions yield DefaultMimeType.
func MimeTypeByName(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return DefaultMimeType
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return DefaultMimeType
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}
