package contentbridge

import (
	"fmt"
	"net/url"
	"strings"
)

// URI identifies content as scheme://location.
//
//	file:///abs/path/report.pdf   local file (absolute path)
//	s3://bucket/key               Amazon S3 object
//	minio://bucket/key            MinIO object
//	mem://name                    in-memory store
//
// Location is what the scheme's store receives as the blob name.
type URI struct {
	Scheme   string
	Location string
}

// ParseURI parses s. Percent-escapes in the location are decoded.
func ParseURI(s string) (URI, error) {
	u, err := url.Parse(s)
	if err != nil {
		return URI{}, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}

	switch {
	case u.Scheme == "":
		return URI{}, fmt.Errorf("%w: %q has no scheme", ErrInvalidURI, s)
	case u.Opaque != "":
		return URI{}, fmt.Errorf("%w: %q is not hierarchical", ErrInvalidURI, s)
	case u.User != nil:
		return URI{}, fmt.Errorf("%w: %q carries credentials", ErrInvalidURI, s)
	case u.RawQuery != "" || u.Fragment != "":
		return URI{}, fmt.Errorf("%w: %q has a query or fragment", ErrInvalidURI, s)
	}

	var loc string
	if u.Scheme == "file" {
		if u.Host != "" && u.Host != "localhost" {
			return URI{}, fmt.Errorf("%w: file uri with remote host %q", ErrInvalidURI, u.Host)
		}
		loc = u.Path
	} else {
		loc = strings.TrimSuffix(u.Host+u.Path, "/")
	}

	if loc == "" || loc == "/" {
		return URI{}, fmt.Errorf("%w: %q has no location", ErrInvalidURI, s)
	}

	return URI{Scheme: u.Scheme, Location: loc}, nil
}

// String returns the canonical form, which is also the catalog key.
func (u URI) String() string {
	return u.Scheme + "://" + (&url.URL{Path: u.Location}).EscapedPath()
}
