package contentbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		in        string
		scheme    string
		location  string
		canonical string
	}{
		{"file:///tmp/report.pdf", "file", "/tmp/report.pdf", "file:///tmp/report.pdf"},
		{"file://localhost/tmp/report.pdf", "file", "/tmp/report.pdf", "file:///tmp/report.pdf"},
		{"s3://bucket/docs/a.json", "s3", "bucket/docs/a.json", "s3://bucket/docs/a.json"},
		{"s3://bucket/my%20report.pdf", "s3", "bucket/my report.pdf", "s3://bucket/my%20report.pdf"},
		{"minio://media/cat.jpg", "minio", "media/cat.jpg", "minio://media/cat.jpg"},
		{"mem://doc", "mem", "doc", "mem://doc"},
		{"mem://dir/", "mem", "dir", "mem://dir"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := ParseURI(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, u.Scheme)
			assert.Equal(t, tt.location, u.Location)
			assert.Equal(t, tt.canonical, u.String())
		})
	}
}

func TestParseURI_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"relative/path",
		"mailto:someone@example.com",
		"s3://user:secret@bucket/key",
		"s3://bucket/key?versionId=1",
		"s3://bucket/key#part",
		"file://remote-host/etc/passwd",
		"file:///",
		"mem://",
		"s3://bucket/%zz",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseURI(in)
			assert.ErrorIs(t, err, ErrInvalidURI)
		})
	}
}
