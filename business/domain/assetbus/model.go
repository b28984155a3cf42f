package assetbus

import (
	"io"
	"slices"
)

// Policy describes one class of uploadable asset.
type Policy struct {
	Name         string
	Prefix       string
	MaxBytes     int64
	AllowedTypes []string
}

// Allows reports whether the media type is on the allow-list.
func (p Policy) Allows(mediaType string) bool {
	return slices.Contains(p.AllowedTypes, mediaType)
}

// LogoPolicy accepts client logos.
var LogoPolicy = Policy{
	Name:     "logo",
	Prefix:   "logos",
	MaxBytes: 2 << 20,
	AllowedTypes: []string{
		"image/png",
		"image/jpeg",
		"image/gif",
		"image/webp",
		"image/svg+xml",
	},
}

// KnowledgePolicy accepts the documents that feed a client's knowledge base.
var KnowledgePolicy = Policy{
	Name:     "knowledge",
	Prefix:   "knowledge",
	MaxBytes: 10 << 20,
	AllowedTypes: []string{
		"application/pdf",
		"text/plain",
		"text/markdown",
		"text/csv",
		"application/json",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	},
}

// File is an upload as received from the caller. Size is the declared size
// of Body in bytes.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}
