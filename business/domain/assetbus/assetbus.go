// Package assetbus validates uploaded files and hands them to blob storage.
package assetbus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Set of error variables for upload validation.
var (
	ErrEmpty       = errors.New("file is empty")
	ErrTooLarge    = errors.New("file too large")
	ErrInvalidType = errors.New("file type not allowed")
)

const sniffLen = 3072

// Storer interface declares the behavior this package needs to store files.
type Storer interface {
	Put(ctx context.Context, pathname string, contentType string, body io.Reader) (string, error)
}

// Core manages uploads for a single asset policy.
type Core struct {
	log    *logger.Logger
	storer Storer
	policy Policy
	now    func() time.Time
}

// NewCore constructs an upload core for the policy.
func NewCore(log *logger.Logger, storer Storer, policy Policy) *Core {
	return &Core{
		log:    log,
		storer: storer,
		policy: policy,
		now:    time.Now,
	}
}

// Policy returns the policy enforced by the core.
func (c *Core) Policy() Policy {
	return c.policy
}

// Upload validates the file against the policy and stores it, returning its
// public url. Nothing is sent to storage unless the file passes.
func (c *Core) Upload(ctx context.Context, f File) (string, error) {
	ctx, span := otel.AddSpan(ctx, "business.assetbus.upload", attribute.String("policy", c.policy.Name))
	defer span.End()

	if f.Size <= 0 || f.Body == nil {
		return "", ErrEmpty
	}

	if f.Size > c.policy.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit is %d bytes", ErrTooLarge, f.Size, c.policy.MaxBytes)
	}

	contentType := mediaType(f.ContentType)
	body := f.Body

	if contentType == "" || contentType == "application/octet-stream" {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(f.Body, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("sniff: %w", err)
		}
		head = head[:n]

		contentType = mediaType(mimetype.Detect(head).String())
		body = io.MultiReader(bytes.NewReader(head), f.Body)
	}

	if !c.policy.Allows(contentType) {
		return "", fmt.Errorf("%w: %q, allowed types are %s", ErrInvalidType, contentType, strings.Join(c.policy.AllowedTypes, ", "))
	}

	pathname := fmt.Sprintf("%s/%d-%s", c.policy.Prefix, c.now().UnixMilli(), sanitize(f.Name))

	url, err := c.storer.Put(ctx, pathname, contentType, body)
	if err != nil {
		return "", fmt.Errorf("put: %w", err)
	}

	c.log.Info(ctx, "upload", "policy", c.policy.Name, "pathname", pathname, "size", f.Size, "contentType", contentType)

	return url, nil
}

// mediaType drops parameters such as charset and lowercases the type.
func mediaType(v string) string {
	if v == "" {
		return ""
	}

	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(v))
	}

	return mt
}

// sanitize reduces a client supplied file name to a safe key segment.
func sanitize(name string) string {
	name = strings.ToLower(path.Base(strings.ReplaceAll(name, "\\", "/")))

	var b strings.Builder
	dash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	s := strings.Trim(b.String(), "-.")
	if len(s) > 100 {
		s = s[len(s)-100:]
	}

	if s == "" {
		return "file"
	}

	return s
}
