// Package uploadapp maintains the app layer api for admin file uploads.
package uploadapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/errs"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/assetbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/blob"
)

// Room left in the body limit for the multipart envelope around the file.
const formOverhead = 64 << 10

// Uploaded carries the public url of a stored file.
type Uploaded struct {
	URL string `json:"url"`
}

// Encode implements the web.Encoder interface.
func (app Uploaded) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

// =============================================================================

type app struct {
	assetBus *assetbus.Core
}

func newApp(assetBus *assetbus.Core) *app {
	return &app{
		assetBus: assetBus,
	}
}

func (a *app) upload(ctx context.Context, r *http.Request) web.Encoder {
	policy := a.assetBus.Policy()

	if w := web.GetWriter(ctx); w != nil {
		r.Body = http.MaxBytesReader(w, r.Body, policy.MaxBytes+formOverhead)
	}

	if err := r.ParseMultipartForm(policy.MaxBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return errs.NewFieldErrors("file", assetbus.ErrTooLarge)
		}
		return errs.NewFieldErrors("file", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		return errs.NewFieldErrors("file", err)
	}
	defer file.Close()

	url, err := a.assetBus.Upload(ctx, assetbus.File{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        file,
	})
	if err != nil {
		switch {
		case errors.Is(err, assetbus.ErrEmpty),
			errors.Is(err, assetbus.ErrTooLarge),
			errors.Is(err, assetbus.ErrInvalidType):
			return errs.NewFieldErrors("file", err)

		case errors.Is(err, blob.ErrNotConfigured):
			return errs.New(errs.Internal, blob.ErrNotConfigured)
		}
		return errs.Errorf(errs.Internal, "upload %s: %s", policy.Name, err)
	}

	return Uploaded{URL: url}
}
