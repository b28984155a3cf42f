package mid

import (
	"context"
	"net/http"

	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/metrics"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
)

// Metrics updates program counters.
func Metrics() web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)

			metrics.AddRequests(ctx)

			if isError(resp) != nil {
				metrics.AddErrors(ctx)
			}

			return resp
		}

		return h
	}

	return m
}
