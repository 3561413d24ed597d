package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lucsky/cuid"

	"github.com/bathroomcodes/bathroomcodes_api/util/tracing"
	"github.com/bathroomcodes/bathroomcodes_api/util/values"
)

// RequestTracing handles the request tracing context
func RequestTracing(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestSource := r.Header.Get(values.HeaderRequestSource)
		if requestSource == "" {
			requestSource = "web"
		}

		requestID := r.Header.Get(values.HeaderRequestID)
		if requestID == "" {
			requestID = cuid.New()
		}
		w.Header().Set(values.HeaderRequestID, requestID)

		tracingContext := tracing.Context{
			RequestID:     requestID,
			RequestSource: requestSource,
		}

		ctx = context.WithValue(ctx, values.ContextTracingKey, tracingContext)
		next.ServeHTTP(w, r.WithContext(ctx))
	}

	return http.HandlerFunc(fn)
}

// RequestLogging logs one line per request with status and duration.
func (api *API) RequestLogging(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		tc, _ := r.Context().Value(values.ContextTracingKey).(tracing.Context)
		api.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", tc.RequestID).
			Msg("request")
	}

	return http.HandlerFunc(fn)
}

// tracingFromContext returns the request's tracing context, zero-valued if
// the middleware did not run.
func tracingFromContext(ctx context.Context) tracing.Context {
	tc, _ := ctx.Value(values.ContextTracingKey).(tracing.Context)
	return tc
}
