package utilities

import (
	"context"
	"net/http"
)

var defaultHeadersToForward = []string{
	"User-Agent",
	"X-Request-ID",
	"X-Forwarded-For",
	"X-Forwarded-Host",
	"X-Forwarded-Proto",
	"X-Real-IP",
}

type forwardedHeadersKey struct{}

// ForwardHTTPHeaders copies selected headers of the incoming request into the
// returned context so outbound calls made on behalf of the request can carry them.
func ForwardHTTPHeaders(ctx context.Context, r *http.Request, headersToForward []string) context.Context {
	forwarded := http.Header{}

	allHeaders := make([]string, len(defaultHeadersToForward))
	copy(allHeaders, defaultHeadersToForward)
	allHeaders = append(allHeaders, headersToForward...)

	seen := make(map[string]bool)
	for _, header := range allHeaders {
		key := http.CanonicalHeaderKey(header)
		if seen[key] {
			continue
		}
		seen[key] = true

		for _, v := range r.Header.Values(key) {
			forwarded.Add(key, v)
		}
	}

	return context.WithValue(ctx, forwardedHeadersKey{}, forwarded)
}

// ApplyForwardedHeaders sets the headers captured by ForwardHTTPHeaders on an
// outbound request. Headers already set on req are left untouched.
func ApplyForwardedHeaders(ctx context.Context, req *http.Request) {
	forwarded, ok := ctx.Value(forwardedHeadersKey{}).(http.Header)
	if !ok {
		return
	}

	for key, values := range forwarded {
		if req.Header.Get(key) != "" {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
}

// ForwardHeadersMiddleware runs ForwardHTTPHeaders for every request.
func ForwardHeadersMiddleware(extra ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ForwardHTTPHeaders(r.Context(), r, extra)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
