package utilities

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForwardHTTPHeaders(t *testing.T) {
	in := httptest.NewRequest(http.MethodPost, "/api/manual-entry", nil)
	in.Header.Set("X-Request-ID", "req-1")
	in.Header.Set("Authorization", "Bearer secret")
	in.Header.Set("X-Tenant", "school-a")

	ctx := ForwardHTTPHeaders(context.Background(), in, []string{"x-tenant", "X-Request-ID"})

	out, _ := http.NewRequestWithContext(ctx, http.MethodPost, "http://upstream.local", nil)
	out.Header.Set("User-Agent", "challan-service")
	ApplyForwardedHeaders(ctx, out)

	assert.Equal(t, "req-1", out.Header.Get("X-Request-ID"))
	assert.Equal(t, "school-a", out.Header.Get("X-Tenant"))
	assert.Empty(t, out.Header.Get("Authorization"))
	assert.Equal(t, "challan-service", out.Header.Get("User-Agent"))
	assert.Len(t, out.Header.Values("X-Request-ID"), 1)
}

func TestApplyForwardedHeaders_NoCapturedHeaders(t *testing.T) {
	out, _ := http.NewRequest(http.MethodPost, "http://upstream.local", nil)
	ApplyForwardedHeaders(context.Background(), out)
	assert.Empty(t, out.Header)
}
