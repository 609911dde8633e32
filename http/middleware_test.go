package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	stratumhttp "github.com/sagarc03/stratum/http"
)

func TestTokenMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		header   string
		wantCode int
	}{
		{name: "disabled", token: "", header: "", wantCode: http.StatusOK},
		{name: "valid token", token: "s3cret", header: "Bearer s3cret", wantCode: http.StatusOK},
		{name: "missing header", token: "s3cret", header: "", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", token: "s3cret", header: "Basic s3cret", wantCode: http.StatusUnauthorized},
		{name: "wrong token", token: "s3cret", header: "Bearer nope", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/config", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			stratumhttp.TokenMiddleware(tt.token)(handler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRouter_RequiresToken(t *testing.T) {
	service := new(MockService)
	service.On("Current").Return(resolved(t)).Maybe()

	rec := serve(t, stratumhttp.HandlerConfig{Token: "s3cret"}, service, httptest.NewRequest(http.MethodGet, "/config", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = serve(t, stratumhttp.HandlerConfig{Token: "s3cret"}, service, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
