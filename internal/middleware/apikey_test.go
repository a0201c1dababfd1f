package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIKeyAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		key        string
		header     string
		value      string
		wantStatus int
	}{
		{name: "valid header key", key: "secret", header: "X-API-Key", value: "secret", wantStatus: http.StatusOK},
		{name: "valid bearer key", key: "secret", header: "Authorization", value: "Bearer secret", wantStatus: http.StatusOK},
		{name: "wrong key", key: "secret", header: "X-API-Key", value: "nope", wantStatus: http.StatusUnauthorized},
		{name: "missing key", key: "secret", wantStatus: http.StatusUnauthorized},
		{name: "empty configured key disables auth", key: "", wantStatus: http.StatusOK},
		{name: "bearer without prefix rejected", key: "secret", header: "Authorization", value: "secret", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := APIKeyAuth(tt.key)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"code":401,"message":"invalid or missing API key"}`, rec.Body.String())
			}
		})
	}
}
