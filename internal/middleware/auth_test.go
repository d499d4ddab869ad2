package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"seatswap/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(keys []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(keys))
	r.GET("/ping", func(c *gin.Context) {
		common.Success(c, http.StatusOK, gin.H{"pong": true})
	})
	return r
}

func TestAuth(t *testing.T) {
	r := newAuthRouter([]string{"secret-key"})

	tests := []struct {
		name       string
		key        string
		wantStatus int
		wantErr    string
	}{
		{"missing key", "", http.StatusUnauthorized, "missing X-API-Key header"},
		{"wrong key", "not-the-key", http.StatusUnauthorized, "invalid API key"},
		{"valid key", "secret-key", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp common.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.wantErr == "" {
				assert.True(t, resp.Success)
			} else {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantErr, resp.Error.Message)
			}
		})
	}
}
