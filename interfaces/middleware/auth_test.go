package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytbulkedit/infrastructure/utils"
)

func newRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/ping", Auth(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	return r
}

func TestAuth(t *testing.T) {
	valid, err := utils.GenerateToken("cli", time.Hour, "s3cret")
	require.NoError(t, err)
	expired, err := utils.GenerateToken("cli", -time.Hour, "s3cret")
	require.NoError(t, err)
	otherKey, err := utils.GenerateToken("cli", time.Hour, "other")
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		header string
		want   int
		body   string
	}{
		{name: "no secret configured", secret: "", header: "", want: http.StatusOK},
		{name: "missing header", secret: "s3cret", header: "", want: http.StatusUnauthorized},
		{name: "valid token", secret: "s3cret", header: "Bearer " + valid, want: http.StatusOK, body: "cli"},
		{name: "expired", secret: "s3cret", header: "Bearer " + expired, want: http.StatusUnauthorized, body: "Timing is everything"},
		{name: "wrong key", secret: "s3cret", header: "Bearer " + otherKey, want: http.StatusUnauthorized},
		{name: "garbage", secret: "s3cret", header: "Bearer abc", want: http.StatusUnauthorized, body: "not even a token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newRouter(tt.secret).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.body != "" {
				assert.Contains(t, w.Body.String(), tt.body)
			}
		})
	}
}
