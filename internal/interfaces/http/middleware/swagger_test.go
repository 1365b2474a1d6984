package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveSwagger(cfg SwaggerConfig, remoteAddr string, header http.Header, guards ...gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{SwaggerProtection(cfg)}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	router.GET("/swagger/*any", handlers...)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name       string
		cfg        SwaggerConfig
		remoteAddr string
		wantStatus int
	}{
		{
			name:       "disabled",
			cfg:        SwaggerConfig{Enabled: false},
			remoteAddr: "192.168.1.100:1234",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "open",
			cfg:        SwaggerConfig{Enabled: true},
			remoteAddr: "192.168.1.100:1234",
			wantStatus: http.StatusOK,
		},
		{
			name:       "listed ip",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1", "192.168.1.100"}},
			remoteAddr: "192.168.1.100:1234",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unlisted ip",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}},
			remoteAddr: "192.168.1.100:1234",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "ip inside a cidr range",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8", "not an ip"}},
			remoteAddr: "10.20.30.40:1234",
			wantStatus: http.StatusOK,
		},
		{
			name:       "ip outside a cidr range",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}},
			remoteAddr: "172.16.0.1:1234",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveSwagger(tt.cfg, tt.remoteAddr, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSwaggerProtection_RequiresAuthentication(t *testing.T) {
	authCfg := newAuthConfig(t)
	cfg := SwaggerConfig{Enabled: true}
	guards := []gin.HandlerFunc{Authenticate(authCfg), RequireAuth(authCfg)}

	w := serveSwagger(cfg, "127.0.0.1:1234", nil, guards...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serveSwagger(cfg, "127.0.0.1:1234", http.Header{"Authorization": {"Token valid-key"}}, guards...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "docs", w.Body.String())
}
