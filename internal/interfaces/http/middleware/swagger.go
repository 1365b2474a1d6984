package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/interfaces/http/dto"
)

// SwaggerConfig controls who may read the API documentation
type SwaggerConfig struct {
	Enabled bool
	// AllowedIPs holds single IPs or CIDR ranges, empty allows everyone
	AllowedIPs []string
}

// SwaggerProtection guards the documentation endpoint. A disabled endpoint
// answers 404, a caller outside AllowedIPs 403. Authentication, when
// required, is chained after it.
func SwaggerProtection(cfg SwaggerConfig) gin.HandlerFunc {
	var nets []*net.IPNet
	var ips []net.IP
	for _, raw := range cfg.AllowedIPs {
		if strings.Contains(raw, "/") {
			if _, network, err := net.ParseCIDR(raw); err == nil {
				nets = append(nets, network)
			}
			continue
		}
		if ip := net.ParseIP(raw); ip != nil {
			ips = append(ips, ip)
		}
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound, "API documentation is not available", c.GetString(RequestIDContextKey)))
			return
		}

		if len(cfg.AllowedIPs) > 0 && !ipAllowed(net.ParseIP(c.ClientIP()), ips, nets) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Access to API documentation is restricted", c.GetString(RequestIDContextKey)))
			return
		}

		c.Next()
	}
}

func ipAllowed(ip net.IP, ips []net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
