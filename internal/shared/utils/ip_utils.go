package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const fallbackIP = "127.0.0.1"

// ExtractClientIP returns the originating client address.
//
// Priority order:
// 1. First entry of X-Forwarded-For
// 2. X-Real-IP
// 3. RemoteAddr of the connection
func ExtractClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		clientIP := strings.TrimSpace(strings.Split(xff, ",")[0])
		if isValidIP(clientIP) {
			return clientIP
		}
	}

	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); isValidIP(xri) {
		return xri
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		ip = c.Request.RemoteAddr
	}
	if isValidIP(ip) {
		return ip
	}

	return fallbackIP
}

// NormalizeIPv4 converts loopback and IPv4-mapped IPv6 addresses to dotted IPv4.
// Gateways such as VNPay reject IPv6 in vnp_IpAddr.
func NormalizeIPv4(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return fallbackIP
	}
	if v4 := parsed.To4(); v4 != nil {
		return v4.String()
	}
	if parsed.IsLoopback() {
		return fallbackIP
	}
	return ip
}

func isValidIP(ip string) bool {
	return ip != "" && net.ParseIP(ip) != nil
}
