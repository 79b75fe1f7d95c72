package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext(remoteAddr string, headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestExtractClientIP(t *testing.T) {
	assert.Equal(t, "203.0.113.7",
		ExtractClientIP(newContext("10.0.0.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"})))
	assert.Equal(t, "198.51.100.4",
		ExtractClientIP(newContext("10.0.0.1:1234", map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "198.51.100.4"})))
	assert.Equal(t, "10.0.0.1", ExtractClientIP(newContext("10.0.0.1:1234", nil)))
	assert.Equal(t, "127.0.0.1", ExtractClientIP(newContext("pipe", nil)))
}

func TestNormalizeIPv4(t *testing.T) {
	assert.Equal(t, "127.0.0.1", NormalizeIPv4("::1"))
	assert.Equal(t, "192.0.2.1", NormalizeIPv4("::ffff:192.0.2.1"))
	assert.Equal(t, "192.0.2.1", NormalizeIPv4("192.0.2.1"))
	assert.Equal(t, "2001:db8::1", NormalizeIPv4("2001:db8::1"))
	assert.Equal(t, "127.0.0.1", NormalizeIPv4(""))
}
