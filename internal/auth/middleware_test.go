package auth

import (
	"net/http/httptest"
	"testing"

	"gamelobby/backend/internal/config"
	"gamelobby/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func setTestConfig(t *testing.T) {
	t.Helper()
	old := config.AppConfig
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
	t.Cleanup(func() { config.AppConfig = old })
}

func TestParseToken_RoundTrip(t *testing.T) {
	req := require.New(t)
	setTestConfig(t)

	token, err := jwt.GenerateToken(42)
	req.NoError(err)

	userID, ok := parseToken(token)
	req.True(ok)
	req.Equal(uint(42), userID)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	req := require.New(t)
	setTestConfig(t)

	claims := gojwt.MapClaims{"sub": float64(1)}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	req.NoError(err)

	_, ok := parseToken(token)
	req.False(ok)
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	setTestConfig(t)

	_, ok := parseToken("not.a.token")
	require.False(t, ok)
}

func TestBearerToken(t *testing.T) {
	req := require.New(t)
	gin.SetMode(gin.TestMode)

	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "", false},
		{"abc123", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			c.Request.Header.Set("Authorization", tc.header)
		}

		got, ok := bearerToken(c)
		req.Equal(tc.ok, ok, "header %q", tc.header)
		req.Equal(tc.want, got, "header %q", tc.header)
	}
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	req := require.New(t)
	setTestConfig(t)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	AuthMiddleware()(c)

	req.True(c.IsAborted())
	req.Equal(401, w.Code)
}

func TestAuthMiddleware_SetsUserID(t *testing.T) {
	req := require.New(t)
	setTestConfig(t)
	gin.SetMode(gin.TestMode)

	token, err := jwt.GenerateToken(7)
	req.NoError(err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	AuthMiddleware()(c)

	req.False(c.IsAborted())
	userID, exists := c.Get("userID")
	req.True(exists)
	req.Equal(uint(7), userID)
}
