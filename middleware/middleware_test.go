package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-frontdesk/cache"
	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	lg := logrus.New()
	lg.SetOutput(io.Discard)
	return lg
}

func signToken(t *testing.T, claims *services.Claims) string {
	t.Helper()
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        "token-" + claims.Username,
		Issuer:    "hotel-frontdesk",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func protectedRouter(auth *services.AuthService) *gin.Engine {
	r := gin.New()
	r.GET("/rooms", Authenticate(auth), RequirePermission(models.PermRoomView), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentClaims(c).Username})
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	auth := services.NewAuthService(nil, cache.NewMemoryRevocations(), quietLogger(), testSecret, time.Hour, 4)
	r := protectedRouter(auth)

	desk := signToken(t, &services.Claims{UserID: 2, Username: "desk", Role: "Receptionist", Permissions: []string{models.PermRoomView}})
	guest := signToken(t, &services.Claims{UserID: 3, Username: "viewer", Role: "Viewer"})

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"garbage", "Bearer abc", "", http.StatusUnauthorized},
		{"valid", "Bearer " + desk, "", http.StatusOK},
		{"query token for event streams", "", "?access_token=" + desk, http.StatusOK},
		{"missing permission", "Bearer " + guest, "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/rooms"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthenticate_OwnerHasEveryPermission(t *testing.T) {
	auth := services.NewAuthService(nil, cache.NewMemoryRevocations(), quietLogger(), testSecret, time.Hour, 4)
	r := protectedRouter(auth)
	owner := signToken(t, &services.Claims{UserID: 1, Username: "owner", Role: "owner"})

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	req.Header.Set("Authorization", "Bearer "+owner)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginLimiter(t *testing.T) {
	limiter := NewLoginLimiter(60, 2, quietLogger())
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/signin", limiter.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })
	hit := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/signin", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit())
	assert.Equal(t, http.StatusOK, hit())
	assert.Equal(t, http.StatusTooManyRequests, hit())

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, hit(), "one token refills per second at 60/min")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	lg := logrus.New()
	lg.SetOutput(&buf)
	lg.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestLogger(lg))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())
	assert.Contains(t, buf.String(), `"browser":"Chrome 120.0.0.0"`)
	assert.Contains(t, buf.String(), `"request_id":"`+id+`"`)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Body.String())
}

func TestOptionalAuthenticate(t *testing.T) {
	auth := services.NewAuthService(nil, cache.NewMemoryRevocations(), quietLogger(), testSecret, time.Hour, 4)
	r := gin.New()
	r.GET("/whoami", OptionalAuthenticate(auth), func(c *gin.Context) {
		if claims := CurrentClaims(c); claims != nil {
			c.String(http.StatusOK, claims.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	desk := signToken(t, &services.Claims{UserID: 2, Username: "desk", Role: "Receptionist"})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no token", "", "anonymous"},
		{"bad token", "Bearer nope", "anonymous"},
		{"good token", "Bearer " + desk, "desk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}
