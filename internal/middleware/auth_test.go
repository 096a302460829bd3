package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/guild_economy/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims middleware.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter(issuer string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami/:communityID", middleware.AuthMiddleware(testSecret, issuer), func(c *gin.Context) {
		owner, _ := middleware.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"owner":  owner,
			"manage": middleware.CanManageCommunity(c, c.Param("communityID")),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	valid := middleware.Claims{
		Manage: []string{"g1"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    "guild-bot",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	noSubject := valid
	noSubject.Subject = ""

	tests := []struct {
		name       string
		header     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"valid token, managed community", "Bearer " + signToken(t, testSecret, valid), "/whoami/g1", http.StatusOK, `{"manage":true,"owner":"alice"}`},
		{"valid token, other community", "Bearer " + signToken(t, testSecret, valid), "/whoami/g2", http.StatusOK, `{"manage":false,"owner":"alice"}`},
		{"missing header", "", "/whoami/g1", http.StatusUnauthorized, `{"error":"Authorization header required"}`},
		{"wrong scheme", "Token abc", "/whoami/g1", http.StatusUnauthorized, `{"error":"Authorization header format must be Bearer {token}"}`},
		{"wrong secret", "Bearer " + signToken(t, "other", valid), "/whoami/g1", http.StatusUnauthorized, `{"error":"Invalid token"}`},
		{"expired", "Bearer " + signToken(t, testSecret, expired), "/whoami/g1", http.StatusUnauthorized, `{"error":"Token has expired"}`},
		{"no subject", "Bearer " + signToken(t, testSecret, noSubject), "/whoami/g1", http.StatusUnauthorized, `{"error":"Invalid token claims"}`},
	}

	r := newAuthRouter("guild-bot")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestAuthMiddleware_RejectsWrongIssuer(t *testing.T) {
	claims := middleware.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", Issuer: "someone-else"}}
	req := httptest.NewRequest(http.MethodGet, "/whoami/g1", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
	w := httptest.NewRecorder()

	newAuthRouter("guild-bot").ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
