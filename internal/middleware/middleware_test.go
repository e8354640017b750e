package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/tower15/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/supabase-community/gotrue-go/types"
)

type fakeValidator struct {
	valid map[string]*helpers.CustomClaims
}

func (f *fakeValidator) ValidateToken(token string) (*helpers.CustomClaims, error) {
	if c, ok := f.valid[token]; ok {
		return c, nil
	}
	return nil, errors.New("token is expired")
}

type fakeRefresher struct {
	next string
	err  error
}

func (f *fakeRefresher) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	resp := &types.TokenResponse{}
	resp.AccessToken = f.next
	resp.RefreshToken = "r2"
	resp.ExpiresIn = 3600
	return resp, nil
}

func claimsFor(email string, roles ...string) *helpers.CustomClaims {
	c := &helpers.CustomClaims{Email: email, RegisteredClaims: jwt.RegisteredClaims{Subject: "user-" + email}}
	c.AppMetadata.Roles = roles
	return c
}

func newRouter(v TokenValidator, r TokenRefresher, adminEmails ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	isAdmin := func(email string) bool {
		for _, e := range adminEmails {
			if e == email {
				return true
			}
		}
		return false
	}
	router := gin.New()
	router.Use(RequestID())
	router.GET("/admin", AdminAuth(v, r, isAdmin, false, slog.New(slog.NewTextHandler(io.Discard, nil))), func(c *gin.Context) {
		c.String(http.StatusOK, AccessToken(c))
	})
	return router
}

func TestAdminAuthRequiresToken(t *testing.T) {
	router := newRouter(&fakeValidator{}, &fakeRefresher{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAdminAuthRoleClaim(t *testing.T) {
	v := &fakeValidator{valid: map[string]*helpers.CustomClaims{
		"admin-tok": claimsFor("ops@tower15.gr", "admin"),
		"guest-tok": claimsFor("someone@example.com"),
	}}
	router := newRouter(v, &fakeRefresher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer admin-tok")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-tok", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer guest-tok")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminAuthAllowListedEmail(t *testing.T) {
	v := &fakeValidator{valid: map[string]*helpers.CustomClaims{"t": claimsFor("owner@tower15.gr")}}
	router := newRouter(v, &fakeRefresher{}, "owner@tower15.gr")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "t"})
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuthRefreshesExpiredToken(t *testing.T) {
	v := &fakeValidator{valid: map[string]*helpers.CustomClaims{"fresh": claimsFor("ops@tower15.gr", "admin")}}
	router := newRouter(v, &fakeRefresher{next: "fresh"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "stale"})
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "r1"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fresh", w.Body.String())
	assert.Contains(t, w.Header().Values("Set-Cookie")[0], "access_token=fresh")
}

func TestAdminAuthRefreshFailure(t *testing.T) {
	router := newRouter(&fakeValidator{}, &fakeRefresher{err: errors.New("revoked")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "stale"})
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "r1"})
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
