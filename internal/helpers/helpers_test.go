package helpers

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwksServer(t *testing.T, key *rsa.PrivateKey, kid string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	body, err := json.Marshal(map[string]interface{}{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": kid,
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/auth/v1/.well-known/jwks.json"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid, email string) string {
	t.Helper()
	claims := &CustomClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestValidateTokenReusesKeySet(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv, hits := jwksServer(t, key, "k1")

	v := NewJWKSValidator(srv.URL + "/")
	defer v.Close()

	for i := 0; i < 5; i++ {
		claims, err := v.ValidateToken(signToken(t, key, "k1", "admin@tower15.gr"))
		require.NoError(t, err)
		assert.Equal(t, "admin@tower15.gr", claims.Email)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv, _ := jwksServer(t, key, "k1")

	v := NewJWKSValidator(srv.URL)
	defer v.Close()

	_, err = v.ValidateToken(signToken(t, other, "k1", "intruder@example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token validation failed")
}

func TestValidateTokenWithoutSupabaseURL(t *testing.T) {
	v := NewJWKSValidator("")
	_, err := v.ValidateToken("anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
