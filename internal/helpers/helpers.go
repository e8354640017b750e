package helpers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
)

const (
	PropertyFolder = "properties"

	ConfirmationPrefix = "T15-"
	confirmationLength = 7
	confirmationChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
		Roles     []string `json:"roles,omitempty"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// JWKSValidator verifies Supabase access tokens against the project's JWKS. The key
// set is fetched on first use and then refreshed in the background.
type JWKSValidator struct {
	jwksURL string
	timeout time.Duration
	refresh time.Duration
	logger  *slog.Logger

	mu   sync.Mutex
	jwks *keyfunc.JWKS
}

func NewJWKSValidator(supabaseURL string) *JWKSValidator {
	v := &JWKSValidator{
		timeout: 10 * time.Second,
		refresh: time.Hour,
		logger:  slog.Default(),
	}
	if supabaseURL != "" {
		v.jwksURL = strings.TrimSuffix(supabaseURL, "/") + "/auth/v1/.well-known/jwks.json"
	}
	return v
}

// keys returns the shared key set. A failed fetch is not cached, so the next
// request tries again.
func (v *JWKSValidator) keys() (*keyfunc.JWKS, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		return v.jwks, nil
	}

	jwks, err := keyfunc.Get(v.jwksURL, keyfunc.Options{
		RefreshInterval:   v.refresh,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    v.timeout,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			v.logger.Warn("JWKS refresh failed", "url", v.jwksURL, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %v", err)
	}
	v.jwks = jwks
	return jwks, nil
}

// Close stops the background refresh.
func (v *JWKSValidator) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		v.jwks.EndBackground()
		v.jwks = nil
	}
}

func (v *JWKSValidator) ValidateToken(tokenStr string) (*CustomClaims, error) {
	if v.jwksURL == "" {
		return nil, errors.New("JWKS URL not configured")
	}

	jwks, err := v.keys()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

// GenerateConfirmationCode returns a human-readable booking code such as T15-7K2QX9A.
// Codes are random, so two bookings never share one in practice.
func GenerateConfirmationCode() (string, error) {
	b := make([]byte, confirmationLength)
	max := big.NewInt(int64(len(confirmationChars)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate confirmation code: %v", err)
		}
		b[i] = confirmationChars[n.Int64()]
	}
	return ConfirmationPrefix + string(b), nil
}

func StringTrim(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "\"'"))
}

// UploadImages uploads each file (path, URL or data URI) and returns the secure URLs
// and public ids in input order.
func UploadImages(ctx context.Context, cld *cloudinary.Cloudinary, images []string, folder string) ([]string, []string, error) {
	if cld == nil {
		return nil, nil, errors.New("image storage is not configured")
	}
	var urls, publicIDs []string

	for i, file := range images {
		if strings.TrimSpace(file) == "" {
			continue
		}
		uploadResult, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
			Folder: folder,
			Tags:   []string{"tower15"},
		})
		if err != nil {
			DeleteImages(ctx, cld, publicIDs)
			return nil, nil, fmt.Errorf("failed to upload image %d: %v", i, err)
		}
		urls = append(urls, uploadResult.SecureURL)
		publicIDs = append(publicIDs, uploadResult.PublicID)
	}

	return urls, publicIDs, nil
}

func DeleteImages(ctx context.Context, cld *cloudinary.Cloudinary, publicIDs []string) {
	for _, id := range publicIDs {
		_, _ = cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	}
}
