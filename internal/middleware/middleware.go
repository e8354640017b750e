package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/tower15/internal/helpers"
	"github.com/supabase-community/gotrue-go/types"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	refreshCookieAge   = 3600 * 24 * 30
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": requestID,
				})
			}
		}
	}
}

type TokenValidator interface {
	ValidateToken(token string) (*helpers.CustomClaims, error)
}

type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
}

// SetSessionCookies stores the Supabase session as HTTP-only cookies.
func SetSessionCookies(c *gin.Context, tokens *types.TokenResponse, secure bool) {
	c.SetCookie(AccessTokenCookie, tokens.AccessToken, tokens.ExpiresIn, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, tokens.RefreshToken, refreshCookieAge, "/", "", secure, true)
}

func ClearSessionCookies(c *gin.Context, secure bool) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}

func bearerToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, helpers.ErrorResponse(msg))
}

// AdminAuth admits console operators: a valid Supabase access token whose claims
// carry the admin role, or whose email is on the admin allow-list. An expired access
// token is refreshed once from the refresh_token cookie.
func AdminAuth(validator TokenValidator, refresher TokenRefresher, isAdminEmail func(string) bool, secure bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "authentication required")
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			refreshToken, cookieErr := c.Cookie(RefreshTokenCookie)
			if cookieErr != nil || refreshToken == "" {
				unauthorized(c, "invalid or expired token")
				return
			}

			tokens, refreshErr := refresher.RefreshToken(c.Request.Context(), refreshToken)
			if refreshErr != nil || tokens == nil || tokens.AccessToken == "" {
				logger.Warn("Token refresh failed", "error", refreshErr)
				unauthorized(c, "token expired and refresh failed")
				return
			}
			SetSessionCookies(c, tokens, secure)
			token = tokens.AccessToken

			claims, err = validator.ValidateToken(token)
			if err != nil {
				unauthorized(c, "refreshed token validation failed")
				return
			}
			logger.Info("Token refreshed", "user_id", claims.Subject)
		}

		enhanced := &helpers.EnhancedClaims{
			CustomClaims: claims,
			Role:         helpers.RoleFromClaims(claims, isAdminEmail(claims.Email)),
			UserID:       claims.Subject,
			Email:        claims.Email,
		}
		if !enhanced.IsAdmin() {
			logger.Warn("Non-admin console access denied", "user_id", claims.Subject, "email", claims.Email)
			c.AbortWithStatusJSON(http.StatusForbidden, helpers.ErrorResponse("admin access required"))
			return
		}

		c.Set("user", enhanced)
		c.Set("access_token", token)
		c.Next()
	}
}

// AccessToken returns the caller's token set by AdminAuth.
func AccessToken(c *gin.Context) string {
	return c.GetString("access_token")
}
