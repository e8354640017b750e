package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tower15/internal/helpers"
	"github.com/joshua-takyi/tower15/internal/middleware"
	"github.com/joshua-takyi/tower15/internal/services"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin signs an operator in and sets the session cookies.
func AdminLogin(a *services.AdminService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		tokens, err := a.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, helpers.ErrorResponse(err.Error()))
			return
		}
		middleware.SetSessionCookies(c, tokens, secure)

		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{
			"user_id":    tokens.User.ID,
			"email":      tokens.User.Email,
			"expires_in": tokens.ExpiresIn,
		}, "Logged in successfully"))
	}
}

func AdminRefresh(a *services.AdminService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie(middleware.RefreshTokenCookie)
		if err != nil {
			c.JSON(http.StatusUnauthorized, helpers.ErrorResponse("refresh token not found"))
			return
		}
		tokens, err := a.RefreshToken(c.Request.Context(), refreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, helpers.ErrorResponse(err.Error()))
			return
		}
		middleware.SetSessionCookies(c, tokens, secure)
		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{"expires_in": tokens.ExpiresIn}, "Token refreshed"))
	}
}

// Logout handler
func Logout(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.ClearSessionCookies(c, secure)
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Logged out successfully"))
	}
}

func AdminProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, helpers.ErrorResponse("unauthorized"))
			return
		}
		claims, ok := user.(*helpers.EnhancedClaims)
		if !ok {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse("invalid user claims"))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{
			"user_id":  claims.UserID,
			"email":    claims.Email,
			"role":     claims.GetSafeRole(),
			"is_admin": claims.IsAdmin(),
		}, ""))
	}
}
