package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tower15/internal/helpers"
	"github.com/joshua-takyi/tower15/internal/services"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

func ConciergeChat(cs *services.ConciergeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		reply, err := cs.Chat(c.Request.Context(), req.SessionID, req.Message)
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(reply, ""))
	}
}

func ConciergeHistory(cs *services.ConciergeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		msgs, err := cs.History(c.Request.Context(), c.Param("session_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(msgs, ""))
	}
}
