package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tower15/internal/assistant"
	"github.com/joshua-takyi/tower15/internal/helpers"
	"github.com/joshua-takyi/tower15/internal/hosthub"
	"github.com/joshua-takyi/tower15/internal/middleware"
	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/joshua-takyi/tower15/internal/services"
)

func ListBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, summary, err := b.ListBookings(c.Request.Context(), middleware.AccessToken(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{
			"bookings": records,
			"summary":  summary,
		}, ""))
	}
}

func UpsertProperty(p *services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var prop models.Property
		if err := c.ShouldBindJSON(&prop); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		if id := c.Param("id"); id != "" {
			prop.ID = id
		}

		saved, err := p.UpsertProperty(c.Request.Context(), &prop, middleware.AccessToken(c))
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(saved, "Property saved"))
	}
}

type imageUploadRequest struct {
	// Images are URLs or data URIs.
	Images []string `json:"images" binding:"required,min=1"`
}

func UploadPropertyImages(p *services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req imageUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		prop, err := p.AddImages(c.Request.Context(), c.Param("id"), req.Images, middleware.AccessToken(c))
		if errors.Is(err, models.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("property not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(prop, "Images uploaded"))
	}
}

func GetSettings(s *services.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := s.Load(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(settings, ""))
	}
}

func SaveSettings(s *services.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings models.Settings
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		saved, err := s.Save(c.Request.Context(), &settings, middleware.AccessToken(c))
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(saved, "Settings saved"))
	}
}

type cmsUpdateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Apply  bool   `json:"apply"`
}

// AICMSUpdate returns the assistant's proposed content set, saving it when apply is set.
func AICMSUpdate(cms *services.CMSService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cmsUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		proposed, err := cms.Propose(c.Request.Context(), req.Prompt)
		switch {
		case errors.Is(err, assistant.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, helpers.ErrorResponse(err.Error()))
			return
		case err != nil:
			c.JSON(http.StatusBadGateway, helpers.ErrorResponse(err.Error()))
			return
		}

		if req.Apply {
			if err := cms.Apply(c.Request.Context(), proposed, middleware.AccessToken(c)); err != nil {
				c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
				return
			}
			c.JSON(http.StatusOK, helpers.SuccessResponse(proposed, "Content updated"))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(proposed, "Preview generated"))
	}
}

func SyncHosthub(is *services.ImportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rep, err := is.SyncFromHosthub(c.Request.Context(), middleware.AccessToken(c))
		if errors.Is(err, hosthub.ErrNoAPIKey) {
			c.JSON(http.StatusPreconditionFailed, helpers.ErrorResponse("Please configure a Hosthub API key first."))
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(rep, "Sync complete"))
	}
}

func ListSyncTasks(r *services.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid limit parameter"))
			return
		}
		status := models.SyncTaskStatus(c.Query("status"))
		if status != "" && !status.Valid() {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid status parameter"))
			return
		}

		tasks, err := r.List(c.Request.Context(), status, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.PaginatedResponse(tasks, 1, limit, len(tasks)))
	}
}

func RetrySyncTask(r *services.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := r.Retry(c.Request.Context(), c.Param("id"))
		if errors.Is(err, models.ErrSyncTaskNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("sync task not found"))
			return
		}
		if errors.Is(err, models.ErrSyncTaskBusy) {
			c.JSON(http.StatusConflict, helpers.CodedErrorResponse("sync_in_progress", "sync task is already being pushed"))
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(task, "Sync task resolved"))
	}
}

func RunReconcile(r *services.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		rep, err := r.RunOnce(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(rep, ""))
	}
}
