package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tower15/internal/helpers"
	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/joshua-takyi/tower15/internal/services"
)

func ListProperties(p *services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		props, err := p.ListProperties(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.PaginatedResponse(props, 1, len(props), len(props)))
	}
}

func GetProperty(p *services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		prop, err := p.GetProperty(c.Request.Context(), c.Param("id"))
		if errors.Is(err, models.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("property not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(prop, ""))
	}
}

func lookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrPropertyNotFound):
		c.JSON(http.StatusNotFound, helpers.ErrorResponse("property not found"))
	case errors.Is(err, models.ErrInvalidStay):
		c.JSON(http.StatusBadRequest, helpers.CodedErrorResponse("invalid_request", err.Error()))
	case errors.Is(err, services.ErrAvailabilityUnconfirmed):
		c.JSON(http.StatusServiceUnavailable, helpers.CodedErrorResponse("availability_unconfirmed", msgAvailabilityRetry))
	default:
		c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
	}
}

// GetAvailability serves the calendar for ?from=YYYY-MM-DD&to=YYYY-MM-DD (inclusive).
func GetAvailability(p *services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, err := models.ParseDate(c.Query("from"))
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		to, err := models.ParseDate(c.Query("to"))
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		window, err := p.Availability(c.Request.Context(), c.Param("id"), from, to)
		if err != nil {
			lookupError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(window, ""))
	}
}

// GetQuote prices ?check_in&check_out&guests against live availability.
func GetQuote(p *services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		guests, err := strconv.Atoi(c.DefaultQuery("guests", "1"))
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid guests parameter"))
			return
		}
		stay, err := models.NewStayRequest(c.Param("id"), c.Query("check_in"), c.Query("check_out"), guests)
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.CodedErrorResponse("invalid_request", err.Error()))
			return
		}

		q, err := p.Quote(c.Request.Context(), stay)
		if err != nil {
			lookupError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(q, ""))
	}
}

func GetPublicSettings(s *services.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, helpers.SuccessResponse(s.Public(c.Request.Context()), ""))
	}
}
