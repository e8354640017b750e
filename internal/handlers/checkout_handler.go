package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tower15/internal/helpers"
	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/joshua-takyi/tower15/internal/services"
)

type CheckoutRequest struct {
	PropertyID  string                `json:"property_id" binding:"required"`
	CheckIn     string                `json:"check_in" binding:"required"`
	CheckOut    string                `json:"check_out" binding:"required"`
	Guests      int                   `json:"guests" binding:"required,min=1"`
	QuotedTotal float64               `json:"quoted_total" binding:"required,gt=0"`
	Guest       services.GuestDetails `json:"guest"`
}

type CheckoutResponse struct {
	ConfirmationCode string            `json:"confirmation_code"`
	Total            float64           `json:"total"`
	SyncPending      bool              `json:"sync_pending"`
	Outcome          *services.Outcome `json:"outcome"`
}

const (
	msgBooked            = "Booking confirmed"
	msgBookedSyncPending = "Payment received and your booking is confirmed. Calendar synchronization is pending."
	msgDatesTaken        = "These dates were just booked on another channel. Please choose new dates."
	msgAvailabilityRetry = "We couldn't confirm availability right now. Please try again in a moment."
	msgPaymentDeclined   = "Your payment was declined. Please check your card details and try again."
	msgQuoteChanged      = "The price for these dates has changed. Please review the new total before paying."
)

// checkoutError maps a failed attempt to its status, code and guest-facing copy.
func checkoutError(err error) (int, string, string) {
	switch {
	case errors.Is(err, services.ErrDatesNoLongerAvailable):
		return http.StatusConflict, "dates_unavailable", msgDatesTaken
	case errors.Is(err, services.ErrAvailabilityUnconfirmed):
		return http.StatusServiceUnavailable, "availability_unconfirmed", msgAvailabilityRetry
	case errors.Is(err, services.ErrPaymentDeclined):
		return http.StatusPaymentRequired, "payment_declined", msgPaymentDeclined
	case errors.Is(err, services.ErrQuoteChanged):
		return http.StatusConflict, "quote_changed", msgQuoteChanged
	case errors.Is(err, models.ErrPropertyNotFound):
		return http.StatusNotFound, "not_found", "property not found"
	case errors.Is(err, services.ErrInvalidCheckout), errors.Is(err, models.ErrInvalidStay):
		return http.StatusBadRequest, "invalid_request", err.Error()
	}
	return http.StatusInternalServerError, "internal", "checkout failed"
}

// Checkout re-prices the stay before charging; the client's quoted total is only a
// confirmation of what the guest saw.
func Checkout(props *services.PropertyService, s *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.CodedErrorResponse("invalid_request", err.Error()))
			return
		}

		stay, err := models.NewStayRequest(req.PropertyID, req.CheckIn, req.CheckOut, req.Guests)
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.CodedErrorResponse("invalid_request", err.Error()))
			return
		}

		total := req.QuotedTotal
		quote, err := props.ConfirmQuote(c.Request.Context(), stay, req.QuotedTotal)
		if err != nil {
			status, code, msg := checkoutError(err)
			if status == http.StatusInternalServerError {
				_ = c.Error(err)
				return
			}
			resp := helpers.CodedErrorResponse(code, msg)
			if quote != nil {
				resp.Data = quote
			}
			c.JSON(status, resp)
			return
		}
		if quote.Bookable {
			total = quote.Total
		}

		out, err := s.AttemptBooking(c.Request.Context(), stay, req.Guest, total)
		if err != nil {
			status, code, msg := checkoutError(err)
			if status == http.StatusInternalServerError {
				_ = c.Error(err)
				return
			}
			c.JSON(status, helpers.CodedErrorResponse(code, msg))
			return
		}

		msg := msgBooked
		if out.SyncPending() {
			msg = msgBookedSyncPending
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(CheckoutResponse{
			ConfirmationCode: out.Booking.ID,
			Total:            out.Booking.Amount,
			SyncPending:      out.SyncPending(),
			Outcome:          out,
		}, msg))
	}
}
