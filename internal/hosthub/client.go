// Package hosthub talks to the Hosthub channel manager: the calendar is the
// availability source of truth and pushed bookings propagate to the other channels.
package hosthub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/sony/gobreaker"
)

const (
	defaultBaseURL = "https://api.hosthub.com/v1"
	bookingSource  = "Website-Direct"
	currency       = "EUR"
)

// ErrCircuitOpen is returned while the breaker refuses calls after repeated failures.
var ErrCircuitOpen = errors.New("hosthub unavailable: circuit open")

// StatusError is a non-2xx answer from Hosthub.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: %s: %s", e.Status, e.Body)
}

// healthyOutcome tells the breaker which errors say nothing about Hosthub's health.
// Client errors (bad listing id, rejected payload) leave the failure count alone.
func healthyOutcome(err error) bool {
	if err == nil {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Code < http.StatusInternalServerError
}

type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string

	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: baseURL,
		APIKey:  apiKey,
		logger:  logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "hosthub",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: healthyOutcome,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

type calendarDay struct {
	Date    string  `json:"date"`
	Status  string  `json:"status"`
	Price   float64 `json:"price"`
	MinStay int     `json:"min_stay"`
}

// GetAvailability returns the calendar for [from, to] inclusive. A day is free only
// when Hosthub reports it "available"; booked and blocked both count as occupied.
func (c *Client) GetAvailability(ctx context.Context, listingID string, from, to time.Time) (models.AvailabilityWindow, error) {
	q := url.Values{}
	q.Set("from", from.Format(models.DateLayout))
	q.Set("to", to.Format(models.DateLayout))

	req, err := c.newRequest(ctx, http.MethodGet, "/listings/"+url.PathEscape(listingID)+"/calendar", q, nil)
	if err != nil {
		return nil, err
	}

	var days []calendarDay
	if err := c.do(req, &days); err != nil {
		return nil, fmt.Errorf("hosthub calendar %s: %w", listingID, err)
	}

	window := make(models.AvailabilityWindow, 0, len(days))
	for _, d := range days {
		minStay := d.MinStay
		if minStay <= 0 {
			minStay = 1
		}
		window = append(window, models.AvailabilityDay{
			Date:      d.Date,
			Available: d.Status == "available",
			Price:     d.Price,
			MinStay:   minStay,
		})
	}
	return window, nil
}

type pushBookingRequest struct {
	ListingID  string  `json:"listing_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	GuestName  string  `json:"guest_name"`
	GuestEmail string  `json:"guest_email"`
	TotalPrice float64 `json:"total_price"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
	Source     string  `json:"source"`
}

type pushBookingResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// PushBooking commits a confirmed stay and returns Hosthub's reservation id.
func (c *Client) PushBooking(ctx context.Context, push models.ReservationPush) (string, error) {
	body, err := json.Marshal(pushBookingRequest{
		ListingID:  push.ListingID,
		CheckIn:    push.CheckIn,
		CheckOut:   push.CheckOut,
		GuestName:  push.GuestName,
		GuestEmail: push.GuestEmail,
		TotalPrice: push.TotalAmount,
		Currency:   currency,
		Status:     "confirmed",
		Source:     bookingSource,
	})
	if err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/bookings", nil, body)
	if err != nil {
		return "", err
	}

	var resp pushBookingResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("hosthub push failed: %w", err)
	}
	id := resp.ID
	if id == "" {
		id = resp.Data.ID
	}
	if id == "" {
		return "", fmt.Errorf("hosthub push returned no reservation id")
	}
	return id, nil
}

// Listing is the subset of a Hosthub listing the catalog import uses.
type Listing struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BasePrice   float64  `json:"base_price"`
	CleaningFee float64  `json:"cleaning_fee"`
	MaxGuests   int      `json:"max_guests"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Photos      []string `json:"photos"`
}

func (c *Client) GetListings(ctx context.Context) ([]Listing, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/listings", nil, nil)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return nil, fmt.Errorf("hosthub listings fetch: %w", err)
	}

	// Hosthub wraps collections in {"data": [...]} but some accounts return a bare array.
	var wrapped struct {
		Data []Listing `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}
	var listings []Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, fmt.Errorf("unexpected listings payload: %v", err)
	}
	return listings, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Request, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	base.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	if query != nil {
		base.RawQuery = query.Encode()
	}

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, base.String(), r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, dest any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.doJSON(req, dest)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

func (c *Client) doJSON(req *http.Request, dest any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(body))}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}
