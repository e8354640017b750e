package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the civil date format used on every wire and in storage.
const DateLayout = "2006-01-02"

var ErrInvalidStay = errors.New("invalid stay request")

// StayRequest is the transient, guest-built selection of a property and dates.
type StayRequest struct {
	PropertyID string    `json:"property_id" validate:"required"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Guests     int       `json:"guests" validate:"min=1"`
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// NewStayRequest parses the dates and validates the request.
func NewStayRequest(propertyID, checkIn, checkOut string, guests int) (StayRequest, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return StayRequest{}, fmt.Errorf("%w: check-in: %v", ErrInvalidStay, err)
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return StayRequest{}, fmt.Errorf("%w: check-out: %v", ErrInvalidStay, err)
	}
	stay := StayRequest{
		PropertyID: strings.TrimSpace(propertyID),
		CheckIn:    in,
		CheckOut:   out,
		Guests:     guests,
	}
	if err := stay.Validate(); err != nil {
		return StayRequest{}, err
	}
	return stay, nil
}

func (s StayRequest) Validate() error {
	if err := Validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStay, err)
	}
	if !s.CheckOut.After(s.CheckIn) {
		return fmt.Errorf("%w: check-out must be after check-in", ErrInvalidStay)
	}
	return nil
}

func (s StayRequest) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

// NightDates lists every occupied night, check-in through the day before check-out.
func (s StayRequest) NightDates() []string {
	n := s.Nights()
	dates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, s.CheckIn.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}

func (s StayRequest) LastNight() time.Time {
	return s.CheckOut.AddDate(0, 0, -1)
}

func (s StayRequest) CheckInDate() string  { return s.CheckIn.Format(DateLayout) }
func (s StayRequest) CheckOutDate() string { return s.CheckOut.Format(DateLayout) }
