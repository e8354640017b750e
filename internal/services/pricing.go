package services

import (
	"math"

	"github.com/joshua-takyi/tower15/internal/models"
)

// Quote is the price breakdown shown to the guest before checkout.
type Quote struct {
	PropertyID    string                    `json:"property_id"`
	CheckIn       string                    `json:"check_in"`
	CheckOut      string                    `json:"check_out"`
	Nights        int                       `json:"nights"`
	StayTotal     float64                   `json:"stay_total"`
	CleaningFee   float64                   `json:"cleaning_fee"`
	ClimateTax    float64                   `json:"climate_tax"`
	Total         float64                   `json:"total"`
	Bookable      bool                      `json:"bookable"`
	Verdict       string                    `json:"verdict"`
	OccupiedDates []string                  `json:"occupied_dates,omitempty"`
	MinStay       int                       `json:"min_stay"`
	MeetsMinStay  bool                      `json:"meets_min_stay"`
	Days          models.AvailabilityWindow `json:"days"`
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// PriceStay sums the nightly rates of the stay plus the fixed cleaning fee and the
// per-night climate resilience tax. A night with no price from the channel manager
// is charged at the property's base rate.
func PriceStay(p *models.Property, window models.AvailabilityWindow, stay models.StayRequest) Quote {
	prices := make(map[string]float64, len(window))
	for _, d := range window {
		prices[d.Date] = d.Price
	}

	nights := stay.Nights()
	stayTotal := 0.0
	for _, night := range stay.NightDates() {
		price := prices[night]
		if price <= 0 {
			price = p.PricePerNightBase
		}
		stayTotal += price
	}

	cleaning := p.CleaningFee
	if cleaning == 0 {
		cleaning = models.DefaultCleaningFee
	}
	taxPerNight := p.ClimateCrisisTax
	if taxPerNight == 0 {
		taxPerNight = models.DefaultClimateTax
	}
	tax := taxPerNight * float64(nights)

	verdict, occupied := window.Evaluate(stay)
	minStay := window.MinStay(stay)

	days := window
	if days == nil {
		days = models.AvailabilityWindow{}
	}
	return Quote{
		PropertyID:    p.ID,
		CheckIn:       stay.CheckInDate(),
		CheckOut:      stay.CheckOutDate(),
		Nights:        nights,
		StayTotal:     roundCents(stayTotal),
		CleaningFee:   roundCents(cleaning),
		ClimateTax:    roundCents(tax),
		Total:         roundCents(stayTotal + cleaning + tax),
		Bookable:      verdict == models.VerdictConfirmed,
		Verdict:       verdict.String(),
		OccupiedDates: occupied,
		MinStay:       minStay,
		MeetsMinStay:  nights >= minStay,
		Days:          days,
	}
}
