package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/joshua-takyi/tower15/internal/models"
)

type BookingService struct {
	repo models.BookingRepo
}

func NewBookingService(repo models.BookingRepo) *BookingService {
	return &BookingService{repo: repo}
}

type BookingSummary struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// ListBookings returns every booking newest first with a revenue summary.
func (bs *BookingService) ListBookings(ctx context.Context, accessToken string) ([]models.BookingRecord, BookingSummary, error) {
	records, err := bs.repo.ListBookings(ctx, accessToken)
	if err != nil {
		return nil, BookingSummary{}, fmt.Errorf("failed to list bookings: %v", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	sum := BookingSummary{Count: len(records)}
	for _, r := range records {
		if r.Status == models.BookingPaid || r.Status == models.BookingConfirmed {
			sum.Revenue += r.Amount
		}
	}
	sum.Revenue = roundCents(sum.Revenue)
	if records == nil {
		records = []models.BookingRecord{}
	}
	return records, sum, nil
}
