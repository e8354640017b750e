package services

import (
	"context"
	"testing"
	"time"

	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBookingsNewestFirstWithRevenue(t *testing.T) {
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookings{records: []models.BookingRecord{
		{ID: "T15-OLD0001", Amount: 100, Status: models.BookingPaid, CreatedAt: base},
		{ID: "T15-NEW0001", Amount: 304.5, Status: models.BookingPaid, CreatedAt: base.Add(48 * time.Hour)},
		{ID: "T15-FAIL001", Amount: 80, Status: models.BookingFailed, CreatedAt: base.Add(time.Hour)},
	}}

	records, sum, err := NewBookingService(repo).ListBookings(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "T15-NEW0001", records[0].ID)
	assert.Equal(t, "T15-OLD0001", records[2].ID)
	assert.Equal(t, BookingSummary{Count: 3, Revenue: 404.5}, sum)
}

func TestListBookingsEmpty(t *testing.T) {
	records, sum, err := NewBookingService(&fakeBookings{}).ListBookings(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Zero(t, sum.Count)
}
