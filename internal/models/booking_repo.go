package models

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/supabase-community/postgrest-go"
)

func (su *SupabaseRepo) AppendBooking(ctx context.Context, b *BookingRecord) error {
	_, _, err := su.supabaseClient.From(BookingsTable).
		Insert(b.Row(), false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("booking db error: %v", err)
	}
	b.SchemaVersion = BookingSchemaVersion
	return nil
}

// ListBookings returns every booking, newest first, migrated to the current schema.
func (su *SupabaseRepo) ListBookings(ctx context.Context, accessToken string) ([]BookingRecord, error) {
	client, err := su.GetAuthenticatedClient(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	data, _, err := client.From(BookingsTable).
		Select("*", "exact", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %v", err)
	}

	return decodeBookingRows(data, su.logger)
}

// decodeBookingRows migrates each row to the current schema. A row that cannot be
// migrated is logged and left out so one bad record does not hide the rest.
func decodeBookingRows(data []byte, logger *slog.Logger) ([]BookingRecord, error) {
	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookings: %v", err)
	}

	bookings := make([]BookingRecord, 0, len(rows))
	for _, row := range rows {
		b, err := MigrateBookingRow(row)
		if err != nil {
			logger.Error("Skipping unreadable booking row", "booking_id", row["id"], "error", err)
			continue
		}
		bookings = append(bookings, *b)
	}
	return bookings, nil
}
