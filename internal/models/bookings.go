package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingPaid      BookingStatus = "PAID"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingFailed    BookingStatus = "FAILED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingPaid, BookingConfirmed, BookingFailed:
		return true
	}
	return false
}

// BookingSchemaVersion is the layout written by this code. Older rows are upgraded
// by MigrateBookingRow when they are read.
const BookingSchemaVersion = 2

// BookingRecord is the local, append-only read model of a completed checkout.
// The channel manager stays the source of truth for whether the stay exists.
type BookingRecord struct {
	ID                  string        `json:"id"`
	PropertyID          string        `json:"property_id"`
	PropertyName        string        `json:"property_name"`
	CheckIn             string        `json:"check_in"`
	CheckOut            string        `json:"check_out"`
	GuestEmail          string        `json:"guest_email"`
	Amount              float64       `json:"amount"`
	Status              BookingStatus `json:"status"`
	CreatedAt           time.Time     `json:"created_at"`
	TransactionID       string        `json:"transaction_id,omitempty"`
	RemoteReservationID string        `json:"remote_reservation_id,omitempty"`
	SchemaVersion       int           `json:"schema_version"`
}

// Row is the column map inserted into the bookings table.
func (b *BookingRecord) Row() map[string]interface{} {
	row := map[string]interface{}{
		"id":             b.ID,
		"property_id":    b.PropertyID,
		"property_name":  b.PropertyName,
		"check_in":       b.CheckIn,
		"check_out":      b.CheckOut,
		"guest_email":    b.GuestEmail,
		"amount":         b.Amount,
		"status":         b.Status,
		"created_at":     b.CreatedAt.UTC().Format(time.RFC3339),
		"schema_version": BookingSchemaVersion,
	}
	if b.TransactionID != "" {
		row["transaction_id"] = b.TransactionID
	}
	if b.RemoteReservationID != "" {
		row["remote_reservation_id"] = b.RemoteReservationID
	}
	return row
}

type bookingMigration func(row map[string]interface{}) error

// bookingMigrations[v] upgrades a row from version v to v+1.
var bookingMigrations = map[int]bookingMigration{
	1: migrateBookingV1,
}

// v1 rows were written by the first checkout page: total_price instead of amount,
// created instead of created_at, no property_name and lower-case statuses.
func migrateBookingV1(row map[string]interface{}) error {
	if _, ok := row["amount"]; !ok {
		v, ok := row["total_price"]
		if !ok {
			return fmt.Errorf("v1 booking row has no total_price")
		}
		row["amount"] = v
	}
	delete(row, "total_price")

	if _, ok := row["created_at"]; !ok {
		if v, ok := row["created"]; ok {
			row["created_at"] = v
		}
	}
	delete(row, "created")

	if name, _ := row["property_name"].(string); name == "" {
		row["property_name"] = row["property_id"]
	}
	if status, ok := row["status"].(string); ok {
		row["status"] = strings.ToUpper(status)
	}
	return nil
}

// MigrateBookingRow decodes a stored booking row, upgrading it step by step to the
// current schema version. Rows with no version are treated as v1.
func MigrateBookingRow(row map[string]interface{}) (*BookingRecord, error) {
	version := 1
	switch v := row["schema_version"].(type) {
	case nil:
	case float64:
		version = int(v)
	case int:
		version = v
	default:
		return nil, fmt.Errorf("unexpected schema_version type %T", v)
	}
	if version > BookingSchemaVersion {
		return nil, fmt.Errorf("booking schema version %d is newer than supported %d", version, BookingSchemaVersion)
	}

	for ; version < BookingSchemaVersion; version++ {
		migrate, ok := bookingMigrations[version]
		if !ok {
			return nil, fmt.Errorf("no migration from booking schema v%d", version)
		}
		if err := migrate(row); err != nil {
			return nil, fmt.Errorf("migrating booking from v%d: %v", version, err)
		}
	}
	row["schema_version"] = BookingSchemaVersion

	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking row: %v", err)
	}
	var b BookingRecord
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking row: %v", err)
	}
	if !b.Status.Valid() {
		return nil, fmt.Errorf("booking %s has unknown status %q", b.ID, b.Status)
	}
	return &b, nil
}

type BookingRepo interface {
	AppendBooking(ctx context.Context, b *BookingRecord) error
	ListBookings(ctx context.Context, accessToken string) ([]BookingRecord, error)
}
