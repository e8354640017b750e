package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStay(t *testing.T, in, out string) StayRequest {
	t.Helper()
	s, err := NewStayRequest("t15-201", in, out, 2)
	require.NoError(t, err)
	return s
}

func TestNewStayRequest(t *testing.T) {
	s := mustStay(t, "2025-06-01", "2025-06-04")
	assert.Equal(t, 3, s.Nights())
	assert.Equal(t, []string{"2025-06-01", "2025-06-02", "2025-06-03"}, s.NightDates())
	assert.Equal(t, "2025-06-03", s.LastNight().Format(DateLayout))
	assert.Equal(t, "2025-06-04", s.CheckOutDate())

	for name, args := range map[string][3]string{
		"same day":    {"t15-201", "2025-06-01", "2025-06-01"},
		"reversed":    {"t15-201", "2025-06-04", "2025-06-01"},
		"bad date":    {"t15-201", "06/01/2025", "2025-06-04"},
		"no property": {"  ", "2025-06-01", "2025-06-04"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewStayRequest(args[0], args[1], args[2], 2)
			assert.ErrorIs(t, err, ErrInvalidStay)
		})
	}

	_, err := NewStayRequest("t15-201", "2025-06-01", "2025-06-04", 0)
	assert.ErrorIs(t, err, ErrInvalidStay)
}

func TestStayAcrossMonthAndDST(t *testing.T) {
	s := mustStay(t, "2025-03-29", "2025-04-01")
	assert.Equal(t, 3, s.Nights())
	assert.Equal(t, "2025-03-31", s.NightDates()[2])
}

func window(avail map[string]bool) AvailabilityWindow {
	w := AvailabilityWindow{}
	for d, ok := range avail {
		w = append(w, AvailabilityDay{Date: d, Available: ok, Price: 90, MinStay: 1})
	}
	return w
}

func TestEvaluate(t *testing.T) {
	stay := mustStay(t, "2025-06-01", "2025-06-04")

	v, occ := window(map[string]bool{"2025-06-01": true, "2025-06-02": true, "2025-06-03": true}).Evaluate(stay)
	assert.Equal(t, VerdictConfirmed, v)
	assert.Empty(t, occ)

	// check-out day is not a night
	v, _ = window(map[string]bool{"2025-06-01": true, "2025-06-02": true, "2025-06-03": true, "2025-06-04": false}).Evaluate(stay)
	assert.Equal(t, VerdictConfirmed, v)

	v, occ = window(map[string]bool{"2025-06-01": true, "2025-06-02": false, "2025-06-03": true}).Evaluate(stay)
	assert.Equal(t, VerdictOccupied, v)
	assert.Equal(t, []string{"2025-06-02"}, occ)

	// an occupied night wins over a missing one
	v, _ = window(map[string]bool{"2025-06-02": false}).Evaluate(stay)
	assert.Equal(t, VerdictOccupied, v)

	v, _ = window(map[string]bool{"2025-06-01": true, "2025-06-03": true}).Evaluate(stay)
	assert.Equal(t, VerdictUnverified, v)

	v, _ = AvailabilityWindow{}.Evaluate(stay)
	assert.Equal(t, VerdictUnverified, v)
	assert.False(t, AvailabilityWindow(nil).Confirms(stay))

	v, _ = window(map[string]bool{"2025-07-01": true}).Evaluate(stay)
	assert.Equal(t, VerdictUnverified, v)
	assert.Equal(t, "unverified", v.String())
}

func TestMinStay(t *testing.T) {
	stay := mustStay(t, "2025-06-01", "2025-06-03")
	w := AvailabilityWindow{
		{Date: "2025-06-01", Available: true, MinStay: 2},
		{Date: "2025-06-02", Available: true, MinStay: 3},
		{Date: "2025-06-05", Available: true, MinStay: 7},
	}
	assert.Equal(t, 3, w.MinStay(stay))
	assert.Equal(t, 1, AvailabilityWindow{}.MinStay(stay))
}

func TestMigrateBookingRowV1(t *testing.T) {
	row := map[string]interface{}{
		"id":          "T15-ABC2345",
		"property_id": "t15-201",
		"check_in":    "2024-08-01",
		"check_out":   "2024-08-03",
		"guest_email": "guest@example.com",
		"total_price": 215.0,
		"status":      "paid",
		"created":     "2024-07-20T10:00:00Z",
	}
	b, err := MigrateBookingRow(row)
	require.NoError(t, err)
	assert.Equal(t, 215.0, b.Amount)
	assert.Equal(t, BookingPaid, b.Status)
	assert.Equal(t, "t15-201", b.PropertyName)
	assert.Equal(t, 2024, b.CreatedAt.Year())
	assert.Equal(t, BookingSchemaVersion, b.SchemaVersion)
}

func TestMigrateBookingRowCurrentAndRejects(t *testing.T) {
	b := &BookingRecord{ID: "T15-XYZ2345", PropertyID: "t15-101", PropertyName: "Executive Suite 101",
		CheckIn: "2025-06-01", CheckOut: "2025-06-02", Amount: 116.5, Status: BookingPaid}
	row := b.Row()
	row["schema_version"] = float64(BookingSchemaVersion)
	got, err := MigrateBookingRow(row)
	require.NoError(t, err)
	assert.Equal(t, b.Amount, got.Amount)

	_, err = MigrateBookingRow(map[string]interface{}{"schema_version": float64(BookingSchemaVersion + 1)})
	assert.Error(t, err)

	_, err = MigrateBookingRow(map[string]interface{}{"id": "x", "status": "paid"})
	assert.Error(t, err, "v1 row without total_price")

	_, err = MigrateBookingRow(map[string]interface{}{"id": "x", "amount": 1.0, "status": "REFUNDED", "schema_version": float64(2)})
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	p := Property{ID: "t15-x", Title: "Loft", Category: "Roof", Amenities: []string{"WiFi"}}
	p.Normalize()
	assert.Equal(t, "Loft", p.TitleEl)
	assert.Equal(t, "Roof", p.CategoryEl)
	assert.Equal(t, []string{"WiFi"}, p.AmenitiesEl)
	assert.Equal(t, DefaultCleaningFee, p.CleaningFee)
	assert.Equal(t, DefaultClimateTax, p.ClimateCrisisTax)
	assert.NotNil(t, p.Images)
	assert.NotNil(t, p.HouseRules)

	q := Property{Title: "Suite", TitleEl: "Σουίτα", CleaningFee: 50}
	q.Normalize()
	assert.Equal(t, "Σουίτα", q.TitleEl)
	assert.Equal(t, 50.0, q.CleaningFee)
}

func TestSeedProperties(t *testing.T) {
	seed := SeedProperties()
	require.Len(t, seed, 18)

	ids := map[string]bool{}
	for _, p := range seed {
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true
		assert.Len(t, p.HosthubListingID, 7)
		assert.NoError(t, Validate.Struct(p))
	}

	assert.Equal(t, "0000201", seed[5].HosthubListingID)
	assert.Equal(t, 90.0, seed[5].PricePerNightBase)
	assert.Equal(t, "Flexible", seed[len(seed)-1].CancellationPolicy)
}

func TestSyncTaskClaimable(t *testing.T) {
	now := time.Now()
	later, earlier := now.Add(time.Minute), now.Add(-time.Minute)

	assert.True(t, (&SyncTask{Status: SyncTaskPending}).Claimable(now, false))
	assert.False(t, (&SyncTask{Status: SyncTaskInFlight, LeaseUntil: &later}).Claimable(now, true))
	assert.True(t, (&SyncTask{Status: SyncTaskInFlight, LeaseUntil: &earlier}).Claimable(now, false))
	assert.False(t, (&SyncTask{Status: SyncTaskAbandoned}).Claimable(now, false))
	assert.True(t, (&SyncTask{Status: SyncTaskAbandoned}).Claimable(now, true))
	assert.False(t, (&SyncTask{Status: SyncTaskResolved}).Claimable(now, true))

	assert.True(t, SyncTaskInFlight.Valid())
	assert.False(t, SyncTaskStatus("bogus").Valid())
}
