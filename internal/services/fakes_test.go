package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/joshua-takyi/tower15/internal/payments"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeOracle struct {
	window models.AvailabilityWindow
	err    error
	calls  int
	from   time.Time
	to     time.Time
}

func (f *fakeOracle) GetAvailability(ctx context.Context, listingID string, from, to time.Time) (models.AvailabilityWindow, error) {
	f.calls++
	f.from, f.to = from, to
	return f.window, f.err
}

type fakeGateway struct {
	decline   bool
	err       error
	calls     int
	onCapture func()
	last      payments.PaymentRequest
	seq       int
}

func (f *fakeGateway) Capture(ctx context.Context, req payments.PaymentRequest) (payments.PaymentResult, error) {
	f.calls++
	f.last = req
	if f.onCapture != nil {
		f.onCapture()
	}
	if f.err != nil {
		return payments.PaymentResult{}, f.err
	}
	if f.decline {
		return payments.PaymentResult{DeclineReason: "card declined by issuer"}, nil
	}
	f.seq++
	return payments.PaymentResult{Approved: true, TransactionID: "ch_test" + string(rune('a'+f.seq))}, nil
}

type fakeWriter struct {
	mu     sync.Mutex
	err    error
	delay  time.Duration
	calls  int
	pushes []models.ReservationPush
	ctxErr error
}

func (f *fakeWriter) PushBooking(ctx context.Context, push models.ReservationPush) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.pushes = append(f.pushes, push)
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return "", f.err
	}
	return "hh-remote-1", nil
}

type fakeBookings struct {
	mu      sync.Mutex
	records []models.BookingRecord
	err     error
}

func (f *fakeBookings) AppendBooking(ctx context.Context, b *models.BookingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *b)
	return nil
}

func (f *fakeBookings) ListBookings(ctx context.Context, accessToken string) ([]models.BookingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.BookingRecord, len(f.records))
	copy(out, f.records)
	return out, f.err
}

type fakeSyncTasks struct {
	mu    sync.Mutex
	tasks []*models.SyncTask
	err   error
}

func (f *fakeSyncTasks) EnqueueSyncTask(ctx context.Context, t *models.SyncTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if err := t.BeforeCreate(); err != nil {
		return err
	}
	f.tasks = append(f.tasks, t)
	return nil
}

func (f *fakeSyncTasks) find(id string) *models.SyncTask {
	for _, t := range f.tasks {
		if t.ID.Hex() == id {
			return t
		}
	}
	return nil
}

func (f *fakeSyncTasks) GetSyncTask(ctx context.Context, id string) (*models.SyncTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t := f.find(id); t != nil {
		return t, nil
	}
	return nil, models.ErrSyncTaskNotFound
}

func (f *fakeSyncTasks) ListSyncTasks(ctx context.Context, status models.SyncTaskStatus, limit int) ([]*models.SyncTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SyncTask
	for _, t := range f.tasks {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeSyncTasks) ListDueSyncTasks(ctx context.Context, limit int) ([]*models.SyncTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	var out []*models.SyncTask
	for _, t := range f.tasks {
		if t.Claimable(now, false) {
			cp := *t
			out = append(out, &cp)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeSyncTasks) ClaimSyncTask(ctx context.Context, id string, lease time.Duration, includeAbandoned bool) (*models.SyncTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.find(id)
	now := time.Now()
	if t == nil || !t.Claimable(now, includeAbandoned) {
		return nil, models.ErrSyncTaskBusy
	}
	until := now.Add(lease)
	t.Status = models.SyncTaskInFlight
	t.LeaseUntil = &until
	cp := *t
	return &cp, nil
}

func (f *fakeSyncTasks) RecordSyncFailure(ctx context.Context, id string, lastErr string, next models.SyncTaskStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.find(id)
	if t == nil {
		return models.ErrSyncTaskNotFound
	}
	t.Attempts++
	t.LastError = lastErr
	t.Status = next
	t.LeaseUntil = nil
	return nil
}

func (f *fakeSyncTasks) ResolveSyncTask(ctx context.Context, id string, remoteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.find(id)
	if t == nil {
		return models.ErrSyncTaskNotFound
	}
	now := time.Now()
	t.Attempts++
	t.Status = models.SyncTaskResolved
	t.RemoteReservationID = remoteID
	t.ResolvedAt = &now
	t.LeaseUntil = nil
	return nil
}

type fakeNotifier struct {
	err   error
	calls int
}

func (f *fakeNotifier) SendConfirmation(ctx context.Context, b *models.BookingRecord, p *models.Property, guestName string) error {
	f.calls++
	return f.err
}

// fakeProperties is an in-memory PropertyRepo.
type fakeProperties struct {
	mu      sync.Mutex
	items   map[string]models.Property
	listErr error
	lists   int
	inserts int
}

func newFakeProperties(ps ...models.Property) *fakeProperties {
	f := &fakeProperties{items: map[string]models.Property{}}
	for _, p := range ps {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProperties) ListProperties(ctx context.Context) ([]models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Property{}
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProperties) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, models.ErrPropertyNotFound
	}
	return &p, nil
}

func (f *fakeProperties) UpsertProperty(ctx context.Context, p *models.Property, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProperties) InsertProperties(ctx context.Context, ps []models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	for _, p := range ps {
		f.items[p.ID] = p
	}
	return nil
}

var errBoom = errors.New("boom")
