package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joshua-takyi/tower15/internal/helpers"
	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/joshua-takyi/tower15/internal/payments"
)

var (
	ErrInvalidCheckout         = errors.New("invalid checkout request")
	ErrAvailabilityUnconfirmed = errors.New("availability could not be confirmed")
	ErrDatesNoLongerAvailable  = errors.New("dates are no longer available")
	ErrPaymentDeclined         = errors.New("payment declined")
	ErrQuoteChanged            = errors.New("quoted total no longer matches the current price")
)

// AvailabilityOracle reports the channel manager's calendar for an inclusive date range.
type AvailabilityOracle interface {
	GetAvailability(ctx context.Context, listingID string, from, to time.Time) (models.AvailabilityWindow, error)
}

// ReservationWriter commits a paid reservation to the channel manager.
type ReservationWriter interface {
	PushBooking(ctx context.Context, push models.ReservationPush) (string, error)
}

type Notifier interface {
	SendConfirmation(ctx context.Context, booking *models.BookingRecord, property *models.Property, guestName string) error
}

type PropertyFinder interface {
	GetProperty(ctx context.Context, id string) (*models.Property, error)
}

type Stage string

const (
	StageIdle               Stage = "idle"
	StageVerifying          Stage = "verifying"
	StagePaying             Stage = "paying"
	StageCommitting         Stage = "committing"
	StagePersisting         Stage = "persisting"
	StageNotifying          Stage = "notifying"
	StageDone               Stage = "done"
	StageAvailabilityFailed Stage = "availability_failed"
	StagePaymentFailed      Stage = "payment_failed"
)

// Warning marks a stage that failed after payment. The booking still completes.
type Warning string

const (
	WarningSyncPending  Warning = "sync_pending"
	WarningPersistence  Warning = "persistence_warning"
	WarningNotification Warning = "notification_warning"
)

type StageResult struct {
	Stage    Stage         `json:"stage"`
	OK       bool          `json:"ok"`
	Warning  Warning       `json:"warning,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Outcome is the report of one checkout attempt.
type Outcome struct {
	State               Stage                 `json:"state"`
	Booking             *models.BookingRecord `json:"booking,omitempty"`
	TransactionID       string                `json:"transaction_id,omitempty"`
	RemoteReservationID string                `json:"remote_reservation_id,omitempty"`
	SyncTaskID          string                `json:"sync_task_id,omitempty"`
	Stages              []StageResult         `json:"stages"`
	Transitions         []Stage               `json:"transitions"`
}

func newOutcome() *Outcome {
	return &Outcome{
		State:       StageIdle,
		Stages:      []StageResult{},
		Transitions: []Stage{StageIdle},
	}
}

func (o *Outcome) enter(s Stage) {
	o.State = s
	o.Transitions = append(o.Transitions, s)
}

func (o *Outcome) record(r StageResult) {
	o.Stages = append(o.Stages, r)
}

func (o *Outcome) Succeeded() bool {
	return o.State == StageDone
}

func (o *Outcome) Warnings() []Warning {
	var ws []Warning
	for _, r := range o.Stages {
		if r.Warning != "" {
			ws = append(ws, r.Warning)
		}
	}
	return ws
}

func (o *Outcome) HasWarning(w Warning) bool {
	for _, got := range o.Warnings() {
		if got == w {
			return true
		}
	}
	return false
}

func (o *Outcome) SyncPending() bool {
	return o.HasWarning(WarningSyncPending)
}

type CardDetails struct {
	Number string `json:"number" validate:"required"`
	Expiry string `json:"expiry" validate:"required"`
	CVC    string `json:"cvc" validate:"required,min=3,max=4"`
}

type GuestDetails struct {
	Name  string      `json:"name" validate:"required"`
	Email string      `json:"email" validate:"required,email"`
	Phone string      `json:"phone"`
	Card  CardDetails `json:"card" validate:"required"`
}

type CheckoutConfig struct {
	// StageTimeout bounds each collaborator call. Zero means no per-stage bound.
	StageTimeout time.Duration
}

type CheckoutService struct {
	properties PropertyFinder
	oracle     AvailabilityOracle
	payments   payments.Gateway
	writer     ReservationWriter
	bookings   models.BookingRepo
	syncTasks  models.SyncTaskRepo
	notifier   Notifier
	cfg        CheckoutConfig
	logger     *slog.Logger

	now     func() time.Time
	newCode func() (string, error)
}

type CheckoutDeps struct {
	Properties PropertyFinder
	Oracle     AvailabilityOracle
	Payments   payments.Gateway
	Writer     ReservationWriter
	Bookings   models.BookingRepo
	SyncTasks  models.SyncTaskRepo
	Notifier   Notifier
}

func NewCheckoutService(deps CheckoutDeps, cfg CheckoutConfig, logger *slog.Logger) *CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutService{
		properties: deps.Properties,
		oracle:     deps.Oracle,
		payments:   deps.Payments,
		writer:     deps.Writer,
		bookings:   deps.Bookings,
		syncTasks:  deps.SyncTasks,
		notifier:   deps.Notifier,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		newCode:    helpers.GenerateConfirmationCode,
	}
}

func (s *CheckoutService) stageContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StageTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.cfg.StageTimeout)
}

// AttemptBooking runs verify, pay, commit, persist and notify for one stay.
//
// The amount charged is quotedTotal as shown to the guest; pricing is not recomputed.
// A failure before payment returns an error and leaves no side effects. Once payment
// is captured the flow always reaches StageDone; later failures surface as warnings
// on the outcome. Cancelling ctx after payment has started has no effect.
//
// There is no lock between the availability re-check and the remote commit. A
// reservation made elsewhere in that gap ends up as a sync-pending task.
func (s *CheckoutService) AttemptBooking(ctx context.Context, stay models.StayRequest, guest GuestDetails, quotedTotal float64) (*Outcome, error) {
	out := newOutcome()

	if err := stay.Validate(); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidCheckout, err)
	}
	guest.Email = strings.TrimSpace(guest.Email)
	guest.Name = strings.TrimSpace(guest.Name)
	if err := models.Validate.Struct(guest); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidCheckout, err)
	}
	if quotedTotal <= 0 {
		return out, fmt.Errorf("%w: quoted total must be positive", ErrInvalidCheckout)
	}

	logger := s.logger.With(
		"property_id", stay.PropertyID,
		"check_in", stay.CheckInDate(),
		"check_out", stay.CheckOutDate(),
	)

	property, err := s.properties.GetProperty(ctx, stay.PropertyID)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidCheckout, err)
	}

	// Verifying
	out.enter(StageVerifying)
	if err := s.verify(ctx, out, property, stay); err != nil {
		out.enter(StageAvailabilityFailed)
		logger.Info("checkout stopped before payment", "reason", err.Error())
		return out, err
	}

	// Everything from here on must run to completion.
	ctx = context.WithoutCancel(ctx)

	// Paying
	out.enter(StagePaying)
	txID, err := s.pay(ctx, out, stay, guest, quotedTotal)
	if err != nil {
		out.enter(StagePaymentFailed)
		logger.Info("payment not captured", "reason", err.Error())
		return out, err
	}
	out.TransactionID = txID

	code, err := s.newCode()
	if err != nil {
		code = fmt.Sprintf("%s%d", helpers.ConfirmationPrefix, s.now().UnixNano())
		logger.Error("confirmation code generation failed, using fallback", "error", err)
	}
	logger = logger.With("booking_id", code, "transaction_id", txID)

	// Committing
	out.enter(StageCommitting)
	push := models.ReservationPush{
		ListingID:   listingID(property),
		CheckIn:     stay.CheckInDate(),
		CheckOut:    stay.CheckOutDate(),
		GuestName:   guest.Name,
		GuestEmail:  guest.Email,
		TotalAmount: quotedTotal,
	}
	s.commit(ctx, out, logger, code, property, push)

	// Persisting
	out.enter(StagePersisting)
	booking := &models.BookingRecord{
		ID:                  code,
		PropertyID:          property.ID,
		PropertyName:        property.Title,
		CheckIn:             stay.CheckInDate(),
		CheckOut:            stay.CheckOutDate(),
		GuestEmail:          guest.Email,
		Amount:              quotedTotal,
		Status:              models.BookingPaid,
		CreatedAt:           s.now().UTC(),
		TransactionID:       txID,
		RemoteReservationID: out.RemoteReservationID,
		SchemaVersion:       models.BookingSchemaVersion,
	}
	out.Booking = booking
	s.persist(ctx, out, logger, booking)

	// Notifying
	out.enter(StageNotifying)
	s.notify(ctx, out, logger, booking, property, guest.Name)

	out.enter(StageDone)
	logger.Info("booking completed", "amount", quotedTotal, "warnings", out.Warnings())
	return out, nil
}

func listingID(p *models.Property) string {
	if p.HosthubListingID != "" {
		return p.HosthubListingID
	}
	return p.ID
}

func (s *CheckoutService) verify(ctx context.Context, out *Outcome, property *models.Property, stay models.StayRequest) error {
	start := s.now()
	sctx, cancel := s.stageContext(ctx)
	defer cancel()

	window, err := s.oracle.GetAvailability(sctx, listingID(property), stay.CheckIn, stay.LastNight())
	if err != nil {
		out.record(StageResult{Stage: StageVerifying, Error: err.Error(), Duration: s.now().Sub(start)})
		return fmt.Errorf("%w: %v", ErrAvailabilityUnconfirmed, err)
	}

	verdict, occupied := window.Evaluate(stay)
	switch verdict {
	case models.VerdictOccupied:
		out.record(StageResult{Stage: StageVerifying, Error: "occupied: " + strings.Join(occupied, ","), Duration: s.now().Sub(start)})
		return fmt.Errorf("%w: %s", ErrDatesNoLongerAvailable, strings.Join(occupied, ", "))
	case models.VerdictUnverified:
		out.record(StageResult{Stage: StageVerifying, Error: "availability window incomplete", Duration: s.now().Sub(start)})
		return ErrAvailabilityUnconfirmed
	}
	out.record(StageResult{Stage: StageVerifying, OK: true, Duration: s.now().Sub(start)})
	return nil
}

func (s *CheckoutService) pay(ctx context.Context, out *Outcome, stay models.StayRequest, guest GuestDetails, amount float64) (string, error) {
	start := s.now()
	sctx, cancel := s.stageContext(ctx)
	defer cancel()

	res, err := s.payments.Capture(sctx, payments.PaymentRequest{
		CardNumber: guest.Card.Number,
		Expiry:     guest.Card.Expiry,
		CVC:        guest.Card.CVC,
		GuestName:  guest.Name,
		GuestEmail: guest.Email,
		Amount:     amount,
		Reference:  stay.PropertyID + ":" + stay.CheckInDate(),
	})
	if err != nil {
		out.record(StageResult{Stage: StagePaying, Error: err.Error(), Duration: s.now().Sub(start)})
		return "", fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
	}
	if !res.Approved {
		out.record(StageResult{Stage: StagePaying, Error: res.DeclineReason, Duration: s.now().Sub(start)})
		return "", fmt.Errorf("%w: %s", ErrPaymentDeclined, res.DeclineReason)
	}
	out.record(StageResult{Stage: StagePaying, OK: true, Duration: s.now().Sub(start)})
	return res.TransactionID, nil
}

func (s *CheckoutService) commit(ctx context.Context, out *Outcome, logger *slog.Logger, code string, property *models.Property, push models.ReservationPush) {
	start := s.now()
	sctx, cancel := s.stageContext(ctx)
	remoteID, err := s.writer.PushBooking(sctx, push)
	cancel()
	if err == nil {
		out.RemoteReservationID = remoteID
		out.record(StageResult{Stage: StageCommitting, OK: true, Duration: s.now().Sub(start)})
		return
	}

	out.record(StageResult{Stage: StageCommitting, Warning: WarningSyncPending, Error: err.Error(), Duration: s.now().Sub(start)})
	logger.Warn("payment captured but reservation not committed to channel manager", "error", err)

	task := &models.SyncTask{
		BookingID:     code,
		PropertyID:    property.ID,
		TransactionID: out.TransactionID,
		Push:          push,
		LastError:     err.Error(),
	}
	ectx, ecancel := s.stageContext(ctx)
	defer ecancel()
	if err := s.syncTasks.EnqueueSyncTask(ectx, task); err != nil {
		logger.Error("failed to enqueue sync task, manual reconciliation required", "error", err)
		return
	}
	out.SyncTaskID = task.ID.Hex()
}

func (s *CheckoutService) persist(ctx context.Context, out *Outcome, logger *slog.Logger, booking *models.BookingRecord) {
	start := s.now()
	sctx, cancel := s.stageContext(ctx)
	defer cancel()

	if err := s.bookings.AppendBooking(sctx, booking); err != nil {
		out.record(StageResult{Stage: StagePersisting, Warning: WarningPersistence, Error: err.Error(), Duration: s.now().Sub(start)})
		logger.Warn("booking record not saved", "error", err)
		return
	}
	out.record(StageResult{Stage: StagePersisting, OK: true, Duration: s.now().Sub(start)})
}

func (s *CheckoutService) notify(ctx context.Context, out *Outcome, logger *slog.Logger, booking *models.BookingRecord, property *models.Property, guestName string) {
	start := s.now()
	sctx, cancel := s.stageContext(ctx)
	defer cancel()

	if err := s.notifier.SendConfirmation(sctx, booking, property, guestName); err != nil {
		out.record(StageResult{Stage: StageNotifying, Warning: WarningNotification, Error: err.Error(), Duration: s.now().Sub(start)})
		logger.Warn("confirmation email not sent", "error", err)
		return
	}
	out.record(StageResult{Stage: StageNotifying, OK: true, Duration: s.now().Sub(start)})
}
