package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	msgs []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.msgs = append(c.msgs, m...)
	return c.err
}

// stalledSender blocks until released, like an SMTP server that never answers.
type stalledSender struct {
	release chan struct{}
}

func (s *stalledSender) DialAndSend(m ...*gomail.Message) error {
	<-s.release
	return nil
}

func renderBody(t *testing.T, msg *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func testBooking() (*models.BookingRecord, *models.Property) {
	return &models.BookingRecord{
			ID:         "T15-ABC1234",
			CheckIn:    "2025-06-01",
			CheckOut:   "2025-06-04",
			GuestEmail: "eleni@example.com",
			Amount:     304.5,
		}, &models.Property{
			Title:    "Executive Suite 201",
			Location: "Thessaloniki Center",
		}
}

func TestSendConfirmationRendersDetails(t *testing.T) {
	sender := &captureSender{}
	m := NewMailerWithSender("reservations@tower15.gr", sender, slog.New(slog.NewTextHandler(io.Discard, nil)))

	b, p := testBooking()
	require.NoError(t, m.SendConfirmation(context.Background(), b, p, "Eleni"))
	require.Len(t, sender.msgs, 1)

	msg := sender.msgs[0]
	assert.Equal(t, []string{"eleni@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Confirmation: Your stay at Executive Suite 201"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	body := buf.String()
	assert.Contains(t, body, "T15-ABC1234")
	assert.Contains(t, body, "Dear Eleni")
}

func TestSendConfirmationPropagatesSMTPErrors(t *testing.T) {
	sender := &captureSender{err: errors.New("connection refused")}
	m := NewMailerWithSender("x@y", sender, slog.New(slog.NewTextHandler(io.Discard, nil)))

	b, p := testBooking()
	err := m.SendConfirmation(context.Background(), b, p, "Eleni")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSendConfirmationLogOnlyWithoutSMTP(t *testing.T) {
	var logs bytes.Buffer
	m := &Mailer{from: "x@y", logger: slog.New(slog.NewTextHandler(&logs, nil))}

	b, p := testBooking()
	require.NoError(t, m.SendConfirmation(context.Background(), b, p, "Eleni"))
	assert.Contains(t, logs.String(), "no SMTP configured")
}

func TestSendConfirmationUsesConfiguredBrand(t *testing.T) {
	sender := &captureSender{}
	m := NewMailerWithSender("x@y", sender, slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithBrand(func(ctx context.Context) string { return "Harbour House" })

	b, p := testBooking()
	require.NoError(t, m.SendConfirmation(context.Background(), b, p, "Eleni"))
	require.Len(t, sender.msgs, 1)

	body := renderBody(t, sender.msgs[0])
	assert.Contains(t, body, "Thank you for choosing Harbour House.")
	assert.Contains(t, body, "The Harbour House Team")
	assert.NotContains(t, body, models.DefaultBrandName)
}

func TestSendConfirmationFallsBackToDefaultBrand(t *testing.T) {
	sender := &captureSender{}
	m := NewMailerWithSender("x@y", sender, slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithBrand(func(ctx context.Context) string { return "" })

	b, p := testBooking()
	require.NoError(t, m.SendConfirmation(context.Background(), b, p, "Eleni"))
	assert.Contains(t, renderBody(t, sender.msgs[0]), "Thank you for choosing "+models.DefaultBrandName+".")
}

func TestSendConfirmationHonoursContextDeadline(t *testing.T) {
	sender := &stalledSender{release: make(chan struct{})}
	defer close(sender.release)
	m := NewMailerWithSender("x@y", sender, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	b, p := testBooking()
	start := time.Now()
	err := m.SendConfirmation(ctx, b, p, "Eleni")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
