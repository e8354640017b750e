// Package payments is the boundary to card capture. The site never processes cards
// itself; the simulated gateway stands in for the hosted processor.
package payments

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
	"unicode"
)

var ErrDeclined = errors.New("payment declined")

type PaymentRequest struct {
	CardNumber string
	Expiry     string
	CVC        string
	GuestName  string
	GuestEmail string
	Amount     float64
	Reference  string
}

type PaymentResult struct {
	Approved      bool
	TransactionID string
	DeclineReason string
}

type Gateway interface {
	Capture(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}

// SimulatedGateway approves any Luhn-valid card unless it ends with DeclineSuffix.
type SimulatedGateway struct {
	Delay         time.Duration
	DeclineSuffix string
}

func NewSimulatedGateway(delay time.Duration, declineSuffix string) *SimulatedGateway {
	return &SimulatedGateway{Delay: delay, DeclineSuffix: declineSuffix}
}

func (g *SimulatedGateway) Capture(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	if g.Delay > 0 {
		select {
		case <-time.After(g.Delay):
		case <-ctx.Done():
			return PaymentResult{}, ctx.Err()
		}
	}

	if req.Amount <= 0 {
		return PaymentResult{DeclineReason: "invalid amount"}, nil
	}
	card := digitsOnly(req.CardNumber)
	if len(card) < 12 || !luhnValid(card) {
		return PaymentResult{DeclineReason: "invalid card number"}, nil
	}
	if g.DeclineSuffix != "" && strings.HasSuffix(card, g.DeclineSuffix) {
		return PaymentResult{DeclineReason: "card declined by issuer"}, nil
	}

	id, err := randomID(12)
	if err != nil {
		return PaymentResult{}, err
	}
	return PaymentResult{Approved: true, TransactionID: "ch_" + id}, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomID(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = idAlphabet[v.Int64()]
	}
	return string(b), nil
}
