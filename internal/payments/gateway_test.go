package payments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGatewayApprovesValidCard(t *testing.T) {
	g := NewSimulatedGateway(0, "0002")
	res, err := g.Capture(context.Background(), PaymentRequest{CardNumber: "4242 4242 4242 4242", Amount: 304.5})
	require.NoError(t, err)
	assert.True(t, res.Approved)
	assert.True(t, strings.HasPrefix(res.TransactionID, "ch_"))
	assert.Len(t, res.TransactionID, 15)
}

func TestSimulatedGatewayDeclines(t *testing.T) {
	g := NewSimulatedGateway(0, "0002")
	cases := map[string]PaymentRequest{
		"luhn":   {CardNumber: "4242424242424241", Amount: 10},
		"short":  {CardNumber: "4242", Amount: 10},
		"suffix": {CardNumber: "4000000000000002", Amount: 10},
		"amount": {CardNumber: "4242424242424242", Amount: 0},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := g.Capture(context.Background(), req)
			require.NoError(t, err)
			assert.False(t, res.Approved)
			assert.NotEmpty(t, res.DeclineReason)
			assert.Empty(t, res.TransactionID)
		})
	}
}

func TestSimulatedGatewayHonoursContext(t *testing.T) {
	g := NewSimulatedGateway(time.Hour, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Capture(ctx, PaymentRequest{CardNumber: "4242424242424242", Amount: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTransactionIDsAreDistinct(t *testing.T) {
	g := NewSimulatedGateway(0, "")
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		res, err := g.Capture(context.Background(), PaymentRequest{CardNumber: "4242424242424242", Amount: 1})
		require.NoError(t, err)
		assert.False(t, seen[res.TransactionID])
		seen[res.TransactionID] = true
	}
}
