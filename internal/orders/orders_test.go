package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetcart/catalog-service/internal/cart"
	"github.com/fleetcart/catalog-service/internal/database"
)

func TestSubmitEmptyCart(t *testing.T) {
	o := New(nil)

	_, err := o.Submit(context.Background(), SubmitRequest{
		CompanyName:  "Acme Logistics",
		ContactEmail: "fleet@acme.example",
	}, cart.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestTransitionAllowed(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{database.OrderStatusDraft, database.OrderStatusSubmitted, true},
		{database.OrderStatusDraft, database.OrderStatusCancelled, true},
		{database.OrderStatusDraft, database.OrderStatusFulfilled, false},
		{database.OrderStatusSubmitted, database.OrderStatusApproved, true},
		{database.OrderStatusSubmitted, database.OrderStatusFulfilled, false},
		{database.OrderStatusApproved, database.OrderStatusFulfilled, true},
		{database.OrderStatusFulfilled, database.OrderStatusCancelled, false},
		{database.OrderStatusCancelled, database.OrderStatusSubmitted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, transitionAllowed(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	o := New(nil)

	_, err := o.UpdateStatus(context.Background(), "some-id", "shipped")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
