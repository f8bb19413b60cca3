package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Run("accepts known literals", func(t *testing.T) {
		for _, s := range []string{"pending", "shipped", "delivered", "cancelled"} {
			status, err := ParseStatus(s)
			require.NoError(t, err)
			assert.Equal(t, s, status.String())
		}
	})

	t.Run("rejects unknown literal", func(t *testing.T) {
		_, err := ParseStatus("refunded")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refunded")
	})

	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseStatus("")
		require.Error(t, err)
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusPending, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusShipped, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestNewOrder(t *testing.T) {
	t.Run("creates a pending order", func(t *testing.T) {
		userID := uuid.New()
		addressID := uuid.New()

		o, err := NewOrder(userID, addressID)
		require.NoError(t, err)

		assert.Equal(t, userID, o.UserID)
		assert.Equal(t, addressID, o.AddressID)
		assert.Equal(t, StatusPending, o.Status)
		assert.True(t, o.TotalPrice.IsZero())
		assert.Equal(t, 0, o.ItemCount())
	})

	t.Run("fails with nil user or address", func(t *testing.T) {
		_, err := NewOrder(uuid.Nil, uuid.New())
		require.Error(t, err)

		_, err = NewOrder(uuid.New(), uuid.Nil)
		require.Error(t, err)
	})
}

func TestOrder_AddSnapshot(t *testing.T) {
	newOrder := func(t *testing.T) *Order {
		o, err := NewOrder(uuid.New(), uuid.New())
		require.NoError(t, err)
		return o
	}

	t.Run("freezes name and unit price per line", func(t *testing.T) {
		o := newOrder(t)
		productID := uuid.New()

		require.NoError(t, o.AddSnapshot(productID, "Widget", 3, decimal.NewFromInt(50)))

		require.Equal(t, 1, o.ItemCount())
		item := o.Items[0]
		assert.Equal(t, productID, item.ProductID)
		assert.Equal(t, "Widget", item.ProductName)
		assert.Equal(t, int64(3), item.Quantity)
		assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(50)))
		assert.True(t, item.Amount().Equal(decimal.NewFromInt(150)))
	})

	t.Run("recalculates total across lines", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.AddSnapshot(uuid.New(), "A", 2, decimal.NewFromInt(10)))
		require.NoError(t, o.AddSnapshot(uuid.New(), "B", 1, decimal.NewFromFloat(19.99)))

		assert.True(t, o.TotalPrice.Equal(decimal.NewFromFloat(39.99)))
	})

	t.Run("rejects lines on non-pending orders", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.AddSnapshot(uuid.New(), "A", 1, decimal.NewFromInt(10)))
		require.NoError(t, o.TransitionTo(StatusShipped))

		err := o.AddSnapshot(uuid.New(), "B", 1, decimal.NewFromInt(10))
		require.Error(t, err)
	})

	t.Run("rejects invalid lines", func(t *testing.T) {
		o := newOrder(t)

		require.Error(t, o.AddSnapshot(uuid.Nil, "A", 1, decimal.NewFromInt(10)))
		require.Error(t, o.AddSnapshot(uuid.New(), "A", 0, decimal.NewFromInt(10)))
		require.Error(t, o.AddSnapshot(uuid.New(), "A", 1, decimal.NewFromInt(-1)))
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("walks the happy path", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), uuid.New())
		require.NoError(t, err)

		require.NoError(t, o.TransitionTo(StatusShipped))
		assert.Equal(t, StatusShipped, o.Status)

		require.NoError(t, o.TransitionTo(StatusDelivered))
		assert.Equal(t, StatusDelivered, o.Status)
	})

	t.Run("rejects illegal transitions", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), uuid.New())
		require.NoError(t, err)
		require.NoError(t, o.TransitionTo(StatusShipped))

		err = o.TransitionTo(StatusCancelled)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "from shipped to cancelled")
		assert.Equal(t, StatusShipped, o.Status)
	})

	t.Run("rejects unknown target", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), uuid.New())
		require.NoError(t, err)

		require.Error(t, o.TransitionTo(Status("archived")))
	})

	t.Run("terminal states allow nothing", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), uuid.New())
		require.NoError(t, err)
		require.NoError(t, o.TransitionTo(StatusCancelled))

		require.Error(t, o.TransitionTo(StatusPending))
		require.Error(t, o.TransitionTo(StatusShipped))
	})
}

func TestOrder_CanCancel(t *testing.T) {
	o, err := NewOrder(uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, o.CanCancel())

	require.NoError(t, o.TransitionTo(StatusShipped))
	assert.False(t, o.CanCancel())
}

func TestOrder_IsOwnedBy(t *testing.T) {
	userID := uuid.New()
	o, err := NewOrder(userID, uuid.New())
	require.NoError(t, err)

	assert.True(t, o.IsOwnedBy(userID))
	assert.False(t, o.IsOwnedBy(uuid.New()))
}
