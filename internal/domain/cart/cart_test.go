package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
)

func TestNewCart(t *testing.T) {
	t.Run("creates empty cart for user", func(t *testing.T) {
		userID := uuid.New()
		c, err := NewCart(userID)
		require.NoError(t, err)

		assert.Equal(t, userID, c.UserID)
		assert.True(t, c.IsEmpty())
		assert.Equal(t, 0, c.ItemCount())
	})

	t.Run("fails with nil user", func(t *testing.T) {
		_, err := NewCart(uuid.Nil)
		require.Error(t, err)
	})
}

func TestCart_AddItem(t *testing.T) {
	t.Run("adds a new line item", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)

		productID := uuid.New()
		item, err := c.AddItem(productID, 2)
		require.NoError(t, err)

		assert.Equal(t, productID, item.ProductID)
		assert.Equal(t, int64(2), item.Quantity)
		assert.Equal(t, c.ID, item.CartID)
		assert.Equal(t, 1, c.ItemCount())
	})

	t.Run("merges quantity for the same product", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)

		productID := uuid.New()
		_, err = c.AddItem(productID, 2)
		require.NoError(t, err)
		item, err := c.AddItem(productID, 3)
		require.NoError(t, err)

		assert.Equal(t, int64(5), item.Quantity)
		assert.Equal(t, 1, c.ItemCount())
	})

	t.Run("keeps distinct products on separate lines", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)

		_, err = c.AddItem(uuid.New(), 1)
		require.NoError(t, err)
		_, err = c.AddItem(uuid.New(), 1)
		require.NoError(t, err)

		assert.Equal(t, 2, c.ItemCount())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)

		_, err = c.AddItem(uuid.New(), 0)
		require.Error(t, err)
		_, err = c.AddItem(uuid.New(), -1)
		require.Error(t, err)
	})

	t.Run("rejects nil product", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)

		_, err = c.AddItem(uuid.Nil, 1)
		require.Error(t, err)
	})
}

func TestCart_VersionBumpsOnEveryMutation(t *testing.T) {
	c, err := NewCart(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Version)

	item, err := c.AddItem(uuid.New(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Version)

	require.NoError(t, c.UpdateItemQuantity(item.ID, 5))
	assert.Equal(t, 3, c.Version)

	require.NoError(t, c.RemoveItem(item.ID))
	assert.Equal(t, 4, c.Version)

	c.Clear()
	assert.Equal(t, 5, c.Version)
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	t.Run("replaces the stored quantity", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)
		item, err := c.AddItem(uuid.New(), 2)
		require.NoError(t, err)

		require.NoError(t, c.UpdateItemQuantity(item.ID, 7))
		assert.Equal(t, int64(7), c.GetItem(item.ID).Quantity)
	})

	t.Run("fails for unknown item", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)

		err = c.UpdateItemQuantity(uuid.New(), 3)
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)
		item, err := c.AddItem(uuid.New(), 2)
		require.NoError(t, err)

		require.Error(t, c.UpdateItemQuantity(item.ID, 0))
	})
}

func TestCart_RemoveItem(t *testing.T) {
	t.Run("removes an existing line", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)
		item, err := c.AddItem(uuid.New(), 2)
		require.NoError(t, err)

		require.NoError(t, c.RemoveItem(item.ID))
		assert.True(t, c.IsEmpty())
		assert.Nil(t, c.GetItem(item.ID))
	})

	t.Run("removing an absent item is not found", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)

		err = c.RemoveItem(uuid.New())
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestCart_Clear(t *testing.T) {
	c, err := NewCart(uuid.New())
	require.NoError(t, err)
	_, err = c.AddItem(uuid.New(), 1)
	require.NoError(t, err)
	_, err = c.AddItem(uuid.New(), 2)
	require.NoError(t, err)

	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestCart_GetItemByProduct(t *testing.T) {
	c, err := NewCart(uuid.New())
	require.NoError(t, err)
	productID := uuid.New()
	_, err = c.AddItem(productID, 2)
	require.NoError(t, err)

	found := c.GetItemByProduct(productID)
	require.NotNil(t, found)
	assert.Equal(t, productID, found.ProductID)

	assert.Nil(t, c.GetItemByProduct(uuid.New()))
}
