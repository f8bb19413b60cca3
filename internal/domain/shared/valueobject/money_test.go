package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Arithmetic(t *testing.T) {
	price := NewMoney(decimal.NewFromFloat(12.50))

	line := price.MulInt(3)
	assert.True(t, line.Equals(NewMoney(decimal.NewFromFloat(37.50))))

	total := Zero().Add(line).Add(price)
	assert.Equal(t, "50.00", total.String())
	assert.False(t, total.IsZero())
	assert.False(t, total.IsNegative())
}

func TestMoney_Comparison(t *testing.T) {
	base := NewMoney(decimal.NewFromInt(100))
	discounted := NewMoney(decimal.NewFromInt(80))

	assert.True(t, base.GreaterThan(discounted))
	assert.False(t, discounted.GreaterThan(base))
	assert.True(t, base.Equals(NewMoney(decimal.NewFromInt(100))))
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("19.99")
	require.NoError(t, err)
	assert.Equal(t, "19.99", m.String())

	_, err = NewMoneyFromString("not-a-number")
	assert.Error(t, err)
}
