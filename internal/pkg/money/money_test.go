package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditline/internal/pkg/money"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"916.666666", "916.67"},
		{"916.664", "916.66"},
		{"916.665", "916.67"}, // half rounds up
		{"100", "100"},
		{"0.005", "0.01"},
		{"-1.005", "-1.01"},
	}

	for _, tc := range cases {
		got := money.Round2(decimal.RequireFromString(tc.in))
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "Round2(%s) = %s, want %s", tc.in, got, tc.want)
	}
}

func TestFromString(t *testing.T) {
	d, err := money.FromString("1234.56")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(d))

	d, err = money.FromString("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = money.FromString("not-a-number")
	require.Error(t, err)
}

func TestIsPositive(t *testing.T) {
	assert.True(t, money.IsPositive(decimal.NewFromInt(1)))
	assert.False(t, money.IsPositive(decimal.Zero))
	assert.False(t, money.IsPositive(decimal.NewFromInt(-1)))
}

func TestSum(t *testing.T) {
	total := money.Sum(
		decimal.RequireFromString("916.67"),
		decimal.RequireFromString("916.67"),
		decimal.RequireFromString("916.66"),
	)
	assert.True(t, decimal.RequireFromString("2750").Equal(total))

	assert.True(t, money.Sum().IsZero())
}
