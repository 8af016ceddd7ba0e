package fees

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePayoutFeesRoundAmount(t *testing.T) {
	b, err := CalculatePayoutFees(100000)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, b.GrossAmount)
	assert.Equal(t, 1000.0, b.PayoutSafetyFee)
	assert.Equal(t, 0.0, b.ServiceFee)
	assert.Equal(t, 7000.0, b.GovernmentFee)
	assert.Equal(t, 8000.0, b.TotalFees)
	assert.Equal(t, 92000.0, b.NetAmount)
}

func TestCalculatePayoutFeesZero(t *testing.T) {
	b, err := CalculatePayoutFees(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.TotalFees)
	assert.Equal(t, 0.0, b.NetAmount)
}

func TestCalculatePayoutFeesFractional(t *testing.T) {
	b, err := CalculatePayoutFees(100.555)
	require.NoError(t, err)
	// 1.01 + 7.04 in fees, net carries the rounding residual
	assert.InDelta(t, 92.51, b.NetAmount, 0.01)
}

func TestCalculatePayoutFeesNegative(t *testing.T) {
	_, err := CalculatePayoutFees(-1)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = CalculateGrossFromNet(-0.01)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestCalculatePayoutFeesBreakdownConsistency(t *testing.T) {
	grosses := []float64{0, 1, 99, 100.555, 12345.67, 100000, 999999.99, 0.01, 50}
	for _, g := range grosses {
		b, err := CalculatePayoutFees(g)
		require.NoError(t, err)
		assert.Equal(t, b.PayoutSafetyFee+b.GovernmentFee, b.TotalFees, "gross=%v", g)
		assert.Equal(t, g-b.TotalFees, b.NetAmount, "gross=%v", g)
	}
}

func TestCalculateGrossFromNet(t *testing.T) {
	b, err := CalculateGrossFromNet(92000)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, b.GrossAmount)
	assert.Equal(t, 92000.0, b.NetAmount)
}

func TestCalculateGrossFromNetApproximation(t *testing.T) {
	// The inversion is not exact for arbitrary nets; the recovered net must
	// stay within one kwacha of the requested net.
	nets := []float64{1, 92.51, 1000, 45678.9, 92000, 123456.78}
	for _, n := range nets {
		b, err := CalculateGrossFromNet(n)
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(b.NetAmount-n), 1.0, "net=%v", n)
	}
}

func TestContributionNet(t *testing.T) {
	assert.InDelta(t, 89000.0, ContributionNet(100000), 1e-9)
	assert.Equal(t, 0.0, ContributionNet(0))
}
