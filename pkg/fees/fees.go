// Package fees computes the payout fee split for group disbursements.
// Amounts are MWK as float64; fee components are rounded to the nearest
// minor unit (tambala, 0.01 MWK).
package fees

import (
	"errors"
	"math"
)

const (
	// SafetyFeeRate funds the payout protection pool.
	SafetyFeeRate = 0.01
	// GovernmentFeeRate covers the statutory levy. The former platform service
	// fee is currently folded into this 7%.
	GovernmentFeeRate = 0.07
	// TotalFeeRate is the combined payout-side rate, used to invert net→gross.
	TotalFeeRate = SafetyFeeRate + GovernmentFeeRate

	// ContributionFeeRate is the fee deducted from contributions before escrow
	// is credited. This is a separate schedule from the payout-side rates above
	// and intentionally not derived from them; reconciliation depends on it.
	ContributionFeeRate = 0.11
)

var ErrNegativeAmount = errors.New("fees: amount must not be negative")

// Breakdown is the fee split for one payout. TotalFees is always
// PayoutSafetyFee + GovernmentFee and NetAmount is always GrossAmount - TotalFees.
type Breakdown struct {
	GrossAmount     float64 `json:"gross_amount"`
	PayoutSafetyFee float64 `json:"payout_safety_fee"`
	ServiceFee      float64 `json:"service_fee"` // retained for display; currently always 0
	GovernmentFee   float64 `json:"government_fee"`
	TotalFees       float64 `json:"total_fees"`
	NetAmount       float64 `json:"net_amount"`
}

// roundMinor rounds to the nearest tambala (0.01 MWK).
func roundMinor(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculatePayoutFees splits gross into fees and net amount. Each fee component
// is rounded to the nearest minor unit independently; the net is derived by
// subtraction, so it inherits the rounding residual of the two fee terms rather
// than being rounded itself.
func CalculatePayoutFees(gross float64) (Breakdown, error) {
	if gross < 0 {
		return Breakdown{}, ErrNegativeAmount
	}
	safety := roundMinor(gross * SafetyFeeRate)
	government := roundMinor(gross * GovernmentFeeRate)
	total := safety + government
	return Breakdown{
		GrossAmount:     gross,
		PayoutSafetyFee: safety,
		ServiceFee:      0,
		GovernmentFee:   government,
		TotalFees:       total,
		NetAmount:       gross - total,
	}, nil
}

// CalculateGrossFromNet answers "what gross do I need for the recipient to get
// net". It inverts the combined rate and re-derives the full breakdown from the
// forward calculation. Because fee rounding is non-linear this is approximate:
// the breakdown's NetAmount can differ from the requested net by a few tambala.
func CalculateGrossFromNet(net float64) (Breakdown, error) {
	if net < 0 {
		return Breakdown{}, ErrNegativeAmount
	}
	gross := roundMinor(net / (1 - TotalFeeRate))
	return CalculatePayoutFees(gross)
}

// ContributionNet is the amount credited to escrow for a completed
// contribution, after the contribution-side fee.
func ContributionNet(amount float64) float64 {
	return amount - amount*ContributionFeeRate
}
