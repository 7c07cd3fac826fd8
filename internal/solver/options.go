package solver

import (
	"math"

	"github.com/iwvelando/home-affordability/internal/config"
	"github.com/iwvelando/home-affordability/internal/metrics"
	"github.com/iwvelando/home-affordability/pkg/thresholds"
)

// downPaymentLadder is the fixed set of fractions enumerated by both grids.
var downPaymentLadder = []float64{0.03, 0.05, 0.10, 0.15, 0.20, 0.25, 0.30}

// DownPaymentOption is one row of a what-if grid: the full metric set at one
// (price, down-payment fraction) pair plus the tier placement of its ratios.
type DownPaymentOption struct {
	Fraction      float64 `json:"fraction"`
	HomePrice     float64 `json:"homePrice"`
	DownPayment   float64 `json:"downPayment"`
	LoanAmount    float64 `json:"loanAmount"`
	PITI          float64 `json:"piti"`
	FrontEndRatio float64 `json:"frontEndRatio"`
	BackEndRatio  float64 `json:"backEndRatio"`
	CashRequired  float64 `json:"cashRequired"`
	CashPass      bool    `json:"cashPass"`
	FrontEndTier  string  `json:"frontEndTier"`
	BackEndTier   string  `json:"backEndTier"`

	// Pass is true unless either ratio exceeds every tier or cash falls short.
	Pass bool `json:"pass"`
}

func optionAt(in config.Inputs, price, fraction float64) DownPaymentOption {
	trial := in
	trial.HomePrice = price
	trial.DownPaymentFraction = fraction
	m := metrics.Compute(trial)

	return DownPaymentOption{
		Fraction:      fraction,
		HomePrice:     price,
		DownPayment:   m.DownPayment,
		LoanAmount:    m.LoanAmount,
		PITI:          m.PITI,
		FrontEndRatio: m.FrontEndRatio,
		BackEndRatio:  m.BackEndRatio,
		CashRequired:  m.TotalCashRequired,
		CashPass:      m.CashPass,
		FrontEndTier:  m.FrontEndTier,
		BackEndTier:   m.BackEndTier,
		Pass:          m.FrontEndTier != thresholds.ExceedsAll && m.BackEndTier != thresholds.ExceedsAll && m.CashPass,
	}
}

// DownPaymentOptions enumerates the ladder of fractions against the snapshot's
// current home price.
func (s *Solver) DownPaymentOptions(in config.Inputs) []DownPaymentOption {
	options := make([]DownPaymentOption, 0, len(downPaymentLadder))
	for _, fraction := range downPaymentLadder {
		options = append(options, optionAt(in, in.HomePrice, fraction))
	}
	return options
}

// PriceOptionsForDownPayment holds the snapshot's down-payment dollar amount
// fixed and enumerates the prices at which that amount covers each ladder
// fraction. A lower fraction means the same cash stretches to a pricier home.
func (s *Solver) PriceOptionsForDownPayment(in config.Inputs) []DownPaymentOption {
	downPaymentAmount := in.HomePrice * in.DownPaymentFraction
	options := make([]DownPaymentOption, 0, len(downPaymentLadder))
	for _, fraction := range downPaymentLadder {
		if fraction <= 0 {
			continue
		}
		options = append(options, optionAt(in, downPaymentAmount/fraction, fraction))
	}
	return options
}

// ClosestOption returns the grid row whose fraction is nearest the given one.
// It is the natural highlight when presenting a grid next to a live snapshot.
func ClosestOption(options []DownPaymentOption, fraction float64) (DownPaymentOption, bool) {
	if len(options) == 0 {
		return DownPaymentOption{}, false
	}
	closest := options[0]
	for _, option := range options[1:] {
		if math.Abs(option.Fraction-fraction) < math.Abs(closest.Fraction-fraction) {
			closest = option
		}
	}
	return closest, true
}
