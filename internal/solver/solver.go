// Package solver inverts the affordability engine: given one designated
// target variable and the risk tier table, it finds the boundary value of
// that variable for every tier. Linear-in-payment targets are inverted in
// closed form; the rest are located by bounded search.
package solver

import (
	"fmt"
	"math"

	"github.com/iwvelando/home-affordability/internal/config"
	"github.com/iwvelando/home-affordability/internal/metrics"
	"github.com/iwvelando/home-affordability/pkg/constants"
	"github.com/iwvelando/home-affordability/pkg/mathutil"
	"github.com/iwvelando/home-affordability/pkg/thresholds"
	"go.uber.org/zap"
)

// Target designates the single variable being solved for. Everything else in
// the snapshot is treated as fixed input.
type Target int

const (
	TargetNone Target = iota
	TargetHomePrice
	TargetPayment
	TargetCashRemaining
	TargetDownPayment
)

// String returns the wire name of the target.
func (t Target) String() string {
	switch t {
	case TargetHomePrice:
		return "homePrice"
	case TargetPayment:
		return "payment"
	case TargetCashRemaining:
		return "cashRemaining"
	case TargetDownPayment:
		return "downPayment"
	}
	return "none"
}

// ParseTarget converts a wire name into a Target.
func ParseTarget(name string) (Target, error) {
	switch name {
	case "homePrice":
		return TargetHomePrice, nil
	case "payment":
		return TargetPayment, nil
	case "cashRemaining":
		return TargetCashRemaining, nil
	case "downPayment":
		return TargetDownPayment, nil
	case "", "none":
		return TargetNone, nil
	}
	return TargetNone, fmt.Errorf("unknown solve target %q", name)
}

// ScenarioResult is the solved boundary for one tier. A numeric Value is not
// implicitly valid; callers must consult the pass flags. Achievable is false
// when no feasible value exists within the solver's bounds, in which case
// Value is meaningless.
type ScenarioResult struct {
	Tier          string  `json:"tier"`
	Value         float64 `json:"value"`
	Price         float64 `json:"price"`
	FrontEndRatio float64 `json:"frontEndRatio"`
	BackEndRatio  float64 `json:"backEndRatio"`
	CashRequired  float64 `json:"cashRequired"`
	FrontEndPass  bool    `json:"frontEndPass"`
	BackEndPass   bool    `json:"backEndPass"`
	CashPass      bool    `json:"cashPass"`
	Pass          bool    `json:"pass"`
	Achievable    bool    `json:"achievable"`
	Iterations    int     `json:"iterations"`
}

// Solver computes per-tier scenario boundaries. A Solver is immutable after
// construction and safe for concurrent use.
type Solver struct {
	logger *zap.Logger

	// cashTarget, when positive, replaces the per-tier cash buffer targets.
	cashTarget float64
}

// New constructs a Solver. A nil logger is replaced with a no-op logger.
func New(logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{logger: logger}
}

// NewWithCashTarget constructs a Solver whose cash-remaining solves aim for
// one explicit buffer amount instead of the built-in tier targets.
func NewWithCashTarget(logger *zap.Logger, target float64) *Solver {
	s := New(logger)
	s.cashTarget = target
	return s
}

// ratioEpsilon absorbs float noise when a solved value lands exactly on a cap.
const ratioEpsilon = 1e-9

// tierCashTargets are the default cash buffers tried per tier when solving
// for cash remaining without an explicit target amount.
var tierCashTargets = map[string]float64{
	thresholds.Conservative: 25000,
	thresholds.Moderate:     50000,
	thresholds.Aggressive:   100000,
}

// SolveScenarios produces one result per tier for the designated target.
// The snapshot is never mutated; every candidate is evaluated on a copy.
func (s *Solver) SolveScenarios(in config.Inputs, target Target, table []thresholds.Tier) ([]ScenarioResult, error) {
	results := make([]ScenarioResult, 0, len(table))
	for _, tier := range table {
		var (
			result ScenarioResult
			err    error
		)
		switch target {
		case TargetHomePrice:
			result = s.solveMaxPrice(in, tier)
		case TargetPayment:
			result = s.solveMaxPayment(in, tier)
		case TargetCashRemaining:
			result = s.solveCashRemaining(in, tier)
		case TargetDownPayment:
			result, err = s.solveMinDownPayment(in, tier)
		default:
			return nil, fmt.Errorf("no target variable designated")
		}
		if err != nil {
			return nil, err
		}
		s.logger.Debug("solved scenario",
			zap.String("op", "solver.SolveScenarios"),
			zap.String("target", target.String()),
			zap.String("tier", tier.Name),
			zap.Float64("value", result.Value),
			zap.Bool("achievable", result.Achievable),
			zap.Int("iterations", result.Iterations),
		)
		results = append(results, result)
	}
	return results, nil
}

// maxAffordablePITI is the tier's payment ceiling: the lesser of the
// front-end cap and the back-end cap net of existing debt.
func maxAffordablePITI(in config.Inputs, tier thresholds.Tier) float64 {
	gmi := in.GrossMonthlyIncome()
	return mathutil.Min(gmi*tier.FrontEnd, gmi*tier.BackEnd-in.MonthlyDebtTotal())
}

// solveMaxPrice inverts the payment formula in closed form. Tax, insurance,
// and PMI all scale linearly with price or loan, so they fold into a single
// combined factor alongside the amortization payment factor.
func (s *Solver) solveMaxPrice(in config.Inputs, tier thresholds.Tier) ScenarioResult {
	result := ScenarioResult{Tier: tier.Name}

	// Upkeep is a flat addend inside PITI, so it comes off the ceiling
	// before inverting the price-proportional remainder.
	maxPITI := maxAffordablePITI(in, tier) - in.UpkeepMonthly
	financed := 1 - in.DownPaymentFraction
	if maxPITI <= 0 || financed <= 0 {
		return s.evaluatePrice(in, tier, 0, result)
	}

	termMonths := in.TermYears * constants.MonthsPerYear
	var paymentFactor float64
	switch {
	case termMonths == 0:
		paymentFactor = 0
	case in.InterestRate == 0:
		paymentFactor = 1 / float64(termMonths)
	default:
		r := in.InterestRate / constants.MonthsPerYear
		power := math.Pow(1+r, float64(termMonths))
		paymentFactor = r * power / (power - 1)
	}

	taxInsRate := (in.PropertyTaxRate + in.InsuranceRate) / constants.MonthsPerYear
	pmiRate := 0.0
	if in.DownPaymentFraction < constants.PMICutoffFraction {
		pmiRate = in.PMIRate / constants.MonthsPerYear
	}

	combinedFactor := paymentFactor + taxInsRate/financed + pmiRate*financed
	if combinedFactor <= 0 {
		return s.evaluatePrice(in, tier, 0, result)
	}

	maxLoan := maxPITI / combinedFactor
	maxPrice := maxLoan / financed
	result.Achievable = true
	return s.evaluatePrice(in, tier, maxPrice, result)
}

// evaluatePrice fills a result by recomputing full metrics at the candidate
// price and testing the tier's caps plus cash sufficiency.
func (s *Solver) evaluatePrice(in config.Inputs, tier thresholds.Tier, price float64, result ScenarioResult) ScenarioResult {
	trial := in
	trial.HomePrice = price
	m := metrics.Compute(trial)

	result.Value = price
	result.Price = price
	result.FrontEndRatio = m.FrontEndRatio
	result.BackEndRatio = m.BackEndRatio
	result.CashRequired = m.TotalCashRequired
	result.FrontEndPass = m.FrontEndRatio <= tier.FrontEnd+ratioEpsilon
	result.BackEndPass = m.BackEndRatio <= tier.BackEnd+ratioEpsilon
	result.CashPass = m.CashPass
	result.Pass = result.FrontEndPass && result.BackEndPass && result.CashPass
	return result
}

// solveMaxPayment is fully closed form; no price is involved.
func (s *Solver) solveMaxPayment(in config.Inputs, tier thresholds.Tier) ScenarioResult {
	result := ScenarioResult{Tier: tier.Name}
	gmi := in.GrossMonthlyIncome()
	debt := in.MonthlyDebtTotal()
	maxPayment := maxAffordablePITI(in, tier)
	if maxPayment <= 0 {
		return result
	}

	result.Value = maxPayment
	result.Price = in.HomePrice
	result.Achievable = true
	if gmi > 0 {
		result.FrontEndRatio = maxPayment / gmi
		result.BackEndRatio = (maxPayment + debt) / gmi
	}

	// Cash is tested against the current purchase terms with the candidate
	// payment driving the reserve requirement.
	result.CashRequired = in.HomePrice*in.DownPaymentFraction +
		in.HomePrice*in.ClosingCostFraction +
		maxPayment*float64(in.ReserveMonths) +
		in.RenovationBudget
	result.FrontEndPass = result.FrontEndRatio <= tier.FrontEnd+ratioEpsilon
	result.BackEndPass = result.BackEndRatio <= tier.BackEnd+ratioEpsilon
	result.CashPass = result.CashRequired <= in.CashAvailable
	result.Pass = result.FrontEndPass && result.BackEndPass && result.CashPass
	return result
}

// solveCashRemaining walks the price by fixed steps until cash remaining is
// within tolerance of the tier's buffer target. The step search is crude but
// only needs to locate an approximate boundary for display.
func (s *Solver) solveCashRemaining(in config.Inputs, tier thresholds.Tier) ScenarioResult {
	result := ScenarioResult{Tier: tier.Name}
	targetCash := tierCashTargets[tier.Name]
	if s.cashTarget > 0 {
		targetCash = s.cashTarget
	}

	price := in.HomePrice
	iterations := 0
	for iterations < constants.CashSearchMaxIterations {
		trial := in
		trial.HomePrice = price
		m := metrics.Compute(trial)

		if math.Abs(m.CashRemaining-targetCash) < constants.CashSearchTolerance {
			break
		}
		if m.CashRemaining > targetCash {
			price += constants.CashSearchStepUp
		} else {
			price -= constants.CashSearchStepDown
		}
		iterations++
	}
	price = mathutil.Max(price, constants.MinimumSearchPrice)

	trial := in
	trial.HomePrice = price
	m := metrics.Compute(trial)

	result.Value = m.CashRemaining
	result.Price = price
	result.Iterations = iterations
	result.Achievable = mathutil.WithinTolerance(m.CashRemaining, targetCash, constants.CashSearchTolerance)
	result.FrontEndRatio = m.FrontEndRatio
	result.BackEndRatio = m.BackEndRatio
	result.CashRequired = m.TotalCashRequired
	result.FrontEndPass = m.FrontEndRatio <= tier.FrontEnd+ratioEpsilon
	result.BackEndPass = m.BackEndRatio <= tier.BackEnd+ratioEpsilon
	result.CashPass = m.CashPass
	result.Pass = result.FrontEndPass && result.BackEndPass && result.CashPass
	return result
}

// ratiosAt recomputes the DTI ratios at a candidate down-payment fraction.
func ratiosAt(in config.Inputs, fraction float64) (float64, float64) {
	trial := in
	trial.DownPaymentFraction = fraction
	m := metrics.Compute(trial)
	return m.FrontEndRatio, m.BackEndRatio
}

// assertRatioMonotonicity samples the bracket and verifies both ratios are
// non-increasing in the down-payment fraction. The bisection below depends on
// this; a violation is a logic defect, not an unachievable scenario.
func assertRatioMonotonicity(in config.Inputs) error {
	samples := []float64{0, 0.2375, 0.475, 0.7125, constants.DownPaymentUpperBound}
	prevFront, prevBack := ratiosAt(in, samples[0])
	for _, fraction := range samples[1:] {
		front, back := ratiosAt(in, fraction)
		if front > prevFront+1e-9 || back > prevBack+1e-9 {
			return fmt.Errorf("debt ratios are not monotone in down-payment fraction at %.4f", fraction)
		}
		prevFront, prevBack = front, back
	}
	return nil
}

// solveMinDownPayment bisects toward the lowest fraction that satisfies both
// DTI caps at the current price. Higher down payment strictly lowers the
// loan, P&I, and PMI, so feasibility is monotone across the bracket.
func (s *Solver) solveMinDownPayment(in config.Inputs, tier thresholds.Tier) (ScenarioResult, error) {
	result := ScenarioResult{Tier: tier.Name, Price: in.HomePrice}

	if err := assertRatioMonotonicity(in); err != nil {
		return result, err
	}

	feasible := func(fraction float64) bool {
		front, back := ratiosAt(in, fraction)
		return front <= tier.FrontEnd && back <= tier.BackEnd
	}

	if !feasible(constants.DownPaymentUpperBound) {
		s.logger.Debug("no feasible down payment within bracket",
			zap.String("op", "solver.solveMinDownPayment"),
			zap.String("tier", tier.Name),
		)
		return result, nil
	}

	lo, hi := 0.0, constants.DownPaymentUpperBound
	iterations := 0
	if feasible(lo) {
		hi = lo
	} else {
		for hi-lo > constants.DownPaymentTolerance && iterations < constants.DownPaymentMaxIterations {
			mid := lo + (hi-lo)/2
			if feasible(mid) {
				hi = mid
			} else {
				lo = mid
			}
			iterations++
		}
	}

	trial := in
	trial.DownPaymentFraction = hi
	m := metrics.Compute(trial)

	result.Value = hi
	result.Iterations = iterations
	result.Achievable = true
	result.FrontEndRatio = m.FrontEndRatio
	result.BackEndRatio = m.BackEndRatio
	result.CashRequired = m.TotalCashRequired
	result.FrontEndPass = m.FrontEndRatio <= tier.FrontEnd+ratioEpsilon
	result.BackEndPass = m.BackEndRatio <= tier.BackEnd+ratioEpsilon
	result.CashPass = m.CashPass
	result.Pass = result.FrontEndPass && result.BackEndPass && result.CashPass
	return result, nil
}

// SolveMaxPriceForCash bisects price until total cash to close fits within
// the given budget. Deterministic alternative to the fixed-step search, used
// when a hard cash budget rather than a buffer target drives the answer.
func (s *Solver) SolveMaxPriceForCash(in config.Inputs, budget float64) (float64, int) {
	lo := constants.MinimumSearchPrice
	hi := constants.MaximumSearchPrice
	best := 0.0
	iterations := 0

	for iterations < constants.PriceBisectionMaxIterations {
		mid := (lo + hi) / 2
		trial := in
		trial.HomePrice = mid
		m := metrics.Compute(trial)

		if m.TotalCashRequired <= budget {
			best = mid
			lo = mid
		} else {
			hi = mid
		}
		iterations++
		if hi-lo < constants.PriceBracketTolerance {
			break
		}
	}

	s.logger.Debug("price bisection finished",
		zap.String("op", "solver.SolveMaxPriceForCash"),
		zap.Float64("budget", budget),
		zap.Float64("price", best),
		zap.Int("iterations", iterations),
	)
	return best, iterations
}
