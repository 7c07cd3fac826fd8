package solver

import (
	"testing"

	"github.com/iwvelando/home-affordability/internal/config"
	"github.com/iwvelando/home-affordability/internal/metrics"
	"github.com/iwvelando/home-affordability/pkg/mathutil"
	"github.com/iwvelando/home-affordability/pkg/thresholds"
)

func solverInputs() config.Inputs {
	in := config.DefaultInputs()
	in.CashAvailable = 400000
	return in
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  Target
		expectErr bool
	}{
		{"Home price", "homePrice", TargetHomePrice, false},
		{"Payment", "payment", TargetPayment, false},
		{"Cash remaining", "cashRemaining", TargetCashRemaining, false},
		{"Down payment", "downPayment", TargetDownPayment, false},
		{"Empty", "", TargetNone, false},
		{"None", "none", TargetNone, false},
		{"Unknown", "equity", TargetNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ParseTarget(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("ParseTarget(%q) expected error, got %s", tt.input, target)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTarget(%q) unexpected error: %v", tt.input, err)
			}
			if target != tt.expected {
				t.Errorf("ParseTarget(%q) = %s, expected %s", tt.input, target, tt.expected)
			}
			if back, _ := ParseTarget(target.String()); back != target {
				t.Errorf("String/ParseTarget round trip lost %s", target)
			}
		})
	}
}

func TestSolveMaxPriceRoundTrip(t *testing.T) {
	s := New(nil)
	in := solverInputs()

	results, err := s.SolveScenarios(in, TargetHomePrice, thresholds.Tiers())
	if err != nil {
		t.Fatalf("SolveScenarios returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for _, result := range results {
		if !result.Achievable {
			t.Errorf("tier %s: expected achievable with healthy income", result.Tier)
			continue
		}
		tier, _ := thresholds.Lookup(result.Tier)

		// Recomputing metrics at the solved price must land on the binding
		// cap, never above it.
		trial := in
		trial.HomePrice = result.Value
		m := metrics.Compute(trial)
		if m.FrontEndRatio > tier.FrontEnd+1e-6 {
			t.Errorf("tier %s: front-end ratio %.6f exceeds cap %.2f at solved price", result.Tier, m.FrontEndRatio, tier.FrontEnd)
		}
		if m.BackEndRatio > tier.BackEnd+1e-6 {
			t.Errorf("tier %s: back-end ratio %.6f exceeds cap %.2f at solved price", result.Tier, m.BackEndRatio, tier.BackEnd)
		}
		atFront := mathutil.WithinTolerance(m.FrontEndRatio, tier.FrontEnd, 1e-6)
		atBack := mathutil.WithinTolerance(m.BackEndRatio, tier.BackEnd, 1e-6)
		if !atFront && !atBack {
			t.Errorf("tier %s: neither cap binds at solved price (front %.6f, back %.6f)", result.Tier, m.FrontEndRatio, m.BackEndRatio)
		}
		if !result.FrontEndPass || !result.BackEndPass {
			t.Errorf("tier %s: solved boundary reported failing its own caps", result.Tier)
		}
	}
}

func TestSolveMaxPriceTierOrdering(t *testing.T) {
	s := New(nil)
	in := solverInputs()
	in.OtherDebt = 0

	results, err := s.SolveScenarios(in, TargetHomePrice, thresholds.Tiers())
	if err != nil {
		t.Fatalf("SolveScenarios returned error: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Value <= results[i-1].Value {
			t.Errorf("max price for %s (%.2f) should exceed %s (%.2f)",
				results[i].Tier, results[i].Value, results[i-1].Tier, results[i-1].Value)
		}
	}
}

func TestSolveMaxPriceNoIncome(t *testing.T) {
	s := New(nil)
	in := solverInputs()
	in.PrimaryIncome = 0
	in.PartnerIncome = 0

	results, err := s.SolveScenarios(in, TargetHomePrice, thresholds.Tiers())
	if err != nil {
		t.Fatalf("SolveScenarios returned error: %v", err)
	}
	for _, result := range results {
		if result.Achievable {
			t.Errorf("tier %s: achievable with zero income", result.Tier)
		}
		if result.Value != 0 {
			t.Errorf("tier %s: value = %.2f, expected 0 when unachievable", result.Tier, result.Value)
		}
	}
}

func TestSolveMaxPayment(t *testing.T) {
	s := New(nil)
	in := solverInputs()

	results, err := s.SolveScenarios(in, TargetPayment, thresholds.Tiers())
	if err != nil {
		t.Fatalf("SolveScenarios returned error: %v", err)
	}

	gmi := in.GrossMonthlyIncome()
	debt := in.MonthlyDebtTotal()
	for _, result := range results {
		tier, _ := thresholds.Lookup(result.Tier)
		expected := mathutil.Min(gmi*tier.FrontEnd, gmi*tier.BackEnd-debt)
		if !mathutil.WithinTolerance(result.Value, expected, 0.01) {
			t.Errorf("tier %s: max payment = %.2f, expected %.2f", result.Tier, result.Value, expected)
		}
		if !result.FrontEndPass || !result.BackEndPass {
			t.Errorf("tier %s: closed-form payment boundary must satisfy its own caps", result.Tier)
		}
	}
}

func TestSolveCashRemainingConverges(t *testing.T) {
	s := New(nil)
	in := solverInputs()
	// Starts the search close enough that the moderate and aggressive
	// targets are reachable within the iteration cap.
	in.CashAvailable = 290000

	results, err := s.SolveScenarios(in, TargetCashRemaining, thresholds.Tiers())
	if err != nil {
		t.Fatalf("SolveScenarios returned error: %v", err)
	}

	targets := map[string]float64{
		thresholds.Moderate:   50000,
		thresholds.Aggressive: 100000,
	}
	for _, result := range results {
		target, checked := targets[result.Tier]
		if !checked {
			continue
		}
		if !result.Achievable {
			t.Errorf("tier %s: cash search did not converge in %d iterations", result.Tier, result.Iterations)
			continue
		}
		if !mathutil.WithinTolerance(result.Value, target, 1000) {
			t.Errorf("tier %s: cash remaining %.2f not within tolerance of target %.2f", result.Tier, result.Value, target)
		}

		// The reported price must actually produce the reported cash figure.
		trial := in
		trial.HomePrice = result.Price
		m := metrics.Compute(trial)
		if !mathutil.WithinTolerance(m.CashRemaining, result.Value, 0.01) {
			t.Errorf("tier %s: price %.2f yields cash %.2f, result claims %.2f", result.Tier, result.Price, m.CashRemaining, result.Value)
		}
	}
}

func TestSolveCashRemainingExplicitTarget(t *testing.T) {
	s := NewWithCashTarget(nil, 75000)
	in := solverInputs()
	in.CashAvailable = 300000

	results, err := s.SolveScenarios(in, TargetCashRemaining, thresholds.Tiers())
	if err != nil {
		t.Fatalf("SolveScenarios returned error: %v", err)
	}
	for _, result := range results {
		if !result.Achievable {
			t.Errorf("tier %s: expected convergence on the explicit target, iterations %d", result.Tier, result.Iterations)
			continue
		}
		if !mathutil.WithinTolerance(result.Value, 75000, 1000) {
			t.Errorf("tier %s: cash remaining %.2f, expected the explicit 75000 target for every tier", result.Tier, result.Value)
		}
	}
}

func TestSolveCashRemainingBudgetExhausted(t *testing.T) {
	s := New(nil)
	in := solverInputs()
	// Far more cash than the search can walk off in twenty coarse steps.
	in.CashAvailable = 1000000

	results, err := s.SolveScenarios(in, TargetCashRemaining, thresholds.Tiers())
	if err != nil {
		t.Fatalf("SolveScenarios returned error: %v", err)
	}
	for _, result := range results {
		if result.Achievable {
			t.Errorf("tier %s: search cannot reach the target from here, achievable must be false", result.Tier)
		}
	}
}

func TestSolveCashRemainingPriceFloor(t *testing.T) {
	s := New(nil)
	in := solverInputs()
	in.HomePrice = 120000
	in.CashAvailable = 0

	results, err := s.SolveScenarios(in, TargetCashRemaining, thresholds.Tiers())
	if err != nil {
		t.Fatalf("SolveScenarios returned error: %v", err)
	}
	for _, result := range results {
		if result.Price < 100000 {
			t.Errorf("tier %s: price %.2f fell below the search floor", result.Tier, result.Price)
		}
	}
}

func TestSolveMinDownPayment(t *testing.T) {
	s := New(nil)
	in := solverInputs()

	results, err := s.SolveScenarios(in, TargetDownPayment, thresholds.Tiers())
	if err != nil {
		t.Fatalf("SolveScenarios returned error: %v", err)
	}

	for _, result := range results {
		if !result.Achievable {
			t.Errorf("tier %s: expected a feasible fraction at this price", result.Tier)
			continue
		}
		tier, _ := thresholds.Lookup(result.Tier)

		trial := in
		trial.DownPaymentFraction = result.Value
		m := metrics.Compute(trial)
		if m.FrontEndRatio > tier.FrontEnd+1e-6 || m.BackEndRatio > tier.BackEnd+1e-6 {
			t.Errorf("tier %s: solved fraction %.4f violates the caps", result.Tier, result.Value)
		}

		// Stepping meaningfully below the solution must break a cap, unless
		// zero down was already feasible.
		if result.Value > 0.02 {
			trial.DownPaymentFraction = result.Value - 0.02
			below := metrics.Compute(trial)
			if below.FrontEndRatio <= tier.FrontEnd && below.BackEndRatio <= tier.BackEnd {
				t.Errorf("tier %s: fraction %.4f below solution still satisfies the caps", result.Tier, result.Value-0.02)
			}
		}
	}

	// Looser tiers admit lower minimums.
	for i := 1; i < len(results); i++ {
		if results[i].Value > results[i-1].Value+1e-6 {
			t.Errorf("min down payment for %s (%.4f) should not exceed %s (%.4f)",
				results[i].Tier, results[i].Value, results[i-1].Tier, results[i-1].Value)
		}
	}
}

func TestSolveMinDownPaymentZeroFeasible(t *testing.T) {
	s := New(nil)
	in := solverInputs()
	in.HomePrice = 200000

	results, err := s.SolveScenarios(in, TargetDownPayment, thresholds.Tiers())
	if err != nil {
		t.Fatalf("SolveScenarios returned error: %v", err)
	}
	for _, result := range results {
		if !result.Achievable || result.Value != 0 {
			t.Errorf("tier %s: cheap home should admit zero down, got %.4f (achievable=%v)", result.Tier, result.Value, result.Achievable)
		}
	}
}

func TestSolveMinDownPaymentInfeasible(t *testing.T) {
	s := New(nil)
	in := solverInputs()
	in.PrimaryIncome = 60000
	in.PartnerIncome = 0
	in.HomePrice = 2000000

	results, err := s.SolveScenarios(in, TargetDownPayment, thresholds.Tiers())
	if err != nil {
		t.Fatalf("SolveScenarios returned error: %v", err)
	}
	for _, result := range results {
		if result.Achievable {
			t.Errorf("tier %s: no fraction in the bracket can satisfy the caps here", result.Tier)
		}
	}
}

func TestSolveMinDownPaymentMonotonicityViolation(t *testing.T) {
	s := New(nil)
	in := solverInputs()
	// A strongly negative PMI rate makes the payment grow with the fraction,
	// breaking the assumption the bisection depends on.
	in.PMIRate = -0.10

	if _, err := s.SolveScenarios(in, TargetDownPayment, thresholds.Tiers()); err == nil {
		t.Fatal("expected a monotonicity error, got nil")
	}
}

func TestSolveScenariosNoTarget(t *testing.T) {
	s := New(nil)
	if _, err := s.SolveScenarios(solverInputs(), TargetNone, thresholds.Tiers()); err == nil {
		t.Fatal("expected an error with no target designated")
	}
}

func TestSolveMaxPriceForCash(t *testing.T) {
	s := New(nil)
	in := solverInputs()
	budget := 300000.0

	price, iterations := s.SolveMaxPriceForCash(in, budget)
	if iterations == 0 {
		t.Fatal("bisection reported zero iterations")
	}
	if price < 100000 || price > 2000000 {
		t.Fatalf("price %.2f escaped the search bracket", price)
	}

	trial := in
	trial.HomePrice = price
	m := metrics.Compute(trial)
	if m.TotalCashRequired > budget {
		t.Errorf("cash required %.2f exceeds the %.2f budget at solved price", m.TotalCashRequired, budget)
	}

	// Stepping past the bracket tolerance must bust the budget.
	trial.HomePrice = price + 2000
	above := metrics.Compute(trial)
	if above.TotalCashRequired <= budget {
		t.Errorf("price %.2f above the solution still fits the budget", trial.HomePrice)
	}
}
