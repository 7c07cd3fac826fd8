// Package metrics implements the forward affordability engine: a pure
// function from a household financial snapshot to every derived figure the
// rest of the application consumes.
package metrics

import (
	"math"

	"github.com/iwvelando/home-affordability/internal/config"
	"github.com/iwvelando/home-affordability/pkg/constants"
	"github.com/iwvelando/home-affordability/pkg/thresholds"
)

// Metrics holds every quantity derived from one Inputs snapshot. All fields
// are recomputed together on every call; none is optional.
type Metrics struct {
	GrossMonthlyIncome float64 `json:"grossMonthlyIncome"`
	MonthlyDebt        float64 `json:"monthlyDebt"`

	LoanAmount           float64 `json:"loanAmount"`
	PrincipalAndInterest float64 `json:"principalAndInterest"`
	MonthlyTax           float64 `json:"monthlyTax"`
	MonthlyInsurance     float64 `json:"monthlyInsurance"`
	MonthlyPMI           float64 `json:"monthlyPMI"`
	MonthlyUpkeep        float64 `json:"monthlyUpkeep"`
	PITI                 float64 `json:"piti"`

	FrontEndRatio float64 `json:"frontEndRatio"`
	BackEndRatio  float64 `json:"backEndRatio"`

	DownPayment       float64 `json:"downPayment"`
	ClosingCosts      float64 `json:"closingCosts"`
	Reserves          float64 `json:"reserves"`
	RenovationBudget  float64 `json:"renovationBudget"`
	TotalCashRequired float64 `json:"totalCashRequired"`
	CashRemaining     float64 `json:"cashRemaining"`
	CashPass          bool    `json:"cashPass"`

	NetWorth                 float64 `json:"netWorth"`
	HomeEquity               float64 `json:"homeEquity"`
	EquityFractionOfNetWorth float64 `json:"equityFractionOfNetWorth"`

	LayoffSurvivalMonths float64 `json:"layoffSurvivalMonths"`
	LayoffPass           bool    `json:"layoffPass"`

	FrontEndTier string `json:"frontEndTier"`
	BackEndTier  string `json:"backEndTier"`
	NetWorthTier string `json:"netWorthTier"`
}

// MonthlyPayment calculates the monthly payment for a loan using the standard
// amortization formula. A zero interest rate amortizes straight-line; a zero
// term yields a zero payment.
func MonthlyPayment(loan, annualInterestRate float64, termMonths int) float64 {
	if termMonths == 0 {
		return 0
	}
	if annualInterestRate == 0 {
		return loan / float64(termMonths)
	}

	periodicRate := annualInterestRate / constants.MonthsPerYear
	power := math.Pow(1.00+periodicRate, float64(termMonths))
	return loan * periodicRate * power / (power - 1.00)
}

// Compute derives all affordability metrics from one snapshot. It is total
// over the numeric input domain: every division is guarded and degenerate
// inputs produce zeros rather than NaN or Inf. Negative cash remaining and
// negative net worth pass through unclamped; they are signal, not errors.
func Compute(in config.Inputs) Metrics {
	var m Metrics

	m.GrossMonthlyIncome = in.GrossMonthlyIncome()
	m.MonthlyDebt = in.MonthlyDebtTotal()

	m.LoanAmount = in.HomePrice * (1 - in.DownPaymentFraction)
	m.PrincipalAndInterest = MonthlyPayment(m.LoanAmount, in.InterestRate, in.TermYears*constants.MonthsPerYear)

	// Tax and insurance scale with price, PMI with the loan.
	m.MonthlyTax = in.HomePrice * in.PropertyTaxRate / constants.MonthsPerYear
	m.MonthlyInsurance = in.HomePrice * in.InsuranceRate / constants.MonthsPerYear
	if in.DownPaymentFraction < constants.PMICutoffFraction {
		m.MonthlyPMI = m.LoanAmount * in.PMIRate / constants.MonthsPerYear
	}
	m.MonthlyUpkeep = in.UpkeepMonthly
	m.PITI = m.PrincipalAndInterest + m.MonthlyTax + m.MonthlyInsurance + m.MonthlyPMI + m.MonthlyUpkeep

	if m.GrossMonthlyIncome > 0 {
		m.FrontEndRatio = m.PITI / m.GrossMonthlyIncome
		m.BackEndRatio = (m.PITI + m.MonthlyDebt) / m.GrossMonthlyIncome
	}

	m.DownPayment = in.HomePrice * in.DownPaymentFraction
	m.ClosingCosts = in.HomePrice * in.ClosingCostFraction
	m.Reserves = m.PITI * float64(in.ReserveMonths)
	m.RenovationBudget = in.RenovationBudget
	m.TotalCashRequired = m.DownPayment + m.ClosingCosts + m.Reserves + m.RenovationBudget
	m.CashRemaining = in.CashAvailable - m.TotalCashRequired
	m.CashPass = m.TotalCashRequired <= in.CashAvailable

	m.NetWorth = in.TotalAssets - in.TotalLiabilities
	m.HomeEquity = m.DownPayment
	if m.NetWorth > 0 {
		m.EquityFractionOfNetWorth = m.HomeEquity / m.NetWorth
	}

	if m.PITI > 0 {
		m.LayoffSurvivalMonths = in.CashAvailable / m.PITI
	}
	m.LayoffPass = m.LayoffSurvivalMonths >= constants.LayoffSurvivalTargetMonths

	m.FrontEndTier = thresholds.Classify(m.FrontEndRatio, thresholds.CapFrontEnd)
	m.BackEndTier = thresholds.Classify(m.BackEndRatio, thresholds.CapBackEnd)
	m.NetWorthTier = thresholds.Classify(m.EquityFractionOfNetWorth, thresholds.CapNetWorth)

	return m
}
