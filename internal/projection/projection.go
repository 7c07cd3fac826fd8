// Package projection simulates household net worth over a multi-year horizon
// after a home purchase: the loan amortizes month by month while the home
// value, salary, and invested cash compound annually.
package projection

import (
	"github.com/iwvelando/home-affordability/internal/config"
	"github.com/iwvelando/home-affordability/internal/metrics"
	"github.com/iwvelando/home-affordability/pkg/constants"
	"go.uber.org/zap"
)

// StartState is the purchase-day position the simulation advances from.
// MonthlyPayment is the full housing payment for reporting; LoanPayment is
// the principal-and-interest portion, the only part that amortizes the loan.
type StartState struct {
	HomePrice         float64 `json:"homePrice"`
	DownPayment       float64 `json:"downPayment"`
	LoanAmount        float64 `json:"loanAmount"`
	InterestRate      float64 `json:"interestRate"`
	MonthlyPayment    float64 `json:"monthlyPayment"`
	LoanPayment       float64 `json:"loanPayment"`
	AnnualIncome      float64 `json:"annualIncome"`
	InitialInvestment float64 `json:"initialInvestment"`
}

// Assumptions are the annual growth rates and the optional extra payment.
// When InvestExtraPayment is set the extra goes to the portfolio instead of
// the principal.
type Assumptions struct {
	HorizonYears         int     `json:"horizonYears"`
	HomeAppreciationRate float64 `json:"homeAppreciationRate"`
	InvestmentReturnRate float64 `json:"investmentReturnRate"`
	SalaryGrowthRate     float64 `json:"salaryGrowthRate"`
	ExtraMonthlyPayment  float64 `json:"extraMonthlyPayment"`
	InvestExtraPayment   bool    `json:"investExtraPayment"`
}

// YearSnapshot is the simulated position at the end of one year. Year 0 is
// the purchase day itself, before any growth or payments.
type YearSnapshot struct {
	Year                int     `json:"year"`
	HomeValue           float64 `json:"homeValue"`
	LoanBalance         float64 `json:"loanBalance"`
	HomeEquity          float64 `json:"homeEquity"`
	EquityBuilt         float64 `json:"equityBuilt"`
	InvestmentBalance   float64 `json:"investmentBalance"`
	CashInvested        float64 `json:"cashInvested"`
	TotalNetWorth       float64 `json:"totalNetWorth"`
	CumulativeInterest  float64 `json:"cumulativeInterest"`
	CumulativePrincipal float64 `json:"cumulativePrincipal"`
	AnnualIncome        float64 `json:"annualIncome"`
	MonthlyIncome       float64 `json:"monthlyIncome"`
}

// StartFromMetrics builds the purchase-day state for a snapshot and its
// computed metrics. The portfolio starts with whatever cash the purchase
// leaves over, floored at zero.
func StartFromMetrics(in config.Inputs, m metrics.Metrics) StartState {
	initial := m.CashRemaining
	if initial < 0 {
		initial = 0
	}
	return StartState{
		HomePrice:         in.HomePrice,
		DownPayment:       m.DownPayment,
		LoanAmount:        m.LoanAmount,
		InterestRate:      in.InterestRate,
		MonthlyPayment:    m.PITI,
		LoanPayment:       m.PrincipalAndInterest,
		AnnualIncome:      in.GrossAnnualIncome(),
		InitialInvestment: initial,
	}
}

// AssumptionsFromConfig converts the configured projection settings.
func AssumptionsFromConfig(c config.ProjectionConfig) Assumptions {
	return Assumptions{
		HorizonYears:         c.HorizonYears,
		HomeAppreciationRate: c.HomeAppreciationRate,
		InvestmentReturnRate: c.InvestmentReturnRate,
		SalaryGrowthRate:     c.SalaryGrowthRate,
		ExtraMonthlyPayment:  c.ExtraMonthlyPayment,
		InvestExtraPayment:   c.InvestExtraPayment,
	}
}

// Project runs the simulation and returns one snapshot per year from year 0
// through the horizon. A nil logger is replaced with a no-op logger.
func Project(logger *zap.Logger, start StartState, assumptions Assumptions) []YearSnapshot {
	if logger == nil {
		logger = zap.NewNop()
	}

	monthlyRate := start.InterestRate / constants.MonthsPerYear

	loanBalance := start.LoanAmount
	homeValue := start.HomePrice
	investment := start.InitialInvestment
	cashInvested := start.InitialInvestment
	annualIncome := start.AnnualIncome
	totalInterest := 0.0
	totalPrincipal := 0.0

	snapshots := make([]YearSnapshot, 0, assumptions.HorizonYears+1)
	for year := 0; year <= assumptions.HorizonYears; year++ {
		if year > 0 {
			annualIncome *= 1 + assumptions.SalaryGrowthRate
			homeValue *= 1 + assumptions.HomeAppreciationRate

			for month := 0; month < constants.MonthsPerYear; month++ {
				if loanBalance <= 0 {
					continue
				}
				interest := loanBalance * monthlyRate
				principal := start.LoanPayment - interest
				if principal > loanBalance {
					principal = loanBalance
				}
				loanBalance -= principal
				totalInterest += interest
				totalPrincipal += principal

				if assumptions.ExtraMonthlyPayment > 0 {
					if assumptions.InvestExtraPayment {
						cashInvested += assumptions.ExtraMonthlyPayment
						investment += assumptions.ExtraMonthlyPayment
					} else {
						extra := assumptions.ExtraMonthlyPayment
						if extra > loanBalance {
							extra = loanBalance
						}
						loanBalance -= extra
						totalPrincipal += extra
					}
				}
			}

			// Contributions land before the annual compounding step.
			investment *= 1 + assumptions.InvestmentReturnRate
		}

		reportedBalance := loanBalance
		if reportedBalance < 0 {
			reportedBalance = 0
		}
		equity := homeValue - reportedBalance
		snapshots = append(snapshots, YearSnapshot{
			Year:                year,
			HomeValue:           homeValue,
			LoanBalance:         reportedBalance,
			HomeEquity:          equity,
			EquityBuilt:         equity - start.DownPayment,
			InvestmentBalance:   investment,
			CashInvested:        cashInvested,
			TotalNetWorth:       equity + investment,
			CumulativeInterest:  totalInterest,
			CumulativePrincipal: totalPrincipal,
			AnnualIncome:        annualIncome,
			MonthlyIncome:       annualIncome / constants.MonthsPerYear,
		})
	}

	final := snapshots[len(snapshots)-1]
	logger.Debug("projection complete",
		zap.String("op", "projection.Project"),
		zap.Int("horizonYears", assumptions.HorizonYears),
		zap.Float64("finalNetWorth", final.TotalNetWorth),
		zap.Float64("finalLoanBalance", final.LoanBalance),
	)
	return snapshots
}
