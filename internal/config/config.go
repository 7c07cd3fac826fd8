// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/iwvelando/home-affordability/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for home-affordability.
type Configuration struct {
	Profile    Inputs           `yaml:"profile"`
	Solver     SolverConfig     `yaml:"solver,omitempty"`
	Projection ProjectionConfig `yaml:"projection,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// SolverConfig holds optional solver tuning.
type SolverConfig struct {
	// TargetCashRemaining overrides the per-tier cash buffer targets when
	// solving for cash remaining. Zero means use the built-in tier targets.
	TargetCashRemaining float64 `yaml:"targetCashRemaining,omitempty"`
}

// ProjectionConfig holds the long-horizon growth assumptions.
type ProjectionConfig struct {
	HorizonYears         int     `yaml:"horizonYears,omitempty"`
	HomeAppreciationRate float64 `yaml:"homeAppreciationRate,omitempty"`
	InvestmentReturnRate float64 `yaml:"investmentReturnRate,omitempty"`
	SalaryGrowthRate     float64 `yaml:"salaryGrowthRate,omitempty"`
	ExtraMonthlyPayment  float64 `yaml:"extraMonthlyPayment,omitempty"`
	InvestExtraPayment   bool    `yaml:"investExtraPayment,omitempty"`
}

// Inputs is a complete household financial snapshot. All rates and fractions
// are decimals (0.0675 means 6.75%); currency fields are dollars. The
// computation layers never mutate an Inputs value, so a snapshot may be shared
// freely across concurrent calls.
type Inputs struct {
	// Income
	PrimaryIncome float64 `yaml:"primaryIncome" json:"primaryIncome"`
	PartnerIncome float64 `yaml:"partnerIncome,omitempty" json:"partnerIncome"`
	AnnualIncome  bool    `yaml:"annualIncome" json:"annualIncome"`

	// Recurring debts
	OtherDebt     float64 `yaml:"otherDebt,omitempty" json:"otherDebt"`
	CarPayment    float64 `yaml:"carPayment,omitempty" json:"carPayment"`
	MarginPayment float64 `yaml:"marginPayment,omitempty" json:"marginPayment"`
	MonthlyDebt   bool    `yaml:"monthlyDebt" json:"monthlyDebt"`

	// Purchase
	HomePrice           float64 `yaml:"homePrice" json:"homePrice"`
	DownPaymentFraction float64 `yaml:"downPaymentFraction" json:"downPaymentFraction"`
	ClosingCostFraction float64 `yaml:"closingCostFraction,omitempty" json:"closingCostFraction"`
	RenovationBudget    float64 `yaml:"renovationBudget,omitempty" json:"renovationBudget"`

	// Loan terms
	InterestRate float64 `yaml:"interestRate" json:"interestRate"`
	TermYears    int     `yaml:"termYears" json:"termYears"`

	// Recurring ownership costs
	PropertyTaxRate float64 `yaml:"propertyTaxRate,omitempty" json:"propertyTaxRate"`
	InsuranceRate   float64 `yaml:"insuranceRate,omitempty" json:"insuranceRate"`
	UpkeepMonthly   float64 `yaml:"upkeepMonthly,omitempty" json:"upkeepMonthly"`
	ReserveMonths   int     `yaml:"reserveMonths,omitempty" json:"reserveMonths"`
	PMIRate         float64 `yaml:"pmiRate,omitempty" json:"pmiRate"`

	// Liquidity and net worth
	CashAvailable    float64 `yaml:"cashAvailable" json:"cashAvailable"`
	TotalAssets      float64 `yaml:"totalAssets,omitempty" json:"totalAssets"`
	TotalLiabilities float64 `yaml:"totalLiabilities,omitempty" json:"totalLiabilities"`
}

// DefaultInputs returns a populated starter snapshot.
func DefaultInputs() Inputs {
	return Inputs{
		PrimaryIncome:       170000,
		PartnerIncome:       80000,
		AnnualIncome:        true,
		OtherDebt:           500,
		MonthlyDebt:         true,
		HomePrice:           750000,
		DownPaymentFraction: 0.20,
		ClosingCostFraction: 0.04,
		InterestRate:        0.0675,
		TermYears:           30,
		PropertyTaxRate:     0.0125,
		InsuranceRate:       0.004,
		UpkeepMonthly:       250,
		ReserveMonths:       6,
		PMIRate:             0.01,
		CashAvailable:       200000,
		TotalAssets:         400000,
		TotalLiabilities:    50000,
	}
}

// DefaultProjection returns the default long-horizon assumptions.
func DefaultProjection() ProjectionConfig {
	return ProjectionConfig{
		HorizonYears:         10,
		HomeAppreciationRate: 0.04,
		InvestmentReturnRate: 0.07,
		SalaryGrowthRate:     0.03,
	}
}

// GrossMonthlyIncome normalizes both incomes to a combined monthly figure.
func (in Inputs) GrossMonthlyIncome() float64 {
	total := in.PrimaryIncome + in.PartnerIncome
	if in.AnnualIncome {
		return total / constants.MonthsPerYear
	}
	return total
}

// GrossAnnualIncome normalizes both incomes to a combined annual figure.
func (in Inputs) GrossAnnualIncome() float64 {
	total := in.PrimaryIncome + in.PartnerIncome
	if in.AnnualIncome {
		return total
	}
	return total * constants.MonthsPerYear
}

// MonthlyDebtTotal normalizes all recurring obligations to a monthly figure.
func (in Inputs) MonthlyDebtTotal() float64 {
	total := in.OtherDebt + in.CarPayment + in.MarginPayment
	if in.MonthlyDebt {
		return total
	}
	return total / constants.MonthsPerYear
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Missing profile fields fall back to the defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	configuration := Configuration{
		Profile:    DefaultInputs(),
		Projection: DefaultProjection(),
	}
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. The engine stays total over any numeric snapshot, so
// nothing here rejects input; callers decide what to do with the warnings.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	in := c.Profile
	if in.PrimaryIncome+in.PartnerIncome <= 0 {
		warnings = append(warnings, "profile has no income; debt ratios will be reported as zero")
	}
	if in.HomePrice < 0 {
		warnings = append(warnings, fmt.Sprintf("home price %.2f is negative", in.HomePrice))
	}
	if in.DownPaymentFraction < 0 || in.DownPaymentFraction >= 1 {
		warnings = append(warnings, fmt.Sprintf("down payment fraction %.4f is outside [0, 1)", in.DownPaymentFraction))
	}
	if in.InterestRate < 0 {
		warnings = append(warnings, fmt.Sprintf("interest rate %.4f is negative", in.InterestRate))
	}
	if in.TermYears <= 0 {
		warnings = append(warnings, fmt.Sprintf("loan term %d years is not positive; principal and interest will be zero", in.TermYears))
	}
	if in.ReserveMonths < 0 {
		warnings = append(warnings, fmt.Sprintf("reserve months %d is negative", in.ReserveMonths))
	}
	rates := []struct {
		name  string
		value float64
	}{
		{"property tax rate", in.PropertyTaxRate},
		{"insurance rate", in.InsuranceRate},
		{"pmi rate", in.PMIRate},
		{"closing cost fraction", in.ClosingCostFraction},
	}
	for _, rate := range rates {
		if rate.value < 0 {
			warnings = append(warnings, fmt.Sprintf("%s %.4f is negative", rate.name, rate.value))
		}
	}
	if c.Projection.HorizonYears < 0 {
		warnings = append(warnings, fmt.Sprintf("projection horizon %d years is negative", c.Projection.HorizonYears))
	}

	return warnings
}
