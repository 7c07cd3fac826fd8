package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfig(t, `
profile:
  primaryIncome: 120000
  partnerIncome: 60000
  annualIncome: true
  homePrice: 650000
  downPaymentFraction: 0.15
  interestRate: 0.07
  termYears: 30
  cashAvailable: 180000
projection:
  horizonYears: 20
  homeAppreciationRate: 0.05
logging:
  level: debug
output:
  format: csv
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration returned error: %v", err)
	}
	if conf.Profile.PrimaryIncome != 120000 || conf.Profile.PartnerIncome != 60000 {
		t.Errorf("income = %.2f/%.2f, expected 120000/60000", conf.Profile.PrimaryIncome, conf.Profile.PartnerIncome)
	}
	if conf.Profile.HomePrice != 650000 {
		t.Errorf("home price = %.2f, expected 650000", conf.Profile.HomePrice)
	}
	if conf.Profile.DownPaymentFraction != 0.15 {
		t.Errorf("down payment fraction = %.4f, expected 0.15", conf.Profile.DownPaymentFraction)
	}
	// Fields absent from the file keep the default snapshot's values.
	if conf.Profile.PropertyTaxRate != 0.0125 {
		t.Errorf("property tax rate = %.4f, expected the 0.0125 default", conf.Profile.PropertyTaxRate)
	}
	if conf.Profile.ReserveMonths != 6 {
		t.Errorf("reserve months = %d, expected the default 6", conf.Profile.ReserveMonths)
	}
	if conf.Projection.HorizonYears != 20 {
		t.Errorf("projection horizon = %d, expected 20", conf.Projection.HorizonYears)
	}
	if conf.Projection.InvestmentReturnRate != 0.07 {
		t.Errorf("investment return = %.4f, expected the default 0.07", conf.Projection.InvestmentReturnRate)
	}
	if conf.Logging.Level != "debug" {
		t.Errorf("log level = %q, expected debug", conf.Logging.Level)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("output format = %q, expected csv", conf.Output.Format)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestGrossMonthlyIncome(t *testing.T) {
	tests := []struct {
		name     string
		inputs   Inputs
		expected float64
	}{
		{"Annual incomes", Inputs{PrimaryIncome: 120000, PartnerIncome: 60000, AnnualIncome: true}, 15000},
		{"Monthly incomes", Inputs{PrimaryIncome: 9000, PartnerIncome: 5000, AnnualIncome: false}, 14000},
		{"Single earner", Inputs{PrimaryIncome: 96000, AnnualIncome: true}, 8000},
		{"No income", Inputs{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inputs.GrossMonthlyIncome(); got != tt.expected {
				t.Errorf("GrossMonthlyIncome() = %.2f, expected %.2f", got, tt.expected)
			}
		})
	}
}

func TestGrossAnnualIncome(t *testing.T) {
	in := Inputs{PrimaryIncome: 10000, PartnerIncome: 5000, AnnualIncome: false}
	if got := in.GrossAnnualIncome(); got != 180000 {
		t.Errorf("GrossAnnualIncome() = %.2f, expected 180000", got)
	}
	in.AnnualIncome = true
	if got := in.GrossAnnualIncome(); got != 15000 {
		t.Errorf("GrossAnnualIncome() = %.2f, expected 15000", got)
	}
}

func TestMonthlyDebtTotal(t *testing.T) {
	in := Inputs{OtherDebt: 6000, CarPayment: 3600, MarginPayment: 2400, MonthlyDebt: false}
	if got := in.MonthlyDebtTotal(); got != 1000 {
		t.Errorf("MonthlyDebtTotal() = %.2f, expected 1000 from annual figures", got)
	}
	in.MonthlyDebt = true
	if got := in.MonthlyDebtTotal(); got != 12000 {
		t.Errorf("MonthlyDebtTotal() = %.2f, expected 12000 from monthly figures", got)
	}
}

func TestValidateConfigurationCleanProfile(t *testing.T) {
	conf := Configuration{Profile: DefaultInputs(), Projection: DefaultProjection()}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings for the default profile, got %v", warnings)
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	conf := Configuration{
		Profile: Inputs{
			HomePrice:           -1,
			DownPaymentFraction: 1.5,
			InterestRate:        -0.01,
			TermYears:           0,
			ReserveMonths:       -3,
			PropertyTaxRate:     -0.01,
		},
		Projection: ProjectionConfig{HorizonYears: -5},
	}

	warnings := conf.ValidateConfiguration()
	expected := []string{
		"no income",
		"home price",
		"down payment fraction",
		"interest rate",
		"loan term",
		"reserve months",
		"property tax rate",
		"projection horizon",
	}
	for _, fragment := range expected {
		found := false
		for _, warning := range warnings {
			if strings.Contains(warning, fragment) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected a warning mentioning %q, got %v", fragment, warnings)
		}
	}
}
