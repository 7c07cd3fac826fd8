// Package output provides utilities for formatting and displaying
// affordability results.
package output

import (
	"fmt"
	"strings"

	"github.com/iwvelando/home-affordability/internal/metrics"
	"github.com/iwvelando/home-affordability/internal/projection"
	"github.com/iwvelando/home-affordability/internal/solver"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MetricsPretty renders a human-readable affordability summary.
func MetricsPretty(m metrics.Metrics) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("--- Affordability summary ---\n")
	p.Fprintf(&b, "Gross monthly income    | $%.2f\n", m.GrossMonthlyIncome)
	p.Fprintf(&b, "Monthly debt            | $%.2f\n", m.MonthlyDebt)
	p.Fprintf(&b, "Loan amount             | $%.2f\n", m.LoanAmount)
	p.Fprintf(&b, "Principal and interest  | $%.2f\n", m.PrincipalAndInterest)
	p.Fprintf(&b, "Property tax            | $%.2f\n", m.MonthlyTax)
	p.Fprintf(&b, "Insurance               | $%.2f\n", m.MonthlyInsurance)
	p.Fprintf(&b, "PMI                     | $%.2f\n", m.MonthlyPMI)
	p.Fprintf(&b, "Upkeep                  | $%.2f\n", m.MonthlyUpkeep)
	p.Fprintf(&b, "Total housing payment   | $%.2f\n", m.PITI)
	p.Fprintf(&b, "Front-end ratio         | %.1f%% (%s)\n", m.FrontEndRatio*100, m.FrontEndTier)
	p.Fprintf(&b, "Back-end ratio          | %.1f%% (%s)\n", m.BackEndRatio*100, m.BackEndTier)
	b.WriteString("\n--- Cash to close ---\n")
	p.Fprintf(&b, "Down payment            | $%.2f\n", m.DownPayment)
	p.Fprintf(&b, "Closing costs           | $%.2f\n", m.ClosingCosts)
	p.Fprintf(&b, "Reserves                | $%.2f\n", m.Reserves)
	p.Fprintf(&b, "Renovation budget       | $%.2f\n", m.RenovationBudget)
	p.Fprintf(&b, "Total cash required     | $%.2f\n", m.TotalCashRequired)
	p.Fprintf(&b, "Cash remaining          | $%.2f (%s)\n", m.CashRemaining, passLabel(m.CashPass))
	b.WriteString("\n--- Position ---\n")
	p.Fprintf(&b, "Net worth               | $%.2f\n", m.NetWorth)
	p.Fprintf(&b, "Home equity share       | %.1f%% (%s)\n", m.EquityFractionOfNetWorth*100, m.NetWorthTier)
	p.Fprintf(&b, "Layoff runway           | %.1f months (%s)\n", m.LayoffSurvivalMonths, passLabel(m.LayoffPass))

	return b.String()
}

// MetricsCsv renders the summary as a two-column CSV.
func MetricsCsv(m metrics.Metrics) string {
	var b strings.Builder
	b.WriteString("\"metric\",\"value\"\n")
	rows := []struct {
		name  string
		value float64
	}{
		{"grossMonthlyIncome", m.GrossMonthlyIncome},
		{"monthlyDebt", m.MonthlyDebt},
		{"loanAmount", m.LoanAmount},
		{"principalAndInterest", m.PrincipalAndInterest},
		{"monthlyTax", m.MonthlyTax},
		{"monthlyInsurance", m.MonthlyInsurance},
		{"monthlyPMI", m.MonthlyPMI},
		{"monthlyUpkeep", m.MonthlyUpkeep},
		{"piti", m.PITI},
		{"frontEndRatio", m.FrontEndRatio},
		{"backEndRatio", m.BackEndRatio},
		{"downPayment", m.DownPayment},
		{"closingCosts", m.ClosingCosts},
		{"reserves", m.Reserves},
		{"renovationBudget", m.RenovationBudget},
		{"totalCashRequired", m.TotalCashRequired},
		{"cashRemaining", m.CashRemaining},
		{"netWorth", m.NetWorth},
		{"equityFractionOfNetWorth", m.EquityFractionOfNetWorth},
		{"layoffSurvivalMonths", m.LayoffSurvivalMonths},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "\"%s\",\"%.4f\"\n", row.name, row.value)
	}
	return b.String()
}

// ScenariosPretty renders one table row per tier for a solve.
func ScenariosPretty(target string, results []solver.ScenarioResult) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	fmt.Fprintf(&b, "--- Scenario boundaries for %s ---\n", target)
	b.WriteString("Tier         | Value          | Front  | Back   | Cash Required  | Pass\n")
	b.WriteString("____         | _____          | _____  | ____   | _____________  | ____\n")
	for _, result := range results {
		if !result.Achievable {
			fmt.Fprintf(&b, "%-12s | not achievable\n", result.Tier)
			continue
		}
		value := p.Sprintf("$%.2f", result.Value)
		if target == "downPayment" {
			value = p.Sprintf("%.2f%%", result.Value*100)
		}
		p.Fprintf(&b, "%-12s | %-14s | %5.1f%% | %5.1f%% | $%.2f | %s\n",
			result.Tier, value, result.FrontEndRatio*100, result.BackEndRatio*100,
			result.CashRequired, passLabel(result.Pass))
	}
	return b.String()
}

// ScenariosCsv renders solve results in comma-separated value format.
func ScenariosCsv(target string, results []solver.ScenarioResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\"target\",\"tier\",\"value\",\"price\",\"frontEndRatio\",\"backEndRatio\",\"cashRequired\",\"pass\",\"achievable\"\n")
	for _, result := range results {
		fmt.Fprintf(&b, "\"%s\",\"%s\",\"%.4f\",\"%.2f\",\"%.4f\",\"%.4f\",\"%.2f\",\"%t\",\"%t\"\n",
			target, result.Tier, result.Value, result.Price,
			result.FrontEndRatio, result.BackEndRatio, result.CashRequired,
			result.Pass, result.Achievable)
	}
	return b.String()
}

// ProjectionPretty renders the year-by-year simulation table.
func ProjectionPretty(years []projection.YearSnapshot) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("--- Net worth projection ---\n")
	b.WriteString("Year | Home Value     | Loan Balance   | Equity         | Investments    | Net Worth\n")
	b.WriteString("____ | __________     | ____________   | ______         | ___________    | _________\n")
	for _, year := range years {
		p.Fprintf(&b, "%4d | $%.2f | $%.2f | $%.2f | $%.2f | $%.2f\n",
			year.Year, year.HomeValue, year.LoanBalance, year.HomeEquity,
			year.InvestmentBalance, year.TotalNetWorth)
	}
	return b.String()
}

// ProjectionCsv renders the simulation in comma-separated value format.
func ProjectionCsv(years []projection.YearSnapshot) string {
	var b strings.Builder
	b.WriteString("\"year\",\"homeValue\",\"loanBalance\",\"homeEquity\",\"investmentBalance\",\"totalNetWorth\",\"cumulativeInterest\",\"cumulativePrincipal\",\"annualIncome\"\n")
	for _, year := range years {
		fmt.Fprintf(&b, "\"%d\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\"\n",
			year.Year, year.HomeValue, year.LoanBalance, year.HomeEquity,
			year.InvestmentBalance, year.TotalNetWorth,
			year.CumulativeInterest, year.CumulativePrincipal, year.AnnualIncome)
	}
	return b.String()
}

func passLabel(pass bool) string {
	if pass {
		return "pass"
	}
	return "fail"
}
