// Package constants provides shared constants for the home-affordability application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PMICutoffFraction is the down-payment fraction at or above which no
	// mortgage insurance is charged.
	PMICutoffFraction = 0.20

	// LayoffSurvivalTargetMonths is the recommended cash runway in months.
	LayoffSurvivalTargetMonths = 12.0
)

// Solver constants
const (
	// CashSearchMaxIterations bounds the fixed-step cash-remaining search.
	CashSearchMaxIterations = 20

	// CashSearchTolerance is the acceptable gap to the cash target in dollars.
	CashSearchTolerance = 1000.0

	// CashSearchStepUp is the price increment when cash remaining is above target.
	CashSearchStepUp = 10000.0

	// CashSearchStepDown is the price decrement when cash remaining is below target.
	CashSearchStepDown = 5000.0

	// MinimumSearchPrice floors every price search.
	MinimumSearchPrice = 100000.0

	// MaximumSearchPrice caps the price bisection bracket.
	MaximumSearchPrice = 2000000.0

	// PriceBracketTolerance is the bracket width at which price bisection stops.
	PriceBracketTolerance = 1000.0

	// PriceBisectionMaxIterations bounds the price bisection loop.
	PriceBisectionMaxIterations = 20

	// DownPaymentUpperBound is the top of the down-payment fraction bracket.
	DownPaymentUpperBound = 0.95

	// DownPaymentTolerance is the bracket width at which fraction bisection stops.
	DownPaymentTolerance = 0.0001

	// DownPaymentMaxIterations bounds the fraction bisection loop.
	DownPaymentMaxIterations = 25
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the JSON API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodyBytes is the default maximum request body size (256 KB)
	DefaultMaxBodyBytes int64 = 256 * 1024
)
