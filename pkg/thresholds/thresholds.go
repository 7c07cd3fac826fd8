// Package thresholds defines the named risk tiers used to judge affordability
// ratios. The tier values are illustrative planning figures, not lending rules.
package thresholds

// Tier names, ordered from strictest to most permissive.
const (
	Conservative = "conservative"
	Moderate     = "moderate"
	Aggressive   = "aggressive"

	// ExceedsAll is the sentinel classification for ratios beyond every tier.
	ExceedsAll = "exceeds all"
)

// CapType selects which cap of a tier a ratio is compared against.
type CapType string

const (
	CapFrontEnd CapType = "frontEnd"
	CapBackEnd  CapType = "backEnd"
	CapNetWorth CapType = "netWorth"
)

// Tier holds the comparison ceilings for one named risk level. All values are
// decimal fractions (0.28 means 28%).
type Tier struct {
	Name     string
	FrontEnd float64
	BackEnd  float64
	NetWorth float64
}

// Cap returns the ceiling for the requested cap type.
func (t Tier) Cap(cap CapType) float64 {
	switch cap {
	case CapFrontEnd:
		return t.FrontEnd
	case CapBackEnd:
		return t.BackEnd
	case CapNetWorth:
		return t.NetWorth
	}
	return 0
}

var table = []Tier{
	{Name: Conservative, FrontEnd: 0.28, BackEnd: 0.36, NetWorth: 0.30},
	{Name: Moderate, FrontEnd: 0.33, BackEnd: 0.43, NetWorth: 0.50},
	{Name: Aggressive, FrontEnd: 0.40, BackEnd: 0.45, NetWorth: 0.65},
}

// Tiers returns the full tier table ordered from conservative to aggressive.
// The returned slice is a copy; callers may not mutate the table.
func Tiers() []Tier {
	out := make([]Tier, len(table))
	copy(out, table)
	return out
}

// Lookup returns the tier with the given name.
func Lookup(name string) (Tier, bool) {
	for _, tier := range table {
		if tier.Name == name {
			return tier, true
		}
	}
	return Tier{}, false
}

// Classify returns the name of the strictest tier whose cap the ratio
// satisfies, or ExceedsAll when the ratio is beyond every tier. Because the
// tiers are ordered by increasing caps the result is monotonic in the ratio.
func Classify(ratio float64, cap CapType) string {
	for _, tier := range table {
		if ratio <= tier.Cap(cap) {
			return tier.Name
		}
	}
	return ExceedsAll
}
