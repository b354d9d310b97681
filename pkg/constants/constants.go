// Package constants provides shared constants for the affordability engine.
package constants

// DateTimeLayout is the month format used for schedule dates and the
// projected debt-free date.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// PayoffTolerance is the balance at or below which a debt counts as paid
	// off. This is a policy choice, not a derived constant.
	PayoffTolerance = 0.01
)

// Simulation constants
const (
	// DefaultMaxMonths caps the simulation horizon when the caller does not
	// supply one; it is the sole guard against debt sets that never pay off.
	DefaultMaxMonths = 360

	// UnpaidSentinelOffset is added to the month cap to mark debts still
	// active when the simulation horizon is reached.
	UnpaidSentinelOffset = 999
)

// Minimum-payment estimation constants, used when a debt account carries no
// explicit minimum payment.
const (
	// CreditCardMinimumRate is the share of balance due monthly on revolving debt
	CreditCardMinimumRate = 0.02

	// OtherDebtMinimumRate is the share of balance due monthly on uncategorized debt
	OtherDebtMinimumRate = 0.03

	// MinimumPaymentFloor is the smallest estimated minimum payment
	MinimumPaymentFloor = 25.0

	// MortgageTermMonths is the assumed amortization term for mortgages
	MortgageTermMonths = 360

	// InstallmentTermMonths is the assumed term for auto and personal loans
	InstallmentTermMonths = 60

	// StudentLoanTermMonths is the assumed term for student loans
	StudentLoanTermMonths = 120
)

// Strategy comparison policy constants
const (
	// AvalancheInterestGap is the snowball-vs-avalanche interest differential
	// beyond which avalanche is always recommended
	AvalancheInterestGap = 500.0

	// SnowballInterestGap is the differential under which snowball's
	// quick-win advantage outweighs the extra interest
	SnowballInterestGap = 200.0

	// QuickWinMonths is the horizon within which a payoff counts as a quick win
	QuickWinMonths = 3
)

// Decision threshold constants; the same thresholds map the weighted score to
// both a decision and a risk level.
const (
	// YesThreshold is the minimum weighted score for a YES decision (LOW risk)
	YesThreshold = 0.85

	// ConditionalThreshold is the minimum score for CONDITIONAL (MODERATE risk)
	ConditionalThreshold = 0.60

	// DeferThreshold is the minimum score for DEFER (HIGH risk)
	DeferThreshold = 0.40
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodyBytes is the default maximum request body size (1 MB)
	DefaultMaxBodyBytes int64 = 1 << 20
)
