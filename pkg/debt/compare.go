package debt

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"affordability-engine/pkg/constants"
	"affordability-engine/pkg/mathutil"
)

// Comparison holds the simulation results for every strategy plus the
// recommendation and its savings over the minimum-only baseline.
type Comparison struct {
	Results       map[Strategy]Result `json:"results"`
	Recommended   Strategy            `json:"recommended_strategy"`
	Reason        string              `json:"reason"`
	InterestSaved float64             `json:"interest_saved"`
	MonthsSaved   int                 `json:"months_saved"`
}

// CompareStrategies runs every strategy over the same starting debt set and
// picks a recommendation. minimum_only always runs with zero extra payment so
// it serves as the baseline.
func CompareStrategies(accounts []Account, extraPayment float64, maxMonths int) Comparison {
	return NewSimulator(nil).CompareStrategies(accounts, extraPayment, maxMonths)
}

// CompareStrategies runs every strategy over the same starting debt set and
// picks a recommendation by the fixed policy below.
func (s *Simulator) CompareStrategies(accounts []Account, extraPayment float64, maxMonths int) Comparison {
	return s.CompareStrategiesWithFixedTime(accounts, extraPayment, maxMonths, time.Now())
}

// CompareStrategiesWithFixedTime is CompareStrategies with an injectable start
// time for stable schedule dates in tests.
func (s *Simulator) CompareStrategiesWithFixedTime(accounts []Account, extraPayment float64, maxMonths int, startTime time.Time) Comparison {
	comparison := Comparison{
		Results: make(map[Strategy]Result, len(AllStrategies())),
	}

	for _, strategy := range AllStrategies() {
		extra := extraPayment
		if strategy == StrategyMinimumOnly {
			extra = 0
		}
		comparison.Results[strategy] = s.SimulateStrategyWithFixedTime(accounts, strategy, extra, maxMonths, startTime)
	}

	avalanche := comparison.Results[StrategyAvalanche]
	snowball := comparison.Results[StrategySnowball]
	hybrid := comparison.Results[StrategyHybrid]
	baseline := comparison.Results[StrategyMinimumOnly]

	interestGap := snowball.TotalInterestPaid - avalanche.TotalInterestPaid
	firstPayoff := firstPayoffMonth(snowball)
	quickFirstWin := firstPayoff > 0 && firstPayoff <= constants.QuickWinMonths

	switch {
	case interestGap > constants.AvalancheInterestGap || !quickFirstWin:
		comparison.Recommended = StrategyAvalanche
		if interestGap > constants.AvalancheInterestGap {
			comparison.Reason = fmt.Sprintf("avalanche saves %.2f in interest over snowball", interestGap)
		} else {
			comparison.Reason = "snowball offers no payoff within the first few months, so prioritize interest savings"
		}
	case quickFirstWin && interestGap < constants.SnowballInterestGap:
		comparison.Recommended = StrategySnowball
		comparison.Reason = fmt.Sprintf("first debt paid off within %d months at a small interest cost", firstPayoff)
	default:
		comparison.Recommended = StrategyHybrid
		comparison.Reason = "hybrid balances interest savings against early payoff momentum"
	}

	bestInterest := mathutil.Min(avalanche.TotalInterestPaid, mathutil.Min(snowball.TotalInterestPaid, hybrid.TotalInterestPaid))
	bestMonths := avalanche.TotalMonths
	if snowball.TotalMonths < bestMonths {
		bestMonths = snowball.TotalMonths
	}
	if hybrid.TotalMonths < bestMonths {
		bestMonths = hybrid.TotalMonths
	}

	comparison.InterestSaved = mathutil.Round(baseline.TotalInterestPaid - bestInterest)
	comparison.MonthsSaved = baseline.TotalMonths - bestMonths

	s.logger.Debug("strategy comparison complete",
		zap.String("op", "debt.CompareStrategies"),
		zap.String("recommended", string(comparison.Recommended)),
		zap.Float64("interest_saved", comparison.InterestSaved),
		zap.Int("months_saved", comparison.MonthsSaved),
	)

	return comparison
}

// firstPayoffMonth returns the earliest month any debt pays off in the given
// result, or 0 when nothing pays off within the horizon.
func firstPayoffMonth(result Result) int {
	first := 0
	for _, record := range result.PayoffOrder {
		if record.MonthsToPayoff > result.TotalMonths {
			continue // sentinel for debts unpaid at the cap
		}
		if first == 0 || record.MonthsToPayoff < first {
			first = record.MonthsToPayoff
		}
	}
	return first
}
