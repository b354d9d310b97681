package debt

import (
	"sort"
	"time"

	"affordability-engine/pkg/constants"
	"affordability-engine/pkg/datetime"
	"affordability-engine/pkg/mathutil"
)

// QuickWin marks a debt retired early under the recommended strategy.
type QuickWin struct {
	DebtID   string  `json:"debt_id"`
	DebtName string  `json:"debt_name"`
	Month    int     `json:"month"`
	Balance  float64 `json:"balance"`
}

// Insights summarizes a debt set and its recommended payoff plan.
type Insights struct {
	TotalDebt           float64    `json:"total_debt"`
	AverageAPR          float64    `json:"average_apr"`
	HighestAPRDebt      string     `json:"highest_apr_debt,omitempty"`
	LowestBalanceDebt   string     `json:"lowest_balance_debt,omitempty"`
	QuickWins           []QuickWin `json:"quick_wins,omitempty"`
	TotalMonthlyMinimum float64    `json:"total_monthly_minimum"`
	RecommendedStrategy Strategy   `json:"recommended_strategy"`
	MonthsToDebtFree    int        `json:"months_to_debt_free"`
	DebtFreeDate        string     `json:"debt_free_date,omitempty"`
}

// GenerateDebtInsights derives summary insights from a debt set and a
// previously computed strategy comparison.
func GenerateDebtInsights(accounts []Account, comparison Comparison) Insights {
	return GenerateDebtInsightsWithFixedTime(accounts, comparison, time.Now())
}

// GenerateDebtInsightsWithFixedTime is GenerateDebtInsights with an
// injectable reference time for a stable debt-free date in tests. Repeated
// calls with the same inputs yield identical insights.
func GenerateDebtInsightsWithFixedTime(accounts []Account, comparison Comparison, now time.Time) Insights {
	states := NewStates(accounts)
	insights := Insights{
		RecommendedStrategy: comparison.Recommended,
	}

	var weightedAPR float64
	var highest, lowest *State
	for i := range states {
		state := states[i]
		if state.IsPaidOff {
			continue
		}
		insights.TotalDebt += state.Balance
		insights.TotalMonthlyMinimum += state.MinimumPayment
		weightedAPR += state.Balance * state.APR

		if highest == nil || state.APR > highest.APR {
			highest = &states[i]
		}
		if lowest == nil || state.Balance < lowest.Balance {
			lowest = &states[i]
		}
	}

	if insights.TotalDebt > 0 {
		insights.AverageAPR = weightedAPR / insights.TotalDebt
	}
	if highest != nil {
		insights.HighestAPRDebt = highest.Name
	}
	if lowest != nil {
		insights.LowestBalanceDebt = lowest.Name
	}
	insights.TotalDebt = mathutil.Round(insights.TotalDebt)
	insights.TotalMonthlyMinimum = mathutil.Round(insights.TotalMonthlyMinimum)

	recommended, ok := comparison.Results[comparison.Recommended]
	if !ok {
		return insights
	}

	names := make(map[string]string, len(states))
	for _, state := range states {
		names[state.ID] = state.Name
	}
	for id, record := range recommended.PayoffOrder {
		if record.MonthsToPayoff > recommended.TotalMonths {
			continue
		}
		if record.MonthsToPayoff <= constants.QuickWinMonths {
			insights.QuickWins = append(insights.QuickWins, QuickWin{
				DebtID:   id,
				DebtName: names[id],
				Month:    record.MonthsToPayoff,
				Balance:  record.OriginalBalance,
			})
		}
	}
	sortQuickWins(insights.QuickWins)

	insights.MonthsToDebtFree = recommended.TotalMonths
	if recommended.TotalMonths > 0 {
		insights.DebtFreeDate = datetime.OffsetMonths(now, recommended.TotalMonths)
	}

	return insights
}

// sortQuickWins orders quick wins by payoff month, then id for determinism.
func sortQuickWins(wins []QuickWin) {
	sort.Slice(wins, func(i, j int) bool {
		if wins[i].Month == wins[j].Month {
			return wins[i].DebtID < wins[j].DebtID
		}
		return wins[i].Month < wins[j].Month
	})
}
