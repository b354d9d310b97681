package debt

import (
	"sort"

	"affordability-engine/pkg/mathutil"
)

// Hybrid scoring blends the avalanche and snowball orderings; APR carries the
// larger share so the blend still leans toward minimizing interest.
const (
	hybridAPRWeight     = 0.6
	hybridBalanceWeight = 0.4
)

// activeStates returns the debts still in play: not paid off and carrying a
// positive balance.
func activeStates(states []State) []State {
	active := make([]State, 0, len(states))
	for _, state := range states {
		if !state.IsPaidOff && mathutil.IsPositive(state.Balance) {
			active = append(active, state)
		}
	}
	return active
}

// SortByAvalanche orders active debts by APR descending, breaking ties by
// balance ascending. This ordering mathematically minimizes total interest.
func SortByAvalanche(states []State) []State {
	ordered := activeStates(states)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].APR == ordered[j].APR {
			return ordered[i].Balance < ordered[j].Balance
		}
		return ordered[i].APR > ordered[j].APR
	})
	return ordered
}

// SortBySnowball orders active debts by balance ascending, breaking ties by
// APR descending. This ordering maximizes early payoff count.
func SortBySnowball(states []State) []State {
	ordered := activeStates(states)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Balance == ordered[j].Balance {
			return ordered[i].APR > ordered[j].APR
		}
		return ordered[i].Balance < ordered[j].Balance
	})
	return ordered
}

// SortByHybrid scores each active debt as a weighted blend of its normalized
// APR and inverted normalized balance, then orders by score descending. The
// normalization is min-max over the current active set, so the ordering is
// recomputed every month as the set shrinks. When max == min for a dimension
// that dimension normalizes to 1 for all debts.
func SortByHybrid(states []State) []State {
	ordered := activeStates(states)
	if len(ordered) == 0 {
		return ordered
	}

	minAPR, maxAPR := ordered[0].APR, ordered[0].APR
	minBalance, maxBalance := ordered[0].Balance, ordered[0].Balance
	for _, state := range ordered[1:] {
		minAPR = mathutil.Min(minAPR, state.APR)
		maxAPR = mathutil.Max(maxAPR, state.APR)
		minBalance = mathutil.Min(minBalance, state.Balance)
		maxBalance = mathutil.Max(maxBalance, state.Balance)
	}

	normalize := func(val, lo, hi float64) float64 {
		if hi == lo {
			return 1
		}
		return (val - lo) / (hi - lo)
	}

	scores := make(map[string]float64, len(ordered))
	for _, state := range ordered {
		normAPR := normalize(state.APR, minAPR, maxAPR)
		normBalance := normalize(state.Balance, minBalance, maxBalance)
		scores[state.ID] = hybridAPRWeight*normAPR + hybridBalanceWeight*(1-normBalance)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return scores[ordered[i].ID] > scores[ordered[j].ID]
	})
	return ordered
}

// prioritize orders the active debts for the given strategy. minimum_only
// keeps the original order since it never allocates extra payment.
func prioritize(states []State, strategy Strategy) []State {
	switch strategy {
	case StrategyAvalanche:
		return SortByAvalanche(states)
	case StrategySnowball:
		return SortBySnowball(states)
	case StrategyHybrid:
		return SortByHybrid(states)
	default:
		return activeStates(states)
	}
}

// allocateExtra assigns the available extra budget down the priority order.
// The top debt absorbs the whole budget in the common case; only when the
// budget exceeds its full remaining balance does the overflow continue to the
// next debt. Minimums freed by a payoff never enter the budget until the
// following month.
func allocateExtra(ordered []State, strategy Strategy, extraBudget float64) map[string]float64 {
	allocations := make(map[string]float64)
	if strategy == StrategyMinimumOnly || extraBudget <= 0 {
		return allocations
	}

	remaining := extraBudget
	for _, target := range ordered {
		if remaining <= 0 {
			break
		}
		alloc := mathutil.Min(remaining, target.Balance)
		if alloc <= 0 {
			continue
		}
		allocations[target.ID] = alloc
		remaining -= alloc
	}
	return allocations
}
