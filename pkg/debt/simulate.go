package debt

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"affordability-engine/pkg/constants"
	"affordability-engine/pkg/datetime"
	"affordability-engine/pkg/loans"
	"affordability-engine/pkg/mathutil"
)

// Payment records how one month's payment applied to a single debt.
type Payment struct {
	DebtID           string  `json:"debt_id"`
	DebtName         string  `json:"debt_name"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// MonthlyState is the append-only record of one simulated month. It is
// immutable once produced; the driver folds over these snapshots.
type MonthlyState struct {
	Month          int       `json:"month"`
	Date           string    `json:"date"`
	Payments       []Payment `json:"payments"`
	TotalPayment   float64   `json:"total_payment"`
	TotalInterest  float64   `json:"total_interest"`
	TotalPrincipal float64   `json:"total_principal"`
	RemainingDebt  float64   `json:"remaining_debt"`
	PaidOffDebts   []string  `json:"paid_off_debts,omitempty"`
}

// PayoffRecord summarizes one debt's outcome across a full simulation run.
type PayoffRecord struct {
	MonthsToPayoff  int     `json:"months_to_payoff"`
	InterestPaid    float64 `json:"interest_paid"`
	OriginalBalance float64 `json:"original_balance"`
}

// Result is the outcome of simulating one strategy over a debt set.
type Result struct {
	Strategy               Strategy                `json:"strategy"`
	TotalMonths            int                     `json:"total_months"`
	TotalInterestPaid      float64                 `json:"total_interest_paid"`
	TotalAmountPaid        float64                 `json:"total_amount_paid"`
	RequiredMonthlyPayment float64                 `json:"required_monthly_payment"`
	Schedule               []MonthlyState          `json:"schedule"`
	PayoffOrder            map[string]PayoffRecord `json:"payoff_order"`
}

// Simulator drives the month-by-month payoff simulation.
type Simulator struct {
	logger *zap.Logger
}

// NewSimulator creates a simulator instance.
func NewSimulator(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{logger: logger}
}

// SimulateStrategy projects the payoff of a debt set under one strategy
// without logging. Callers that want debug logging construct a Simulator.
func SimulateStrategy(accounts []Account, strategy Strategy, extraPayment float64, maxMonths int) Result {
	return NewSimulator(nil).SimulateStrategy(accounts, strategy, extraPayment, maxMonths)
}

// SimulateStrategy projects the payoff of a debt set under one strategy using
// the current time as the schedule start.
func (s *Simulator) SimulateStrategy(accounts []Account, strategy Strategy, extraPayment float64, maxMonths int) Result {
	return s.SimulateStrategyWithFixedTime(accounts, strategy, extraPayment, maxMonths, time.Now())
}

// SimulateStrategyWithFixedTime is SimulateStrategy with an injectable start
// time so tests get stable schedule dates. Only dates depend on the start
// time; every amount is a pure function of the inputs.
func (s *Simulator) SimulateStrategyWithFixedTime(accounts []Account, strategy Strategy, extraPayment float64, maxMonths int, startTime time.Time) Result {
	if maxMonths <= 0 {
		maxMonths = constants.DefaultMaxMonths
	}
	if strategy == StrategyMinimumOnly {
		extraPayment = 0
	}

	states := NewStates(accounts)

	result := Result{
		Strategy:    strategy,
		PayoffOrder: make(map[string]PayoffRecord, len(states)),
	}

	originalBalances := make(map[string]float64, len(states))
	interestByDebt := make(map[string]float64, len(states))
	for _, state := range states {
		originalBalances[state.ID] = state.Balance
		result.RequiredMonthlyPayment += state.MinimumPayment
	}
	result.RequiredMonthlyPayment = mathutil.Round(result.RequiredMonthlyPayment + extraPayment)

	for month := 1; month <= maxMonths; month++ {
		if len(activeStates(states)) == 0 {
			break
		}

		// Minimums freed by debts paid off in prior months join the extra
		// budget from this month on, never within the payoff month itself.
		freed := 0.0
		for _, state := range states {
			if state.IsPaidOff {
				freed += state.MinimumPayment
			}
		}

		date := datetime.OffsetMonths(startTime, month)
		var monthState MonthlyState
		states, monthState = advanceMonth(states, month, date, strategy, extraPayment+freed, interestByDebt)

		for _, id := range monthState.PaidOffDebts {
			s.logger.Debug(fmt.Sprintf("%s: debt %s paid off in month %d", date, id, month),
				zap.String("op", "debt.SimulateStrategy"),
				zap.String("strategy", string(strategy)),
			)
			result.PayoffOrder[id] = PayoffRecord{
				MonthsToPayoff:  month,
				InterestPaid:    mathutil.Round(interestByDebt[id]),
				OriginalBalance: originalBalances[id],
			}
		}

		result.Schedule = append(result.Schedule, monthState)
		result.TotalMonths = month
		result.TotalInterestPaid += monthState.TotalInterest
		result.TotalAmountPaid += monthState.TotalPayment
	}

	// Debts still active at the cap carry a sentinel months-to-payoff
	// signaling they were not retired within the horizon.
	for _, state := range states {
		if state.IsPaidOff {
			continue
		}
		s.logger.Debug(fmt.Sprintf("debt %s still active after %d months", state.ID, maxMonths),
			zap.String("op", "debt.SimulateStrategy"),
			zap.String("strategy", string(strategy)),
		)
		result.PayoffOrder[state.ID] = PayoffRecord{
			MonthsToPayoff:  maxMonths + constants.UnpaidSentinelOffset,
			InterestPaid:    mathutil.Round(interestByDebt[state.ID]),
			OriginalBalance: originalBalances[state.ID],
		}
	}

	result.TotalInterestPaid = mathutil.Round(result.TotalInterestPaid)
	result.TotalAmountPaid = mathutil.Round(result.TotalAmountPaid)
	return result
}

// advanceMonth advances every active debt by one billing cycle: interest
// accrues on the running balance, the minimum plus any allocated extra is
// applied, and payoffs are detected against the payoff tolerance. It returns
// a refreshed state slice and the immutable month record; the input states
// are not modified.
func advanceMonth(states []State, month int, date string, strategy Strategy, extraBudget float64, interestByDebt map[string]float64) ([]State, MonthlyState) {
	ordered := prioritize(states, strategy)
	allocations := allocateExtra(ordered, strategy, extraBudget)

	next := make([]State, len(states))
	monthState := MonthlyState{
		Month:    month,
		Date:     date,
		Payments: make([]Payment, 0, len(ordered)),
	}

	for i, state := range states {
		next[i] = state
		if state.IsPaidOff || !mathutil.IsPositive(state.Balance) {
			continue
		}

		interest := loans.CalculateInterestPayment(state.Balance, state.APR)
		balanceWithInterest := state.Balance + interest

		desired := state.MinimumPayment + allocations[state.ID]
		actual := mathutil.Min(desired, balanceWithInterest)
		interestPaid := mathutil.Min(interest, actual)
		principalPaid := actual - interestPaid
		newBalance := mathutil.Max(0, balanceWithInterest-actual)

		interestByDebt[state.ID] += interestPaid

		next[i].Balance = newBalance
		if newBalance <= constants.PayoffTolerance {
			next[i].Balance = 0
			next[i].IsPaidOff = true
			monthState.PaidOffDebts = append(monthState.PaidOffDebts, state.ID)
		}

		monthState.Payments = append(monthState.Payments, Payment{
			DebtID:           state.ID,
			DebtName:         state.Name,
			Payment:          actual,
			Principal:        principalPaid,
			Interest:         interestPaid,
			RemainingBalance: next[i].Balance,
		})

		monthState.TotalPayment += actual
		monthState.TotalInterest += interestPaid
		monthState.TotalPrincipal += principalPaid
		monthState.RemainingDebt += next[i].Balance
	}

	return next, monthState
}
