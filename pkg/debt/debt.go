// Package debt implements the multi-strategy debt payoff simulator: it
// normalizes raw debt accounts into simulation-ready state, projects
// month-by-month amortization under competing prioritization strategies, and
// compares the strategies to produce a recommendation and summary insights.
package debt

import (
	"fmt"

	"affordability-engine/pkg/constants"
	"affordability-engine/pkg/loans"
	"affordability-engine/pkg/mathutil"
)

// Type categorizes a debt account; the category selects the minimum-payment
// estimation formula when no explicit minimum is supplied.
type Type string

const (
	TypeCreditCard   Type = "credit_card"
	TypeMortgage     Type = "mortgage"
	TypeAutoLoan     Type = "auto_loan"
	TypePersonalLoan Type = "personal_loan"
	TypeStudentLoan  Type = "student_loan"
	TypeOther        Type = "other"
)

// Strategy selects the priority order for extra-payment allocation.
type Strategy string

const (
	StrategyAvalanche   Strategy = "avalanche"
	StrategySnowball    Strategy = "snowball"
	StrategyHybrid      Strategy = "hybrid"
	StrategyMinimumOnly Strategy = "minimum_only"
)

// AllStrategies lists every supported strategy in comparison order.
func AllStrategies() []Strategy {
	return []Strategy{StrategyAvalanche, StrategySnowball, StrategyHybrid, StrategyMinimumOnly}
}

// Account is a raw debt record as supplied by the caller. It is never mutated;
// simulations work on State copies derived from it.
type Account struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name,omitempty"`
	Type           Type     `json:"type"`
	Balance        float64  `json:"balance"`
	APR            float64  `json:"apr"`
	MinimumPayment *float64 `json:"minimum_payment,omitempty"`
	CreditLimit    *float64 `json:"credit_limit,omitempty"`
}

// State is the working copy of a debt during one simulation run. It is created
// once per run and replaced month over month with refreshed snapshots.
type State struct {
	ID             string
	Name           string
	Type           Type
	Balance        float64
	APR            float64
	MinimumPayment float64
	CreditLimit    *float64
	IsPaidOff      bool
}

// NewState derives a simulation-ready State from an Account, resolving the
// minimum payment. A zero-balance account is initialized as already paid off
// and carries no minimum payment.
func NewState(index int, account Account) State {
	id := account.ID
	if id == "" {
		id = fmt.Sprintf("debt-%d", index+1)
	}
	name := account.Name
	if name == "" {
		name = string(account.Type)
	}

	state := State{
		ID:          id,
		Name:        name,
		Type:        account.Type,
		Balance:     account.Balance,
		APR:         account.APR,
		CreditLimit: account.CreditLimit,
	}

	if mathutil.IsZero(state.Balance) {
		state.Balance = 0
		state.IsPaidOff = true
		return state
	}

	if account.MinimumPayment != nil {
		state.MinimumPayment = *account.MinimumPayment
	} else {
		state.MinimumPayment = EstimateMinimumPayment(account.Type, account.Balance, account.APR)
	}

	return state
}

// NewStates builds working states for a full account set.
func NewStates(accounts []Account) []State {
	states := make([]State, len(accounts))
	for i, account := range accounts {
		states[i] = NewState(i, account)
	}
	return states
}

// EstimateMinimumPayment estimates a monthly minimum payment by debt type when
// the account does not carry one. Revolving debt uses a percent-of-balance
// floor; installment debt uses the standard amortized payment over an assumed
// term. The result is rounded to cents.
func EstimateMinimumPayment(debtType Type, balance, apr float64) float64 {
	var payment float64
	switch debtType {
	case TypeCreditCard:
		payment = mathutil.Max(constants.CreditCardMinimumRate*balance, constants.MinimumPaymentFloor)
	case TypeMortgage:
		payment = loans.CalculateMonthlyPayment(balance, 0, apr, constants.MortgageTermMonths)
	case TypeAutoLoan, TypePersonalLoan:
		payment = loans.CalculateMonthlyPayment(balance, 0, apr, constants.InstallmentTermMonths)
	case TypeStudentLoan:
		payment = loans.CalculateMonthlyPayment(balance, 0, apr, constants.StudentLoanTermMonths)
	default:
		payment = mathutil.Max(constants.OtherDebtMinimumRate*balance, constants.MinimumPaymentFloor)
	}
	return mathutil.Round(payment)
}
