// Package affordability implements the rule-evaluation engine that scores a
// proposed purchase against a person's financial snapshot: metric
// computation, purchase-impact projection, and weighted multi-rule
// aggregation with decision-threshold mapping.
package affordability

import (
	"affordability-engine/pkg/constants"
	"affordability-engine/pkg/debt"
	"affordability-engine/pkg/mathutil"
)

// Profile is a person's financial state as supplied by the caller. It is
// never mutated; metrics are recomputed fresh per request.
type Profile struct {
	MonthlyIncome   float64        `json:"monthly_income"`
	MonthlyExpenses float64        `json:"monthly_expenses"`
	CashBalance     float64        `json:"cash_balance"`
	SavingsBalance  float64        `json:"savings_balance"`
	EmergencyFund   float64        `json:"emergency_fund"`
	Debts           []debt.Account `json:"debts,omitempty"`
}

// Metrics is a pure snapshot of a profile's financial position.
type Metrics struct {
	MonthlyIncome       float64 `json:"monthly_income"`
	MonthlyExpenses     float64 `json:"monthly_expenses"`
	MonthlyDebtPayments float64 `json:"monthly_debt_payments"`
	MonthlyCashflow     float64 `json:"monthly_cashflow"`
	LiquidAssets        float64 `json:"liquid_assets"`
	TotalDebt           float64 `json:"total_debt"`
	DebtToIncomeRatio   float64 `json:"debt_to_income_ratio"`
	CreditUtilization   float64 `json:"credit_utilization"`
	EmergencyFundMonths float64 `json:"emergency_fund_months"`
	SavingsRate         float64 `json:"savings_rate"`
}

// CalculateMetrics computes the financial snapshot for a profile. Every
// division guards its denominator: a zero denominator yields 0 rather than
// an error.
func CalculateMetrics(profile Profile) Metrics {
	metrics := Metrics{
		MonthlyIncome:   profile.MonthlyIncome,
		MonthlyExpenses: profile.MonthlyExpenses,
		LiquidAssets:    profile.CashBalance + profile.SavingsBalance + profile.EmergencyFund,
	}

	states := debt.NewStates(profile.Debts)
	var cardBalances, cardLimits float64
	for _, state := range states {
		metrics.TotalDebt += state.Balance
		if !state.IsPaidOff {
			metrics.MonthlyDebtPayments += state.MinimumPayment
		}
		if state.Type == debt.TypeCreditCard && state.CreditLimit != nil && *state.CreditLimit > 0 {
			cardBalances += state.Balance
			cardLimits += *state.CreditLimit
		}
	}

	metrics.MonthlyCashflow = profile.MonthlyIncome - profile.MonthlyExpenses - metrics.MonthlyDebtPayments

	if profile.MonthlyIncome > 0 {
		annualDebt := metrics.MonthlyDebtPayments * constants.MonthsPerYear
		annualIncome := profile.MonthlyIncome * constants.MonthsPerYear
		metrics.DebtToIncomeRatio = annualDebt / annualIncome
		metrics.SavingsRate = mathutil.Max(0, metrics.MonthlyCashflow/profile.MonthlyIncome)
	}

	if cardLimits > 0 {
		metrics.CreditUtilization = cardBalances / cardLimits
	}

	essentials := profile.MonthlyExpenses + metrics.MonthlyDebtPayments
	if essentials > 0 {
		metrics.EmergencyFundMonths = metrics.LiquidAssets / essentials
	}

	return metrics
}
