package affordability

import (
	"affordability-engine/pkg/constants"
	"affordability-engine/pkg/debt"
	"affordability-engine/pkg/loans"
	"affordability-engine/pkg/mathutil"
)

// PaymentMethod selects the purchase-impact projection formula.
type PaymentMethod string

const (
	MethodCash           PaymentMethod = "cash"
	MethodDebit          PaymentMethod = "debit"
	MethodSavings        PaymentMethod = "savings"
	MethodCreditCard     PaymentMethod = "credit_card"
	MethodBuyNowPayLater PaymentMethod = "buy_now_pay_later"
	MethodFinancing      PaymentMethod = "financing"
	MethodMixed          PaymentMethod = "mixed"
)

// Buy-now-pay-later approximations: a quarter of the amount leaves liquid
// assets up front (one of four installments) and half the amount weighs on
// near-term cashflow.
const (
	bnplUpfrontShare  = 0.25
	bnplCashflowShare = 0.5
)

// mixedCashShare approximates a 50/50 cash and credit split.
const mixedCashShare = 0.5

// Purchase describes a proposed purchase and how it would be paid.
type Purchase struct {
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	DownPayment   float64       `json:"down_payment,omitempty"`
	TermMonths    int           `json:"term_months,omitempty"`
	AnnualRate    float64       `json:"annual_rate,omitempty"`
}

// Impact projects the effect of a purchase on a financial snapshot. Pointer
// fields are nil when the payment method leaves that dimension untouched or
// the data to compute it is missing.
type Impact struct {
	ProjectedCashBalance     float64  `json:"projected_cash_balance"`
	BufferMonthsRemaining    float64  `json:"buffer_months_remaining"`
	NewMonthlyCashflow       *float64 `json:"new_monthly_cashflow,omitempty"`
	NewDebtToIncomeRatio     *float64 `json:"new_debt_to_income_ratio,omitempty"`
	UtilizationChange        *float64 `json:"utilization_change,omitempty"`
	BufferConsumptionPercent float64  `json:"buffer_consumption_percent"`
	PurchaseToIncomeRatio    float64  `json:"purchase_to_income_ratio"`
}

// CalculatePurchaseImpact projects how a specific purchase shifts the
// snapshot under the proposed payment method.
func CalculatePurchaseImpact(metrics Metrics, purchase Purchase, profile Profile) Impact {
	impact := Impact{}
	projectedCash := metrics.LiquidAssets

	switch purchase.PaymentMethod {
	case MethodCash, MethodDebit, MethodSavings:
		projectedCash -= purchase.Amount

	case MethodCreditCard:
		// Liquid assets untouched; the new balance shows up as a higher
		// utilization and an estimated new minimum payment.
		if limits := totalCardLimits(profile); limits > 0 {
			change := purchase.Amount / limits
			impact.UtilizationChange = &change
		}
		newMinimum := mathutil.Max(constants.CreditCardMinimumRate*purchase.Amount, constants.MinimumPaymentFloor)
		cashflow := metrics.MonthlyCashflow - newMinimum
		impact.NewMonthlyCashflow = &cashflow
		impact.NewDebtToIncomeRatio = recomputeDTI(metrics, newMinimum)

	case MethodBuyNowPayLater:
		projectedCash -= purchase.Amount * bnplUpfrontShare
		cashflow := metrics.MonthlyCashflow - purchase.Amount*bnplCashflowShare
		impact.NewMonthlyCashflow = &cashflow

	case MethodFinancing:
		projectedCash -= purchase.DownPayment
		monthlyPayment := loans.CalculateMonthlyPayment(purchase.Amount, purchase.DownPayment, purchase.AnnualRate, purchase.TermMonths)
		cashflow := metrics.MonthlyCashflow - monthlyPayment
		impact.NewMonthlyCashflow = &cashflow
		impact.NewDebtToIncomeRatio = recomputeDTI(metrics, monthlyPayment)

	default: // mixed and anything unrecognized
		projectedCash -= purchase.Amount * mixedCashShare
	}

	impact.ProjectedCashBalance = projectedCash

	essentials := metrics.MonthlyExpenses + metrics.MonthlyDebtPayments
	if essentials > 0 {
		impact.BufferMonthsRemaining = mathutil.Max(0, projectedCash/essentials)
	}

	if metrics.LiquidAssets > 0 {
		impact.BufferConsumptionPercent = mathutil.Max(0, 1-projectedCash/metrics.LiquidAssets)
	} else {
		impact.BufferConsumptionPercent = 1
	}

	if metrics.MonthlyIncome > 0 {
		impact.PurchaseToIncomeRatio = purchase.Amount / metrics.MonthlyIncome
	} else {
		impact.PurchaseToIncomeRatio = 1
	}

	return impact
}

// recomputeDTI folds an additional monthly payment into the debt-to-income
// ratio; nil when there is no income to ratio against.
func recomputeDTI(metrics Metrics, addedPayment float64) *float64 {
	if metrics.MonthlyIncome <= 0 {
		return nil
	}
	dti := (metrics.MonthlyDebtPayments + addedPayment) / metrics.MonthlyIncome
	return &dti
}

// totalCardLimits sums the credit limits across the profile's cards that
// declare one.
func totalCardLimits(profile Profile) float64 {
	var limits float64
	for _, account := range profile.Debts {
		if account.Type == debt.TypeCreditCard && account.CreditLimit != nil && *account.CreditLimit > 0 {
			limits += *account.CreditLimit
		}
	}
	return limits
}
