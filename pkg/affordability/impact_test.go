package affordability

import (
	"math"
	"testing"

	"affordability-engine/pkg/debt"
)

func TestCalculatePurchaseImpactCash(t *testing.T) {
	profile := testProfile()
	metrics := CalculateMetrics(profile)

	impact := CalculatePurchaseImpact(metrics, Purchase{Amount: 2000, PaymentMethod: MethodCash}, profile)

	if impact.ProjectedCashBalance != 10000 {
		t.Errorf("ProjectedCashBalance = %.2f, expected 10000", impact.ProjectedCashBalance)
	}
	expectedBuffer := 10000.0 / 3550.0
	if math.Abs(impact.BufferMonthsRemaining-expectedBuffer) > 0.0001 {
		t.Errorf("BufferMonthsRemaining = %.4f, expected %.4f", impact.BufferMonthsRemaining, expectedBuffer)
	}
	if math.Abs(impact.BufferConsumptionPercent-2000.0/12000.0) > 0.0001 {
		t.Errorf("BufferConsumptionPercent = %.4f, expected %.4f", impact.BufferConsumptionPercent, 2000.0/12000.0)
	}
	if impact.NewMonthlyCashflow != nil || impact.NewDebtToIncomeRatio != nil || impact.UtilizationChange != nil {
		t.Error("cash purchase should leave cashflow, DTI, and utilization projections nil")
	}
}

func TestCalculatePurchaseImpactCreditCard(t *testing.T) {
	profile := testProfile()
	metrics := CalculateMetrics(profile)

	impact := CalculatePurchaseImpact(metrics, Purchase{Amount: 3000, PaymentMethod: MethodCreditCard}, profile)

	// Liquid assets stay untouched on a card.
	if impact.ProjectedCashBalance != 12000 {
		t.Errorf("ProjectedCashBalance = %.2f, expected 12000", impact.ProjectedCashBalance)
	}
	if impact.UtilizationChange == nil {
		t.Fatal("expected a utilization change against the card limits")
	}
	if math.Abs(*impact.UtilizationChange-0.3) > 0.0001 {
		t.Errorf("UtilizationChange = %.4f, expected 0.3 (3000 over 10000 of limits)", *impact.UtilizationChange)
	}

	// New minimum: max(2% of 3000, 25) = 60.
	if impact.NewMonthlyCashflow == nil {
		t.Fatal("expected a projected cashflow")
	}
	if math.Abs(*impact.NewMonthlyCashflow-2390) > 0.0001 {
		t.Errorf("NewMonthlyCashflow = %.2f, expected 2390", *impact.NewMonthlyCashflow)
	}
	if impact.NewDebtToIncomeRatio == nil {
		t.Fatal("expected a projected debt-to-income ratio")
	}
	if math.Abs(*impact.NewDebtToIncomeRatio-110.0/6000.0) > 0.0001 {
		t.Errorf("NewDebtToIncomeRatio = %.4f, expected %.4f", *impact.NewDebtToIncomeRatio, 110.0/6000.0)
	}
}

func TestCalculatePurchaseImpactCreditCardMinimumFloor(t *testing.T) {
	profile := testProfile()
	metrics := CalculateMetrics(profile)

	impact := CalculatePurchaseImpact(metrics, Purchase{Amount: 500, PaymentMethod: MethodCreditCard}, profile)

	// 2% of 500 is 10; the floor of 25 applies.
	if math.Abs(*impact.NewMonthlyCashflow-2425) > 0.0001 {
		t.Errorf("NewMonthlyCashflow = %.2f, expected 2425", *impact.NewMonthlyCashflow)
	}
}

func TestCalculatePurchaseImpactCreditCardNoLimits(t *testing.T) {
	profile := Profile{
		MonthlyIncome:   5000,
		MonthlyExpenses: 2500,
		CashBalance:     3000,
		Debts: []debt.Account{
			{ID: "cc1", Type: debt.TypeCreditCard, Balance: 1000, APR: 20.0, MinimumPayment: floatPtr(25)},
		},
	}
	metrics := CalculateMetrics(profile)

	impact := CalculatePurchaseImpact(metrics, Purchase{Amount: 1000, PaymentMethod: MethodCreditCard}, profile)

	if impact.UtilizationChange != nil {
		t.Error("expected nil utilization change when no card declares a limit")
	}
}

func TestCalculatePurchaseImpactBuyNowPayLater(t *testing.T) {
	profile := testProfile()
	metrics := CalculateMetrics(profile)

	impact := CalculatePurchaseImpact(metrics, Purchase{Amount: 1000, PaymentMethod: MethodBuyNowPayLater}, profile)

	// A quarter up front, half the amount against near-term cashflow.
	if impact.ProjectedCashBalance != 11750 {
		t.Errorf("ProjectedCashBalance = %.2f, expected 11750", impact.ProjectedCashBalance)
	}
	if impact.NewMonthlyCashflow == nil || math.Abs(*impact.NewMonthlyCashflow-1950) > 0.0001 {
		t.Errorf("NewMonthlyCashflow = %v, expected 1950", impact.NewMonthlyCashflow)
	}
}

func TestCalculatePurchaseImpactFinancing(t *testing.T) {
	profile := testProfile()
	metrics := CalculateMetrics(profile)

	impact := CalculatePurchaseImpact(metrics, Purchase{
		Amount:        12000,
		PaymentMethod: MethodFinancing,
		DownPayment:   2000,
		TermMonths:    48,
		AnnualRate:    6.0,
	}, profile)

	if impact.ProjectedCashBalance != 10000 {
		t.Errorf("ProjectedCashBalance = %.2f, expected 10000 after the down payment", impact.ProjectedCashBalance)
	}
	if impact.NewMonthlyCashflow == nil {
		t.Fatal("expected a projected cashflow")
	}
	// Amortized payment on 10000 financed at 6% over 48 months is ~234.85.
	monthlyPayment := metrics.MonthlyCashflow - *impact.NewMonthlyCashflow
	if monthlyPayment < 230 || monthlyPayment > 240 {
		t.Errorf("implied monthly payment = %.2f, expected around 235", monthlyPayment)
	}
	if impact.NewDebtToIncomeRatio == nil {
		t.Error("expected a projected debt-to-income ratio")
	}
}

func TestCalculatePurchaseImpactMixed(t *testing.T) {
	profile := testProfile()
	metrics := CalculateMetrics(profile)

	impact := CalculatePurchaseImpact(metrics, Purchase{Amount: 2000, PaymentMethod: MethodMixed}, profile)

	if impact.ProjectedCashBalance != 11000 {
		t.Errorf("ProjectedCashBalance = %.2f, expected 11000 for a half-cash split", impact.ProjectedCashBalance)
	}
}

func TestCalculatePurchaseImpactExceedsLiquidAssets(t *testing.T) {
	profile := testProfile()
	metrics := CalculateMetrics(profile)

	impact := CalculatePurchaseImpact(metrics, Purchase{Amount: 15000, PaymentMethod: MethodCash}, profile)

	if impact.ProjectedCashBalance >= 0 {
		t.Errorf("ProjectedCashBalance = %.2f, expected negative", impact.ProjectedCashBalance)
	}
	if impact.BufferMonthsRemaining != 0 {
		t.Errorf("BufferMonthsRemaining = %.4f, expected floor of 0", impact.BufferMonthsRemaining)
	}
	if impact.BufferConsumptionPercent <= 1 {
		t.Errorf("BufferConsumptionPercent = %.4f, expected above 1", impact.BufferConsumptionPercent)
	}
}

func TestCalculatePurchaseImpactNoIncome(t *testing.T) {
	profile := Profile{MonthlyExpenses: 1000, CashBalance: 5000}
	metrics := CalculateMetrics(profile)

	impact := CalculatePurchaseImpact(metrics, Purchase{Amount: 200, PaymentMethod: MethodCash}, profile)

	if impact.PurchaseToIncomeRatio != 1 {
		t.Errorf("PurchaseToIncomeRatio = %.4f, expected 1 with no income", impact.PurchaseToIncomeRatio)
	}
}
