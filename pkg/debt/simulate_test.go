package debt

import (
	"math"
	"reflect"
	"testing"
	"time"

	"affordability-engine/pkg/constants"
	"affordability-engine/pkg/datetime"
)

var simStart = datetime.MustParseTime(datetime.DateTimeLayout, "2025-01")

func testDebtSet() []Account {
	// $13,500 total balance across three debts.
	return []Account{
		{ID: "cc1", Name: "Visa", Type: TypeCreditCard, Balance: 5000, APR: 22.0, MinimumPayment: floatPtr(150)},
		{ID: "cc2", Name: "Store card", Type: TypeCreditCard, Balance: 500, APR: 19.0, MinimumPayment: floatPtr(25)},
		{ID: "loan1", Name: "Personal loan", Type: TypePersonalLoan, Balance: 8000, APR: 9.0, MinimumPayment: floatPtr(200)},
	}
}

func TestSimulateStrategyEmptyDebts(t *testing.T) {
	result := SimulateStrategy(nil, StrategyAvalanche, 100, 0)

	if result.TotalMonths != 0 {
		t.Errorf("TotalMonths = %d, expected 0", result.TotalMonths)
	}
	if result.TotalInterestPaid != 0 {
		t.Errorf("TotalInterestPaid = %.2f, expected 0", result.TotalInterestPaid)
	}
	if len(result.Schedule) != 0 {
		t.Errorf("Schedule has %d months, expected none", len(result.Schedule))
	}
}

func TestSimulateStrategyPrincipalConservation(t *testing.T) {
	for _, strategy := range AllStrategies() {
		t.Run(string(strategy), func(t *testing.T) {
			result := NewSimulator(nil).SimulateStrategyWithFixedTime(testDebtSet(), strategy, 300, 0, simStart)

			principalByDebt := make(map[string]float64)
			for _, month := range result.Schedule {
				for _, payment := range month.Payments {
					principalByDebt[payment.DebtID] += payment.Principal
				}
			}

			for _, account := range testDebtSet() {
				record, ok := result.PayoffOrder[account.ID]
				if !ok {
					t.Fatalf("missing payoff record for %s", account.ID)
				}
				if record.MonthsToPayoff > result.TotalMonths {
					continue // not retired within the horizon
				}
				if math.Abs(principalByDebt[account.ID]-account.Balance) > constants.PayoffTolerance {
					t.Errorf("%s: principal paid %.4f, expected %.2f",
						account.ID, principalByDebt[account.ID], account.Balance)
				}
			}
		})
	}
}

func TestSimulateStrategyLargeExtraPaysOffInOneMonth(t *testing.T) {
	result := SimulateStrategy(testDebtSet(), StrategyAvalanche, 50000, 0)

	if result.TotalMonths != 1 {
		t.Fatalf("TotalMonths = %d, expected 1", result.TotalMonths)
	}
	for id, record := range result.PayoffOrder {
		if record.MonthsToPayoff != 1 {
			t.Errorf("%s paid off in month %d, expected 1", id, record.MonthsToPayoff)
		}
	}
}

func TestSimulateStrategyMonthCap(t *testing.T) {
	// Minimum payment below monthly interest: the balance can never shrink.
	debts := []Account{
		{ID: "stuck", Type: TypeCreditCard, Balance: 10000, APR: 24.0, MinimumPayment: floatPtr(100)},
	}

	result := SimulateStrategy(debts, StrategyMinimumOnly, 0, 120)

	if result.TotalMonths != 120 {
		t.Errorf("TotalMonths = %d, expected cap 120", result.TotalMonths)
	}
	record := result.PayoffOrder["stuck"]
	if record.MonthsToPayoff != 120+constants.UnpaidSentinelOffset {
		t.Errorf("MonthsToPayoff = %d, expected sentinel %d",
			record.MonthsToPayoff, 120+constants.UnpaidSentinelOffset)
	}
}

func TestSimulateStrategyFreedMinimumSnowballs(t *testing.T) {
	debts := []Account{
		{ID: "small", Type: TypeCreditCard, Balance: 100, APR: 18.0, MinimumPayment: floatPtr(105)},
		{ID: "large", Type: TypeCreditCard, Balance: 5000, APR: 18.0, MinimumPayment: floatPtr(100)},
	}

	result := SimulateStrategy(debts, StrategySnowball, 0, 0)

	if result.PayoffOrder["small"].MonthsToPayoff != 1 {
		t.Fatalf("small debt paid off in month %d, expected 1", result.PayoffOrder["small"].MonthsToPayoff)
	}

	// From month 2 the freed $105 minimum tops up the payment on the
	// remaining debt even though the caller supplied no extra.
	month2 := result.Schedule[1]
	var largePayment float64
	for _, payment := range month2.Payments {
		if payment.DebtID == "large" {
			largePayment = payment.Payment
		}
	}
	if math.Abs(largePayment-205) > 0.01 {
		t.Errorf("month 2 payment on large = %.2f, expected 205", largePayment)
	}
}

func TestSimulateStrategySingleDebtExactMath(t *testing.T) {
	debts := []Account{
		{ID: "only", Type: TypeCreditCard, Balance: 1000, APR: 12.0, MinimumPayment: floatPtr(100)},
	}

	result := NewSimulator(nil).SimulateStrategyWithFixedTime(debts, StrategyMinimumOnly, 0, 0, simStart)

	first := result.Schedule[0]
	if len(first.Payments) != 1 {
		t.Fatalf("month 1 has %d payments, expected 1", len(first.Payments))
	}
	payment := first.Payments[0]
	// 1% monthly rate on 1000: $10 interest, $90 principal.
	if math.Abs(payment.Interest-10) > 0.001 {
		t.Errorf("month 1 interest = %.4f, expected 10", payment.Interest)
	}
	if math.Abs(payment.Principal-90) > 0.001 {
		t.Errorf("month 1 principal = %.4f, expected 90", payment.Principal)
	}
	if math.Abs(payment.RemainingBalance-910) > 0.001 {
		t.Errorf("month 1 remaining = %.4f, expected 910", payment.RemainingBalance)
	}
	if first.Date != "2025-02" {
		t.Errorf("month 1 date = %s, expected 2025-02", first.Date)
	}
}

func TestSimulateStrategyFinalPaymentCapped(t *testing.T) {
	debts := []Account{
		{ID: "tail", Type: TypeCreditCard, Balance: 60, APR: 12.0, MinimumPayment: floatPtr(100)},
	}

	result := SimulateStrategy(debts, StrategyMinimumOnly, 0, 0)

	if result.TotalMonths != 1 {
		t.Fatalf("TotalMonths = %d, expected 1", result.TotalMonths)
	}
	payment := result.Schedule[0].Payments[0]
	// Payment never exceeds balance plus accrued interest.
	if math.Abs(payment.Payment-60.6) > 0.001 {
		t.Errorf("final payment = %.4f, expected 60.60", payment.Payment)
	}
	if payment.RemainingBalance != 0 {
		t.Errorf("remaining balance = %.4f, expected 0", payment.RemainingBalance)
	}
}

func TestSimulateStrategyDeterministic(t *testing.T) {
	first := NewSimulator(nil).SimulateStrategyWithFixedTime(testDebtSet(), StrategyHybrid, 250, 0, simStart)
	second := NewSimulator(nil).SimulateStrategyWithFixedTime(testDebtSet(), StrategyHybrid, 250, 0, simStart)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated simulation of identical inputs produced different results")
	}
}

func TestSimulateStrategyDatesFollowStart(t *testing.T) {
	start := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	result := NewSimulator(nil).SimulateStrategyWithFixedTime(testDebtSet(), StrategyAvalanche, 200, 0, start)

	if result.Schedule[0].Date != "2025-12" {
		t.Errorf("month 1 date = %s, expected 2025-12", result.Schedule[0].Date)
	}
	if result.Schedule[1].Date != "2026-01" {
		t.Errorf("month 2 date = %s, expected 2026-01", result.Schedule[1].Date)
	}
}
