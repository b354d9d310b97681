// Package validation provides request validation utilities.
package validation

import (
	"fmt"
	"strings"

	"affordability-engine/pkg/affordability"
	"affordability-engine/pkg/debt"
)

// FieldError ties a validation failure to the field that caused it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects field errors from a single request.
type Errors []FieldError

func (e Errors) Error() string {
	messages := make([]string, len(e))
	for i, fieldError := range e {
		messages[i] = fmt.Sprintf("%s: %s", fieldError.Field, fieldError.Message)
	}
	return strings.Join(messages, "; ")
}

// OrNil returns the collected errors as an error, or nil when empty.
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ValidateAccount checks a single debt account.
func ValidateAccount(field string, account debt.Account) Errors {
	var errs Errors

	if account.Balance < 0 {
		errs = append(errs, FieldError{field + ".balance", "must not be negative"})
	}
	if account.APR < 0 || account.APR > 100 {
		errs = append(errs, FieldError{field + ".apr", "must be between 0 and 100"})
	}
	if account.MinimumPayment != nil && *account.MinimumPayment < 0 {
		errs = append(errs, FieldError{field + ".minimum_payment", "must not be negative"})
	}
	if account.CreditLimit != nil && *account.CreditLimit <= 0 {
		errs = append(errs, FieldError{field + ".credit_limit", "must be positive"})
	}
	if account.Type != "" && !knownDebtType(account.Type) {
		errs = append(errs, FieldError{field + ".type", fmt.Sprintf("unknown debt type %q", account.Type)})
	}

	return errs
}

// ValidateAccounts checks a debt list, indexing each field error.
func ValidateAccounts(accounts []debt.Account) Errors {
	var errs Errors
	for i, account := range accounts {
		errs = append(errs, ValidateAccount(fmt.Sprintf("debts[%d]", i), account)...)
	}
	return errs
}

// ValidateStrategy checks that a payoff strategy is one of the supported ones.
func ValidateStrategy(strategy debt.Strategy) Errors {
	for _, known := range debt.AllStrategies() {
		if strategy == known {
			return nil
		}
	}
	return Errors{{"strategy", fmt.Sprintf("unknown strategy %q", strategy)}}
}

// ValidateSimulationRequest checks the inputs common to the payoff endpoints.
func ValidateSimulationRequest(accounts []debt.Account, extraPayment float64, maxMonths int) Errors {
	errs := ValidateAccounts(accounts)
	if len(accounts) == 0 {
		errs = append(errs, FieldError{"debts", "at least one debt is required"})
	}
	if extraPayment < 0 {
		errs = append(errs, FieldError{"extra_payment", "must not be negative"})
	}
	if maxMonths < 0 {
		errs = append(errs, FieldError{"max_months", "must not be negative"})
	}
	return errs
}

// ValidateProfile checks a financial profile.
func ValidateProfile(profile affordability.Profile) Errors {
	var errs Errors

	if profile.MonthlyIncome < 0 {
		errs = append(errs, FieldError{"profile.monthly_income", "must not be negative"})
	}
	if profile.MonthlyExpenses < 0 {
		errs = append(errs, FieldError{"profile.monthly_expenses", "must not be negative"})
	}
	if profile.CashBalance < 0 {
		errs = append(errs, FieldError{"profile.cash_balance", "must not be negative"})
	}
	if profile.SavingsBalance < 0 {
		errs = append(errs, FieldError{"profile.savings_balance", "must not be negative"})
	}
	if profile.EmergencyFund < 0 {
		errs = append(errs, FieldError{"profile.emergency_fund", "must not be negative"})
	}
	for i, account := range profile.Debts {
		errs = append(errs, ValidateAccount(fmt.Sprintf("profile.debts[%d]", i), account)...)
	}

	return errs
}

// ValidatePurchase checks a proposed purchase, including the financing fields
// when that payment method is selected.
func ValidatePurchase(purchase affordability.Purchase) Errors {
	var errs Errors

	if purchase.Amount <= 0 {
		errs = append(errs, FieldError{"purchase.amount", "must be positive"})
	}
	if !knownPaymentMethod(purchase.PaymentMethod) {
		errs = append(errs, FieldError{"purchase.payment_method", fmt.Sprintf("unknown payment method %q", purchase.PaymentMethod)})
	}

	if purchase.PaymentMethod == affordability.MethodFinancing {
		if purchase.TermMonths <= 0 {
			errs = append(errs, FieldError{"purchase.term_months", "must be positive for financing"})
		}
		if purchase.AnnualRate < 0 || purchase.AnnualRate > 100 {
			errs = append(errs, FieldError{"purchase.annual_rate", "must be between 0 and 100"})
		}
	}
	if purchase.DownPayment < 0 {
		errs = append(errs, FieldError{"purchase.down_payment", "must not be negative"})
	}
	if purchase.Amount > 0 && purchase.DownPayment > purchase.Amount {
		errs = append(errs, FieldError{"purchase.down_payment", "must not exceed the purchase amount"})
	}

	return errs
}

func knownDebtType(debtType debt.Type) bool {
	switch debtType {
	case debt.TypeCreditCard, debt.TypeMortgage, debt.TypeAutoLoan,
		debt.TypePersonalLoan, debt.TypeStudentLoan, debt.TypeOther:
		return true
	}
	return false
}

func knownPaymentMethod(method affordability.PaymentMethod) bool {
	switch method {
	case affordability.MethodCash, affordability.MethodDebit, affordability.MethodSavings,
		affordability.MethodCreditCard, affordability.MethodBuyNowPayLater,
		affordability.MethodFinancing, affordability.MethodMixed:
		return true
	}
	return false
}
