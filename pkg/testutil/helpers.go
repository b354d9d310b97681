// Package testutil provides common utility functions for testing.
package testutil

import (
	"affordability-engine/pkg/debt"
)

// FindPayment finds the payment applied to a debt within a monthly state.
// Returns a pointer to the payment if found, nil otherwise.
func FindPayment(month debt.MonthlyState, debtID string) *debt.Payment {
	for i := range month.Payments {
		if month.Payments[i].DebtID == debtID {
			return &month.Payments[i]
		}
	}
	return nil
}

// TotalPrincipal sums the principal paid to a debt across a schedule.
func TotalPrincipal(schedule []debt.MonthlyState, debtID string) float64 {
	var total float64
	for _, month := range schedule {
		if payment := FindPayment(month, debtID); payment != nil {
			total += payment.Principal
		}
	}
	return total
}
