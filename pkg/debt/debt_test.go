package debt

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestEstimateMinimumPayment(t *testing.T) {
	tests := []struct {
		name          string
		debtType      Type
		balance       float64
		apr           float64
		expectedRange []float64 // [min, max]
	}{
		{
			name:          "Credit card percent of balance",
			debtType:      TypeCreditCard,
			balance:       5000,
			apr:           24.99,
			expectedRange: []float64{100, 100}, // 2% of 5000
		},
		{
			name:          "Credit card floor",
			debtType:      TypeCreditCard,
			balance:       500,
			apr:           19.99,
			expectedRange: []float64{25, 25}, // floor beats 2% of 500
		},
		{
			name:          "Mortgage amortized over 30 years",
			debtType:      TypeMortgage,
			balance:       240000,
			apr:           6.0,
			expectedRange: []float64{1430, 1450}, // Around $1439
		},
		{
			name:          "Auto loan amortized over 5 years",
			debtType:      TypeAutoLoan,
			balance:       30000,
			apr:           4.0,
			expectedRange: []float64{545, 560}, // Around $552
		},
		{
			name:          "Personal loan same term as auto",
			debtType:      TypePersonalLoan,
			balance:       30000,
			apr:           4.0,
			expectedRange: []float64{545, 560},
		},
		{
			name:          "Student loan zero interest",
			debtType:      TypeStudentLoan,
			balance:       12000,
			apr:           0.0,
			expectedRange: []float64{100, 100}, // 12000 / 120
		},
		{
			name:          "Other debt percent of balance",
			debtType:      TypeOther,
			balance:       1000,
			apr:           10.0,
			expectedRange: []float64{30, 30}, // 3% of 1000
		},
		{
			name:          "Other debt floor",
			debtType:      TypeOther,
			balance:       100,
			apr:           10.0,
			expectedRange: []float64{25, 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EstimateMinimumPayment(tt.debtType, tt.balance, tt.apr)
			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("EstimateMinimumPayment(%s, %.2f, %.2f) = %.2f, expected range [%.2f, %.2f]",
					tt.debtType, tt.balance, tt.apr, result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestNewState(t *testing.T) {
	t.Run("Explicit minimum used verbatim", func(t *testing.T) {
		state := NewState(0, Account{
			ID:             "cc1",
			Type:           TypeCreditCard,
			Balance:        5000,
			APR:            22.0,
			MinimumPayment: floatPtr(150),
		})
		if state.MinimumPayment != 150 {
			t.Errorf("MinimumPayment = %.2f, expected 150", state.MinimumPayment)
		}
		if state.IsPaidOff {
			t.Error("state unexpectedly paid off")
		}
	})

	t.Run("Missing minimum is estimated", func(t *testing.T) {
		state := NewState(0, Account{Type: TypeCreditCard, Balance: 5000, APR: 22.0})
		if math.Abs(state.MinimumPayment-100) > 0.01 {
			t.Errorf("MinimumPayment = %.2f, expected 100", state.MinimumPayment)
		}
	})

	t.Run("Zero balance starts paid off", func(t *testing.T) {
		state := NewState(0, Account{Type: TypePersonalLoan, Balance: 0, APR: 8.0})
		if !state.IsPaidOff {
			t.Error("zero-balance debt should start paid off")
		}
		if state.MinimumPayment != 0 {
			t.Errorf("paid-off debt carries minimum %.2f, expected 0", state.MinimumPayment)
		}
	})

	t.Run("Defaults for id and name", func(t *testing.T) {
		state := NewState(2, Account{Type: TypeAutoLoan, Balance: 9000, APR: 5.0})
		if state.ID != "debt-3" {
			t.Errorf("ID = %s, expected debt-3", state.ID)
		}
		if state.Name != "auto_loan" {
			t.Errorf("Name = %s, expected auto_loan", state.Name)
		}
	})

	t.Run("Input account not mutated", func(t *testing.T) {
		account := Account{ID: "x", Type: TypeCreditCard, Balance: 1000, APR: 20.0}
		before := account
		_ = NewState(0, account)
		if account != before {
			t.Error("NewState mutated the input account")
		}
	})
}
