package feeledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupay-backend/internal/money"
)

func TestValidatePayment(t *testing.T) {
	due := money.FromRupees(17000)

	tests := []struct {
		name       string
		amount     money.Amount
		balanceDue money.Amount
		wantReason RejectionReason // "" means accepted
	}{
		{"zero amount", 0, due, NonPositiveAmount},
		{"negative amount", money.FromRupees(-50), due, NonPositiveAmount},
		{"within balance", money.FromRupees(5000), due, ""},
		{"exact balance pays to zero", due, due, ""},
		{"one paisa over", due + 1, due, ExceedsOutstandingBalance},
		{"one rupee over", money.FromRupees(17001), due, ExceedsOutstandingBalance},
		{"anything against zero balance", money.FromRupees(1), 0, ExceedsOutstandingBalance},
		{"anything against overpaid balance", money.FromRupees(500), money.FromRupees(-100), ExceedsOutstandingBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rej := ValidatePayment(tt.amount, tt.balanceDue)
			if tt.wantReason == "" {
				assert.Nil(t, rej)
				return
			}
			require.NotNil(t, rej)
			assert.Equal(t, tt.wantReason, rej.Reason)
			assert.Equal(t, tt.balanceDue, rej.BalanceDue)
		})
	}
}

func TestRejectionErrorMessageCarriesBalance(t *testing.T) {
	rej := ValidatePayment(money.FromRupees(17001), money.FromRupees(17000))
	require.NotNil(t, rej)
	assert.Contains(t, rej.Error(), "17000.00")
}
