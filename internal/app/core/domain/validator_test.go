package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLimits_CheckDeposit(t *testing.T) {
	limits := domain.DefaultLimits()

	tests := []struct {
		amount string
		want   error
	}{
		{"0.1", nil},
		{"100", nil},
		{"0.09", domain.ErrBelowMinimumAmount},
		{"0", domain.ErrBelowMinimumAmount},
		{"-5", domain.ErrBelowMinimumAmount},
	}
	for _, tt := range tests {
		err := limits.CheckDeposit(d(tt.amount))
		if tt.want == nil {
			assert.NoError(t, err, "amount %s", tt.amount)
		} else {
			assert.ErrorIs(t, err, tt.want, "amount %s", tt.amount)
		}
	}
}

func TestLimits_CheckWithdraw(t *testing.T) {
	limits := domain.DefaultLimits()
	assert.NoError(t, limits.CheckWithdraw(d("0.1")))
	assert.ErrorIs(t, limits.CheckWithdraw(d("0.05")), domain.ErrBelowMinimumAmount)
}

func TestLimits_CheckTransfer(t *testing.T) {
	limits := domain.DefaultLimits()

	assert.NoError(t, limits.CheckTransfer(d("0.1")))
	assert.NoError(t, limits.CheckTransfer(d("5000")))
	assert.ErrorIs(t, limits.CheckTransfer(d("0.01")), domain.ErrBelowMinimumAmount)
	assert.ErrorIs(t, limits.CheckTransfer(d("5000.01")), domain.ErrAboveMaximumAmount)
}

func TestLimits_ZeroMinimumStillRejectsNonPositive(t *testing.T) {
	limits := domain.Limits{MaxTransfer: d("10")}

	assert.ErrorIs(t, limits.CheckDeposit(decimal.Zero), domain.ErrBelowMinimumAmount)
	assert.ErrorIs(t, limits.CheckWithdraw(d("-1")), domain.ErrBelowMinimumAmount)
	assert.NoError(t, limits.CheckTransfer(d("0.0001")))
}

func TestHasSufficientFunds(t *testing.T) {
	assert.True(t, domain.HasSufficientFunds(d("10"), d("10")))
	assert.True(t, domain.HasSufficientFunds(d("10"), d("9.99")))
	assert.False(t, domain.HasSufficientFunds(d("10"), d("10.01")))
}

func TestIsSelfTransfer(t *testing.T) {
	assert.True(t, domain.IsSelfTransfer("123", "123"))
	assert.False(t, domain.IsSelfTransfer("123", "456"))
}

func TestCanDelete(t *testing.T) {
	var s domain.Statement
	assert.NoError(t, domain.CanDelete(&s))

	now := time.Now()
	s.Append(domain.Entry{Amount: d("5"), Kind: domain.EntryKindCredit, CreatedAt: now})
	assert.ErrorIs(t, domain.CanDelete(&s), domain.ErrNonZeroBalanceOnDelete)

	s.Append(domain.Entry{Amount: d("5"), Kind: domain.EntryKindDebit, CreatedAt: now})
	assert.NoError(t, domain.CanDelete(&s))

	s.Append(domain.Entry{Amount: d("1"), Kind: domain.EntryKindDebit, CreatedAt: now})
	err := domain.CanDelete(&s)
	assert.ErrorIs(t, err, domain.ErrNonZeroBalanceOnDelete)
	assert.Contains(t, err.Error(), "negative")
}

func TestValidateCustomerInput(t *testing.T) {
	assert.NoError(t, domain.ValidateCustomerInput("Ana", "123"))
	assert.ErrorIs(t, domain.ValidateCustomerInput("Ana", "  "), domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.ValidateCustomerInput("", "123"), domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.ValidateName("\t"), domain.ErrInvalidInput)
}
