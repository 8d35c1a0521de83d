package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Limits 交易金額門檻
type Limits struct {
	MinDeposit  decimal.Decimal
	MinWithdraw decimal.Decimal
	MinTransfer decimal.Decimal
	MaxTransfer decimal.Decimal
}

// DefaultLimits 預設門檻: 存款/提款/轉帳最少 0.1，轉帳最多 5000
func DefaultLimits() Limits {
	return Limits{
		MinDeposit:  decimal.RequireFromString("0.1"),
		MinWithdraw: decimal.RequireFromString("0.1"),
		MinTransfer: decimal.RequireFromString("0.1"),
		MaxTransfer: decimal.NewFromInt(5000),
	}
}

// CheckDeposit 檢查存款金額
func (l Limits) CheckDeposit(amount decimal.Decimal) error {
	return checkMinimum(amount, l.MinDeposit)
}

// CheckWithdraw 檢查提款金額
func (l Limits) CheckWithdraw(amount decimal.Decimal) error {
	return checkMinimum(amount, l.MinWithdraw)
}

// CheckTransfer 檢查轉帳金額是否落在 [MinTransfer, MaxTransfer]
func (l Limits) CheckTransfer(amount decimal.Decimal) error {
	if err := checkMinimum(amount, l.MinTransfer); err != nil {
		return err
	}
	if amount.GreaterThan(l.MaxTransfer) {
		return fmt.Errorf("%w: transfer limit is %s", ErrAboveMaximumAmount, l.MaxTransfer)
	}
	return nil
}

// 帳目金額必須為正數，門檻設為 0 時也一樣
func checkMinimum(amount, minimum decimal.Decimal) error {
	if !amount.IsPositive() || amount.LessThan(minimum) {
		return fmt.Errorf("%w: minimum is %s", ErrBelowMinimumAmount, minimum)
	}
	return nil
}

// HasSufficientFunds balance >= amount
func HasSufficientFunds(balance, amount decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(amount)
}

// IsSelfTransfer 轉出與轉入是否為同一帳戶
func IsSelfTransfer(senderTaxID, targetTaxID string) bool {
	return senderTaxID == targetTaxID
}
