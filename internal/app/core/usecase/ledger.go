package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
)

// Ledger 是帳務系統的介面
type Ledger interface {
	// CreateAccount 開戶，taxId 重複時回傳 ErrDuplicateAccount
	CreateAccount(ctx context.Context, name, taxID string) (domain.Customer, error)
	// FindAccount 依 taxId 取得客戶快照
	FindAccount(ctx context.Context, taxID string) (domain.Customer, error)
	// ListAccounts 取得所有客戶快照 (依 taxId 排序)
	ListAccounts(ctx context.Context) ([]domain.Customer, error)
	// UpdateAccount 修改客戶名稱
	UpdateAccount(ctx context.Context, taxID, name string) error
	// DeleteAccount 刪除帳戶，餘額必須為 0
	DeleteAccount(ctx context.Context, taxID string) error

	// Deposit 存款
	Deposit(ctx context.Context, taxID, description string, amount decimal.Decimal) (domain.Receipt, error)
	// Withdraw 提款
	Withdraw(ctx context.Context, taxID, description string, amount decimal.Decimal) (domain.Receipt, error)
	// Transfer 轉帳 (pix)，回執為轉出方
	Transfer(ctx context.Context, taxID, targetTaxID string, amount decimal.Decimal, description string) (domain.Receipt, error)

	// GetAccountBalance 取得帳戶餘額
	GetAccountBalance(ctx context.Context, taxID string) (decimal.Decimal, error)
	// GetStatement 取得完整對帳單
	GetStatement(ctx context.Context, taxID string) ([]domain.Entry, error)
	// GetStatementByDay 取得指定日期的對帳單
	GetStatementByDay(ctx context.Context, taxID string, day domain.Date) ([]domain.Entry, error)
}
