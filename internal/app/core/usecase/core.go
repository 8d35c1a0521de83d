package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-pix-ledger/pkg/logger"
	"github.com/JoeShih716/go-pix-ledger/pkg/metrics"
)

// CoreUseCase 是核心業務邏輯層，負責記錄 log 與 metrics 後交給 Ledger
type CoreUseCase struct {
	ledger Ledger
	log    *logger.Logger
}

func NewCoreUseCase(ledger Ledger, log *logger.Logger) *CoreUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CoreUseCase{
		ledger: ledger,
		log:    log,
	}
}

// CreateAccount 開戶
func (c *CoreUseCase) CreateAccount(ctx context.Context, name, taxID string) (domain.Customer, error) {
	start := time.Now()
	customer, err := c.ledger.CreateAccount(ctx, name, taxID)
	c.observe(domain.OperationTypeCreate, taxID, decimal.Zero, start, err)
	if err == nil {
		metrics.AccountOpened()
	}
	return customer, err
}

// FindAccount 依 taxId 找客戶，給 HTTP 邊界的 lookup 使用
func (c *CoreUseCase) FindAccount(ctx context.Context, taxID string) (domain.Customer, error) {
	return c.ledger.FindAccount(ctx, taxID)
}

// ListAccounts 列出所有客戶
func (c *CoreUseCase) ListAccounts(ctx context.Context) ([]domain.Customer, error) {
	return c.ledger.ListAccounts(ctx)
}

// UpdateAccount 修改客戶名稱
func (c *CoreUseCase) UpdateAccount(ctx context.Context, taxID, name string) error {
	start := time.Now()
	err := c.ledger.UpdateAccount(ctx, taxID, name)
	c.observe(domain.OperationTypeUpdate, taxID, decimal.Zero, start, err)
	return err
}

// DeleteAccount 刪除帳戶
func (c *CoreUseCase) DeleteAccount(ctx context.Context, taxID string) error {
	start := time.Now()
	err := c.ledger.DeleteAccount(ctx, taxID)
	c.observe(domain.OperationTypeDelete, taxID, decimal.Zero, start, err)
	if err == nil {
		metrics.AccountClosed()
	}
	return err
}

// Deposit 存款
func (c *CoreUseCase) Deposit(ctx context.Context, taxID, description string, amount decimal.Decimal) (domain.Receipt, error) {
	start := time.Now()
	receipt, err := c.ledger.Deposit(ctx, taxID, description, amount)
	c.observe(domain.OperationTypeDeposit, taxID, amount, start, err)
	return receipt, err
}

// Withdraw 提款
func (c *CoreUseCase) Withdraw(ctx context.Context, taxID, description string, amount decimal.Decimal) (domain.Receipt, error) {
	start := time.Now()
	receipt, err := c.ledger.Withdraw(ctx, taxID, description, amount)
	c.observe(domain.OperationTypeWithdraw, taxID, amount, start, err)
	return receipt, err
}

// Transfer 轉帳 (pix)
func (c *CoreUseCase) Transfer(ctx context.Context, taxID, targetTaxID string, amount decimal.Decimal, description string) (domain.Receipt, error) {
	start := time.Now()
	receipt, err := c.ledger.Transfer(ctx, taxID, targetTaxID, amount, description)
	c.observe(domain.OperationTypeTransfer, taxID, amount, start, err)
	return receipt, err
}

// GetAccountBalance 取得帳戶餘額
func (c *CoreUseCase) GetAccountBalance(ctx context.Context, taxID string) (decimal.Decimal, error) {
	return c.ledger.GetAccountBalance(ctx, taxID)
}

// GetStatement 取得對帳單
func (c *CoreUseCase) GetStatement(ctx context.Context, taxID string) ([]domain.Entry, error) {
	return c.ledger.GetStatement(ctx, taxID)
}

// GetStatementByDay 取得指定日期的對帳單
func (c *CoreUseCase) GetStatementByDay(ctx context.Context, taxID string, day domain.Date) ([]domain.Entry, error) {
	return c.ledger.GetStatementByDay(ctx, taxID, day)
}

// observe 寫 log 與 metrics；業務規則錯誤用 warn，其餘用 error
func (c *CoreUseCase) observe(op domain.OperationType, taxID string, amount decimal.Decimal, start time.Time, err error) {
	elapsed := time.Since(start)
	if err == nil {
		metrics.RecordLedgerOperation(op.String(), "ok", elapsed)
		c.log.Info().
			Str("op", op.String()).
			Str("tax_id", taxID).
			Str("amount", amount.String()).
			Dur("elapsed", elapsed).
			Msg("ledger operation applied")
		return
	}

	code := domain.Code(err)
	metrics.RecordLedgerOperation(op.String(), code, elapsed)
	event := c.log.Warn()
	if !domain.IsBusinessError(err) {
		event = c.log.Error()
	}
	event.
		Err(err).
		Str("op", op.String()).
		Str("tax_id", taxID).
		Str("amount", amount.String()).
		Str("code", code).
		Msg("ledger operation rejected")
}
