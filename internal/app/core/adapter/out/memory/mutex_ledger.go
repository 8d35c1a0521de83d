package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-pix-ledger/internal/app/core/usecase"
)

// MutexLedger 是一個使用 Mutex 實現的帳本
//
// 結構:
//
//	mu: 保護 registry (taxId -> account 對照表)
//	registry: 帳戶資料
//	engine: 交易引擎
//
// 每個帳戶有自己的 RWMutex: 同一帳戶的寫入互斥，查詢可並行。
// 轉帳依 taxId 字典序鎖定兩個帳戶，避免死鎖。
// 鎖的順序固定為 帳戶 -> mu，不會反過來持有。
type MutexLedger struct {
	mu       sync.RWMutex
	registry *registry
	engine   *engine
}

// NewMutexLedger 建立一個新的 MutexLedger 實例
//
// 參數:
//
//	opts: 門檻、時區、journal 等設定
//
// 回傳:
//
//	*MutexLedger: MutexLedger 實例
func NewMutexLedger(opts Options) *MutexLedger {
	return &MutexLedger{
		registry: newRegistry(),
		engine:   newEngine(opts),
	}
}

// CreateAccount 開戶
//
// 重複檢查與寫入都在 mu 寫鎖內完成，同時開同一個 taxId 只會有一個成功
func (m *MutexLedger) CreateAccount(ctx context.Context, name, taxID string) (domain.Customer, error) {
	if err := domain.ValidateCustomerInput(name, taxID); err != nil {
		return domain.Customer{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registry.has(taxID) {
		return domain.Customer{}, domain.ErrDuplicateAccount
	}
	acc, err := m.engine.open(name, taxID)
	if err != nil {
		return domain.Customer{}, err
	}
	m.registry.add(acc)
	return acc.snapshot(), nil
}

// FindAccount 依 taxId 取得客戶快照
func (m *MutexLedger) FindAccount(ctx context.Context, taxID string) (customer domain.Customer, err error) {
	err = m.withAccount(taxID, false, func(acc *account) error {
		customer = acc.snapshot()
		return nil
	})
	return customer, err
}

// ListAccounts 取得所有客戶快照
func (m *MutexLedger) ListAccounts(ctx context.Context) ([]domain.Customer, error) {
	m.mu.RLock()
	accounts := m.registry.list()
	m.mu.RUnlock()

	out := make([]domain.Customer, 0, len(accounts))
	for _, acc := range accounts {
		acc.mu.RLock()
		if !acc.closed {
			out = append(out, acc.snapshot())
		}
		acc.mu.RUnlock()
	}
	return out, nil
}

// UpdateAccount 修改客戶名稱
func (m *MutexLedger) UpdateAccount(ctx context.Context, taxID, name string) error {
	return m.withAccount(taxID, true, func(acc *account) error {
		return m.engine.rename(acc, name)
	})
}

// DeleteAccount 刪除帳戶
//
// 持有帳戶寫鎖期間檢查餘額並標記 closed，之後才從 registry 移除
func (m *MutexLedger) DeleteAccount(ctx context.Context, taxID string) error {
	return m.withAccount(taxID, true, func(acc *account) error {
		if err := m.engine.close(acc); err != nil {
			return err
		}
		m.mu.Lock()
		m.registry.remove(taxID)
		m.mu.Unlock()
		return nil
	})
}

// Deposit 存款
func (m *MutexLedger) Deposit(ctx context.Context, taxID, description string, amount decimal.Decimal) (receipt domain.Receipt, err error) {
	err = m.withAccount(taxID, true, func(acc *account) error {
		receipt, err = m.engine.deposit(acc, description, amount)
		return err
	})
	return receipt, err
}

// Withdraw 提款
func (m *MutexLedger) Withdraw(ctx context.Context, taxID, description string, amount decimal.Decimal) (receipt domain.Receipt, err error) {
	err = m.withAccount(taxID, true, func(acc *account) error {
		receipt, err = m.engine.withdraw(acc, description, amount)
		return err
	})
	return receipt, err
}

// Transfer 轉帳
//
// 參數:
//
//	taxID: 轉出方
//	targetTaxID: 轉入方
//	amount: 金額
//	description: 轉出方帳目描述
//
// 回傳:
//
//	domain.Receipt: 轉出方回執
//	error: 處理錯誤 (如餘額不足)
func (m *MutexLedger) Transfer(ctx context.Context, taxID, targetTaxID string, amount decimal.Decimal, description string) (domain.Receipt, error) {
	sender, err := m.lookup(taxID)
	if err != nil {
		return domain.Receipt{}, err
	}
	if domain.IsSelfTransfer(taxID, targetTaxID) {
		return domain.Receipt{}, domain.ErrSelfTransferNotAllowed
	}
	target, err := m.lookup(targetTaxID)
	if err != nil {
		return domain.Receipt{}, err
	}

	op := domain.Operation{Type: domain.OperationTypeTransfer, TaxID: taxID, Target: targetTaxID}
	keys := op.LockKeys()
	first, second := sender, target
	if keys[0] != taxID {
		first, second = target, sender
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if sender.closed || target.closed {
		return domain.Receipt{}, domain.ErrAccountNotFound
	}
	return m.engine.transfer(sender, target, amount, description)
}

// GetAccountBalance 取得指定帳戶的當前餘額
func (m *MutexLedger) GetAccountBalance(ctx context.Context, taxID string) (balance decimal.Decimal, err error) {
	err = m.withAccount(taxID, false, func(acc *account) error {
		balance = acc.statement.Balance()
		return nil
	})
	return balance, err
}

// GetStatement 取得完整對帳單
func (m *MutexLedger) GetStatement(ctx context.Context, taxID string) (entries []domain.Entry, err error) {
	err = m.withAccount(taxID, false, func(acc *account) error {
		entries = acc.statement.Entries()
		return nil
	})
	return entries, err
}

// GetStatementByDay 取得指定日期的對帳單
func (m *MutexLedger) GetStatementByDay(ctx context.Context, taxID string, day domain.Date) (entries []domain.Entry, err error) {
	err = m.withAccount(taxID, false, func(acc *account) error {
		entries = m.engine.statementByDay(acc, day)
		return nil
	})
	return entries, err
}

func (m *MutexLedger) lookup(taxID string) (*account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registry.get(taxID)
}

// withAccount 鎖定帳戶後執行 fn；write 為 true 時取得寫鎖
func (m *MutexLedger) withAccount(taxID string, write bool, fn func(acc *account) error) error {
	acc, err := m.lookup(taxID)
	if err != nil {
		return err
	}
	if write {
		acc.mu.Lock()
		defer acc.mu.Unlock()
	} else {
		acc.mu.RLock()
		defer acc.mu.RUnlock()
	}
	if acc.closed {
		return domain.ErrAccountNotFound
	}
	return fn(acc)
}

var _ usecase.Ledger = (*MutexLedger)(nil)
