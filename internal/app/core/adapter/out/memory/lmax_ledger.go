package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-pix-ledger/internal/app/core/usecase"
)

// request 交易請求包裝 channel，讓呼叫端可以等待結果
type request struct {
	Fn     func() error
	Result chan error // 呼叫端等這個 channel
}

// LMAXLedger 所有操作 (包含查詢) 都交給單一 goroutine 依序執行
//
// registry 與帳戶只會被 run loop 存取，因此不需要任何帳戶鎖
type LMAXLedger struct {
	registry *registry
	engine   *engine
	// 輸送帶 負責接收交易
	requests chan *request
	// Pool 減少 GC 壓力
	requestPool sync.Pool

	// intakeMu 保護 closed，關閉前等待所有送件中的呼叫端
	intakeMu sync.RWMutex
	closed   bool
	// stopped 在 run loop 處理完剩餘請求後關閉
	stopped chan struct{}
}

// NewLMAXLedger 建立一個新的 LMAXLedger 實例，需呼叫 Start 後才會處理請求
//
// 參數:
//
//	opts: 門檻、時區、journal 等設定
//
// 回傳:
//
//	*LMAXLedger: LMAXLedger 實例
func NewLMAXLedger(opts Options) *LMAXLedger {
	return &LMAXLedger{
		registry: newRegistry(),
		engine:   newEngine(opts),
		requests: make(chan *request, 1000), // Buffer 1000
		requestPool: sync.Pool{
			New: func() interface{} {
				return &request{
					Result: make(chan error, 1),
				}
			},
		},
		stopped: make(chan struct{}),
	}
}

// Start 啟動核心引擎 (非同步)，ctx 結束後不再接收新請求，已收到的請求會處理完
func (l *LMAXLedger) Start(ctx context.Context) {
	go l.run(ctx.Done())
}

// Done 在所有已接收的請求處理完畢後關閉
func (l *LMAXLedger) Done() <-chan struct{} {
	return l.stopped
}

func (l *LMAXLedger) run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			done = nil
			go l.closeIntake()
		case req, ok := <-l.requests:
			if !ok {
				close(l.stopped)
				return
			}
			req.Result <- req.Fn()
		}
	}
}

func (l *LMAXLedger) closeIntake() {
	l.intakeMu.Lock()
	defer l.intakeMu.Unlock()
	l.closed = true
	close(l.requests)
}

// submit 放入輸送帶並等待 run loop 的結果
//
// PostTransaction(等待) -> Channel -> Run Loop (核心) -> Journal -> State Update -> Result Channel
func (l *LMAXLedger) submit(fn func() error) error {
	req := l.requestPool.Get().(*request)
	req.Fn = fn

	l.intakeMu.RLock()
	if l.closed {
		l.intakeMu.RUnlock()
		req.Fn = nil
		l.requestPool.Put(req)
		return ErrLedgerClosed
	}
	l.requests <- req
	l.intakeMu.RUnlock()

	err := <-req.Result
	req.Fn = nil
	l.requestPool.Put(req)
	return err
}

// CreateAccount 開戶
func (l *LMAXLedger) CreateAccount(ctx context.Context, name, taxID string) (customer domain.Customer, err error) {
	if err := domain.ValidateCustomerInput(name, taxID); err != nil {
		return domain.Customer{}, err
	}
	err = l.submit(func() error {
		if l.registry.has(taxID) {
			return domain.ErrDuplicateAccount
		}
		acc, err := l.engine.open(name, taxID)
		if err != nil {
			return err
		}
		l.registry.add(acc)
		customer = acc.snapshot()
		return nil
	})
	return customer, err
}

// FindAccount 依 taxId 取得客戶快照
func (l *LMAXLedger) FindAccount(ctx context.Context, taxID string) (customer domain.Customer, err error) {
	err = l.withAccount(taxID, func(acc *account) error {
		customer = acc.snapshot()
		return nil
	})
	return customer, err
}

// ListAccounts 取得所有客戶快照
func (l *LMAXLedger) ListAccounts(ctx context.Context) (customers []domain.Customer, err error) {
	err = l.submit(func() error {
		accounts := l.registry.list()
		customers = make([]domain.Customer, 0, len(accounts))
		for _, acc := range accounts {
			customers = append(customers, acc.snapshot())
		}
		return nil
	})
	return customers, err
}

// UpdateAccount 修改客戶名稱
func (l *LMAXLedger) UpdateAccount(ctx context.Context, taxID, name string) error {
	return l.withAccount(taxID, func(acc *account) error {
		return l.engine.rename(acc, name)
	})
}

// DeleteAccount 刪除帳戶
func (l *LMAXLedger) DeleteAccount(ctx context.Context, taxID string) error {
	return l.withAccount(taxID, func(acc *account) error {
		if err := l.engine.close(acc); err != nil {
			return err
		}
		l.registry.remove(taxID)
		return nil
	})
}

// Deposit 存款
func (l *LMAXLedger) Deposit(ctx context.Context, taxID, description string, amount decimal.Decimal) (receipt domain.Receipt, err error) {
	err = l.withAccount(taxID, func(acc *account) error {
		receipt, err = l.engine.deposit(acc, description, amount)
		return err
	})
	return receipt, err
}

// Withdraw 提款
func (l *LMAXLedger) Withdraw(ctx context.Context, taxID, description string, amount decimal.Decimal) (receipt domain.Receipt, err error) {
	err = l.withAccount(taxID, func(acc *account) error {
		receipt, err = l.engine.withdraw(acc, description, amount)
		return err
	})
	return receipt, err
}

// Transfer 轉帳
func (l *LMAXLedger) Transfer(ctx context.Context, taxID, targetTaxID string, amount decimal.Decimal, description string) (receipt domain.Receipt, err error) {
	err = l.withAccount(taxID, func(sender *account) error {
		if domain.IsSelfTransfer(taxID, targetTaxID) {
			return domain.ErrSelfTransferNotAllowed
		}
		target, err := l.registry.get(targetTaxID)
		if err != nil {
			return err
		}
		receipt, err = l.engine.transfer(sender, target, amount, description)
		return err
	})
	return receipt, err
}

// GetAccountBalance 取得指定帳戶的當前餘額
func (l *LMAXLedger) GetAccountBalance(ctx context.Context, taxID string) (balance decimal.Decimal, err error) {
	err = l.withAccount(taxID, func(acc *account) error {
		balance = acc.statement.Balance()
		return nil
	})
	return balance, err
}

// GetStatement 取得完整對帳單
func (l *LMAXLedger) GetStatement(ctx context.Context, taxID string) (entries []domain.Entry, err error) {
	err = l.withAccount(taxID, func(acc *account) error {
		entries = acc.statement.Entries()
		return nil
	})
	return entries, err
}

// GetStatementByDay 取得指定日期的對帳單
func (l *LMAXLedger) GetStatementByDay(ctx context.Context, taxID string, day domain.Date) (entries []domain.Entry, err error) {
	err = l.withAccount(taxID, func(acc *account) error {
		entries = l.engine.statementByDay(acc, day)
		return nil
	})
	return entries, err
}

// withAccount 在 run loop 內找到帳戶後執行 fn
func (l *LMAXLedger) withAccount(taxID string, fn func(acc *account) error) error {
	return l.submit(func() error {
		acc, err := l.registry.get(taxID)
		if err != nil {
			return err
		}
		return fn(acc)
	})
}

var _ usecase.Ledger = (*LMAXLedger)(nil)
