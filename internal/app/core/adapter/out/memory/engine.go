package memory

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
)

// ErrLedgerClosed Ledger 已停止接收交易
var ErrLedgerClosed = errors.New("ledger closed")

// Journal 操作日誌 (pkg/journal.Journal 實作此介面)
type Journal interface {
	Write(v any) error
}

// Options 建立 Ledger 的參數
type Options struct {
	// Limits 交易金額門檻
	Limits domain.Limits
	// Location 對帳單按日查詢使用的時區，nil 代表 UTC
	Location *time.Location
	// Journal 操作日誌，nil 代表不記錄
	Journal Journal
	// Clock 時間來源，nil 代表 time.Now
	Clock func() time.Time
}

// account 記憶體中的帳戶
type account struct {
	// mu 只有 MutexLedger 使用，LMAXLedger 由單一 goroutine 存取
	mu        sync.RWMutex
	id        uuid.UUID
	name      string
	taxID     string
	statement domain.Statement
	// closed 帳戶已刪除，仍持有指標的操作必須視為找不到帳戶
	closed bool
}

func (a *account) snapshot() domain.Customer {
	return domain.Customer{
		ID:        a.id,
		Name:      a.name,
		TaxID:     a.taxID,
		Statement: a.statement.Entries(),
	}
}

// registry taxId -> account 對照表，本身不加鎖
type registry struct {
	accounts map[string]*account
}

func newRegistry() *registry {
	return &registry{accounts: make(map[string]*account)}
}

func (r *registry) get(taxID string) (*account, error) {
	acc, ok := r.accounts[taxID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acc, nil
}

func (r *registry) has(taxID string) bool {
	_, ok := r.accounts[taxID]
	return ok
}

func (r *registry) add(acc *account) {
	r.accounts[acc.taxID] = acc
}

func (r *registry) remove(taxID string) {
	delete(r.accounts, taxID)
}

// list 依 taxId 排序
func (r *registry) list() []*account {
	out := make([]*account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].taxID < out[j].taxID })
	return out
}

// engine 交易引擎
//
// engine 不處理帳戶的鎖，呼叫端必須保證操作期間對涉及的帳戶為唯一寫入者
type engine struct {
	limits  domain.Limits
	loc     *time.Location
	now     func() time.Time
	journal Journal

	// journalMu 保護 seq 並讓 journal 依序號寫入
	journalMu sync.Mutex
	seq       uint64
}

func newEngine(opts Options) *engine {
	e := &engine{
		limits:  opts.Limits,
		loc:     opts.Location,
		now:     opts.Clock,
		journal: opts.Journal,
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// record 分配序號並寫入 journal
//
// 必須在所有檢查通過之後、實際修改狀態之前呼叫
func (e *engine) record(op domain.Operation) error {
	e.journalMu.Lock()
	defer e.journalMu.Unlock()
	e.seq++
	op.Sequence = e.seq
	op.CreatedAt = e.now().UnixNano()
	if e.journal == nil {
		return nil
	}
	if err := e.journal.Write(op); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrJournalWriteFailed, err)
	}
	return nil
}

func (e *engine) open(name, taxID string) (*account, error) {
	if err := e.record(domain.Operation{Type: domain.OperationTypeCreate, TaxID: taxID, Name: name}); err != nil {
		return nil, err
	}
	return &account{id: uuid.New(), name: name, taxID: taxID}, nil
}

func (e *engine) rename(acc *account, name string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	if err := e.record(domain.Operation{Type: domain.OperationTypeUpdate, TaxID: acc.taxID, Name: name}); err != nil {
		return err
	}
	acc.name = name
	return nil
}

// close 檢查餘額後標記帳戶為已刪除，呼叫端負責從 registry 移除
func (e *engine) close(acc *account) error {
	if err := domain.CanDelete(&acc.statement); err != nil {
		return err
	}
	if err := e.record(domain.Operation{Type: domain.OperationTypeDelete, TaxID: acc.taxID}); err != nil {
		return err
	}
	acc.closed = true
	return nil
}

// deposit 處理存款邏輯
func (e *engine) deposit(acc *account, description string, amount decimal.Decimal) (domain.Receipt, error) {
	if err := e.limits.CheckDeposit(amount); err != nil {
		return domain.Receipt{}, err
	}
	op := domain.Operation{Type: domain.OperationTypeDeposit, TaxID: acc.taxID, Description: description, Amount: amount}
	if err := e.record(op); err != nil {
		return domain.Receipt{}, err
	}
	e.append(acc, description, amount, domain.EntryKindCredit, e.timestamp())
	return e.receipt(acc, amount), nil
}

// withdraw 處理提款邏輯
func (e *engine) withdraw(acc *account, description string, amount decimal.Decimal) (domain.Receipt, error) {
	if err := e.limits.CheckWithdraw(amount); err != nil {
		return domain.Receipt{}, err
	}
	if balance := acc.statement.Balance(); !domain.HasSufficientFunds(balance, amount) {
		return domain.Receipt{}, fmt.Errorf("%w: balance is %s", domain.ErrInsufficientFunds, balance)
	}
	op := domain.Operation{Type: domain.OperationTypeWithdraw, TaxID: acc.taxID, Description: description, Amount: amount}
	if err := e.record(op); err != nil {
		return domain.Receipt{}, err
	}
	e.append(acc, description, amount, domain.EntryKindDebit, e.timestamp())
	return e.receipt(acc, amount), nil
}

// transfer 處理轉帳邏輯
//
// 呼叫前必須已排除自己轉給自己，並且已找到轉入帳戶。兩筆帳目在同一段臨界區內寫入
func (e *engine) transfer(sender, target *account, amount decimal.Decimal, description string) (domain.Receipt, error) {
	if err := e.limits.CheckTransfer(amount); err != nil {
		return domain.Receipt{}, err
	}
	if balance := sender.statement.Balance(); !domain.HasSufficientFunds(balance, amount) {
		return domain.Receipt{}, fmt.Errorf("%w: balance is %s", domain.ErrInsufficientFunds, balance)
	}
	op := domain.Operation{
		Type:        domain.OperationTypeTransfer,
		TaxID:       sender.taxID,
		Target:      target.taxID,
		Description: description,
		Amount:      amount,
	}
	if err := e.record(op); err != nil {
		return domain.Receipt{}, err
	}
	at := e.timestamp()
	e.append(sender, description, amount, domain.EntryKindDebit, at)
	e.append(target, PixReceivedDescription(sender.name), amount, domain.EntryKindCredit, at)
	return e.receipt(sender, amount), nil
}

func (e *engine) timestamp() time.Time {
	return e.now().In(e.loc)
}

func (e *engine) append(acc *account, description string, amount decimal.Decimal, kind domain.EntryKind, at time.Time) {
	acc.statement.Append(domain.Entry{
		Description: description,
		Amount:      amount,
		Kind:        kind,
		CreatedAt:   at,
	})
}

func (e *engine) receipt(acc *account, amount decimal.Decimal) domain.Receipt {
	return domain.Receipt{TaxID: acc.taxID, Amount: amount, Balance: acc.statement.Balance()}
}

func (e *engine) statementByDay(acc *account, day domain.Date) []domain.Entry {
	out := slices.Collect(acc.statement.FilterByDay(day, e.loc))
	if out == nil {
		out = []domain.Entry{}
	}
	return out
}

// PixReceivedDescription 轉入方帳目的系統描述
func PixReceivedDescription(senderName string) string {
	return "Pix received from " + senderName
}
