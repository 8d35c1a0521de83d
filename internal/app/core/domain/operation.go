package domain

import (
	"github.com/shopspring/decimal"
)

// OperationType 操作類型
type OperationType uint8

const (
	// 開戶
	OperationTypeCreate OperationType = 1
	// 修改名稱
	OperationTypeUpdate OperationType = 2
	// 刪除帳戶
	OperationTypeDelete OperationType = 3
	// 存款
	OperationTypeDeposit OperationType = 4
	// 提款
	OperationTypeWithdraw OperationType = 5
	// 轉帳 (pix)
	OperationTypeTransfer OperationType = 6
)

func (t OperationType) String() string {
	switch t {
	case OperationTypeCreate:
		return "create"
	case OperationTypeUpdate:
		return "update"
	case OperationTypeDelete:
		return "delete"
	case OperationTypeDeposit:
		return "deposit"
	case OperationTypeWithdraw:
		return "withdraw"
	case OperationTypeTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Operation 一筆會改變帳本狀態的操作，也是寫入 journal 的內容
type Operation struct {
	// Sequence: 由 Ledger 分配的遞增序號
	Sequence uint64 `json:"seq"`
	// CreatedAt: 套用時間 (UnixNano)
	CreatedAt   int64           `json:"created_at"`
	Type        OperationType   `json:"type"`
	TaxID       string          `json:"tax_id"`
	Target      string          `json:"target,omitempty"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// LockKeys 回傳需要鎖定的 taxId，依字典序排列以避免死鎖
func (o *Operation) LockKeys() (keys []string) {
	keys = make([]string, 0, 2)
	if o.Type != OperationTypeTransfer || o.Target == "" || o.Target == o.TaxID {
		return append(keys, o.TaxID)
	}
	if o.TaxID < o.Target {
		return append(keys, o.TaxID, o.Target)
	}
	return append(keys, o.Target, o.TaxID)
}
