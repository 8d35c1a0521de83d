package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer 客戶快照
//
// Ledger 是客戶資料唯一的擁有者，對外只回傳副本
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"taxId"`
	Statement []Entry   `json:"statement"`
}

// Receipt 存款 / 提款 / 轉帳成功後的回執
type Receipt struct {
	TaxID   string          `json:"taxId"`
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"`
}

// ValidateCustomerInput 檢查建立帳戶的欄位
func ValidateCustomerInput(name, taxID string) error {
	if strings.TrimSpace(taxID) == "" {
		return fmt.Errorf("%w: taxId is required", ErrInvalidInput)
	}
	return ValidateName(name)
}

// ValidateName 檢查客戶名稱
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return nil
}
