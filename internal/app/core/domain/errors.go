package domain

import "errors"

var (
	// ErrDuplicateAccount 相同 taxId 的帳戶已存在
	ErrDuplicateAccount = errors.New("customer already exists")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("customer not found")

	// ErrBelowMinimumAmount 金額低於下限
	ErrBelowMinimumAmount = errors.New("amount below minimum")

	// ErrAboveMaximumAmount 金額高於上限
	ErrAboveMaximumAmount = errors.New("amount above maximum")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSelfTransferNotAllowed 不可轉帳給自己
	ErrSelfTransferNotAllowed = errors.New("self transfer not allowed")

	// ErrNonZeroBalanceOnDelete 餘額不為零，不可刪除帳戶
	ErrNonZeroBalanceOnDelete = errors.New("balance must be zero to delete account")

	// ErrInvalidInput 輸入欄位不合法 (例如空白的 name / taxId)
	ErrInvalidInput = errors.New("invalid input")

	// ErrJournalWriteFailed 寫入操作日誌失敗
	ErrJournalWriteFailed = errors.New("journal write failed")
)

// 錯誤代碼，提供給 HTTP / gRPC 邊界回傳
const (
	CodeDuplicateAccount       = "DUPLICATE_ACCOUNT"
	CodeAccountNotFound        = "ACCOUNT_NOT_FOUND"
	CodeBelowMinimumAmount     = "BELOW_MINIMUM_AMOUNT"
	CodeAboveMaximumAmount     = "ABOVE_MAXIMUM_AMOUNT"
	CodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	CodeSelfTransferNotAllowed = "SELF_TRANSFER_NOT_ALLOWED"
	CodeNonZeroBalanceOnDelete = "NON_ZERO_BALANCE_ON_DELETE"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeInternal               = "INTERNAL"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrDuplicateAccount, CodeDuplicateAccount},
	{ErrAccountNotFound, CodeAccountNotFound},
	{ErrBelowMinimumAmount, CodeBelowMinimumAmount},
	{ErrAboveMaximumAmount, CodeAboveMaximumAmount},
	{ErrInsufficientFunds, CodeInsufficientFunds},
	{ErrSelfTransferNotAllowed, CodeSelfTransferNotAllowed},
	{ErrNonZeroBalanceOnDelete, CodeNonZeroBalanceOnDelete},
	{ErrInvalidInput, CodeInvalidInput},
}

// Code 回傳錯誤對應的代碼；非業務規則錯誤一律回傳 CodeInternal
func Code(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}

// IsBusinessError 判斷是否為可預期的業務規則錯誤 (呼叫端可修正後重試)
func IsBusinessError(err error) bool {
	return err != nil && Code(err) != CodeInternal
}
