package domain

import "fmt"

// CanDelete 檢查帳戶是否可刪除: 餘額必須剛好為 0
//
// 餘額每次都從對帳單重新計算，負數理論上不會發生，但仍需明確擋下
func CanDelete(statement *Statement) error {
	balance := statement.Balance()
	switch balance.Sign() {
	case 1:
		return fmt.Errorf("%w: account still has positive funds (%s)", ErrNonZeroBalanceOnDelete, balance)
	case -1:
		return fmt.Errorf("%w: account has negative funds (%s)", ErrNonZeroBalanceOnDelete, balance)
	}
	return nil
}
