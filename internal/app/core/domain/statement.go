package domain

import (
	"iter"
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind 帳目類型
type EntryKind string

const (
	// 入帳
	EntryKindCredit EntryKind = "credit"
	// 出帳
	EntryKindDebit EntryKind = "debit"
)

// Entry 對帳單中的一筆帳目，寫入後不可修改
type Entry struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        EntryKind       `json:"type"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Statement 單一客戶的對帳單 (append-only)
//
// Statement 本身沒有鎖，由擁有它的 Ledger 負責序列化寫入
type Statement struct {
	entries []Entry
}

// Append 將帳目加到對帳單尾端
//
// 參數:
//
//	entry: 帳目，CreatedAt 早於上一筆時會被調整為上一筆的時間，確保時間不倒退
func (s *Statement) Append(entry Entry) {
	if n := len(s.entries); n > 0 && entry.CreatedAt.Before(s.entries[n-1].CreatedAt) {
		entry.CreatedAt = s.entries[n-1].CreatedAt
	}
	s.entries = append(s.entries, entry)
}

// Balance 由帳目重新計算餘額: 入帳總和 - 出帳總和
func (s *Statement) Balance() decimal.Decimal {
	balance := decimal.Zero
	for _, e := range s.entries {
		switch e.Kind {
		case EntryKindCredit:
			balance = balance.Add(e.Amount)
		case EntryKindDebit:
			balance = balance.Sub(e.Amount)
		}
	}
	return balance
}

// Len 帳目筆數
func (s *Statement) Len() int {
	return len(s.entries)
}

// Entries 回傳帳目副本
func (s *Statement) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// FilterByDay 回傳 CreatedAt 落在 day (loc 時區) 的帳目，維持原本寫入順序
//
// 回傳的序列可重複迭代，每次迭代都從頭掃描
func (s *Statement) FilterByDay(day Date, loc *time.Location) iter.Seq[Entry] {
	entries := s.entries
	return func(yield func(Entry) bool) {
		for _, e := range entries {
			if DateOf(e.CreatedAt, loc) != day {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}
