package domain_test

import (
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
)

func entry(kind domain.EntryKind, amount string, at time.Time) domain.Entry {
	return domain.Entry{
		Description: string(kind),
		Amount:      decimal.RequireFromString(amount),
		Kind:        kind,
		CreatedAt:   at,
	}
}

func TestStatement_Balance(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	var s domain.Statement
	assert.True(t, s.Balance().IsZero(), "空的對帳單餘額為 0")

	s.Append(entry(domain.EntryKindCredit, "100", base))
	s.Append(entry(domain.EntryKindDebit, "30.5", base.Add(time.Minute)))
	s.Append(entry(domain.EntryKindCredit, "0.1", base.Add(2*time.Minute)))

	assert.Equal(t, 3, s.Len())
	assert.True(t, decimal.RequireFromString("69.6").Equal(s.Balance()), "got %s", s.Balance())
}

func TestStatement_AppendClampsCreatedAt(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	var s domain.Statement
	s.Append(entry(domain.EntryKindCredit, "10", base))
	s.Append(entry(domain.EntryKindCredit, "10", base.Add(-time.Hour)))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, base, entries[1].CreatedAt, "時間不可早於上一筆")
}

func TestStatement_EntriesReturnsCopy(t *testing.T) {
	var s domain.Statement
	assert.NotNil(t, s.Entries())
	assert.Empty(t, s.Entries())

	s.Append(entry(domain.EntryKindCredit, "10", time.Now()))
	entries := s.Entries()
	entries[0].Description = "tampered"

	assert.Equal(t, "credit", s.Entries()[0].Description)
}

func TestStatement_FilterByDay(t *testing.T) {
	day1 := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 11, 0, 30, 0, 0, time.UTC)

	var s domain.Statement
	s.Append(entry(domain.EntryKindCredit, "1", day1))
	s.Append(entry(domain.EntryKindCredit, "2", day2))
	s.Append(entry(domain.EntryKindDebit, "1", day2.Add(time.Hour)))

	march11 := domain.Date{Year: 2024, Month: time.March, Day: 11}

	got := slices.Collect(s.FilterByDay(march11, time.UTC))
	require.Len(t, got, 2)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, domain.EntryKindDebit, got[1].Kind)

	// 同一個序列可以重複迭代
	assert.Len(t, slices.Collect(s.FilterByDay(march11, time.UTC)), 2)

	// 換時區後，日期邊界跟著移動
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	got = slices.Collect(s.FilterByDay(domain.Date{Year: 2024, Month: time.March, Day: 10}, saoPaulo))
	assert.Len(t, got, 3)

	assert.Empty(t, slices.Collect(s.FilterByDay(domain.Date{Year: 2024, Month: time.March, Day: 12}, time.UTC)))
}
