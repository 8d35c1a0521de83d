package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
)

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.February, Day: 29}, d)
	assert.Equal(t, "2024-02-29", d.String())

	for _, bad := range []string{"", "2024-2-29", "29/02/2024", "2023-02-29", "tomorrow"} {
		_, err := domain.ParseDate(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "input %q", bad)
	}
}

func TestDateOf(t *testing.T) {
	instant := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.January, Day: 1}, domain.DateOf(instant, time.UTC))

	behind := time.FixedZone("UTC-3", -3*60*60)
	assert.Equal(t, domain.Date{Year: 2023, Month: time.December, Day: 31}, domain.DateOf(instant, behind))
}
