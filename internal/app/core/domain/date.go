package domain

import (
	"fmt"
	"time"
)

// DateLayout 日期字串格式 (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// Date 日曆日期，不含時間與時區
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf 取得 t 在 loc 時區下的日曆日期 (捨去時分秒)
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate 解析 YYYY-MM-DD 字串
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date must be %s", ErrInvalidInput, DateLayout)
	}
	return DateOf(t, time.UTC), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
