package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout は日付の保存・表示形式 (yyyy-MM-dd) です。
const DateLayout = "2006-01-02"

// FormatPence はペンス単位の金額を "£" 付き小数点以下 2 桁で表します。
func FormatPence(pence int) string {
	return "£" + decimal.New(int64(pence), -2).StringFixed(2)
}

// FormatDate は日付を yyyy-MM-dd 形式に変換します。
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatOptionalDate は nil の場合に空文字を返します。
func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// ParseDate は yyyy-MM-dd 形式の文字列を UTC の日付に変換します。
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
}

// ParseOptionalDate は空文字または空白のみの場合に nil を返します。
func ParseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
