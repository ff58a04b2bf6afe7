package employee

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
)

const (
	// MinimumWageInPence は時給の下限 (ペンス) です。
	MinimumWageInPence = 800
	// MinWeeklyHours は週あたり勤務時間の下限です。
	MinWeeklyHours = 0.0
	// MaxWeeklyHours は週あたり勤務時間の上限です。
	MaxWeeklyHours = 112.0
	// NameMinLength は氏名の最小文字数です。
	NameMinLength = 2
)

const (
	MsgNameNull         = "Person name (forename or surname) cannot be set to null"
	MsgNameBlank        = "Person name (forename or surname) cannot be blank"
	MsgNameInvalidChars = "Person name (forename or surname) must only have a-z, A-Z or - characters"
	MsgNameTooShort     = "Name must be at least 2 characters long"
	MsgEmailInvalid     = "Person email parameter failed validation: "
	MsgHoursNegative    = "Hours per week cannot be set to a negative value."
	MsgHoursNotANumber  = "Hours per week must be a number."
	MsgStartDateNull    = "Date of Employment Start was null"
	MsgEndBeforeStart   = "Date of Employment End was, impossibly, before the employment Start Date"
)

// MsgHoursOverMax は上限超過時のメッセージです。
var MsgHoursOverMax = fmt.Sprintf("Hours per week cannot be set to a value over %d", int(MaxWeeklyHours))

const (
	nameChars        = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-"
	emailLocalChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&'*+-/=?^_`{|}~"
	emailDomainChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-"
)

// ValidateName は氏名を検証し、前後の空白を除去して先頭のみ大文字に正規化します。
func ValidateName(field Field, raw *string) (string, error) {
	if raw == nil {
		return "", newValidationError(field, ReasonNameNull, MsgNameNull)
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return "", newValidationError(field, ReasonNameBlank, MsgNameBlank)
	}

	name := titleCase(trimmed)

	valid := containsOnly(name, nameChars) && !strings.Contains(name, "--")
	switch {
	case valid && len([]rune(name)) >= NameMinLength:
		return name, nil
	case len([]rune(name)) < NameMinLength:
		return "", newValidationError(field, ReasonNameTooShort, MsgNameTooShort)
	default:
		return "", newValidationError(field, ReasonNameInvalidChars, MsgNameInvalidChars)
	}
}

// ValidateEmail はメールアドレスを検証します。nil または空白のみの場合は未設定 (nil) を返します。
func ValidateEmail(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if !isValidEmail(trimmed) {
		return nil, newValidationError(FieldEmail, ReasonEmailInvalid, MsgEmailInvalid+*raw)
	}
	return &trimmed, nil
}

// ValidatePhoneNumber は電話番号を正規化します。形式の検証は行いません。
func ValidatePhoneNumber(raw *string) *string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	return &trimmed
}

// ValidateHourlyRate は時給が最低賃金以上であることを検証します。
func ValidateHourlyRate(pence int) (int, error) {
	if pence < MinimumWageInPence {
		msg := fmt.Sprintf("Hourly rate cannot be set to below minimum wage. Minimum wage is %s but specified Hourly Rate was %s.",
			FormatPence(MinimumWageInPence), FormatPence(pence))
		return 0, newValidationError(FieldHourlyRate, ReasonBelowMinimumWage, msg)
	}
	return pence, nil
}

// ValidateWeeklyHours は週あたり勤務時間が 0 以上 112 以下であることを検証します。
func ValidateWeeklyHours(hours float64) (float64, error) {
	switch {
	case math.IsNaN(hours):
		return 0, newValidationError(FieldWeeklyHours, ReasonHoursNotANumber, MsgHoursNotANumber)
	case hours < MinWeeklyHours:
		return 0, newValidationError(FieldWeeklyHours, ReasonHoursNegative, MsgHoursNegative)
	case hours > MaxWeeklyHours:
		return 0, newValidationError(FieldWeeklyHours, ReasonHoursOverMax, MsgHoursOverMax)
	}
	return hours, nil
}

// ValidateStartDate は開始日が設定されていることを検証し、日付に切り詰めます。
func ValidateStartDate(date *time.Time) (time.Time, error) {
	if date == nil || date.IsZero() {
		return time.Time{}, newValidationError(FieldStartDate, ReasonStartDateNull, MsgStartDateNull)
	}
	return truncateDate(*date), nil
}

// ValidateEndDate は終了日が開始日より前でないことを検証します。終了日が nil の場合は常に有効です。
func ValidateEndDate(start time.Time, end *time.Time) (*time.Time, error) {
	if end == nil || end.IsZero() {
		return nil, nil
	}
	normalized := truncateDate(*end)
	if normalized.Before(truncateDate(start)) {
		return nil, newValidationError(FieldEndDate, ReasonEndBeforeStart, MsgEndBeforeStart)
	}
	return &normalized, nil
}

func isValidEmail(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}
	local, domain, _ := strings.Cut(email, "@")
	return isValidLocalPart(local) && isValidDomainPart(domain)
}

func isValidLocalPart(local string) bool {
	if local == "" {
		return false
	}
	if local[0] == '.' || local[len(local)-1] == '.' {
		return false
	}
	if strings.Contains(local, "..") {
		return false
	}
	return containsOnly(local, emailLocalChars)
}

func isValidDomainPart(domain string) bool {
	if domain == "" {
		return false
	}
	if domain[0] == '-' || domain[len(domain)-1] == '-' {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		if !containsOnly(label, emailDomainChars) {
			return false
		}
	}
	return true
}

func containsOnly(s, allowed string) bool {
	for _, r := range s {
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return true
}

func titleCase(s string) string {
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
