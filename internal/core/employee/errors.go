package employee

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation はフィールド検証に失敗した場合に返却されます。
	ErrValidation = errors.New("employee: validation failed")
	// ErrEmployeeNotFound は自然キーに一致する社員が存在しない場合に返却されます。
	ErrEmployeeNotFound = errors.New("employee: not found")
	// ErrAmbiguousEmployee は自然キーに複数の社員が一致した場合に返却されます。
	ErrAmbiguousEmployee = errors.New("employee: natural key matches more than one row")
	// ErrGeneratedKey は person 行の採番キーが取得できなかった場合に返却されます。
	ErrGeneratedKey = errors.New("employee: generated person key unavailable")
	// ErrNilEmployee は nil の社員が渡された場合に返却されます。
	ErrNilEmployee = errors.New("employee: nil employee")
)

// Field は検証対象のフィールド名です。
type Field string

const (
	FieldForename    Field = "forename"
	FieldSurname     Field = "surname"
	FieldEmail       Field = "email"
	FieldPhoneNumber Field = "phoneNumber"
	FieldHourlyRate  Field = "hourlyRateInPence"
	FieldWeeklyHours Field = "hoursPerWeek"
	FieldStartDate   Field = "startDate"
	FieldEndDate     Field = "endDate"
	FieldShift       Field = "shifts"
)

// Reason は検証失敗の種別です。
type Reason string

const (
	ReasonNameNull         Reason = "name_null"
	ReasonNameBlank        Reason = "name_blank"
	ReasonNameTooShort     Reason = "name_too_short"
	ReasonNameInvalidChars Reason = "name_invalid_chars"
	ReasonEmailInvalid     Reason = "email_invalid"
	ReasonBelowMinimumWage Reason = "below_minimum_wage"
	ReasonHoursNegative    Reason = "hours_negative"
	ReasonHoursOverMax     Reason = "hours_over_max"
	ReasonHoursNotANumber  Reason = "hours_not_a_number"
	ReasonStartDateNull    Reason = "start_date_null"
	ReasonEndBeforeStart   Reason = "end_before_start"
	ReasonShiftInvalid     Reason = "shift_invalid"
	ReasonShiftsNull       Reason = "shifts_null"
	ReasonShiftsEmpty      Reason = "shifts_empty"
)

// ValidationError は失敗したフィールドと理由を保持します。
// Error() はメッセージ本文のみを返します。
type ValidationError struct {
	Field   Field
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field Field, reason Reason, msg string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Message: msg}
}

// RowParseError は保存済みの行を社員に変換できなかったことを表します。
type RowParseError struct {
	Row int
	Err error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("employee: row %d: %v", e.Row, e.Err)
}

func (e *RowParseError) Unwrap() error {
	return e.Err
}

// PersistenceError は接続またはステートメントの失敗を表します。
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("employee: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
