package employee

import (
	"fmt"
	"strconv"
	"time"
)

const (
	MsgShiftAddFailed = "HREmployee Constructor: Specified shift could not be added:"
	MsgShiftsNull     = "HREmployee Constructor: Provided list of shifts was null"
	MsgShiftsEmpty    = "HREmployee Constructor: Provided list of shifts was empty"
)

// MinShiftHours は 1 シフトの最小時間です。
const MinShiftHours = 1

// Shifts は勤務日ごとのシフト時間の複製を返します。キーは UTC の日付です。
func (e *Employee) Shifts() map[time.Time]int {
	out := make(map[time.Time]int, len(e.shifts))
	for d, h := range e.shifts {
		out[d] = h
	}
	return out
}

// ShiftLengthOn は指定日のシフト時間を返します。シフトがなければ false です。
func (e *Employee) ShiftLengthOn(date time.Time) (int, bool) {
	h, ok := e.shifts[truncateDate(date)]
	return h, ok
}

// AddSingleShift は 1 日分のシフトを追加します。同じ日のシフトは上書きされます。
func (e *Employee) AddSingleShift(date *time.Time, hours *int) error {
	if err := e.validateShift(date, hours); err != nil {
		return err
	}
	if e.shifts == nil {
		e.shifts = map[time.Time]int{}
	}
	e.shifts[truncateDate(*date)] = *hours
	return nil
}

// AddMultipleShifts は複数のシフトを追加します。不正なシフトが 1 件でもあれば何も追加しません。
func (e *Employee) AddMultipleShifts(shifts map[time.Time]int) error {
	if shifts == nil {
		return newValidationError(FieldShift, ReasonShiftsNull, MsgShiftsNull)
	}
	if len(shifts) == 0 {
		return newValidationError(FieldShift, ReasonShiftsEmpty, MsgShiftsEmpty)
	}

	for d, h := range shifts {
		if err := e.validateShift(&d, &h); err != nil {
			return err
		}
	}
	for d, h := range shifts {
		d, h := d, h
		if err := e.AddSingleShift(&d, &h); err != nil {
			return err
		}
	}
	return nil
}

func (e *Employee) validateShift(date *time.Time, hours *int) error {
	if date != nil && hours != nil && *hours >= MinShiftHours {
		return nil
	}

	dateText, hoursText := "null", "null"
	if date != nil {
		dateText = FormatDate(*date)
	}
	if hours != nil {
		hoursText = strconv.Itoa(*hours)
	}
	msg := fmt.Sprintf("%s [Date=%s hours=%s] for Employee %s", MsgShiftAddFailed, dateText, hoursText, e.forename)
	return newValidationError(FieldShift, ReasonShiftInvalid, msg)
}
