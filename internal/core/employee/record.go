package employee

import "fmt"

// Record は person 行と employee 行を結合した 1 行分の保存形式です。
// 日付は yyyy-MM-dd 文字列で、終了日がない場合は空文字です。
type Record struct {
	Forename          string
	Surname           string
	Email             *string
	PhoneNumber       *string
	HourlyRateInPence int
	HoursPerWeek      float64
	StartDate         string
	EndDate           string
}

// RecordOf は社員を保存形式に変換します。
func RecordOf(e *Employee) Record {
	return Record{
		Forename:          e.forename,
		Surname:           e.surname,
		Email:             cloneString(e.email),
		PhoneNumber:       cloneString(e.phoneNumber),
		HourlyRateInPence: e.hourlyRateInPence,
		HoursPerWeek:      e.hoursPerWeek,
		StartDate:         FormatDate(e.startDate),
		EndDate:           FormatOptionalDate(e.endDate),
	}
}

// Employee は保存形式から社員を復元します。日付の解析や検証に失敗した場合はエラーを返します。
func (r Record) Employee() (*Employee, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parse startDate %q: %w", r.StartDate, err)
	}
	end, err := ParseOptionalDate(r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("parse endDate %q: %w", r.EndDate, err)
	}

	forename, surname := r.Forename, r.Surname
	return New(Input{
		Forename:          &forename,
		Surname:           &surname,
		Email:             r.Email,
		PhoneNumber:       r.PhoneNumber,
		HourlyRateInPence: r.HourlyRateInPence,
		HoursPerWeek:      r.HoursPerWeek,
		StartDate:         &start,
		EndDate:           end,
	})
}
