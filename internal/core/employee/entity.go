package employee

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Person は人員に共通する識別情報です。
type Person interface {
	Forename() string
	Surname() string
	Email() (string, bool)
	PhoneNumber() (string, bool)
}

// NaturalKey は保存済み person 行を特定するための 4 項目です。
type NaturalKey struct {
	Forename    string
	Surname     string
	Email       *string
	PhoneNumber *string
}

// Input は社員生成時の未検証の入力値です。nil は値が指定されていないことを表します。
type Input struct {
	Forename          *string
	Surname           *string
	Email             *string
	PhoneNumber       *string
	HourlyRateInPence int
	HoursPerWeek      float64
	StartDate         *time.Time
	EndDate           *time.Time
}

// Employee は社員エンティティです。生成後に変更できるのは開始日と終了日のみです。
type Employee struct {
	forename          string
	surname           string
	email             *string
	phoneNumber       *string
	hourlyRateInPence int
	hoursPerWeek      float64
	startDate         time.Time
	endDate           *time.Time
	shifts            map[time.Time]int
}

var _ Person = (*Employee)(nil)

// New はすべてのフィールドを順に検証して Employee を生成します。最初の検証エラーで中断します。
func New(in Input) (*Employee, error) {
	forename, err := ValidateName(FieldForename, in.Forename)
	if err != nil {
		return nil, err
	}

	surname, err := ValidateName(FieldSurname, in.Surname)
	if err != nil {
		return nil, err
	}

	email, err := ValidateEmail(in.Email)
	if err != nil {
		return nil, err
	}

	phone := ValidatePhoneNumber(in.PhoneNumber)

	rate, err := ValidateHourlyRate(in.HourlyRateInPence)
	if err != nil {
		return nil, err
	}

	hours, err := ValidateWeeklyHours(in.HoursPerWeek)
	if err != nil {
		return nil, err
	}

	start, err := ValidateStartDate(in.StartDate)
	if err != nil {
		return nil, err
	}

	end, err := ValidateEndDate(start, in.EndDate)
	if err != nil {
		return nil, err
	}

	return &Employee{
		forename:          forename,
		surname:           surname,
		email:             email,
		phoneNumber:       phone,
		hourlyRateInPence: rate,
		hoursPerWeek:      hours,
		startDate:         start,
		endDate:           end,
		shifts:            map[time.Time]int{},
	}, nil
}

func (e *Employee) Forename() string { return e.forename }

func (e *Employee) Surname() string { return e.surname }

func (e *Employee) Email() (string, bool) { return deref(e.email) }

func (e *Employee) PhoneNumber() (string, bool) { return deref(e.phoneNumber) }

func (e *Employee) HourlyRateInPence() int { return e.hourlyRateInPence }

func (e *Employee) HoursPerWeek() float64 { return e.hoursPerWeek }

func (e *Employee) StartDate() time.Time { return e.startDate }

// EndDate は終了日を返します。在職中の場合は false を返します。
func (e *Employee) EndDate() (time.Time, bool) {
	if e.endDate == nil {
		return time.Time{}, false
	}
	return *e.endDate, true
}

// NaturalKey は保存済み行の検索に使う識別項目を返します。
func (e *Employee) NaturalKey() NaturalKey {
	return NaturalKey{
		Forename:    e.forename,
		Surname:     e.surname,
		Email:       cloneString(e.email),
		PhoneNumber: cloneString(e.phoneNumber),
	}
}

// HourlyRateAsCurrency は時給を "£8.00" 形式で返します。
func (e *Employee) HourlyRateAsCurrency() string {
	return FormatPence(e.hourlyRateInPence)
}

// StartDateString は開始日を yyyy-MM-dd 形式で返します。
func (e *Employee) StartDateString() string {
	return FormatDate(e.startDate)
}

// EndDateString は終了日を yyyy-MM-dd 形式で返します。未設定の場合は空文字です。
func (e *Employee) EndDateString() string {
	return FormatOptionalDate(e.endDate)
}

// SetStartDate は開始日を変更します。既存の終了日が新しい開始日より前になる場合は拒否します。
func (e *Employee) SetStartDate(start *time.Time) error {
	validated, err := ValidateStartDate(start)
	if err != nil {
		return err
	}
	if _, err := ValidateEndDate(validated, e.endDate); err != nil {
		return err
	}
	e.startDate = validated
	return nil
}

// SetEndDate は終了日を変更します。nil を渡すと在職中に戻ります。
func (e *Employee) SetEndDate(end *time.Time) error {
	validated, err := ValidateEndDate(e.startDate, end)
	if err != nil {
		return err
	}
	e.endDate = validated
	return nil
}

// Equal は識別情報 (メールが双方にあればメール、なければ名・電話番号・姓) と雇用条件が一致するかを返します。
func (e *Employee) Equal(other *Employee) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil {
		return false
	}
	if !e.sameIdentity(other) {
		return false
	}
	return equalDates(e.endDate, other.endDate) &&
		e.hourlyRateInPence == other.hourlyRateInPence &&
		e.hoursPerWeek == other.hoursPerWeek &&
		e.startDate.Equal(other.startDate)
}

func (e *Employee) sameIdentity(other *Employee) bool {
	if e.email != nil && other.email != nil {
		return *e.email == *other.email
	}
	return e.forename == other.forename &&
		equalStrings(e.phoneNumber, other.phoneNumber) &&
		e.surname == other.surname
}

// Compare は姓を大文字小文字を区別せずに比較します。
func (e *Employee) Compare(other Person) int {
	return strings.Compare(strings.ToUpper(e.surname), strings.ToUpper(other.Surname()))
}

// SortBySurname は姓の順に安定ソートします。
func SortBySurname(employees []*Employee) {
	sort.SliceStable(employees, func(i, j int) bool {
		return employees[i].Compare(employees[j]) < 0
	})
}

// Clone は同じ値を持つ別の Employee を返します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	c := *e
	c.email = cloneString(e.email)
	c.phoneNumber = cloneString(e.phoneNumber)
	if e.endDate != nil {
		end := *e.endDate
		c.endDate = &end
	}
	c.shifts = e.Shifts()
	return &c
}

func (e *Employee) String() string {
	email, _ := e.Email()
	phone, _ := e.PhoneNumber()
	end := "Still Employed"
	if e.endDate != nil {
		end = FormatDate(*e.endDate)
	}
	return fmt.Sprintf("Employee [name=%s %s, email=%s, phoneNumber=%s, rate=%s, weeklyHours=%s, startDate=%s, endDate=%s]",
		e.forename, e.surname, email, phone, e.HourlyRateAsCurrency(),
		strconv.FormatFloat(e.hoursPerWeek, 'f', -1, 64), e.StartDateString(), end)
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func equalStrings(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
