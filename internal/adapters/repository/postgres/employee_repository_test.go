package postgres

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/ogurasousui/shop-hr/internal/core/employee"
	pgdb "github.com/ogurasousui/shop-hr/internal/platform/db/postgres"
)

var listColumns = []string{"forename", "surname", "email", "phonenumber", "hourlyrateinpence", "hoursperweek", "startdate", "enddate"}

func strPtr(s string) *string {
	return &s
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newMockRepo(t *testing.T) (pgxmock.PgxConnIface, *EmployeeRepository, *bytes.Buffer) {
	t.Helper()

	mock, err := pgxmock.NewConn()
	if err != nil {
		t.Fatalf("failed to create mock conn: %v", err)
	}

	logs := &bytes.Buffer{}
	repo := NewEmployeeRepository(func(context.Context) (pgdb.Conn, error) {
		return mock, nil
	}, slog.New(slog.NewTextHandler(logs, nil)))
	return mock, repo, logs
}

func sampleEmployee(t *testing.T, email *string, end *time.Time) *employee.Employee {
	t.Helper()

	e, err := employee.New(employee.Input{
		Forename:          strPtr("Julian"),
		Surname:           strPtr("Lahey"),
		Email:             email,
		PhoneNumber:       strPtr("555-0101"),
		HourlyRateInPence: 950,
		HoursPerWeek:      37.5,
		StartDate:         datePtr(2001, 4, 1),
		EndDate:           end,
	})
	if err != nil {
		t.Fatalf("employee.New returned error: %v", err)
	}
	return e
}

func TestEmployeeRepository_List_SkipsBadRows(t *testing.T) {
	t.Parallel()

	mock, repo, logs := newMockRepo(t)

	rows := pgxmock.NewRows(listColumns).
		AddRow("Julian", "Lahey", "julian@park.ca", "555-0101", 950, 37.5, "2001-04-01", "").
		AddRow("Cory", "Trevor", nil, nil, 900, 20.0, "01/02/2003", "").
		AddRow("Ricky", "Lafleur", nil, nil, 825, 12.5, "2003-02-14", "2004-01-01")

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadOnly})
	mock.ExpectQuery("SELECT p.forename, p.surname").WillReturnRows(rows)
	mock.ExpectCommit()
	mock.ExpectClose()

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 parseable employees, got %d", len(got))
	}
	if email, ok := got[0].Email(); !ok || email != "julian@park.ca" {
		t.Fatalf("unexpected email %q %v", email, ok)
	}
	if _, ok := got[0].EndDate(); ok {
		t.Fatalf("expected empty end date to read back as absent")
	}
	if _, ok := got[1].Email(); ok {
		t.Fatalf("expected NULL email to read back as absent")
	}
	if !strings.Contains(logs.String(), "employee row skipped") {
		t.Fatalf("expected skipped row to be logged, got %q", logs.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_List_QueryError(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadOnly})
	mock.ExpectQuery("SELECT p.forename").WillReturnError(&pgconn.PgError{Code: employeeUndefinedTableCode})
	mock.ExpectRollback()
	mock.ExpectClose()

	if _, err := repo.List(context.Background()); !errors.Is(err, ErrSchemaMissing) {
		t.Fatalf("expected ErrSchemaMissing, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Create(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newMockRepo(t)
	e := sampleEmployee(t, nil, nil)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery("INSERT INTO person").
		WithArgs("Julian", "Lahey", (*string)(nil), strPtr("555-0101")).
		WillReturnRows(pgxmock.NewRows([]string{"personid"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO employee").
		WithArgs(int64(7), 950, 37.5, "2001-04-01", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Create_KeyUnavailable(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery("INSERT INTO person").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"personid"}))
	mock.ExpectRollback()
	mock.ExpectClose()

	err := repo.Create(context.Background(), sampleEmployee(t, nil, nil))
	if !errors.Is(err, employee.ErrGeneratedKey) {
		t.Fatalf("expected ErrGeneratedKey, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Create_EmployeeInsertFailureRollsBack(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newMockRepo(t)
	insertErr := errors.New("disk full")

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery("INSERT INTO person").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"personid"}).AddRow(int64(3)))
	mock.ExpectExec("INSERT INTO employee").
		WithArgs(int64(3), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(insertErr)
	mock.ExpectRollback()
	mock.ExpectClose()

	if err := repo.Create(context.Background(), sampleEmployee(t, nil, nil)); !errors.Is(err, insertErr) {
		t.Fatalf("expected insert error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Update(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newMockRepo(t)
	original := sampleEmployee(t, strPtr("julian@park.ca"), nil)
	edited := sampleEmployee(t, strPtr("julian@sunnyvale.ca"), datePtr(2008, 9, 30))

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery("IS NOT DISTINCT FROM").
		WithArgs("Julian", "Lahey", strPtr("julian@park.ca"), strPtr("555-0101")).
		WillReturnRows(pgxmock.NewRows([]string{"personid"}).AddRow(int64(4)))
	mock.ExpectExec("UPDATE person").
		WithArgs("Julian", "Lahey", strPtr("julian@sunnyvale.ca"), strPtr("555-0101"), int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE employee").
		WithArgs(950, 37.5, "2001-04-01", "2008-09-30", int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	if err := repo.Update(context.Background(), original, edited); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Update_RequiresUniqueMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ids  []int64
		want error
	}{
		{name: "missing", ids: nil, want: employee.ErrEmployeeNotFound},
		{name: "ambiguous", ids: []int64{1, 2}, want: employee.ErrAmbiguousEmployee},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, repo, _ := newMockRepo(t)
			rows := pgxmock.NewRows([]string{"personid"})
			for _, id := range tt.ids {
				rows.AddRow(id)
			}

			mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
			mock.ExpectQuery("IS NOT DISTINCT FROM").
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnRows(rows)
			mock.ExpectRollback()
			mock.ExpectClose()

			e := sampleEmployee(t, nil, nil)
			if err := repo.Update(context.Background(), e, e); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestEmployeeRepository_Delete(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery("IS NOT DISTINCT FROM").
		WithArgs("Julian", "Lahey", (*string)(nil), strPtr("555-0101")).
		WillReturnRows(pgxmock.NewRows([]string{"personid"}).AddRow(int64(9)))
	mock.ExpectExec("DELETE FROM employee").WithArgs(int64(9)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM person").WithArgs(int64(9)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	deleted, err := repo.Delete(context.Background(), sampleEmployee(t, nil, nil))
	if err != nil || !deleted {
		t.Fatalf("expected delete to succeed, got %v %v", deleted, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Delete_AmbiguousIsNoop(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery("IS NOT DISTINCT FROM").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"personid"}).AddRow(int64(1)).AddRow(int64(2)))
	mock.ExpectCommit()
	mock.ExpectClose()

	deleted, err := repo.Delete(context.Background(), sampleEmployee(t, nil, nil))
	if err != nil || deleted {
		t.Fatalf("expected ambiguous delete to be a no-op, got %v %v", deleted, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTranslateEmployeePgError(t *testing.T) {
	t.Parallel()

	if !errors.Is(translateEmployeePgError(pgx.ErrNoRows), employee.ErrEmployeeNotFound) {
		t.Fatalf("expected no rows to map to ErrEmployeeNotFound")
	}

	undefined := &pgconn.PgError{Code: employeeUndefinedTableCode}
	if !errors.Is(translateEmployeePgError(undefined), ErrSchemaMissing) {
		t.Fatalf("expected undefined table to map to ErrSchemaMissing")
	}

	fkErr := &pgconn.PgError{Code: employeeForeignKeyViolationCode}
	var pgErr *pgconn.PgError
	if !errors.As(translateEmployeePgError(fkErr), &pgErr) {
		t.Fatalf("expected fk violation to keep the driver error")
	}

	other := errors.New("other")
	if !errors.Is(translateEmployeePgError(other), other) {
		t.Fatalf("unexpected translation for generic error")
	}
	if translateEmployeePgError(nil) != nil {
		t.Fatalf("expected nil to stay nil")
	}
}
