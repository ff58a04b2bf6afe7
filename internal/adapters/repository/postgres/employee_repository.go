package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/shop-hr/internal/core/employee"
	pgdb "github.com/ogurasousui/shop-hr/internal/platform/db/postgres"
)

const (
	employeeForeignKeyViolationCode = "23503"
	employeeUndefinedTableCode      = "42P01"
)

// ErrSchemaMissing はテーブルが存在しない場合に返却されます。
var ErrSchemaMissing = errors.New("postgres: person/employee tables missing, run migrations")

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	connect pgdb.ConnectFunc
	logger  *slog.Logger
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(connect pgdb.ConnectFunc, logger *slog.Logger) *EmployeeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeRepository{connect: connect, logger: logger}
}

// List は社員の一覧を取得します。変換できない行は警告を記録して読み飛ばします。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	employees := make([]*employee.Employee, 0)

	err := pgdb.WithConn(ctx, r.connect, func(conn pgdb.Conn) error {
		return pgdb.InTx(ctx, conn, pgdb.ReadOnly, func(q pgdb.Queryer) error {
			rows, err := q.Query(ctx, `
        SELECT p.forename, p.surname, p.email, p.phoneNumber,
               e.hourlyRateInPence, e.hoursPerWeek, e.startDate, e.endDate
          FROM employee e
          JOIN person p ON e.personID = p.personID
         ORDER BY e.employeeID
    `)
			if err != nil {
				return translateEmployeePgError(err)
			}
			defer rows.Close()

			row := 0
			for rows.Next() {
				row++
				emp, err := scanEmployee(rows)
				if err != nil {
					r.logger.Warn("employee row skipped", "err", &employee.RowParseError{Row: row, Err: err})
					continue
				}
				employees = append(employees, emp)
			}

			if err := rows.Err(); err != nil {
				return translateEmployeePgError(err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return employees, nil
}

// Create は person 行を追加し、RETURNING で得たキーで employee 行を追加します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	rec := employee.RecordOf(e)

	return pgdb.WithConn(ctx, r.connect, func(conn pgdb.Conn) error {
		return pgdb.InTx(ctx, conn, pgdb.ReadWrite, func(q pgdb.Queryer) error {
			var personID int64
			if err := q.QueryRow(ctx, `
        INSERT INTO person (forename, surname, email, phoneNumber)
        VALUES ($1, $2, $3, $4)
        RETURNING personID
    `, rec.Forename, rec.Surname, rec.Email, rec.PhoneNumber).Scan(&personID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return employee.ErrGeneratedKey
				}
				return translateEmployeePgError(err)
			}

			if _, err := q.Exec(ctx, `
        INSERT INTO employee (personID, hourlyRateInPence, hoursPerWeek, startDate, endDate)
        VALUES ($1, $2, $3, $4, $5)
    `, personID, rec.HourlyRateInPence, rec.HoursPerWeek, rec.StartDate, rec.EndDate); err != nil {
				return translateEmployeePgError(err)
			}
			return nil
		})
	})
}

// Update は original の自然キーで 1 件に特定できた行を edited の内容で更新します。
func (r *EmployeeRepository) Update(ctx context.Context, original, edited *employee.Employee) error {
	rec := employee.RecordOf(edited)

	return pgdb.WithConn(ctx, r.connect, func(conn pgdb.Conn) error {
		return pgdb.InTx(ctx, conn, pgdb.ReadWrite, func(q pgdb.Queryer) error {
			ids, err := findPersonIDs(ctx, q, original.NaturalKey())
			if err != nil {
				return err
			}
			switch {
			case len(ids) == 0:
				return employee.ErrEmployeeNotFound
			case len(ids) > 1:
				return employee.ErrAmbiguousEmployee
			}
			personID := ids[0]

			if _, err := q.Exec(ctx, `
        UPDATE person
           SET forename = $1, surname = $2, email = $3, phoneNumber = $4
         WHERE personID = $5
    `, rec.Forename, rec.Surname, rec.Email, rec.PhoneNumber, personID); err != nil {
				return translateEmployeePgError(err)
			}

			if _, err := q.Exec(ctx, `
        UPDATE employee
           SET hourlyRateInPence = $1, hoursPerWeek = $2, startDate = $3, endDate = $4
         WHERE personID = $5
    `, rec.HourlyRateInPence, rec.HoursPerWeek, rec.StartDate, rec.EndDate, personID); err != nil {
				return translateEmployeePgError(err)
			}
			return nil
		})
	})
}

// Delete は自然キーが 1 件に一致した場合のみ employee 行と person 行を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, target *employee.Employee) (bool, error) {
	deleted := false

	err := pgdb.WithConn(ctx, r.connect, func(conn pgdb.Conn) error {
		return pgdb.InTx(ctx, conn, pgdb.ReadWrite, func(q pgdb.Queryer) error {
			ids, err := findPersonIDs(ctx, q, target.NaturalKey())
			if err != nil {
				return err
			}
			if len(ids) != 1 {
				return nil
			}

			if _, err := q.Exec(ctx, `DELETE FROM employee WHERE personID = $1`, ids[0]); err != nil {
				return translateEmployeePgError(err)
			}
			if _, err := q.Exec(ctx, `DELETE FROM person WHERE personID = $1`, ids[0]); err != nil {
				return translateEmployeePgError(err)
			}
			deleted = true
			return nil
		})
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

func findPersonIDs(ctx context.Context, q pgdb.Queryer, key employee.NaturalKey) ([]int64, error) {
	rows, err := q.Query(ctx, `
        SELECT p.personID
          FROM person p
          JOIN employee e ON e.personID = p.personID
         WHERE p.forename = $1
           AND p.surname = $2
           AND p.email IS NOT DISTINCT FROM $3
           AND p.phoneNumber IS NOT DISTINCT FROM $4
    `, key.Forename, key.Surname, key.Email, key.PhoneNumber)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 1)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, translateEmployeePgError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}
	return ids, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		rec       employee.Record
		email     sql.NullString
		phone     sql.NullString
		startDate sql.NullString
		endDate   sql.NullString
	)

	if err := row.Scan(
		&rec.Forename,
		&rec.Surname,
		&email,
		&phone,
		&rec.HourlyRateInPence,
		&rec.HoursPerWeek,
		&startDate,
		&endDate,
	); err != nil {
		return nil, err
	}

	rec.Email = nullableString(email)
	rec.PhoneNumber = nullableString(phone)
	rec.StartDate = startDate.String
	rec.EndDate = endDate.String

	return rec.Employee()
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case employeeUndefinedTableCode:
			return errors.Join(ErrSchemaMissing, err)
		case employeeForeignKeyViolationCode:
			return fmt.Errorf("postgres: employee references missing person: %w", err)
		}
	}

	return fmt.Errorf("postgres: %w", err)
}
