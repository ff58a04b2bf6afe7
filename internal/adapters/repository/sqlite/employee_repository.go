package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ogurasousui/shop-hr/internal/core/employee"
	sqlitedb "github.com/ogurasousui/shop-hr/internal/platform/db/sqlite"
)

// EmployeeRepository は SQLite ファイルを利用した社員永続化の実装です。
// 各操作は新しい接続を開き、終了時に閉じます。
type EmployeeRepository struct {
	opener *sqlitedb.Opener
	logger *slog.Logger
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(opener *sqlitedb.Opener, logger *slog.Logger) *EmployeeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeRepository{opener: opener, logger: logger}
}

// List は person と employee を結合して社員の一覧を取得します。
// 変換できない行は警告を記録して読み飛ばします。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	employees := make([]*employee.Employee, 0)

	err := r.opener.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `
        SELECT p.forename, p.surname, p.email, p.phoneNumber,
               e.hourlyRateInPence, e.hoursPerWeek, e.startDate, e.endDate
          FROM employee e
          JOIN person p ON e.personID = p.personID
         ORDER BY e.employeeID
    `)
		if err != nil {
			return fmt.Errorf("sqlite: list employees: %w", err)
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
			return fmt.Errorf("sqlite: list employees: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return employees, nil
}

// Create は person 行を追加し、採番されたキーで employee 行を追加します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	rec := employee.RecordOf(e)

	return r.opener.WithConn(ctx, func(conn *sql.Conn) error {
		return sqlitedb.InTx(ctx, conn, func(q sqlitedb.Queryer) error {
			res, err := q.ExecContext(ctx, `
        INSERT INTO person (forename, surname, email, phoneNumber)
        VALUES (?, ?, ?, ?)
    `, rec.Forename, rec.Surname, rec.Email, rec.PhoneNumber)
			if err != nil {
				return fmt.Errorf("sqlite: insert person: %w", err)
			}

			personID, err := res.LastInsertId()
			if err != nil {
				return errors.Join(employee.ErrGeneratedKey, err)
			}

			if _, err := q.ExecContext(ctx, `
        INSERT INTO employee (personID, hourlyRateInPence, hoursPerWeek, startDate, endDate)
        VALUES (?, ?, ?, ?, ?)
    `, personID, rec.HourlyRateInPence, rec.HoursPerWeek, rec.StartDate, rec.EndDate); err != nil {
				return fmt.Errorf("sqlite: insert employee: %w", err)
			}
			return nil
		})
	})
}

// Update は original の自然キーで 1 件に特定できた行を edited の内容で更新します。
func (r *EmployeeRepository) Update(ctx context.Context, original, edited *employee.Employee) error {
	rec := employee.RecordOf(edited)

	return r.opener.WithConn(ctx, func(conn *sql.Conn) error {
		return sqlitedb.InTx(ctx, conn, func(q sqlitedb.Queryer) error {
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

			if _, err := q.ExecContext(ctx, `
        UPDATE person
           SET forename = ?, surname = ?, email = ?, phoneNumber = ?
         WHERE personID = ?
    `, rec.Forename, rec.Surname, rec.Email, rec.PhoneNumber, personID); err != nil {
				return fmt.Errorf("sqlite: update person: %w", err)
			}

			if _, err := q.ExecContext(ctx, `
        UPDATE employee
           SET hourlyRateInPence = ?, hoursPerWeek = ?, startDate = ?, endDate = ?
         WHERE personID = ?
    `, rec.HourlyRateInPence, rec.HoursPerWeek, rec.StartDate, rec.EndDate, personID); err != nil {
				return fmt.Errorf("sqlite: update employee: %w", err)
			}
			return nil
		})
	})
}

// Delete は自然キーが 1 件に一致した場合のみ employee 行と person 行を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, target *employee.Employee) (bool, error) {
	deleted := false

	err := r.opener.WithConn(ctx, func(conn *sql.Conn) error {
		return sqlitedb.InTx(ctx, conn, func(q sqlitedb.Queryer) error {
			ids, err := findPersonIDs(ctx, q, target.NaturalKey())
			if err != nil {
				return err
			}
			if len(ids) != 1 {
				return nil
			}

			if _, err := q.ExecContext(ctx, `DELETE FROM employee WHERE personID = ?`, ids[0]); err != nil {
				return fmt.Errorf("sqlite: delete employee: %w", err)
			}
			if _, err := q.ExecContext(ctx, `DELETE FROM person WHERE personID = ?`, ids[0]); err != nil {
				return fmt.Errorf("sqlite: delete person: %w", err)
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

func findPersonIDs(ctx context.Context, q sqlitedb.Queryer, key employee.NaturalKey) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `
        SELECT p.personID
          FROM person p
          JOIN employee e ON e.personID = p.personID
         WHERE p.forename = ? AND p.surname = ? AND p.email IS ? AND p.phoneNumber IS ?
    `, key.Forename, key.Surname, key.Email, key.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("sqlite: find person: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 1)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: find person: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: find person: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*employee.Employee, error) {
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
