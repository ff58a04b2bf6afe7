package employee

import (
	"context"
	"log/slog"
)

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	ListEmployees(ctx context.Context, in ListEmployeesInput) []*Employee
	AddEmployee(ctx context.Context, e *Employee) error
	EditEmployee(ctx context.Context, in EditEmployeeInput) error
	DeleteEmployee(ctx context.Context, target *Employee) (bool, error)
}

var _ UseCase = (*Service)(nil)

// NewService は Service を生成します。
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	SortBySurname bool
}

// EditEmployeeInput は社員更新時の入力です。
type EditEmployeeInput struct {
	Original *Employee
	Edited   *Employee
}

// ListEmployees は社員の一覧を返します。永続化エラーの場合は記録して空の一覧を返します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) []*Employee {
	employees, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("employee list failed", "err", &PersistenceError{Op: "list", Err: err})
		return []*Employee{}
	}
	if employees == nil {
		employees = []*Employee{}
	}
	if in.SortBySurname {
		SortBySurname(employees)
	}
	s.logger.Debug("employees listed", "count", len(employees))
	return employees
}

// AddEmployee は社員を追加します。
func (s *Service) AddEmployee(ctx context.Context, e *Employee) error {
	if e == nil {
		return ErrNilEmployee
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return s.persistenceFailure("add", err)
	}
	s.logger.Info("employee added", "employee", e.String())
	return nil
}

// EditEmployee は Original で特定した社員を Edited の内容に置き換えます。
func (s *Service) EditEmployee(ctx context.Context, in EditEmployeeInput) error {
	if in.Original == nil || in.Edited == nil {
		return ErrNilEmployee
	}
	if err := s.repo.Update(ctx, in.Original, in.Edited); err != nil {
		return s.persistenceFailure("edit", err)
	}
	s.logger.Info("employee updated", "original", in.Original.String(), "edited", in.Edited.String())
	return nil
}

// DeleteEmployee は社員を削除し、削除したかどうかを返します。
// 一意に特定できない場合は何もせず false を返します。
func (s *Service) DeleteEmployee(ctx context.Context, target *Employee) (bool, error) {
	if target == nil {
		return false, ErrNilEmployee
	}
	deleted, err := s.repo.Delete(ctx, target)
	if err != nil {
		return false, s.persistenceFailure("delete", err)
	}
	if !deleted {
		s.logger.Warn("employee delete skipped: natural key not unique", "employee", target.String())
		return false, nil
	}
	s.logger.Info("employee deleted", "employee", target.String())
	return true, nil
}

func (s *Service) persistenceFailure(op string, err error) error {
	perr := &PersistenceError{Op: op, Err: err}
	s.logger.Error("employee "+op+" failed", "err", err)
	return perr
}
