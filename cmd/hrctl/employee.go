package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ogurasousui/shop-hr/internal/core/employee"
)

var errNoMatch = errors.New("no employee matches the given identity")

// identityFlags は既存社員を特定する自然キーのフラグです。
type identityFlags struct {
	forename string
	surname  string
	email    string
	phone    string
}

func (f *identityFlags) register(cmd *cobra.Command, prefix string) {
	cmd.Flags().StringVar(&f.forename, prefix+"forename", "", "forename")
	cmd.Flags().StringVar(&f.surname, prefix+"surname", "", "surname")
	cmd.Flags().StringVar(&f.email, prefix+"email", "", "email address (empty for none)")
	cmd.Flags().StringVar(&f.phone, prefix+"phone", "", "phone number (empty for none)")
}

// termsFlags は雇用条件のフラグです。
type termsFlags struct {
	rate  int
	hours float64
	start string
	end   string
}

func (f *termsFlags) register(cmd *cobra.Command, prefix string) {
	cmd.Flags().IntVar(&f.rate, prefix+"rate", 0, "hourly rate in pence")
	cmd.Flags().Float64Var(&f.hours, prefix+"hours", 0, "hours per week")
	cmd.Flags().StringVar(&f.start, prefix+"start", "", "employment start date (yyyy-MM-dd)")
	cmd.Flags().StringVar(&f.end, prefix+"end", "", "employment end date (yyyy-MM-dd, empty while employed)")
}

func (a *app) employeeCommand() *cobra.Command {
	var svc employee.UseCase

	cmd := &cobra.Command{
		Use:     "employee",
		Short:   "List, add, edit and delete employees",
		Aliases: []string{"emp"},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			repo, err := newRepository(cmd.Context(), a.cfg.Database, a.logger)
			if err != nil {
				return err
			}
			svc = employee.NewService(repo, a.logger)
			return nil
		},
	}

	service := func() employee.UseCase { return svc }

	cmd.AddCommand(employeeListCommand(service))
	cmd.AddCommand(employeeAddCommand(service))
	cmd.AddCommand(employeeEditCommand(service))
	cmd.AddCommand(employeeDeleteCommand(service))
	return cmd
}

func employeeListCommand(service func() employee.UseCase) *cobra.Command {
	var sortBySurname bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			employees := service().ListEmployees(cmd.Context(), employee.ListEmployeesInput{SortBySurname: sortBySurname})
			renderEmployees(cmd.OutOrStdout(), employees)
			return nil
		},
	}
	cmd.Flags().BoolVar(&sortBySurname, "sort", false, "sort by surname")
	return cmd
}

func employeeAddCommand(service func() employee.UseCase) *cobra.Command {
	var (
		id    identityFlags
		terms termsFlags
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := buildInput(id, terms)
			if err != nil {
				return err
			}
			e, err := employee.New(in)
			if err != nil {
				return err
			}
			if err := service().AddEmployee(cmd.Context(), e); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "added", e.String())
			return nil
		},
	}
	id.register(cmd, "")
	terms.register(cmd, "")
	return cmd
}

func employeeEditCommand(service func() employee.UseCase) *cobra.Command {
	var (
		id       identityFlags
		newID    identityFlags
		newTerms termsFlags
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the employee identified by --forename/--surname/--email/--phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			original, err := findEmployee(cmd.Context(), service(), id)
			if err != nil {
				return err
			}

			in, err := editedInput(cmd, original, newID, newTerms)
			if err != nil {
				return err
			}
			edited, err := employee.New(in)
			if err != nil {
				return err
			}

			if err := service().EditEmployee(cmd.Context(), employee.EditEmployeeInput{Original: original, Edited: edited}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated", edited.String())
			return nil
		},
	}
	id.register(cmd, "")
	newID.register(cmd, "new-")
	newTerms.register(cmd, "new-")
	return cmd
}

func employeeDeleteCommand(service func() employee.UseCase) *cobra.Command {
	var id identityFlags

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the employee identified by --forename/--surname/--email/--phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := findEmployee(cmd.Context(), service(), id)
			if err != nil {
				return err
			}
			deleted, err := service().DeleteEmployee(cmd.Context(), target)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "skipped (identity matches more than one employee)", target.String())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", target.String())
			return nil
		},
	}
	id.register(cmd, "")
	return cmd
}

func buildInput(id identityFlags, terms termsFlags) (employee.Input, error) {
	in := employee.Input{
		Forename:          &id.forename,
		Surname:           &id.surname,
		Email:             optionalFlag(id.email),
		PhoneNumber:       optionalFlag(id.phone),
		HourlyRateInPence: terms.rate,
		HoursPerWeek:      terms.hours,
	}

	start, err := employee.ParseOptionalDate(terms.start)
	if err != nil {
		return employee.Input{}, fmt.Errorf("start date: %w", err)
	}
	end, err := employee.ParseOptionalDate(terms.end)
	if err != nil {
		return employee.Input{}, fmt.Errorf("end date: %w", err)
	}
	in.StartDate = start
	in.EndDate = end
	return in, nil
}

// editedInput は original の値を基に、指定された --new-* フラグだけを上書きします。
func editedInput(cmd *cobra.Command, original *employee.Employee, newID identityFlags, newTerms termsFlags) (employee.Input, error) {
	rec := employee.RecordOf(original)
	changed := cmd.Flags().Changed

	id := identityFlags{forename: rec.Forename, surname: rec.Surname, email: deref(rec.Email), phone: deref(rec.PhoneNumber)}
	terms := termsFlags{rate: rec.HourlyRateInPence, hours: rec.HoursPerWeek, start: rec.StartDate, end: rec.EndDate}

	if changed("new-forename") {
		id.forename = newID.forename
	}
	if changed("new-surname") {
		id.surname = newID.surname
	}
	if changed("new-email") {
		id.email = newID.email
	}
	if changed("new-phone") {
		id.phone = newID.phone
	}
	if changed("new-rate") {
		terms.rate = newTerms.rate
	}
	if changed("new-hours") {
		terms.hours = newTerms.hours
	}
	if changed("new-start") {
		terms.start = newTerms.start
	}
	if changed("new-end") {
		terms.end = newTerms.end
	}

	return buildInput(id, terms)
}

// findEmployee は一覧から自然キーが一致する最初の社員を返します。
// フラグの値は登録時と同じ規則で正規化してから比較します。
func findEmployee(ctx context.Context, svc employee.UseCase, id identityFlags) (*employee.Employee, error) {
	email, err := employee.ValidateEmail(&id.email)
	if err != nil {
		return nil, err
	}
	phone := employee.ValidatePhoneNumber(&id.phone)

	for _, e := range svc.ListEmployees(ctx, employee.ListEmployeesInput{}) {
		key := e.NaturalKey()
		if key.Forename == normalizeName(id.forename) &&
			key.Surname == normalizeName(id.surname) &&
			deref(key.Email) == deref(email) &&
			deref(key.PhoneNumber) == deref(phone) {
			return e, nil
		}
	}
	return nil, errNoMatch
}

func normalizeName(raw string) string {
	name, err := employee.ValidateName(employee.FieldForename, &raw)
	if err != nil {
		return raw
	}
	return name
}

func renderEmployees(w io.Writer, employees []*employee.Employee) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Forename", "Surname", "Email", "Phone", "Rate", "Hours", "Start", "End"})

	for _, e := range employees {
		email, _ := e.Email()
		phone, _ := e.PhoneNumber()
		table.Append([]string{
			e.Forename(),
			e.Surname(),
			email,
			phone,
			e.HourlyRateAsCurrency(),
			strconv.FormatFloat(e.HoursPerWeek(), 'f', -1, 64),
			e.StartDateString(),
			e.EndDateString(),
		})
	}

	table.SetAutoFormatHeaders(false)
	table.Render()
}

func optionalFlag(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
