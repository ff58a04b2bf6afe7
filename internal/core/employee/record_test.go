package employee

import (
	"errors"
	"testing"
)

func TestRecord_RoundTrip(t *testing.T) {
	t.Parallel()

	e := mustNew(t, validInput())
	rec := RecordOf(e)

	if rec.StartDate != "2010-06-25" || rec.EndDate != "2010-06-27" {
		t.Fatalf("unexpected record dates: %+v", rec)
	}

	back, err := rec.Employee()
	if err != nil {
		t.Fatalf("Employee returned error: %v", err)
	}
	if !back.Equal(e) {
		t.Fatalf("expected round trip to preserve equality: %s vs %s", back, e)
	}
}

func TestRecord_AbsentEndDateIsEmpty(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.EndDate = nil
	rec := RecordOf(mustNew(t, in))

	if rec.EndDate != "" {
		t.Fatalf("expected empty end date, got %q", rec.EndDate)
	}

	rec.EndDate = "   "
	back, err := rec.Employee()
	if err != nil {
		t.Fatalf("Employee returned error: %v", err)
	}
	if _, ok := back.EndDate(); ok {
		t.Fatalf("expected blank end date to read back as absent")
	}
}

func TestRecord_BadRows(t *testing.T) {
	t.Parallel()

	rec := RecordOf(mustNew(t, validInput()))

	badDate := rec
	badDate.StartDate = "25/06/2010"
	if _, err := badDate.Employee(); err == nil {
		t.Fatalf("expected malformed start date to fail")
	}

	badEnd := rec
	badEnd.EndDate = "never"
	if _, err := badEnd.Employee(); err == nil {
		t.Fatalf("expected malformed end date to fail")
	}

	badName := rec
	badName.Forename = "R2d2"
	if _, err := badName.Employee(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected stored invalid name to fail validation, got %v", err)
	}
}
