package model

import (
	"testing"
	"time"
)

func TestRecordStatusValid(t *testing.T) {
	for _, s := range AllStatuses {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []RecordStatus{"", "done", "PENDING"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestRecordValidateDefaultsStatus(t *testing.T) {
	r := ParticipationRecord{ProductID: 1, ExhibitionID: 2}
	if errs := r.Validate(); len(errs) != 0 {
		t.Fatalf("expected valid record, got %v", errs)
	}
	if r.Status != StatusPending {
		t.Fatalf("empty status should default to pending, got %q", r.Status)
	}
}

func TestRecordValidateRejectsBadInput(t *testing.T) {
	r := ParticipationRecord{Status: "done"}
	errs := r.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 problems (both ids, status), got %v", errs)
	}
}

func TestStatusForDates(t *testing.T) {
	start, end := date(2026, 6, 10), date(2026, 6, 12)

	cases := []struct {
		day  time.Time
		want RecordStatus
	}{
		{date(2026, 6, 9), StatusPending},
		{date(2026, 6, 10), StatusInProgress},
		{date(2026, 6, 12), StatusInProgress},
		{date(2026, 6, 13), StatusEnded},
	}
	for _, c := range cases {
		if got := StatusForDates(start, end, c.day); got != c.want {
			t.Errorf("StatusForDates(%s) = %q, want %q", c.day.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestRecordActive(t *testing.T) {
	cases := []struct {
		status RecordStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusInProgress, true},
		{StatusEnded, false},
	}
	for _, c := range cases {
		r := ParticipationRecord{Status: c.status}
		if got := r.Active(); got != c.want {
			t.Errorf("Active(%q) = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestCountByStatus(t *testing.T) {
	records := []ParticipationRecord{
		{Status: StatusPending},
		{Status: StatusPending},
		{Status: StatusEnded},
	}
	counts := CountByStatus(records)
	if counts[StatusPending] != 2 || counts[StatusEnded] != 1 {
		t.Fatalf("unexpected tallies: %v", counts)
	}
	if n, ok := counts[StatusInProgress]; !ok || n != 0 {
		t.Fatalf("statuses without records should appear with a zero count, got %v", counts)
	}
}
