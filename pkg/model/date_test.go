package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2026, time.January, 30)

	if got := d.AddDays(3).String(); got != "2026-02-02" {
		t.Errorf("AddDays(3) = %s, want 2026-02-02", got)
	}
	if got := d.AddDays(-1).String(); got != "2026-01-29" {
		t.Errorf("AddDays(-1) = %s, want 2026-01-29", got)
	}
	if got := d.DaysUntil(NewDate(2026, time.February, 4)); got != 5 {
		t.Errorf("DaysUntil = %d, want 5", got)
	}
	if got := d.DaysUntil(NewDate(2026, time.January, 28)); got != -2 {
		t.Errorf("DaysUntil backwards = %d, want -2", got)
	}
}

func TestDateComparisons(t *testing.T) {
	a := NewDate(2026, time.March, 1)
	b := NewDate(2026, time.March, 2)

	if !a.Before(b) || b.Before(a) {
		t.Error("Before is wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After is wrong")
	}
	if !a.Equal(NewDate(2026, time.March, 1)) {
		t.Error("Equal is wrong")
	}
}

func TestDateOfTruncatesTime(t *testing.T) {
	d := DateOf(time.Date(2026, time.July, 14, 23, 59, 58, 0, time.UTC))
	if d.String() != "2026-07-14" {
		t.Errorf("DateOf = %s, want 2026-07-14", d)
	}
	if !d.Equal(NewDate(2026, time.July, 14)) {
		t.Error("DateOf did not truncate to midnight")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	type payload struct {
		Start Date `json:"start"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"start":"2026-05-09"}`), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !p.Start.Equal(NewDate(2026, time.May, 9)) {
		t.Errorf("unmarshaled %s, want 2026-05-09", p.Start)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"start":"2026-05-09"}` {
		t.Errorf("marshaled %s", out)
	}
}

func TestDateJSONRejectsBadFormat(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"09/05/2026"`), &d); err == nil {
		t.Error("expected error for non ISO date")
	}
	if err := json.Unmarshal([]byte(`"2026-13-40"`), &d); err == nil {
		t.Error("expected error for impossible date")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-11-30")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.String() != "2026-11-30" {
		t.Errorf("ParseDate = %s", d)
	}

	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("expected error for garbage input")
	}
}
