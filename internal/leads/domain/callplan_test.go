package domain

import (
	"testing"
	"time"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadZone(name)
	if err != nil {
		t.Fatalf("load zone %s: %v", name, err)
	}
	return loc
}

func TestNextCallDateKeepsWallClockAcrossSpringForward(t *testing.T) {
	ny := mustZone(t, "America/New_York")
	from := time.Date(2024, time.March, 9, 15, 0, 0, 0, time.UTC) // 10:00 EST

	got := NextCallDate(from, 1, ny)
	want := time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC) // 10:00 EDT

	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got.UTC())
	}
	if elapsed := got.Sub(from); elapsed != 23*time.Hour {
		t.Fatalf("expected 23h across spring-forward, got %s", elapsed)
	}
}

func TestNextCallDateKeepsWallClockAcrossFallBack(t *testing.T) {
	ny := mustZone(t, "America/New_York")
	from := time.Date(2024, time.November, 2, 14, 0, 0, 0, time.UTC) // 10:00 EDT

	got := NextCallDate(from, 1, ny)
	want := time.Date(2024, time.November, 3, 15, 0, 0, 0, time.UTC) // 10:00 EST

	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got.UTC())
	}
	if elapsed := got.Sub(from); elapsed != 25*time.Hour {
		t.Fatalf("expected 25h across fall-back, got %s", elapsed)
	}
}

func TestNextCallDateDependsOnLeadZone(t *testing.T) {
	instant := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	inUTC := NextCallDate(instant, 7, time.UTC)
	inNY := NextCallDate(instant, 7, mustZone(t, "America/New_York"))

	if !inUTC.Equal(time.Date(2024, time.March, 12, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected UTC result %s", inUTC)
	}
	if !inNY.Equal(time.Date(2024, time.March, 12, 11, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected New York result %s", inNY.UTC())
	}
}

func TestLoadZoneDefaultsToUTC(t *testing.T) {
	loc := mustZone(t, "  ")
	if loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %s", loc)
	}
	if _, err := LoadZone("Not/AZone"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}

func TestParseNextCallDate(t *testing.T) {
	kolkata := mustZone(t, "Asia/Kolkata")

	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2024-06-01", time.Date(2024, time.May, 31, 18, 30, 0, 0, time.UTC)},
		{"2024-06-01T09:00", time.Date(2024, time.June, 1, 3, 30, 0, 0, time.UTC)},
		{"2024-06-01T09:00:00Z", time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)},
		{"2024-06-01T09:00:00-04:00", time.Date(2024, time.June, 1, 13, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, err := ParseNextCallDate(tc.raw, kolkata)
		if err != nil {
			t.Fatalf("expected %q to parse, got %v", tc.raw, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("expected %q -> %s, got %s", tc.raw, tc.want, got.UTC())
		}
	}

	if _, err := ParseNextCallDate("next tuesday", kolkata); err != ErrInvalidNextCallDate {
		t.Fatalf("expected ErrInvalidNextCallDate, got %v", err)
	}
}

func TestStartOfDayUsesGivenZone(t *testing.T) {
	kolkata := mustZone(t, "Asia/Kolkata")
	now := time.Date(2024, time.June, 1, 20, 0, 0, 0, time.UTC) // 01:30 on 2 June in Kolkata

	got := StartOfDay(now, kolkata)
	want := time.Date(2024, time.June, 1, 18, 30, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got.UTC())
	}
}

func TestIsDueBoundaryIsInclusive(t *testing.T) {
	cutoff := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	if !IsDue(cutoff, cutoff) {
		t.Fatal("expected lead due exactly at cutoff to be due")
	}
	if !IsDue(cutoff.Add(-time.Second), cutoff) {
		t.Fatal("expected lead before cutoff to be due")
	}
	if IsDue(cutoff.Add(time.Millisecond), cutoff) {
		t.Fatal("expected lead after cutoff not to be due")
	}
}
