package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches unique violation code", func(t *testing.T) {
		err := fmt.Errorf("insert team: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for wrapped unique violation")
		}
	})

	t.Run("ignores other pq errors", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(fakeErr("pq: relation teams does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get match: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestNullStringRoundTrip(t *testing.T) {
	if got := toNullString("   "); got.Valid {
		t.Fatalf("blank string must be null, got %+v", got)
	}
	if got := nullStringValue(toNullString(" t-1 ")); got != "t-1" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestNullTime(t *testing.T) {
	if got := toNullTime(time.Time{}); got.Valid {
		t.Fatalf("zero time must be null")
	}
	if !nullTimeValue(sql.NullTime{}).IsZero() {
		t.Fatalf("null time must map to zero time")
	}
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	if got := nullTimeValue(toNullTime(at)); !got.Equal(at) || got.Location() != time.UTC {
		t.Fatalf("expected UTC instant, got %v", got)
	}
}

func TestEncodeRosterKeepsOrder(t *testing.T) {
	raw, err := encodeRoster(rosterFixture())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeRoster([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := rosterFixture()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecodeRosterEmpty(t *testing.T) {
	got, err := decodeRoster(nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty roster, got %v %v", got, err)
	}
}

func rosterFixture() []match.RosterEntry {
	return []match.RosterEntry{
		{PlayerID: "p-3", IsPlaying: true},
		{PlayerID: "p-1", IsPlaying: false},
		{PlayerID: "p-2", IsPlaying: true},
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
