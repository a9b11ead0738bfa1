package resource

import (
	"net/url"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
)

func TestCacheKey_SortsQuery(t *testing.T) {
	t.Parallel()

	a := CacheKey("/v1/team/42/events/recent/2", url.Values{"b": {"2"}, "a": {"1"}})
	b := CacheKey("/v1/team/42/events/recent/2/", url.Values{"a": {"1"}, "b": {"2"}})
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
	if a != "/v1/team/42/events/recent/2?a=1&b=2" {
		t.Fatalf("unexpected key %q", a)
	}
	if got := CacheKey("/v1/sports", nil); got != "/v1/sports" {
		t.Fatalf("unexpected key without query %q", got)
	}
}

func TestDescriptor_PathsAndNaturalKey(t *testing.T) {
	t.Parallel()

	d, ok := Lookup(KindTeamEvents)
	if !ok {
		t.Fatalf("team events descriptor missing")
	}
	params := Params{"id": "42", "span": "recent", "page": "2"}

	local, err := d.LocalPath(params)
	if err != nil || local != "/v1/team/42/events/recent/2" {
		t.Fatalf("unexpected local path %q %v", local, err)
	}
	upstream, err := d.UpstreamPath(params)
	if err != nil || upstream != "/team/42/events/last/2" {
		t.Fatalf("unexpected upstream path %q %v", upstream, err)
	}
	key, err := d.NaturalKeyFor(params)
	if err != nil || key != "teamEvents:42:last:2" {
		t.Fatalf("unexpected natural key %q %v", key, err)
	}

	if _, err := d.UpstreamPath(Params{"id": "42"}); err == nil {
		t.Fatalf("expected missing param error")
	}
}

func TestCatalog_EveryKindIsComplete(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds() {
		d, _ := Lookup(kind)
		if d.Kind != kind {
			t.Fatalf("descriptor kind mismatch for %s", kind)
		}
		if !strings.HasPrefix(d.LocalPattern, "/v1/") || !strings.HasPrefix(d.UpstreamPattern, "/") {
			t.Fatalf("bad patterns for %s", kind)
		}
		if DefaultTTLs().For(d.Class) <= 0 {
			t.Fatalf("no ttl for class %s", d.Class)
		}
	}
}

func TestTTLs_ObservedClasses(t *testing.T) {
	t.Parallel()

	ttl := DefaultTTLs()
	cases := map[Kind]time.Duration{
		KindStandings:    10 * time.Second,
		KindSeasonEvents: time.Minute,
		KindPlayer:       time.Hour,
		KindSports:       24 * time.Hour,
	}
	for kind, want := range cases {
		d, _ := Lookup(kind)
		if got := ttl.For(d.Class); got != want {
			t.Fatalf("%s ttl = %s, want %s", kind, got, want)
		}
	}

	override := TTLs{TTLLive: 3 * time.Second}
	if got := override.For(TTLLive); got != 3*time.Second {
		t.Fatalf("override ignored: %s", got)
	}
	if got := override.For(TTLStatic); got != 24*time.Hour {
		t.Fatalf("missing class must fall back to default, got %s", got)
	}
}

func TestDescriptor_IsFresh(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	team, _ := Lookup(KindTeam)
	if !team.IsFresh(now.Add(-365*24*time.Hour), now) {
		t.Fatalf("team records never go stale")
	}
	standings, _ := Lookup(KindStandings)
	if standings.IsFresh(now.Add(-11*time.Second), now) {
		t.Fatalf("standings record older than max age must be stale")
	}
}

func TestAccumulate_MergesByID(t *testing.T) {
	t.Parallel()

	stored := []byte(`{"seasons":[{"id":1,"name":"2024"},{"id":2,"name":"2025 old"}]}`)
	fresh := []byte(`{"seasons":[{"id":2,"name":"2025"},{"id":3,"name":"2026"}]}`)

	out, err := Accumulate("seasons", stored, fresh)
	if err != nil {
		t.Fatalf("accumulate: %v", err)
	}

	var doc struct {
		Seasons []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"seasons"`
	}
	if err := sonic.Unmarshal(out, &doc); err != nil {
		t.Fatalf("decode merged: %v", err)
	}
	if len(doc.Seasons) != 3 {
		t.Fatalf("expected 3 seasons, got %+v", doc.Seasons)
	}
	if doc.Seasons[0].Name != "2025" || doc.Seasons[1].ID != 3 || doc.Seasons[2].ID != 1 {
		t.Fatalf("unexpected merge order: %+v", doc.Seasons)
	}
}

func TestAccumulate_WithoutStoredReturnsFresh(t *testing.T) {
	t.Parallel()

	fresh := []byte(`{"events":[{"id":9}]}`)
	out, err := Accumulate("events", nil, fresh)
	if err != nil || string(out) != string(fresh) {
		t.Fatalf("expected fresh passthrough, got %s %v", out, err)
	}
}

func TestValidators(t *testing.T) {
	t.Parallel()

	if !ValidSpan("recent") || !ValidSpan("next") || ValidSpan("later") {
		t.Fatalf("span validation mismatch")
	}
	if !ValidUpstreamID("42") || ValidUpstreamID("0") || ValidUpstreamID("abc") {
		t.Fatalf("id validation mismatch")
	}
	if !ValidPage("0") || ValidPage("-1") {
		t.Fatalf("page validation mismatch")
	}
	if !ValidDate("2026-04-01") || ValidDate("01-04-2026") {
		t.Fatalf("date validation mismatch")
	}
	if !ValidStandingsType("home") || ValidStandingsType("neutral") {
		t.Fatalf("standings type validation mismatch")
	}
}
