package resource

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Kind names one upstream resource shape served through the resolver.
type Kind string

const (
	KindSports          Kind = "sports"
	KindLiveEvents      Kind = "liveEvents"
	KindScheduledEvents Kind = "scheduledEvents"
	KindTeam            Kind = "team"
	KindTeamPlayers     Kind = "teamPlayers"
	KindTeamEvents      Kind = "teamEvents"
	KindPlayer          Kind = "player"
	KindPlayerEvents    Kind = "playerEvents"
	KindTournament      Kind = "tournament"
	KindSeasons         Kind = "seasons"
	KindStandings       Kind = "standings"
	KindSeasonEvents    Kind = "matches"
	KindEvent           Kind = "event"
	KindInnings         Kind = "innings"
	KindLineups         Kind = "lineups"
)

// TTLClass groups resources by how quickly upstream data changes.
type TTLClass string

const (
	TTLLive       TTLClass = "live"
	TTLFixture    TTLClass = "fixture"
	TTLSemiStatic TTLClass = "semiStatic"
	TTLStatic     TTLClass = "static"
)

// TTLs maps every class to its cache lifetime.
type TTLs map[TTLClass]time.Duration

func DefaultTTLs() TTLs {
	return TTLs{
		TTLLive:       10 * time.Second,
		TTLFixture:    time.Minute,
		TTLSemiStatic: time.Hour,
		TTLStatic:     24 * time.Hour,
	}
}

func (t TTLs) For(class TTLClass) time.Duration {
	if d, ok := t[class]; ok && d > 0 {
		return d
	}
	return DefaultTTLs()[class]
}

// Params carries the route parameters of one resource request.
type Params map[string]string

func (p Params) Get(name string) string {
	return strings.TrimSpace(p[name])
}

// Descriptor declares everything the resolver needs to know about a Kind.
type Descriptor struct {
	Kind  Kind
	Class TTLClass

	// LocalPattern is the public route, UpstreamPattern the sports API path.
	// Both use {name} placeholders resolved from Params.
	LocalPattern    string
	UpstreamPattern string

	// NaturalKey lists the params identifying the persisted record.
	NaturalKey []string

	// StoreMaxAge bounds how long a persisted record may answer a cache miss.
	// Zero means the persisted copy never goes stale.
	StoreMaxAge time.Duration

	// AccumulatePath, when set, names the array merged by id on refresh
	// instead of replacing the stored record.
	AccumulatePath string
}

var catalog = map[Kind]Descriptor{
	KindSports: {
		Kind: KindSports, Class: TTLStatic,
		LocalPattern: "/v1/sports", UpstreamPattern: "/sport/list",
		StoreMaxAge: 7 * 24 * time.Hour,
	},
	KindLiveEvents: {
		Kind: KindLiveEvents, Class: TTLLive,
		LocalPattern: "/v1/sport/{sport}/live", UpstreamPattern: "/sport/{sport}/events/live",
		NaturalKey: []string{"sport"}, StoreMaxAge: 10 * time.Second,
	},
	KindScheduledEvents: {
		Kind: KindScheduledEvents, Class: TTLFixture,
		LocalPattern: "/v1/sport/{sport}/scheduled/{date}", UpstreamPattern: "/sport/{sport}/scheduled-events/{date}",
		NaturalKey: []string{"sport", "date"}, StoreMaxAge: 10 * time.Minute,
	},
	KindTeam: {
		Kind: KindTeam, Class: TTLSemiStatic,
		LocalPattern: "/v1/team/{id}", UpstreamPattern: "/team/{id}",
		NaturalKey: []string{"id"},
	},
	KindTeamPlayers: {
		Kind: KindTeamPlayers, Class: TTLSemiStatic,
		LocalPattern: "/v1/team/{id}/players", UpstreamPattern: "/team/{id}/players",
		NaturalKey: []string{"id"}, StoreMaxAge: 24 * time.Hour,
	},
	KindTeamEvents: {
		Kind: KindTeamEvents, Class: TTLSemiStatic,
		LocalPattern: "/v1/team/{id}/events/{span}/{page}", UpstreamPattern: "/team/{id}/events/{span}/{page}",
		NaturalKey: []string{"id", "span", "page"}, StoreMaxAge: 6 * time.Hour,
	},
	KindPlayer: {
		Kind: KindPlayer, Class: TTLSemiStatic,
		LocalPattern: "/v1/player/{id}", UpstreamPattern: "/player/{id}",
		NaturalKey: []string{"id"},
	},
	KindPlayerEvents: {
		Kind: KindPlayerEvents, Class: TTLSemiStatic,
		LocalPattern: "/v1/player/{id}/events/{span}/{page}", UpstreamPattern: "/player/{id}/events/{span}/{page}",
		NaturalKey: []string{"id", "span", "page"}, StoreMaxAge: 6 * time.Hour,
	},
	KindTournament: {
		Kind: KindTournament, Class: TTLStatic,
		LocalPattern: "/v1/unique-tournament/{id}", UpstreamPattern: "/unique-tournament/{id}",
		NaturalKey: []string{"id"},
	},
	KindSeasons: {
		Kind: KindSeasons, Class: TTLStatic,
		LocalPattern: "/v1/unique-tournament/{id}/seasons", UpstreamPattern: "/unique-tournament/{id}/seasons",
		NaturalKey: []string{"id"}, StoreMaxAge: 7 * 24 * time.Hour, AccumulatePath: "seasons",
	},
	KindStandings: {
		Kind: KindStandings, Class: TTLLive,
		LocalPattern:    "/v1/unique-tournament/{id}/season/{seasonId}/standings/{type}",
		UpstreamPattern: "/unique-tournament/{id}/season/{seasonId}/standings/{type}",
		NaturalKey:      []string{"id", "seasonId", "type"}, StoreMaxAge: 10 * time.Second,
	},
	KindSeasonEvents: {
		Kind: KindSeasonEvents, Class: TTLFixture,
		LocalPattern:    "/v1/unique-tournament/{id}/season/{seasonId}/events/{span}/{page}",
		UpstreamPattern: "/unique-tournament/{id}/season/{seasonId}/events/{span}/{page}",
		NaturalKey:      []string{"id", "seasonId", "span", "page"}, StoreMaxAge: time.Hour, AccumulatePath: "events",
	},
	KindEvent: {
		Kind: KindEvent, Class: TTLFixture,
		LocalPattern: "/v1/event/{id}", UpstreamPattern: "/event/{id}",
		NaturalKey: []string{"id"}, StoreMaxAge: time.Minute,
	},
	KindInnings: {
		Kind: KindInnings, Class: TTLFixture,
		LocalPattern: "/v1/event/{id}/innings", UpstreamPattern: "/event/{id}/innings",
		NaturalKey: []string{"id"}, StoreMaxAge: time.Minute,
	},
	KindLineups: {
		Kind: KindLineups, Class: TTLFixture,
		LocalPattern: "/v1/event/{id}/lineups", UpstreamPattern: "/event/{id}/lineups",
		NaturalKey: []string{"id"}, StoreMaxAge: 10 * time.Minute,
	},
}

// Lookup returns the descriptor registered for kind.
func Lookup(kind Kind) (Descriptor, bool) {
	d, ok := catalog[kind]
	return d, ok
}

// Kinds lists every registered kind.
func Kinds() []Kind {
	out := make([]Kind, 0, len(catalog))
	for k := range catalog {
		out = append(out, k)
	}
	return out
}

// LocalPath renders the public route for params.
func (d Descriptor) LocalPath(params Params) (string, error) {
	return render(d.LocalPattern, params, nil)
}

// UpstreamPath renders the sports API path, translating span aliases.
func (d Descriptor) UpstreamPath(params Params) (string, error) {
	return render(d.UpstreamPattern, params, map[string]func(string) string{
		"span": UpstreamSpan,
	})
}

// NaturalKeyFor joins the identifying params behind the kind name.
func (d Descriptor) NaturalKeyFor(params Params) (string, error) {
	parts := make([]string, 0, len(d.NaturalKey)+1)
	parts = append(parts, string(d.Kind))
	for _, name := range d.NaturalKey {
		v := params.Get(name)
		if v == "" {
			return "", fmt.Errorf("missing param %q for %s", name, d.Kind)
		}
		if name == "span" {
			v = UpstreamSpan(v)
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, ":"), nil
}

// IsFresh reports whether a record fetched at fetchedAt may still serve reads.
func (d Descriptor) IsFresh(fetchedAt, now time.Time) bool {
	if d.StoreMaxAge <= 0 {
		return true
	}
	return now.Sub(fetchedAt) < d.StoreMaxAge
}

func render(pattern string, params Params, transforms map[string]func(string) string) (string, error) {
	var out strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '{' {
			out.WriteByte(pattern[i])
			continue
		}
		end := strings.IndexByte(pattern[i:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in %q", pattern)
		}
		name := pattern[i+1 : i+end]
		value := params.Get(name)
		if value == "" {
			return "", fmt.Errorf("missing param %q", name)
		}
		if fn := transforms[name]; fn != nil {
			value = fn(value)
		}
		out.WriteString(url.PathEscape(value))
		i += end
	}
	return out.String(), nil
}

// CacheKey derives the deterministic cache key for a request path and query.
func CacheKey(path string, query url.Values) string {
	path = strings.TrimRight(path, "/")
	if path == "" {
		path = "/"
	}
	if len(query) == 0 {
		return path
	}
	encoded := query.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}

// UpstreamSpan maps the public span vocabulary onto the sports API one.
func UpstreamSpan(span string) string {
	switch strings.ToLower(strings.TrimSpace(span)) {
	case "recent", "last":
		return "last"
	case "upcoming", "next":
		return "next"
	default:
		return span
	}
}

// ValidSpan accepts recent/last and upcoming/next.
func ValidSpan(span string) bool {
	switch strings.ToLower(strings.TrimSpace(span)) {
	case "recent", "last", "upcoming", "next":
		return true
	}
	return false
}

// ValidStandingsType accepts the three upstream table variants.
func ValidStandingsType(v string) bool {
	switch v {
	case "total", "home", "away":
		return true
	}
	return false
}

// ValidUpstreamID accepts positive decimal identifiers.
func ValidUpstreamID(v string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	return err == nil && n > 0
}

// ValidPage accepts non-negative page numbers.
func ValidPage(v string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	return err == nil && n >= 0
}

// ValidDate accepts YYYY-MM-DD.
func ValidDate(v string) bool {
	_, err := time.Parse(time.DateOnly, strings.TrimSpace(v))
	return err == nil
}

// Record is the durable copy of one upstream payload.
type Record struct {
	Kind       Kind
	NaturalKey string
	Payload    []byte
	FetchedAt  time.Time
}
