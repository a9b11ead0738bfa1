package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	"github.com/riskibarqy/sportdata-hub/internal/domain/user"
	"github.com/riskibarqy/sportdata-hub/internal/infrastructure/account/jwtauth"
	"github.com/riskibarqy/sportdata-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sportdata-hub/internal/platform/cache"
	idgen "github.com/riskibarqy/sportdata-hub/internal/platform/id"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

const testSecret = "handler-test-secret"

type fakeUpstream struct {
	mu    sync.Mutex
	docs  map[string][]byte
	calls map[string]int
}

func (f *fakeUpstream) Fetch(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[path]++
	doc, ok := f.docs[path]
	if !ok {
		return nil, usecase.ErrUpstreamNotFound
	}
	return doc, nil
}

func (f *fakeUpstream) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

type apiFixture struct {
	router   http.Handler
	upstream *fakeUpstream
	matches  *memory.MatchRepository
	players  *usecase.PlayerService
	teams    *usecase.TeamService
	token    string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	upstream := &fakeUpstream{
		docs: map[string][]byte{
			"/event/11": []byte(`{"event":{"id":11,"homeTeam":{"id":1,"name":"Home"},"awayTeam":{"id":2,"name":"Away"}}}`),
		},
		calls: map[string]int{},
	}
	logger := logging.NewNop()
	resolver := usecase.NewResolver(usecase.ResolverConfig{
		Cache:    cache.NewStore(time.Minute),
		Store:    memory.NewResourceRepository(),
		Upstream: upstream,
		Logger:   logger,
	})

	tournaments := memory.NewTournamentRepository()
	teams := memory.NewTeamRepository()
	players := memory.NewPlayerRepository()
	matches := memory.NewMatchRepository()
	ids := idgen.NewUUIDGenerator()
	locks := usecase.NewMatchLocks()

	playerSvc := usecase.NewPlayerService(players, ids)
	teamSvc := usecase.NewTeamService(teams, players, tournaments, matches, ids)
	handler := NewHandler(HandlerConfig{
		SportData:    usecase.NewSportDataService(resolver, logger),
		Tournaments:  usecase.NewTournamentService(tournaments, matches, ids),
		Teams:        teamSvc,
		Players:      playerSvc,
		Matches:      usecase.NewMatchService(matches, teams, players, tournaments, locks, ids),
		Scoring: usecase.NewScoringService(usecase.ScoringServiceConfig{
			Matches:    matches,
			Dismissals: memory.NewDismissalTypeRepository(nil),
			Locks:      locks,
			Logger:     logger,
		}),
		CacheBackend: "memory",
		Logger:       logger,
	})

	verifier := jwtauth.NewVerifier(testSecret, "")
	token, err := verifier.Sign(user.Principal{UserID: "owner-1", Email: "owner@example.com"}, nil)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return &apiFixture{
		router: NewRouter(RouterConfig{
			Handler:        handler,
			Verifier:       verifier,
			Logger:         logger,
			SwaggerEnabled: true,
		}),
		upstream: upstream,
		matches:  matches,
		players:  playerSvc,
		teams:    teamSvc,
		token:    token,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, body string, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) seedTeam(t *testing.T, sp sport.Sport, name string, size int) (string, []string) {
	t.Helper()
	ids := make([]string, 0, size)
	for i := 0; i < size; i++ {
		p, err := f.players.Create(t.Context(), usecase.CreatePlayerInput{
			Actor: "owner-1", Sport: sp, Name: "Player", JerseyNumber: i + 1,
		})
		if err != nil {
			t.Fatalf("seed player: %v", err)
		}
		ids = append(ids, p.ID)
	}
	tm, err := f.teams.Create(t.Context(), usecase.CreateTeamInput{
		Actor: "owner-1", Sport: sp, Name: name, PlayerIDs: ids,
	})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}
	return tm.ID, ids
}

func rosterJSON(ids []string, playing int) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"playerId":"` + id + `","isPlaying":`)
		if i < playing {
			buf.WriteString("true}")
		} else {
			buf.WriteString("false}")
		}
	}
	buf.WriteByte(']')
	return buf.String()
}

func TestHandler_SportDataServesProjectedEvent(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	for i := 0; i < 2; i++ {
		rec := f.do(t, http.MethodGet, "/v1/event/11", "", false)
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		data, ok := env["data"].(map[string]any)
		if !ok || data["id"] != float64(11) {
			t.Fatalf("unexpected data: %v", env["data"])
		}
	}
	if got := f.upstream.callCount("/event/11"); got != 1 {
		t.Fatalf("upstream called %d times, want 1", got)
	}
}

func TestHandler_SportDataUpstreamAbsenceIsNullData(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/v1/event/404/lineups", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env["status"] != true || env["message"] != msgNoData || env["data"] != nil {
		t.Fatalf("unexpected envelope: %v", env)
	}
}

func TestHandler_SportDataRejectsMalformedParams(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/v1/team/abc/events/sideways/0", "", false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if f.upstream.callCount("/team/abc/events/sideways/0") != 0 {
		t.Fatalf("malformed request must not reach the upstream")
	}
}

func TestHandler_MutationsRequireToken(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/cricket/players", `{"name":"Ana"}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env["status"] != false || env["statusCode"] != float64(http.StatusUnauthorized) {
		t.Fatalf("unexpected envelope: %v", env)
	}
}

func TestHandler_CreateAndGetPlayer(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/football/players", `{"name":"Ana","role":"striker","jerseyNumber":9}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeEnvelope(t, rec)["data"].(map[string]any)
	id, _ := created["id"].(string)
	if id == "" || created["sport"] != "football" || created["createdBy"] != "owner-1" {
		t.Fatalf("unexpected player: %v", created)
	}

	rec = f.do(t, http.MethodGet, "/v1/football/players/"+id, "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status=%d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/v1/cricket/players/"+id, "", false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("player must not be visible under another sport, status=%d", rec.Code)
	}
}

func TestHandler_CreatePlayerValidation(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/cricket/players", `{"role":"batter"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data, ok := env["data"].(map[string]any)
	if !ok || data["name"] != "name is required" {
		t.Fatalf("unexpected field errors: %v", env["data"])
	}

	rec = f.do(t, http.MethodPost, "/v1/cricket/players", `{"name":"Ana","unknown":1}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown fields must be rejected, status=%d", rec.Code)
	}
}

func TestHandler_CreateMatchRosterCap(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	homeID, homePlayers := f.seedTeam(t, sport.Basketball, "Home", 7)
	awayID, awayPlayers := f.seedTeam(t, sport.Basketball, "Away", 7)

	body := `{"homeTeamId":"` + homeID + `","awayTeamId":"` + awayID +
		`","homeRoster":` + rosterJSON(homePlayers, 6) +
		`,"awayRoster":` + rosterJSON(awayPlayers, 5) + `}`
	rec := f.do(t, http.MethodPost, "/v1/basketball/matches", body, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env["message"] != "Each team can have a maximum of 5 playing players" {
		t.Fatalf("unexpected message: %v", env["message"])
	}

	stored, err := f.matches.List(t.Context(), match.ListFilter{})
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("rejected match must not be written, found %d", len(stored))
	}
}

func TestHandler_MatchLifecycleAndBoxScore(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	homeID, homePlayers := f.seedTeam(t, sport.Football, "Home", 12)
	awayID, awayPlayers := f.seedTeam(t, sport.Football, "Away", 12)

	body := `{"homeTeamId":"` + homeID + `","awayTeamId":"` + awayID +
		`","homeRoster":` + rosterJSON(homePlayers, 11) +
		`,"awayRoster":` + rosterJSON(awayPlayers, 11) + `}`
	rec := f.do(t, http.MethodPost, "/v1/football/matches", body, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}
	matchID := decodeEnvelope(t, rec)["data"].(map[string]any)["id"].(string)

	rec = f.do(t, http.MethodPut, "/v1/football/matches/"+matchID+"/status", `{"status":"in_progress"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status update=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/v1/football/matches/"+matchID+"/events",
		`{"type":"goal","playerId":"`+homePlayers[0]+`"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("event status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/v1/football/matches/"+matchID+"/boxscore", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("boxscore status=%d", rec.Code)
	}
	if f.do(t, http.MethodGet, "/v1/football/matches/"+matchID+"/scorecard", "", false).Code != http.StatusNotFound {
		t.Fatalf("football matches have no scorecard route")
	}

	rec = f.do(t, http.MethodDelete, "/v1/football/matches/"+matchID, "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status=%d body=%s", rec.Code, rec.Body.String())
	}
	if f.do(t, http.MethodGet, "/v1/football/matches/"+matchID, "", false).Code != http.StatusNotFound {
		t.Fatalf("deleted match must be gone")
	}
}

func TestHandler_ListPaginationValidation(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/v1/cricket/teams?page=0", "", false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
	rec = f.do(t, http.MethodGet, "/v1/cricket/teams?page=1&limit=5", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestHandler_DismissalTypesAndHealth(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/v1/cricket/dismissal-types", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("dismissal types status=%d", rec.Code)
	}
	items, ok := decodeEnvelope(t, rec)["data"].([]any)
	if !ok || len(items) == 0 {
		t.Fatalf("expected dismissal types")
	}

	rec = f.do(t, http.MethodGet, "/healthz", "", false)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if rec.Code != http.StatusOK || data["cache"] != "memory" || data["database"] != "memory" {
		t.Fatalf("unexpected health: %d %v", rec.Code, data)
	}

	if f.do(t, http.MethodGet, "/openapi.yaml", "", false).Code != http.StatusOK {
		t.Fatalf("openapi document not served")
	}
}
