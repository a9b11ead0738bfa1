package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
)

func registerSystemRoutes(mux *http.ServeMux, cfg RouterConfig) {
	mux.HandleFunc("GET /healthz", cfg.Handler.Healthz)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	if cfg.WebSocket != nil {
		mux.Handle("GET /v1/ws", cfg.WebSocket)
	}
	if !cfg.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", cfg.Handler.OpenAPI)
	mux.HandleFunc("GET /docs", cfg.Handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", cfg.Handler.SwaggerUI)
}

// registerSportDataRoutes mounts every proxied resource on its public pattern.
func registerSportDataRoutes(mux *http.ServeMux, handler *Handler) {
	for _, kind := range resource.Kinds() {
		desc, ok := resource.Lookup(kind)
		if !ok {
			continue
		}
		mux.HandleFunc("GET "+desc.LocalPattern, handler.SportData(kind))
	}
}

// registerCustomModuleRoutes mounts the user-authored data routes of one
// sport. Every sport gets literal paths so its patterns never overlap the
// /v1/sport/{sport} proxy routes.
func registerCustomModuleRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, sp sport.Sport) {
	base := "/v1/" + sp.String()
	public := func(fn http.HandlerFunc) http.Handler {
		return forSport(sp, fn)
	}
	authorized := func(fn http.HandlerFunc) http.Handler {
		return forSport(sp, RequireAuth(verifier, fn))
	}

	mux.Handle("POST "+base+"/tournaments", authorized(handler.CreateTournament))
	mux.Handle("GET "+base+"/tournaments", public(handler.ListTournaments))
	mux.Handle("GET "+base+"/tournaments/{id}", public(handler.GetTournament))
	mux.Handle("PUT "+base+"/tournaments/{id}", authorized(handler.UpdateTournament))
	mux.Handle("DELETE "+base+"/tournaments/{id}", authorized(handler.DeleteTournament))

	mux.Handle("POST "+base+"/teams", authorized(handler.CreateTeam))
	mux.Handle("GET "+base+"/teams", public(handler.ListTeams))
	mux.Handle("GET "+base+"/teams/{id}", public(handler.GetTeam))
	mux.Handle("PUT "+base+"/teams/{id}", authorized(handler.UpdateTeam))
	mux.Handle("DELETE "+base+"/teams/{id}", authorized(handler.DeleteTeam))

	mux.Handle("POST "+base+"/players", authorized(handler.CreatePlayer))
	mux.Handle("GET "+base+"/players", public(handler.ListPlayers))
	mux.Handle("GET "+base+"/players/{id}", public(handler.GetPlayer))
	mux.Handle("PUT "+base+"/players/{id}", authorized(handler.UpdatePlayer))
	mux.Handle("DELETE "+base+"/players/{id}", authorized(handler.DeletePlayer))

	mux.Handle("POST "+base+"/matches", authorized(handler.CreateMatch))
	mux.Handle("GET "+base+"/matches", public(handler.ListMatches))
	mux.Handle("GET "+base+"/matches/{id}", public(handler.GetMatch))
	mux.Handle("PUT "+base+"/matches/{id}", authorized(handler.UpdateMatch))
	mux.Handle("DELETE "+base+"/matches/{id}", authorized(handler.DeleteMatch))
	mux.Handle("PUT "+base+"/matches/{id}/status", authorized(handler.UpdateMatchStatus))

	if sp.UsesScorecard() {
		mux.Handle("GET "+base+"/matches/{id}/scorecard", public(handler.GetScorecard))
		mux.Handle("POST "+base+"/matches/{id}/deliveries", authorized(handler.RecordDelivery))
		mux.Handle("GET "+base+"/dismissal-types", public(handler.ListDismissalTypes))
		return
	}

	mux.Handle("GET "+base+"/matches/{id}/boxscore", public(handler.GetBoxScore))
	mux.Handle("POST "+base+"/matches/{id}/events", authorized(handler.RecordMatchEvent))
	mux.Handle("POST "+base+"/matches/{id}/substitutions", authorized(handler.Substitute))
}
