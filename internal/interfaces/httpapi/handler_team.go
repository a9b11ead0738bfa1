package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teams.Create(ctx, usecase.CreateTeamInput{
		Actor:        principal.UserID,
		Sport:        sportFromContext(ctx),
		Name:         req.Name,
		ShortName:    req.ShortName,
		LogoURL:      req.LogoURL,
		TournamentID: req.TournamentID,
		PlayerIDs:    req.PlayerIDs,
	})
	if err != nil {
		h.fail(ctx, w, "create team failed", err, "user_id", principal.UserID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(item))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	page, err := paginationFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := r.URL.Query()
	items, err := h.teams.List(ctx, usecase.ListTeamsInput{
		Sport:        sportFromContext(ctx),
		CreatedBy:    query.Get("createdBy"),
		TournamentID: query.Get("tournamentId"),
		Pagination:   page,
	})
	if err != nil {
		h.fail(ctx, w, "list teams failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, teamToDTO))
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	id := r.PathValue("id")
	item, err := h.teams.Get(ctx, sportFromContext(ctx), id)
	if err != nil {
		h.fail(ctx, w, "get team failed", err, "team_id", id)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeam")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	item, err := h.teams.Update(ctx, usecase.UpdateTeamInput{
		Actor:        principal.UserID,
		Sport:        sportFromContext(ctx),
		ID:           id,
		Name:         req.Name,
		ShortName:    req.ShortName,
		LogoURL:      req.LogoURL,
		TournamentID: req.TournamentID,
		PlayerIDs:    req.PlayerIDs,
	})
	if err != nil {
		h.fail(ctx, w, "update team failed", err, "team_id", id, "user_id", principal.UserID)
		return
	}

	writeResult(ctx, w, Updated(teamToDTO(item)))
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeam")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	if err := h.teams.Delete(ctx, principal.UserID, sportFromContext(ctx), id); err != nil {
		h.fail(ctx, w, "delete team failed", err, "team_id", id, "user_id", principal.UserID)
		return
	}

	writeResult(ctx, w, Deleted())
}
