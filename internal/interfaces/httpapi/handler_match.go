package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matches.Create(ctx, usecase.CreateMatchInput{
		Actor:        principal.UserID,
		Sport:        sportFromContext(ctx),
		TournamentID: req.TournamentID,
		HomeTeamID:   req.HomeTeamID,
		AwayTeamID:   req.AwayTeamID,
		Venue:        req.Venue,
		ScheduledAt:  req.ScheduledAt,
		HomeRoster:   rosterFromRequest(req.HomeRoster),
		AwayRoster:   rosterFromRequest(req.AwayRoster),
	})
	if err != nil {
		h.fail(ctx, w, "create match failed", err, "user_id", principal.UserID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(item))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	page, err := paginationFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := r.URL.Query()
	items, err := h.matches.List(ctx, usecase.ListMatchesInput{
		Sport:        sportFromContext(ctx),
		CreatedBy:    query.Get("createdBy"),
		TournamentID: query.Get("tournamentId"),
		TeamID:       query.Get("teamId"),
		Status:       query.Get("status"),
		Pagination:   page,
	})
	if err != nil {
		h.fail(ctx, w, "list matches failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, matchToDTO))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	id := r.PathValue("id")
	item, err := h.matches.Get(ctx, sportFromContext(ctx), id)
	if err != nil {
		h.fail(ctx, w, "get match failed", err, "match_id", id)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.UpdateMatchInput{
		Actor:        principal.UserID,
		Sport:        sportFromContext(ctx),
		ID:           r.PathValue("id"),
		TournamentID: req.TournamentID,
		Venue:        req.Venue,
		ScheduledAt:  req.ScheduledAt,
	}
	if req.HomeRoster != nil {
		roster := rosterFromRequest(*req.HomeRoster)
		input.HomeRoster = &roster
	}
	if req.AwayRoster != nil {
		roster := rosterFromRequest(*req.AwayRoster)
		input.AwayRoster = &roster
	}

	item, err := h.matches.Update(ctx, input)
	if err != nil {
		h.fail(ctx, w, "update match failed", err, "match_id", input.ID, "user_id", principal.UserID)
		return
	}

	writeResult(ctx, w, Updated(matchToDTO(item)))
}

func (h *Handler) UpdateMatchStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchStatus")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateMatchStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	item, err := h.matches.UpdateStatus(ctx, usecase.UpdateMatchStatusInput{
		Actor:      principal.UserID,
		Sport:      sportFromContext(ctx),
		ID:         id,
		Status:     req.Status,
		ResultNote: req.ResultNote,
	})
	if err != nil {
		h.fail(ctx, w, "update match status failed", err, "match_id", id, "status", req.Status)
		return
	}

	writeResult(ctx, w, Updated(matchToDTO(item)))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	if err := h.matches.Delete(ctx, principal.UserID, sportFromContext(ctx), id); err != nil {
		h.fail(ctx, w, "delete match failed", err, "match_id", id, "user_id", principal.UserID)
		return
	}

	writeResult(ctx, w, Deleted())
}

