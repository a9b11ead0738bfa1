package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

func (h *Handler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTournament")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createTournamentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.tournaments.Create(ctx, usecase.CreateTournamentInput{
		Actor:     principal.UserID,
		Sport:     sportFromContext(ctx),
		Name:      req.Name,
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    req.Status,
	})
	if err != nil {
		h.fail(ctx, w, "create tournament failed", err, "user_id", principal.UserID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tournamentToDTO(item))
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	page, err := paginationFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := r.URL.Query()
	items, err := h.tournaments.List(ctx, usecase.ListTournamentsInput{
		Sport:      sportFromContext(ctx),
		CreatedBy:  query.Get("createdBy"),
		Status:     query.Get("status"),
		Pagination: page,
	})
	if err != nil {
		h.fail(ctx, w, "list tournaments failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, tournamentToDTO))
}

func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	id := r.PathValue("id")
	item, err := h.tournaments.Get(ctx, sportFromContext(ctx), id)
	if err != nil {
		h.fail(ctx, w, "get tournament failed", err, "tournament_id", id)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(item))
}

func (h *Handler) UpdateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTournament")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateTournamentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	item, err := h.tournaments.Update(ctx, usecase.UpdateTournamentInput{
		Actor:     principal.UserID,
		Sport:     sportFromContext(ctx),
		ID:        id,
		Name:      req.Name,
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    req.Status,
	})
	if err != nil {
		h.fail(ctx, w, "update tournament failed", err, "tournament_id", id, "user_id", principal.UserID)
		return
	}

	writeResult(ctx, w, Updated(tournamentToDTO(item)))
}

func (h *Handler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTournament")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	if err := h.tournaments.Delete(ctx, principal.UserID, sportFromContext(ctx), id); err != nil {
		h.fail(ctx, w, "delete tournament failed", err, "tournament_id", id, "user_id", principal.UserID)
		return
	}

	writeResult(ctx, w, Deleted())
}
