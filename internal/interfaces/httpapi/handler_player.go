package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.players.Create(ctx, usecase.CreatePlayerInput{
		Actor:        principal.UserID,
		Sport:        sportFromContext(ctx),
		Name:         req.Name,
		Role:         req.Role,
		JerseyNumber: req.JerseyNumber,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.fail(ctx, w, "create player failed", err, "user_id", principal.UserID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(item))
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	page, err := paginationFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.players.List(ctx, usecase.ListPlayersInput{
		Sport:      sportFromContext(ctx),
		CreatedBy:  r.URL.Query().Get("createdBy"),
		Pagination: page,
	})
	if err != nil {
		h.fail(ctx, w, "list players failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, playerToDTO))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	id := r.PathValue("id")
	item, err := h.players.Get(ctx, sportFromContext(ctx), id)
	if err != nil {
		h.fail(ctx, w, "get player failed", err, "player_id", id)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updatePlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	item, err := h.players.Update(ctx, usecase.UpdatePlayerInput{
		Actor:        principal.UserID,
		Sport:        sportFromContext(ctx),
		ID:           id,
		Name:         req.Name,
		Role:         req.Role,
		JerseyNumber: req.JerseyNumber,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.fail(ctx, w, "update player failed", err, "player_id", id, "user_id", principal.UserID)
		return
	}

	writeResult(ctx, w, Updated(playerToDTO(item)))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	if err := h.players.Delete(ctx, principal.UserID, sportFromContext(ctx), id); err != nil {
		h.fail(ctx, w, "delete player failed", err, "player_id", id, "user_id", principal.UserID)
		return
	}

	writeResult(ctx, w, Deleted())
}
