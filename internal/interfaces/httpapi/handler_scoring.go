package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

func (h *Handler) GetScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScorecard")
	defer span.End()

	id := r.PathValue("id")
	card, err := h.scoring.GetScorecard(ctx, id)
	if err != nil {
		h.fail(ctx, w, "get scorecard failed", err, "match_id", id)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, card)
}

func (h *Handler) GetBoxScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoxScore")
	defer span.End()

	id := r.PathValue("id")
	box, err := h.scoring.GetBoxScore(ctx, sportFromContext(ctx), id)
	if err != nil {
		h.fail(ctx, w, "get box score failed", err, "match_id", id)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, box)
}

func (h *Handler) ListDismissalTypes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDismissalTypes")
	defer span.End()

	items, err := h.scoring.ListDismissalTypes(ctx)
	if err != nil {
		h.fail(ctx, w, "list dismissal types failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, dismissalTypeToDTO))
}

func (h *Handler) RecordDelivery(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordDelivery")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req deliveryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.RecordDeliveryInput{
		Actor:        principal.UserID,
		MatchID:      r.PathValue("id"),
		StrikerID:    req.StrikerID,
		NonStrikerID: req.NonStrikerID,
		BowlerID:     req.BowlerID,
		Runs:         req.Runs,
		Extra:        req.Extra,
		Boundary:     req.Boundary,
	}
	if req.Wicket != nil {
		input.Wicket = &usecase.WicketInput{
			PlayerOutID:     req.Wicket.PlayerOutID,
			FielderID:       req.Wicket.FielderID,
			DismissalTypeID: req.Wicket.DismissalTypeID,
		}
	}

	card, err := h.scoring.RecordDelivery(ctx, input)
	if err != nil {
		h.fail(ctx, w, "record delivery failed", err, "match_id", input.MatchID, "user_id", principal.UserID)
		return
	}

	writeResult(ctx, w, Updated(card))
}

func (h *Handler) RecordMatchEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMatchEvent")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req matchEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	box, err := h.scoring.RecordEvent(ctx, usecase.RecordEventInput{
		Actor:     principal.UserID,
		Sport:     sportFromContext(ctx),
		MatchID:   id,
		Type:      req.Type,
		PlayerID:  req.PlayerID,
		Points:    req.Points,
		Made:      req.Made,
		Offensive: req.Offensive,
	})
	if err != nil {
		h.fail(ctx, w, "record match event failed", err, "match_id", id, "type", req.Type)
		return
	}

	writeResult(ctx, w, Updated(box))
}

func (h *Handler) Substitute(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Substitute")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req substitutionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	box, err := h.scoring.Substitute(ctx, usecase.SubstitutionInput{
		Actor:       principal.UserID,
		Sport:       sportFromContext(ctx),
		MatchID:     id,
		PlayerOutID: req.PlayerOutID,
		PlayerInID:  req.PlayerInID,
	})
	if err != nil {
		h.fail(ctx, w, "substitution failed", err, "match_id", id)
		return
	}

	writeResult(ctx, w, Updated(box))
}
