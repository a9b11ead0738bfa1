package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

// SportData serves one proxied sports API resource. The route parameters
// are read from the descriptor's public pattern.
func (h *Handler) SportData(kind resource.Kind) http.HandlerFunc {
	desc, _ := resource.Lookup(kind)
	names := patternParams(desc.LocalPattern)
	spanName := "httpapi.Handler.SportData." + string(kind)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), spanName)
		defer span.End()

		params := make(resource.Params, len(names))
		for _, name := range names {
			params[name] = r.PathValue(name)
		}

		result, err := h.sportData.Get(ctx, usecase.SportDataQuery{Kind: kind, Params: params})
		if err != nil {
			h.fail(ctx, w, "get sport data failed", err, "kind", kind, "path", r.URL.Path)
			return
		}
		if !result.Found {
			writeResult(ctx, w, Absent())
			return
		}

		writeSuccess(ctx, w, http.StatusOK, result.Data)
	}
}

// patternParams lists the {name} placeholders of a route pattern in order.
func patternParams(pattern string) []string {
	var names []string
	for _, segment := range strings.Split(pattern, "/") {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			names = append(names, strings.TrimSuffix(strings.TrimPrefix(segment, "{"), "}"))
		}
	}
	return names
}
