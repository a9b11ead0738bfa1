package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	"github.com/riskibarqy/sportdata-hub/internal/domain/user"
)

type contextKey string

const (
	principalContextKey contextKey = "auth_principal"
	sportContextKey     contextKey = "route_sport"
)

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(user.Principal)
	return p, ok
}

// forSport binds a literal sport route to its handler.
func forSport(sp sport.Sport, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sportContextKey, sp)))
	})
}

func sportFromContext(ctx context.Context) sport.Sport {
	sp, _ := ctx.Value(sportContextKey).(sport.Sport)
	return sp
}
