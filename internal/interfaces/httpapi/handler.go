package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/sportdata-hub/internal/domain/user"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HandlerConfig struct {
	SportData   *usecase.SportDataService
	Tournaments *usecase.TournamentService
	Teams       *usecase.TeamService
	Players     *usecase.PlayerService
	Matches     *usecase.MatchService
	Scoring     *usecase.ScoringService

	// Database is nil when the service runs on in-memory repositories.
	Database     Pinger
	CacheBackend string
	Logger       *logging.Logger
}

type Handler struct {
	sportData   *usecase.SportDataService
	tournaments *usecase.TournamentService
	teams       *usecase.TeamService
	players     *usecase.PlayerService
	matches     *usecase.MatchService
	scoring     *usecase.ScoringService

	database     Pinger
	cacheBackend string
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		sportData:    cfg.SportData,
		tournaments:  cfg.Tournaments,
		teams:        cfg.Teams,
		players:      cfg.Players,
		matches:      cfg.Matches,
		scoring:      cfg.Scoring,
		database:     cfg.Database,
		cacheBackend: cfg.CacheBackend,
		logger:       logger,
		validator:    v,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	status := map[string]string{
		"status":   "ok",
		"database": "memory",
		"cache":    h.cacheBackend,
	}
	if h.database != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.database.PingContext(pingCtx); err != nil {
			h.logger.ErrorContext(ctx, "database health check failed", "error", err)
			status["status"] = "degraded"
			status["database"] = "unreachable"
			writeResult(ctx, w, Result{Outcome: OutcomeUnavailable, Data: status})
			return
		}
		status["database"] = "postgres"
	}

	writeSuccess(ctx, w, http.StatusOK, status)
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	err := h.validator.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	first := verrs[0]
	field := fieldPath(first.Namespace())
	message := validationMessage(first)
	return &usecase.ValidationError{Message: message, Fields: map[string]string{field: message}}
}

// fieldPath drops the struct name validator puts in front of the namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func validationMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "url":
		return name + " must be a valid URL"
	case "uuid4", "uuid":
		return name + " must be a valid id"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return name + " must be formatted as " + fe.Param()
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}

// paginationFromQuery reads the 1-based page and limit query parameters.
// Missing values fall back to the usecase defaults.
func paginationFromQuery(r *http.Request) (usecase.Pagination, error) {
	query := r.URL.Query()
	page, err := optionalPositiveInt(query.Get("page"), "page")
	if err != nil {
		return usecase.Pagination{}, err
	}
	limit, err := optionalPositiveInt(query.Get("limit"), "limit")
	if err != nil {
		return usecase.Pagination{}, err
	}
	return usecase.Pagination{Page: page, Limit: limit}, nil
}

func optionalPositiveInt(raw, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		message := field + " must be a positive integer"
		return 0, &usecase.ValidationError{Message: message, Fields: map[string]string{field: message}}
	}
	return n, nil
}

// fail logs a rejected request and writes its error envelope. Server-side
// failures log at error level, client mistakes at warn.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if resultFromError(err).Outcome == OutcomeServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	writeError(ctx, w, err)
}
