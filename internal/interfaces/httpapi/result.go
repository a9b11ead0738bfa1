package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/sportdata-hub/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

// Outcome is the kind of answer a handler produced. Each kind maps to exactly
// one HTTP status.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeCreated
	// OutcomeAbsent is an upstream "nothing there": a successful reply with
	// null data.
	OutcomeAbsent
	OutcomeNotFound
	OutcomeValidation
	OutcomeUnauthorized
	OutcomeForbidden
	OutcomeUnavailable
	OutcomeServerError
)

const (
	msgFetched       = "Data fetched successfully"
	msgCreated       = "Created successfully"
	msgUpdated       = "Updated successfully"
	msgDeleted       = "Deleted successfully"
	msgNoData        = "No data found"
	msgNotFound      = "Resource not found"
	msgUnauthorized  = "Unauthorized"
	msgForbidden     = "Forbidden"
	msgUnavailable   = "Service unavailable"
	msgInternalError = "Internal server error"
)

// Result is the single response builder shared by every handler.
type Result struct {
	Outcome Outcome
	Message string
	Data    any
}

type envelope struct {
	Status     bool   `json:"status"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	StatusCode int    `json:"statusCode"`
}

func (r Result) StatusCode() int {
	switch r.Outcome {
	case OutcomeSuccess, OutcomeAbsent:
		return http.StatusOK
	case OutcomeCreated:
		return http.StatusCreated
	case OutcomeNotFound:
		return http.StatusNotFound
	case OutcomeValidation:
		return http.StatusBadRequest
	case OutcomeUnauthorized:
		return http.StatusUnauthorized
	case OutcomeForbidden:
		return http.StatusForbidden
	case OutcomeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (r Result) ok() bool {
	switch r.Outcome {
	case OutcomeSuccess, OutcomeCreated, OutcomeAbsent:
		return true
	}
	return false
}

func (r Result) envelope() envelope {
	message := r.Message
	if message == "" {
		message = defaultMessage(r.Outcome)
	}
	data := r.Data
	if r.Outcome == OutcomeAbsent {
		data = nil
	}
	return envelope{
		Status:     r.ok(),
		Message:    message,
		Data:       data,
		StatusCode: r.StatusCode(),
	}
}

func defaultMessage(o Outcome) string {
	switch o {
	case OutcomeSuccess:
		return msgFetched
	case OutcomeCreated:
		return msgCreated
	case OutcomeAbsent:
		return msgNoData
	case OutcomeNotFound:
		return msgNotFound
	case OutcomeValidation:
		return usecase.ErrInvalidInput.Error()
	case OutcomeUnauthorized:
		return msgUnauthorized
	case OutcomeForbidden:
		return msgForbidden
	case OutcomeUnavailable:
		return msgUnavailable
	default:
		return msgInternalError
	}
}

func Success(data any) Result {
	return Result{Outcome: OutcomeSuccess, Data: data}
}

func Created(data any) Result {
	return Result{Outcome: OutcomeCreated, Data: data}
}

func Updated(data any) Result {
	return Result{Outcome: OutcomeSuccess, Message: msgUpdated, Data: data}
}

func Deleted() Result {
	return Result{Outcome: OutcomeSuccess, Message: msgDeleted}
}

func Absent() Result {
	return Result{Outcome: OutcomeAbsent}
}

// resultFromError maps a usecase error onto its outcome. Server errors never
// leak their cause to the client.
func resultFromError(err error) Result {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		return Result{Outcome: OutcomeValidation, Message: verr.Message, Data: verr.Fields}
	case errors.Is(err, usecase.ErrInvalidInput):
		return Result{Outcome: OutcomeValidation, Message: detail(err, usecase.ErrInvalidInput)}
	case errors.Is(err, usecase.ErrUnauthorized):
		return Result{Outcome: OutcomeUnauthorized, Message: detail(err, usecase.ErrUnauthorized)}
	case errors.Is(err, usecase.ErrForbidden):
		return Result{Outcome: OutcomeForbidden, Message: detail(err, usecase.ErrForbidden)}
	case errors.Is(err, usecase.ErrNotFound):
		return Result{Outcome: OutcomeNotFound, Message: detail(err, usecase.ErrNotFound)}
	case errors.Is(err, usecase.ErrUpstreamNotFound):
		return Absent()
	default:
		return Result{Outcome: OutcomeServerError}
	}
}

// detail strips the sentinel prefix so clients see only the specific reason.
func detail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return strings.TrimSpace(msg[i+len(prefix):])
	}
	return msg
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		_ = sonic.ConfigDefault.NewEncoder(buf).Encode(Result{Outcome: OutcomeServerError}.envelope())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeResult(ctx context.Context, w http.ResponseWriter, result Result) {
	env := result.envelope()
	writeJSON(ctx, w, env.StatusCode, env)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	if status == http.StatusCreated {
		writeResult(ctx, w, Created(data))
		return
	}
	writeResult(ctx, w, Success(data))
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	writeResult(ctx, w, resultFromError(err))
}
