package usecase

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrUpstreamNotFound marks a sports API 404. It is an expected absence,
	// not a failure.
	ErrUpstreamNotFound = errors.New("upstream resource not found")
)

// ValidationError carries a field-keyed message map. Message is the text
// of the first failing field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Message: message, Fields: map[string]string{field: message}}
}

// fieldErrors collects validation failures in the order they are found.
type fieldErrors struct {
	order  []string
	fields map[string]string
}

func (f *fieldErrors) add(field, message string) {
	if f.fields == nil {
		f.fields = make(map[string]string)
	}
	if _, exists := f.fields[field]; exists {
		f.fields[field] += "; " + message
		return
	}
	f.order = append(f.order, field)
	f.fields[field] = message
}

func (f *fieldErrors) empty() bool {
	return len(f.order) == 0
}

// first returns the error for the first failing field only.
func (f *fieldErrors) first() error {
	if f.empty() {
		return nil
	}
	field := f.order[0]
	return &ValidationError{Message: f.fields[field], Fields: map[string]string{field: f.fields[field]}}
}

// joined returns one error whose message concatenates every failure.
func (f *fieldErrors) joined() error {
	if f.empty() {
		return nil
	}
	messages := make([]string, 0, len(f.order))
	for _, field := range f.order {
		messages = append(messages, f.fields[field])
	}
	fields := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		fields[k] = v
	}
	return &ValidationError{Message: strings.Join(messages, ", "), Fields: fields}
}
