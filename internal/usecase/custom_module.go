package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	idgen "github.com/riskibarqy/sportdata-hub/internal/platform/id"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Pagination is the 1-based page/limit pair accepted by list endpoints.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) window() (limit, offset int) {
	limit = p.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

type referenceCheck struct {
	field   string
	message string
	exists  func(ctx context.Context) (bool, error)
}

// checkReferences runs every existence check concurrently. Missing
// references are collected in check order; the error is reserved for
// lookup failures.
func checkReferences(ctx context.Context, checks []referenceCheck) (fieldErrors, error) {
	var missing fieldErrors
	if len(checks) == 0 {
		return missing, nil
	}

	type outcome struct {
		ok  bool
		err error
	}
	results := make([]outcome, len(checks))

	var wg conc.WaitGroup
	for i, check := range checks {
		wg.Go(func() {
			ok, err := check.exists(ctx)
			results[i] = outcome{ok: ok, err: err}
		})
	}
	wg.Wait()

	for i, res := range results {
		if res.err != nil {
			return fieldErrors{}, fmt.Errorf("check %s: %w", checks[i].field, res.err)
		}
		if !res.ok {
			missing.add(checks[i].field, checks[i].message)
		}
	}
	return missing, nil
}

func requireActor(actor string) (string, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return "", fmt.Errorf("%w: missing authenticated user", ErrUnauthorized)
	}
	return actor, nil
}

func requireOwner(actor, owner, entity string) error {
	if actor != owner {
		return fmt.Errorf("%w: only the creator can modify this %s", ErrForbidden, entity)
	}
	return nil
}

func validateID(errs *fieldErrors, field, value string, required bool) {
	if value == "" {
		if required {
			errs.add(field, field+" is required")
		}
		return
	}
	if !idgen.Valid(value) {
		errs.add(field, field+" must be a valid id")
	}
}

func parseDate(errs *fieldErrors, field, value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		errs.add(field, field+" is required")
		return time.Time{}
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		errs.add(field, field+" must be a date (YYYY-MM-DD) or RFC3339 timestamp")
		return time.Time{}
	}
	return t.UTC()
}

func sportMismatch(errs *fieldErrors, field string, want, got sport.Sport, entity string) {
	if got != want {
		errs.add(field, fmt.Sprintf("%s belongs to %s, not %s", entity, got, want))
	}
}

// ruleViolation turns a domain rule failure into a field-keyed validation
// error; other errors pass through.
func ruleViolation(err error) error {
	var rule *match.RuleError
	if errors.As(err, &rule) {
		return invalidField(rule.Field, rule.Message)
	}
	return err
}

// MatchLocks serialises writers per match id inside the process. Idle
// entries are dropped on unlock.
type MatchLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewMatchLocks() *MatchLocks {
	return &MatchLocks{locks: make(map[string]*keyedLock)}
}

// Lock blocks until key is free and returns its unlock func.
func (k *MatchLocks) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
