package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
)

var upstreamSportSlug = regexp.MustCompile(`^[a-z][a-z0-9-]{1,39}$`)

type SportDataQuery struct {
	Kind   resource.Kind
	Params resource.Params
}

// SportData is a projected upstream resource. Found is false when the
// sports API reported the resource as absent; Data is nil then.
type SportData struct {
	Found bool
	Data  any
	Tier  Tier
}

// SportDataService answers the read-only sports data routes and the
// websocket actions that share them.
type SportDataService struct {
	resolver *Resolver
	logger   *logging.Logger
}

func NewSportDataService(resolver *Resolver, logger *logging.Logger) *SportDataService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SportDataService{resolver: resolver, logger: logger}
}

func (s *SportDataService) Get(ctx context.Context, q SportDataQuery) (SportData, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportDataService.Get")
	defer span.End()

	params, err := normalizeSportParams(q.Params)
	if err != nil {
		return SportData{}, err
	}

	res, err := s.resolver.Resolve(ctx, ResolveRequest{Kind: q.Kind, Params: params})
	if err != nil {
		return SportData{}, err
	}
	if !res.Found {
		return SportData{Found: false, Tier: res.Tier}, nil
	}

	data, err := Project(q.Kind, res.Payload)
	if err != nil {
		return SportData{}, fmt.Errorf("project %s: %w", q.Kind, err)
	}
	return SportData{Found: true, Data: data, Tier: res.Tier}, nil
}

// normalizeSportParams trims every param and validates the ones whose
// shape the public routes constrain.
func normalizeSportParams(in resource.Params) (resource.Params, error) {
	out := make(resource.Params, len(in))
	var errs fieldErrors
	for _, name := range []string{"sport", "id", "seasonId", "span", "page", "type", "date"} {
		raw, ok := in[name]
		if !ok {
			continue
		}
		v := strings.TrimSpace(raw)
		switch name {
		case "sport":
			v = strings.ToLower(v)
			if !upstreamSportSlug.MatchString(v) {
				errs.add(name, "sport must be a lowercase sport slug")
			}
		case "id", "seasonId":
			if !resource.ValidUpstreamID(v) {
				errs.add(name, name+" must be a positive integer")
			}
		case "span":
			v = strings.ToLower(v)
			if !resource.ValidSpan(v) {
				errs.add(name, "span must be one of recent, last, upcoming, next")
			}
		case "page":
			if !resource.ValidPage(v) {
				errs.add(name, "page must be a non-negative integer")
			}
		case "type":
			if !resource.ValidStandingsType(v) {
				errs.add(name, "type must be one of total, home, away")
			}
		case "date":
			if !resource.ValidDate(v) {
				errs.add(name, "date must be formatted as YYYY-MM-DD")
			}
		}
		out[name] = v
	}
	for name, v := range in {
		if _, done := out[name]; !done {
			out[name] = strings.TrimSpace(v)
		}
	}
	if err := errs.first(); err != nil {
		return nil, err
	}
	return out, nil
}
