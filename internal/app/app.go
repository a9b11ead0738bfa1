package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/sportdata-hub/external/sportapi"
	"github.com/riskibarqy/sportdata-hub/internal/config"
	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/player"
	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
	"github.com/riskibarqy/sportdata-hub/internal/domain/scorecard"
	"github.com/riskibarqy/sportdata-hub/internal/domain/team"
	"github.com/riskibarqy/sportdata-hub/internal/domain/tournament"
	"github.com/riskibarqy/sportdata-hub/internal/infrastructure/account/jwtauth"
	cacherepo "github.com/riskibarqy/sportdata-hub/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/sportdata-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sportdata-hub/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/sportdata-hub/internal/interfaces/httpapi"
	"github.com/riskibarqy/sportdata-hub/internal/interfaces/ws"
	"github.com/riskibarqy/sportdata-hub/internal/platform/cache"
	idgen "github.com/riskibarqy/sportdata-hub/internal/platform/id"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
	"github.com/riskibarqy/sportdata-hub/internal/platform/metrics"
	"github.com/riskibarqy/sportdata-hub/internal/platform/resilience"
	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

const dismissalTypesTTL = 24 * time.Hour

type repositories struct {
	db          *sqlx.DB
	tournaments tournament.Repository
	teams       team.Repository
	players     player.Repository
	matches     match.Repository
	resources   resource.Repository
	dismissals  scorecard.DismissalTypeRepository
}

// sheetReaderFunc lets the hub read sheets from a scoring service that is
// built after the hub.
type sheetReaderFunc func(ctx context.Context, matchID string) (any, error)

func (f sheetReaderFunc) GetSheet(ctx context.Context, matchID string) (any, error) {
	return f(ctx, matchID)
}

// NewHTTPServer wires every dependency and returns the API server together
// with a cleanup func that releases what the server holds.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var closers []func(context.Context) error
	cleanup := func(ctx context.Context) error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	fail := func(err error) (*http.Server, func(context.Context) error, error) {
		_ = cleanup(context.Background())
		return nil, nil, err
	}

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	if repos.db != nil {
		closers = append(closers, func(context.Context) error { return repos.db.Close() })
	}

	responseCache, closeCache, err := openCache(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeCache)

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.NewRecorder(cfg.MetricsNamespace)
	}

	upstream := sportapi.NewClient(sportapi.ClientConfig{
		HTTPClient:   &http.Client{Timeout: cfg.SportAPITimeout},
		BaseURL:      cfg.SportAPIBaseURL,
		APIKey:       cfg.SportAPIKey,
		APIKeyHeader: cfg.SportAPIKeyHeader,
		APIHost:      cfg.SportAPIHost,
		Timeout:      cfg.SportAPITimeout,
		MaxRetries:   cfg.SportAPIMaxRetries,
		Logger:       logger,
		Metrics:      recorder,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportAPICircuitEnabled,
			FailureThreshold: cfg.SportAPICircuitFailureCount,
			OpenTimeout:      cfg.SportAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportAPICircuitHalfOpenMaxReq,
		},
	})

	resolver := usecase.NewResolver(usecase.ResolverConfig{
		Cache:    responseCache,
		Store:    repos.resources,
		Upstream: upstream,
		TTLs:     cfg.CacheTTLs,
		Observer: recorder,
		Logger:   logger,
		// every upstream attempt plus slack for the store round trips
		MissTimeout: cfg.SportAPITimeout*time.Duration(cfg.SportAPIMaxRetries+1) + 5*time.Second,
	})
	sportDataSvc := usecase.NewSportDataService(resolver, logger)
	liveSvc := usecase.NewLiveService(sportDataSvc)

	ids := idgen.NewUUIDGenerator()
	locks := usecase.NewMatchLocks()
	tournamentSvc := usecase.NewTournamentService(repos.tournaments, repos.matches, ids)
	teamSvc := usecase.NewTeamService(repos.teams, repos.players, repos.tournaments, repos.matches, ids)
	playerSvc := usecase.NewPlayerService(repos.players, ids)
	matchSvc := usecase.NewMatchService(repos.matches, repos.teams, repos.players, repos.tournaments, locks, ids)

	var scoringSvc *usecase.ScoringService
	hub, err := ws.NewHub(ws.HubConfig{
		Live: liveSvc,
		Sheets: sheetReaderFunc(func(ctx context.Context, matchID string) (any, error) {
			return scoringSvc.GetSheet(ctx, matchID)
		}),
		Recorder:       recorder,
		Logger:         logger,
		PoolSize:       cfg.WSWorkerPoolSize,
		SendBuffer:     cfg.WSSendBuffer,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		return fail(fmt.Errorf("create websocket hub: %w", err))
	}
	closers = append(closers, func(context.Context) error {
		hub.Close()
		return nil
	})

	scoringSvc = usecase.NewScoringService(usecase.ScoringServiceConfig{
		Matches:    repos.matches,
		Dismissals: cacherepo.NewDismissalTypeRepository(repos.dismissals, responseCache, dismissalTypesTTL),
		Locks:      locks,
		Publisher:  hub,
		Observer:   recorder,
		Logger:     logger,
	})

	var database httpapi.Pinger
	if repos.db != nil {
		database = repos.db
	}
	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		SportData:    sportDataSvc,
		Tournaments:  tournamentSvc,
		Teams:        teamSvc,
		Players:      playerSvc,
		Matches:      matchSvc,
		Scoring:      scoringSvc,
		Database:     database,
		CacheBackend: responseCache.Name(),
		Logger:       logger,
	})

	var metricsHandler http.Handler
	if recorder != nil {
		metricsHandler = recorder.Handler()
	}
	var verifier httpapi.TokenVerifier
	if cfg.JWTSecret != "" {
		verifier = jwtauth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	} else {
		logger.Warn("jwt secret empty, mutating routes will reject every request")
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Handler:            handler,
		Verifier:           verifier,
		Logger:             logger,
		WebSocket:          hub,
		Metrics:            metricsHandler,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("storage backend selected", "backend", "memory")
		return repositories{
			tournaments: memory.NewTournamentRepository(),
			teams:       memory.NewTeamRepository(),
			players:     memory.NewPlayerRepository(),
			matches:     memory.NewMatchRepository(),
			resources:   memory.NewResourceRepository(),
			dismissals:  memory.NewDismissalTypeRepository(nil),
		}, nil
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	logger.Info("storage backend selected", "backend", "postgres", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		db:          db,
		tournaments: postgres.NewTournamentRepository(db),
		teams:       postgres.NewTeamRepository(db),
		players:     postgres.NewPlayerRepository(db),
		matches:     postgres.NewMatchRepository(db),
		resources:   postgres.NewResourceRepository(db),
		dismissals:  postgres.NewDismissalTypeRepository(db),
	}, nil
}

func openCache(ctx context.Context, cfg config.Config, logger *logging.Logger) (cache.Cache, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if cfg.CacheBackend != config.CacheBackendRedis {
		logger.Info("cache backend selected", "backend", config.CacheBackendMemory)
		return cache.NewStore(cfg.CacheTTLs[resource.TTLFixture]), noop, nil
	}

	store, err := cache.NewRedisStore(cfg.RedisURL, cfg.CachePrefix, cfg.CacheTTLs[resource.TTLFixture], logger)
	if err != nil {
		return nil, noop, fmt.Errorf("create redis cache: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		// Misses fall through to the store and upstream.
		logger.Warn("redis ping failed", "error", err)
	}
	logger.Info("cache backend selected", "backend", config.CacheBackendRedis)
	return store, func(context.Context) error { return store.Close() }, nil
}

// Run serves until ctx is cancelled, then drains connections within the
// configured shutdown timeout.
func Run(ctx context.Context, cfg config.Config, server *http.Server, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Default()
	}

	errCh := make(chan error, 1)
	var wg conc.WaitGroup
	wg.Go(func() {
		logger.Info("http server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	})

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		logger.Error("http server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("graceful shutdown: %w", err)
	}
	wg.Wait()

	logger.Info("http server stopped")
	return runErr
}
