package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/godilite/procurement-server/internal/config"
	"github.com/godilite/procurement-server/internal/drafts"
	handler "github.com/godilite/procurement-server/internal/grpc"
	"github.com/godilite/procurement-server/internal/httpapi"
	"github.com/godilite/procurement-server/internal/jobs"
	"github.com/godilite/procurement-server/internal/rates"
	"github.com/godilite/procurement-server/internal/repository"
	"github.com/godilite/procurement-server/internal/service"
	"github.com/godilite/procurement-server/pkg/cache"
	dbbuilder "github.com/godilite/procurement-server/pkg/database"
	grpcsrv "github.com/godilite/procurement-server/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger       *zap.Logger
	dbPool       *sql.DB
	cache        *cache.Cache
	grpcServer   *grpcsrv.Server
	httpServer   *httpapi.Server
	httpListener net.Listener
	scheduler    *jobs.Scheduler
	refreshRates *jobs.RefreshRatesJob
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbOpts := []dbbuilder.Option{
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithMigrations(repository.Schema...),
	}
	if cfg.DBDriver == "sqlite3" {
		// sqlite allows a single writer; an in-memory database also lives
		// on one connection only.
		dbOpts = append(dbOpts, dbbuilder.WithMaxOpenConns(1))
	}
	dbPool, err := dbbuilder.New(ctx, dbOpts...)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	a := &App{logger: logger, dbPool: dbPool}
	if err := a.init(ctx, cfg); err != nil {
		if a.httpListener != nil {
			_ = a.httpListener.Close()
		}
		if a.grpcServer != nil {
			if cerr := a.grpcServer.Close(); cerr != nil {
				logger.Warn("gRPC listener close error", zap.Error(cerr))
			}
		}
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context, cfg *config.Config) error {
	logger := a.logger

	// Redis is optional unless drafts live there. Without it the read-through
	// caches degrade to singleflight-only fetches.
	var cacher cache.Cacher
	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
		cache.WithPassword(cfg.RedisPassword),
		cache.WithDB(cfg.RedisDB),
	)
	switch {
	case err == nil:
		a.cache = cacheClient
		cacher = cacheClient
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	case cfg.DraftBackend == config.DraftBackendRedis:
		return fmt.Errorf("cache init failed: %w", err)
	default:
		logger.Warn("Redis unavailable, running without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	questionRepo := repository.NewQuestionRepository(a.dbPool)
	evaluationRepo := repository.NewEvaluationRepository(a.dbPool)
	rateRepo := repository.NewRateRepository(a.dbPool)

	if cfg.SeedQuestionBanks {
		if err := seedQuestionBanks(ctx, questionRepo, logger.Named("seed")); err != nil {
			return fmt.Errorf("seed question banks: %w", err)
		}
	}

	var draftStore drafts.Store
	var draftRepo *repository.DraftRepository
	if cfg.DraftBackend == config.DraftBackendRedis {
		draftStore = drafts.NewRedisStore(cacheClient, cfg.DraftTTL)
	} else {
		draftRepo = repository.NewDraftRepository(a.dbPool, cfg.DraftTTL)
		draftStore = draftRepo
	}
	logger.Info("Draft store initialized", zap.String("backend", cfg.DraftBackend))

	rateClient := rates.NewClient(cfg.RatesURL, cfg.RatesTimeout, logger)
	rateProvider := rates.NewProvider(rateClient,
		rates.WithCache(cacher, cfg.CacheTTL),
		rates.WithSnapshots(rateRepo),
		rates.WithReference(cfg.RatesReference),
		rates.WithLogger(logger),
	)

	evaluationService := service.NewEvaluationService(questionRepo, evaluationRepo, cfg.ApplySectionWeights, logger)
	budgetService := service.NewBudgetService(rateProvider, logger)
	sessionService := service.NewSessionService(evaluationService, draftStore, logger)

	grpcHandlers := handler.NewGRPCHandlers(evaluationService, budgetService, cacher, logger, cfg.CacheTTL)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
	)
	if err != nil {
		return fmt.Errorf("failed to create gRPC server: %w", err)
	}
	grpcServer.RegisterServiceWithHealth(handler.ServiceName, func(s *grpc.Server) {
		handler.RegisterProcurementServer(s, grpcHandlers)
	})
	a.grpcServer = grpcServer

	router := httpapi.NewRouter(logger, httpapi.Services{
		Evaluations: evaluationService,
		Budget:      budgetService,
		Sessions:    sessionService,
		Drafts:      draftStore,
	}, cfg.HTTPAllowedOrigins)

	lis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.HTTPAddr, err)
	}
	a.httpListener = lis
	a.httpServer = httpapi.NewServer(cfg.HTTPAddr, router, logger, httpapi.WithHTTPListener(lis))

	a.scheduler = jobs.New(logger)
	a.refreshRates = jobs.NewRefreshRatesJob(rateProvider, logger)
	if err := a.scheduler.AddJob(cfg.RatesRefreshSchedule, a.refreshRates); err != nil {
		return err
	}
	if err := a.scheduler.AddJob(cfg.RatesPruneSchedule, jobs.NewPruneRateSnapshotsJob(rateRepo, cfg.RatesSnapshotKeep, logger)); err != nil {
		return err
	}
	if draftRepo != nil && cfg.DraftTTL > 0 {
		if err := a.scheduler.AddJob(cfg.DraftPurgeSchedule, jobs.NewPurgeDraftsJob(draftRepo, logger)); err != nil {
			return err
		}
	}

	return nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := a.serve(ctx)
	_ = a.logger.Sync()
	return err
}

// serve runs every server until ctx is done, then shuts them down.
func (a *App) serve(ctx context.Context) error {
	a.logger.Info("application starting")

	a.grpcServer.Start()
	a.scheduler.Start()

	// Warm the rate cache so the first budget request does not wait on upstream.
	go func() {
		if err := a.scheduler.RunNow(a.refreshRates); err != nil {
			a.logger.Warn("initial rate refresh failed", zap.Error(err))
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.httpServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("application shutting down")
		return a.shutdown()
	})

	err := g.Wait()
	a.close()
	if err != nil {
		return err
	}
	a.logger.Info("graceful shutdown completed successfully")
	return nil
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.scheduler.Stop()

	var errs []error
	if err := a.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("grpc shutdown: %w", err))
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		a.logger.Warn("shutdown completed but deadline exceeded")
	}
	return errors.Join(errs...)
}

// close releases storage. It is safe on a partially initialized App.
func (a *App) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
		a.cache = nil
	}
	if a.dbPool != nil {
		if err := a.dbPool.Close(); err != nil {
			a.logger.Error("database shutdown error", zap.Error(err))
		}
		a.dbPool = nil
	}
}

// HTTPAddr reports where the REST gateway listens.
func (a *App) HTTPAddr() net.Addr { return a.httpListener.Addr() }

// GRPCAddr reports where the gRPC server listens.
func (a *App) GRPCAddr() net.Addr { return a.grpcServer.Addr() }
