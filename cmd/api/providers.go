package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go-ats-backend/config"
	v1 "go-ats-backend/internal/delivery/http/v1"
	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/repository/memory"
	"go-ats-backend/internal/repository/postgres"
	"go-ats-backend/internal/usecase"
	"go-ats-backend/pkg/database"
	"go-ats-backend/pkg/database/migrations"
	"go-ats-backend/pkg/events"
	"go-ats-backend/pkg/logger"
	"go-ats-backend/pkg/redis"
	"go-ats-backend/pkg/security"
	"go-ats-backend/pkg/security/antivirus"
	"go-ats-backend/pkg/storage"
	"go-ats-backend/pkg/telemetry"
	"go-ats-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const serviceName = "go-ats-backend"

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.Init(cfg.Env)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			logger.Sync()
			return nil
		},
	})
	return log, nil
}

// Repositories is the storage driver selected by STORAGE_DRIVER.
type Repositories struct {
	fx.Out

	Candidates domain.CandidateRepository
	Documents  domain.DocumentRepository
	Health     usecase.StoragePinger
	AuditSink  security.PersistFunc
	Driver     string `name:"storageDriver"`
}

func newRepositories(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (Repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return Repositories{
			Candidates: memory.NewCandidateRepository(store),
			Documents:  memory.NewDocumentRepository(store),
			Driver:     config.StorageDriverMemory,
		}, nil
	}
	if cfg.StorageDriver != config.StorageDriverPostgres {
		return Repositories{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.DefaultPoolConfig, log)
	if err != nil {
		return Repositories{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	if cfg.AutoMigrate {
		if err := database.NewMigrator(pool, log).Up(ctx, migrations.All); err != nil {
			return Repositories{}, fmt.Errorf("apply migrations: %w", err)
		}
	}

	return Repositories{
		Candidates: postgres.NewCandidateRepository(pool),
		Documents:  postgres.NewDocumentRepository(pool),
		Health:     pool.Ping,
		AuditSink:  security.NewSecurityEventRepository(pool).PersistEvent,
		Driver:     config.StorageDriverPostgres,
	}, nil
}

func newBlobStore(cfg *config.Config, log *zap.Logger) (storage.BlobStore, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendS3:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return storage.NewS3Store(ctx, storage.S3Config{
			Provider:        storage.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
	case config.BlobBackendLocal, "":
		log.Info("storing documents on local disk", zap.String("dir", cfg.UploadDir))
		return storage.NewLocalStore(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.BlobBackend)
	}
}

func newScanner(cfg *config.Config, log *zap.Logger) antivirus.Scanner {
	if cfg.ClamAVAddress == "" {
		return antivirus.NewNoOpScanner()
	}
	scanner := antivirus.NewClamAVScanner(cfg.ClamAVAddress, 30*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !scanner.Available(ctx) {
		log.Warn("clamd not reachable; uploads will be rejected until it is", zap.String("address", cfg.ClamAVAddress))
	}
	return scanner
}

func newUploadLimiter(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *security.UploadLimiter {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := redis.New(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	if err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			log.Warn("redis unavailable; upload rate limiting disabled", zap.Error(err))
		}
		return security.NewUploadLimiter(nil, cfg.UploadRatePerMinute)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return security.NewUploadLimiter(client, cfg.UploadRatePerMinute)
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) events.Publisher {
	if cfg.NATSUrl == "" {
		return events.NoopPublisher{}
	}
	pub, err := events.NewNATSPublisher(cfg.NATSUrl, log)
	if err != nil {
		log.Warn("NATS unavailable; candidate events disabled", zap.Error(err))
		return events.NoopPublisher{}
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pub.Close()
			return nil
		},
	})
	return pub
}

func registerTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) error {
	if cfg.OTLPEndpoint == "" {
		return nil
	}
	shutdown, err := telemetry.InitTracer(context.Background(), serviceName, usecase.Version, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	log.Info("tracing enabled", zap.String("collector", cfg.OTLPEndpoint))
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}

type auditParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	Sink   security.PersistFunc `optional:"true"`
}

func newSecurityLogger(p auditParams) *security.SecurityLogger {
	audit := security.NewSecurityLogger(p.Logger, serviceName, p.Config.Env)
	if p.Sink != nil {
		audit.SetPersistFunc(p.Sink)
	}
	return audit
}

func newCandidateValidator() *validation.CandidateValidator {
	return validation.NewCandidateValidator(validation.New())
}

type healthParams struct {
	fx.In

	Ping   usecase.StoragePinger `optional:"true"`
	Driver string                `name:"storageDriver"`
}

func newHealthUsecase(p healthParams) domain.HealthUsecase {
	return usecase.NewHealthUsecase(p.Driver, p.Ping)
}

type routerParams struct {
	fx.In

	Config     *config.Config
	Logger     *zap.Logger
	Candidates domain.CandidateUsecase
	Documents  domain.DocumentUsecase
	Exports    domain.ExportUsecase
	Health     domain.HealthUsecase
	Blobs      storage.BlobStore
	Scanner    antivirus.Scanner
	Limiter    *security.UploadLimiter
	Audit      *security.SecurityLogger
}

func newRouter(p routerParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return v1.NewRouter(v1.RouterDeps{
		CandidateUC:    p.Candidates,
		DocumentUC:     p.Documents,
		ExportUC:       p.Exports,
		HealthUC:       p.Health,
		Blobs:          p.Blobs,
		Scanner:        p.Scanner,
		UploadLimiter:  p.Limiter,
		Audit:          p.Audit,
		Logger:         p.Logger,
		AllowedOrigins: p.Config.FrontendURLs,
		RequestTimeout: p.Config.RequestTimeout,
	})
}

func runHTTPServer(lc fx.Lifecycle, cfg *config.Config, router *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("ATS API listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("listen failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
}
