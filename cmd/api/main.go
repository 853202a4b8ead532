package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-ats-backend/config"
	_ "go-ats-backend/docs" // Important for Swagger
	"go-ats-backend/internal/usecase"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// @title           ATS API
// @version         1.0.0
// @description     Applicant tracking backend: candidates, education, experience and documents.
// @host            localhost:3010
// @BasePath        /
func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newRepositories,
			newBlobStore,
			newScanner,
			newUploadLimiter,
			newPublisher,
			newSecurityLogger,
			newCandidateValidator,
			usecase.NewCandidateUsecase,
			usecase.NewDocumentUsecase,
			usecase.NewExportUsecase,
			newHealthUsecase,
			newRouter,
		),
		fx.Invoke(
			registerTracing,
			runHTTPServer,
		),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
