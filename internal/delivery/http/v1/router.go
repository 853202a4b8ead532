package v1

import (
	"net/http"
	"time"

	"go-ats-backend/docs"
	"go-ats-backend/internal/delivery/http/middleware"
	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/security"
	"go-ats-backend/pkg/security/antivirus"
	"go-ats-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type RouterDeps struct {
	CandidateUC    domain.CandidateUsecase
	DocumentUC     domain.DocumentUsecase
	ExportUC       domain.ExportUsecase
	HealthUC       domain.HealthUsecase
	Blobs          storage.BlobStore
	Scanner        antivirus.Scanner
	UploadLimiter  *security.UploadLimiter
	Audit          *security.SecurityLogger
	Logger         *zap.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = false

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.AllowedOrigins)) // CORS must be first!
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.ErrorHandler(logger))

	// Health Check
	r.GET("/", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ATS server is running", deps.HealthUC.Check(c.Request.Context()))
	})

	// Swagger
	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		NewCandidateHandler(api, deps.CandidateUC, deps.ExportUC, deps.Audit)
		NewDocumentHandler(api, DocumentHandlerDeps{
			DocumentUC: deps.DocumentUC,
			Blobs:      deps.Blobs,
			Scanner:    deps.Scanner,
			Limiter:    deps.UploadLimiter,
			Logger:     logger,
			Audit:      deps.Audit,
		})
	}

	r.NoRoute(middleware.NotFound())

	return r
}
