package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	// swaggerFiles "github.com/swaggo/files"
	// ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cane-field-api/internal/agronomy"
	"cane-field-api/internal/client"
	"cane-field-api/internal/handler"
	"cane-field-api/internal/metrics"
	"cane-field-api/internal/middleware"
	"cane-field-api/internal/repository"
	"cane-field-api/internal/service"
)

// Config carries the dependencies the router wires together
type Config struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Catalog     *agronomy.Catalog
	S3Client    client.S3ClientInterface
	Notifier    client.NotificationClient
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	JWTSecret   string
	BasePath    string
	SnapshotTTL time.Duration
}

// Setup builds the gin engine with all routes and middleware
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(nil))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Initialize repositories
	fieldRepo := repository.NewFieldRepository(cfg.DB)
	taskRepo := repository.NewTaskRepository(cfg.DB)
	assignRepo := repository.NewAssignmentRepository(cfg.DB)
	archiveRepo := repository.NewCycleArchiveRepository(cfg.DB)
	workLogRepo := repository.NewWorkLogRepository(cfg.DB)
	legacyRepo := repository.NewLegacyGrowthRepository(cfg.DB)

	// Initialize services
	fieldService := service.NewFieldService(fieldRepo, assignRepo, archiveRepo, cfg.Notifier, cfg.Metrics, cfg.Logger)
	growthService := service.NewGrowthService(fieldRepo, assignRepo, legacyRepo, cfg.Catalog, cfg.Redis, cfg.SnapshotTTL, cfg.Notifier, cfg.Logger)
	calendarService := service.NewTaskCalendarService(fieldRepo, taskRepo, assignRepo, cfg.Catalog, cfg.Notifier, cfg.Metrics, cfg.Logger)
	cycleService := service.NewCycleService(fieldRepo, archiveRepo, legacyRepo, cfg.Catalog, calendarService, cfg.Redis, cfg.Notifier, cfg.Metrics, cfg.Logger)
	taskService := service.NewTaskService(taskRepo, fieldRepo, assignRepo, growthService, cycleService, cfg.Notifier, cfg.Metrics, cfg.Logger)
	recommendService := service.NewRecommendService(fieldRepo, taskRepo, assignRepo, cfg.Catalog, cfg.Metrics, cfg.Logger)
	workLogService := service.NewWorkLogService(workLogRepo, fieldRepo, assignRepo, cfg.S3Client, cfg.Logger)

	// Initialize handlers
	fieldHandler := handler.NewFieldHandler(fieldService)
	growthHandler := handler.NewGrowthHandler(growthService, cycleService)
	taskHandler := handler.NewTaskHandler(taskService, calendarService, recommendService)
	workLogHandler := handler.NewWorkLogHandler(workLogService)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)

	// Health endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation (disabled for faster builds)
	// r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes with base path
	api := r.Group(cfg.BasePath)
	{
		// Health under base path
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)
		api.GET("/metrics", gin.WrapH(promhttp.Handler()))

		// Authenticated routes
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Field registry
			authenticated.POST("", fieldHandler.CreateField)
			authenticated.GET("", fieldHandler.ListFields)
			authenticated.GET("/:fieldId", fieldHandler.GetField)
			authenticated.DELETE("/:fieldId", fieldHandler.DeleteField)
			authenticated.GET("/:fieldId/archives", fieldHandler.ListArchives)

			// Assignments
			authenticated.POST("/:fieldId/assignments", fieldHandler.RequestAssignment)
			authenticated.GET("/:fieldId/assignments", fieldHandler.ListAssignments)
			authenticated.POST("/assignments/:assignmentId/approve", fieldHandler.ApproveAssignment)
			authenticated.POST("/assignments/:assignmentId/reject", fieldHandler.RejectAssignment)

			// Growth tracking
			authenticated.POST("/:fieldId/planting", growthHandler.RecordPlanting)
			authenticated.POST("/:fieldId/fertilization/basal", growthHandler.RecordBasalFertilization)
			authenticated.POST("/:fieldId/fertilization/main", growthHandler.RecordMainFertilization)
			authenticated.GET("/:fieldId/growth", growthHandler.GetSnapshot)

			// Cycle transitions
			authenticated.POST("/:fieldId/harvest", growthHandler.RecordHarvest)
			authenticated.POST("/:fieldId/ratoon", growthHandler.StartRatoon)
			authenticated.POST("/:fieldId/replant", growthHandler.Replant)

			// Tasks
			authenticated.POST("/tasks", taskHandler.CreateTask)
			authenticated.GET("/tasks/:taskId", taskHandler.GetTask)
			authenticated.POST("/tasks/:taskId/complete", taskHandler.CompleteTask)
			authenticated.POST("/tasks/:taskId/cancel", taskHandler.CancelTask)
			authenticated.GET("/:fieldId/tasks", taskHandler.ListFieldTasks)
			authenticated.POST("/:fieldId/tasks/generate", taskHandler.GenerateTasks)
			authenticated.GET("/:fieldId/recommendations", taskHandler.GetRecommendations)

			// Work logs
			authenticated.POST("/:fieldId/work-logs/presign", workLogHandler.PresignPhotoUpload)
			authenticated.POST("/:fieldId/work-logs", workLogHandler.CreateWorkLog)
			authenticated.GET("/:fieldId/work-logs", workLogHandler.ListFieldWorkLogs)
		}
	}

	return r
}
