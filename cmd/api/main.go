package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/perpus-api/api/swagger"
	"github.com/noah-isme/perpus-api/internal/handler"
	"github.com/noah-isme/perpus-api/internal/middleware"
	"github.com/noah-isme/perpus-api/internal/repository"
	"github.com/noah-isme/perpus-api/internal/service"
	"github.com/noah-isme/perpus-api/pkg/cache"
	"github.com/noah-isme/perpus-api/pkg/config"
	"github.com/noah-isme/perpus-api/pkg/database"
	"github.com/noah-isme/perpus-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/perpus-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/perpus-api/pkg/middleware/requestid"
	"github.com/noah-isme/perpus-api/pkg/storage"
)

// @title Perpus API
// @version 1.0.0
// @description Library management backend: authors, books, students, classrooms and loans
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	blobStore, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Fatal("failed to init upload storage", zap.Error(err))
	}
	imagePolicy := storage.ImagePolicy{
		MaxFileSizeKB:     cfg.Uploads.MaxFileSizeKB,
		AllowedExtensions: cfg.Uploads.AllowedExtensions,
	}

	validate := validator.New()

	classroomRepo := repository.NewClassroomRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	authorRepo := repository.NewAuthorRepository(db)
	bookRepo := repository.NewBookRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	userRepo := repository.NewUserRepository(db)

	classroomSvc := service.NewClassroomService(classroomRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, classroomRepo, blobStore, imagePolicy, validate, logr)
	authorSvc := service.NewAuthorService(authorRepo, blobStore, imagePolicy, validate, logr)
	bookSvc := service.NewBookService(bookRepo, authorRepo, blobStore, imagePolicy, validate, logr)
	loanSvc := service.NewLoanService(loanRepo, studentRepo, bookRepo, cacheSvc, validate, logr,
		service.LoanPolicy{
			GracePeriodDays: cfg.Loan.GracePeriodDays,
			FinePerDay:      cfg.Loan.FinePerDay,
			ListPageSize:    cfg.Loan.ListPageSize,
		}, time.Now)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	authorHandler := handler.NewAuthorHandler(authorSvc)
	bookHandler := handler.NewBookHandler(bookSvc)
	loanHandler := handler.NewLoanHandler(loanSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	protected := api.Group("", middleware.JWT(authSvc))
	protected.POST("/me", authHandler.Me)

	protected.POST("/class/addclass", classroomHandler.Add)
	protected.GET("/class", classroomHandler.List)
	protected.GET("/class/detail/:class_id", classroomHandler.Detail)
	protected.PUT("/class/updateclass/:class_id", classroomHandler.Update)
	protected.DELETE("/class/deleteclass/:class_id", classroomHandler.Delete)
	protected.GET("/class/amountclass", classroomHandler.Amount)

	protected.POST("/student/addstudent", studentHandler.Add)
	protected.GET("/student", studentHandler.List)
	protected.GET("/student/detail/:student_id", studentHandler.Detail)
	protected.POST("/student/updatestudent/:student_id", studentHandler.Update)
	protected.DELETE("/student/deletestudent/:student_id", studentHandler.Delete)
	protected.GET("/student/amountstudent", studentHandler.Amount)

	protected.POST("/author/addauthor", authorHandler.Add)
	protected.GET("/author", authorHandler.List)
	protected.GET("/author/detail/:author_id", authorHandler.Detail)
	protected.POST("/author/updateauthor/:author_id", authorHandler.Update)
	protected.DELETE("/author/deleteauthor/:author_id", authorHandler.Delete)
	protected.GET("/author/amountauthor", authorHandler.Amount)

	protected.POST("/book/addbook", bookHandler.Add)
	protected.GET("/book", bookHandler.List)
	protected.GET("/book/detail/:book_id", bookHandler.Detail)
	protected.POST("/book/updatebook/:book_id", bookHandler.Update)
	protected.DELETE("/book/deletebook/:book_id", bookHandler.Delete)
	protected.GET("/book/amountbook", bookHandler.Amount)

	protected.POST("/loan/addloan", loanHandler.Add)
	protected.GET("/loan", loanHandler.List)
	protected.POST("/loan/returnbook/:loan_id", loanHandler.ReturnBook)
	protected.GET("/loan/loanamount", loanHandler.Amount)
	protected.GET("/loan/amountfines", loanHandler.AmountFines)
	protected.GET("/loan/amountbookyetreturn", loanHandler.AmountOutstanding)
	protected.GET("/loan/export", loanHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
