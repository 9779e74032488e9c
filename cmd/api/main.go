package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/config"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/database"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/handler"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/middleware"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/router"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis is optional; without it report rows are rebuilt on every read.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, report caching disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	markRepo := repository.NewMarkRepository(db)
	resultRepo := repository.NewResultRepository(db)

	engine := service.NewResultService(studentRepo, subjectRepo, allocationRepo, markRepo, resultRepo, logger)
	reportService := service.NewReportService(studentRepo, subjectRepo, markRepo, resultRepo, allocationRepo, engine, redisClient, cfg.ReportCacheTTL, logger)

	authService := service.NewAuthService(teacherRepo, validate, logger, cfg.JWTSecret, cfg.TokenTTL, cfg.ImpersonationTTL)
	studentService := service.NewStudentService(studentRepo, engine, reportService, validate, logger)
	teacherService := service.NewTeacherService(teacherRepo, allocationRepo, engine, reportService, validate, logger)
	subjectService := service.NewSubjectService(subjectRepo, validate, logger)
	allocationService := service.NewAllocationService(allocationRepo, teacherRepo, subjectRepo, engine, reportService, validate, logger)
	markService := service.NewMarkService(markRepo, studentRepo, subjectRepo, allocationRepo, engine, reportService, validate, logger, cfg.GraceMax)
	exportService := service.NewExportService(studentRepo, subjectRepo, markRepo, teacherRepo, engine, logger)
	importService := service.NewImportService(markRepo, studentRepo, subjectRepo, engine, reportService, logger, cfg.GraceMax)

	seeder := service.NewSeedService(subjectRepo, teacherRepo, cfg.SeedAdminUserID, cfg.SeedAdminPass, logger)
	if err := seeder.Run(context.Background()); err != nil {
		log.Fatalf("failed to seed reference data: %v", err)
	}

	authHandler := handler.NewAuthHandler(authService, logger)
	studentHandler := handler.NewAdminStudentHandler(studentService, logger)
	teacherHandler := handler.NewAdminTeacherHandler(teacherService, authService, logger)
	subjectHandler := handler.NewAdminSubjectHandler(subjectService, logger)
	allocationHandler := handler.NewAdminAllocationHandler(allocationService, logger)
	resultHandler := handler.NewAdminResultHandler(reportService, exportService, importService, studentService, logger)
	marksHandler := handler.NewTeacherMarksHandler(markService, reportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		StudentHandler:    studentHandler,
		TeacherHandler:    teacherHandler,
		SubjectHandler:    subjectHandler,
		AllocationHandler: allocationHandler,
		ResultHandler:     resultHandler,
		MarksHandler:      marksHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
