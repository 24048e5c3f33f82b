package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jeyfredc/ApiInscripcionMaterias/internal/auth"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/catalog"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/config"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/account"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/http/handlers"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/http/middlewares"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/observability"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/repo/postgres"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/security"
)

const maxBodyBytes = 1 << 20 // 1 MiB is generous for every payload here

func NewRouter(
	log *slog.Logger,
	cfg config.Config,
	pool *pgxpool.Pool,
	reg *prometheus.Registry,
	prom *observability.Prom,
	jwtManager *auth.Manager,
	cache catalog.Cache,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(otelgin.Middleware("enrollment-api"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))

	// health + metrics
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories
	accountsRepo := postgres.NewAccountsRepo(pool, prom)
	coursesRepo := postgres.NewCoursesRepo(pool, prom)
	studentsRepo := postgres.NewStudentsRepo(pool, prom)
	teachersRepo := postgres.NewTeachersRepo(pool, prom)

	hasher := security.NewHasher(cfg.BcryptCost)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(accountsRepo, accountsRepo, hasher, jwtManager, prom)
	coursesHandler := handlers.NewCoursesHandler(coursesRepo, cache)
	studentsHandler := handlers.NewStudentsHandler(studentsRepo)
	teachersHandler := handlers.NewTeachersHandler(teachersRepo)

	// public auth routes; login gets a per-IP limiter
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)

	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", loginLimiter.Middleware(middlewares.KeyByIP), authHandler.Login)

	// everything below requires a valid access token
	authMW := middlewares.NewAuthMiddleware(jwtManager)
	api := r.Group("", authMW.RequireAuth())

	api.GET("/courses/available", coursesHandler.ListAvailable)

	students := api.Group("", authMW.RequireRole(account.RoleStudent))
	students.POST("/courses/enrollments", coursesHandler.Enroll)
	students.DELETE("/courses/enrollments", coursesHandler.Drop)
	students.GET("/students/credits", studentsHandler.Credits)
	students.GET("/students/schedule", studentsHandler.Schedule)
	students.GET("/students/classmates", studentsHandler.Classmates)

	teachers := api.Group("", authMW.RequireRole(account.RoleTeacher))
	teachers.GET("/teachers/courses", teachersHandler.AssignedCourses)

	admin := api.Group("", authMW.RequireRole(account.RoleAdmin))
	admin.GET("/courses/unassigned", coursesHandler.ListUnassigned)
	admin.POST("/courses", coursesHandler.RegisterCourse)
	admin.POST("/courses/assignments", coursesHandler.AssignTeacher)
	admin.DELETE("/courses/assignments", coursesHandler.UnassignTeacher)

	return r
}
