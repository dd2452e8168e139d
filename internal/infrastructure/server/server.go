package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/lifehub/core/internal/adapters/http"
	"github.com/lifehub/core/internal/application/store"
	"github.com/lifehub/core/internal/infrastructure/config"
	"github.com/lifehub/core/internal/infrastructure/logger"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	store  *store.Store
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, st *store.Store, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Initialize handlers
	healthHandler := httpHandlers.NewHealthDomainHandler(st, appLogger)
	financeHandler := httpHandlers.NewFinanceHandler(st, appLogger)
	productivityHandler := httpHandlers.NewProductivityHandler(st, appLogger)
	studyHandler := httpHandlers.NewStudyHandler(st, appLogger)
	notificationHandler := httpHandlers.NewNotificationHandler(st, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		store:  st,
	}

	server.setupMiddleware()
	server.setupRoutes(healthHandler, financeHandler, productivityHandler, studyHandler, notificationHandler)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(healthHandler *httpHandlers.HealthDomainHandler, financeHandler *httpHandlers.FinanceHandler, productivityHandler *httpHandlers.ProductivityHandler, studyHandler *httpHandlers.StudyHandler, notificationHandler *httpHandlers.NotificationHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Health domain
	mealGroup := v1.Group("/meals")
	mealGroup.GET("", healthHandler.ListMeals)
	mealGroup.POST("", healthHandler.CreateMeal)
	mealGroup.PATCH("/:id", healthHandler.UpdateMeal)
	mealGroup.DELETE("/:id", healthHandler.DeleteMeal)

	workoutGroup := v1.Group("/workouts")
	workoutGroup.GET("", healthHandler.ListWorkouts)
	workoutGroup.POST("", healthHandler.CreateWorkout)
	workoutGroup.PATCH("/:id", healthHandler.UpdateWorkout)
	workoutGroup.DELETE("/:id", healthHandler.DeleteWorkout)

	sleepGroup := v1.Group("/sleep-records")
	sleepGroup.GET("", healthHandler.ListSleepRecords)
	sleepGroup.POST("", healthHandler.CreateSleepRecord)
	sleepGroup.PATCH("/:id", healthHandler.UpdateSleepRecord)
	sleepGroup.DELETE("/:id", healthHandler.DeleteSleepRecord)

	healthGoalGroup := v1.Group("/health-goals")
	healthGoalGroup.GET("", healthHandler.ListHealthGoals)
	healthGoalGroup.POST("", healthHandler.CreateHealthGoal)
	healthGoalGroup.PATCH("/:id", healthHandler.UpdateHealthGoal)
	healthGoalGroup.DELETE("/:id", healthHandler.DeleteHealthGoal)

	// Finance domain
	txGroup := v1.Group("/transactions")
	txGroup.GET("", financeHandler.ListTransactions)
	txGroup.POST("", financeHandler.CreateTransaction)
	txGroup.PATCH("/:id", financeHandler.UpdateTransaction)
	txGroup.DELETE("/:id", financeHandler.DeleteTransaction)

	finGoalGroup := v1.Group("/financial-goals")
	finGoalGroup.GET("", financeHandler.ListFinancialGoals)
	finGoalGroup.POST("", financeHandler.CreateFinancialGoal)
	finGoalGroup.PATCH("/:id", financeHandler.UpdateFinancialGoal)
	finGoalGroup.DELETE("/:id", financeHandler.DeleteFinancialGoal)

	investmentGroup := v1.Group("/investments")
	investmentGroup.GET("", financeHandler.ListInvestments)
	investmentGroup.POST("", financeHandler.CreateInvestment)
	investmentGroup.PATCH("/:id", financeHandler.UpdateInvestment)
	investmentGroup.DELETE("/:id", financeHandler.DeleteInvestment)

	v1.GET("/emergency-reserve", financeHandler.GetEmergencyReserve)
	v1.PUT("/emergency-reserve", financeHandler.SetEmergencyReserve)

	// Productivity domain
	taskGroup := v1.Group("/tasks")
	taskGroup.GET("", productivityHandler.ListTasks)
	taskGroup.POST("", productivityHandler.CreateTask)
	taskGroup.GET("/:id", productivityHandler.GetTask)
	taskGroup.GET("/:id/subtasks", productivityHandler.GetSubtasks)
	taskGroup.PATCH("/:id", productivityHandler.UpdateTask)
	taskGroup.DELETE("/:id", productivityHandler.DeleteTask)

	projectGroup := v1.Group("/projects")
	projectGroup.GET("", productivityHandler.ListPersonalProjects)
	projectGroup.POST("", productivityHandler.CreatePersonalProject)
	projectGroup.GET("/:id/tasks", productivityHandler.GetProjectTasks)
	projectGroup.PATCH("/:id", productivityHandler.UpdatePersonalProject)
	projectGroup.DELETE("/:id", productivityHandler.DeletePersonalProject)

	prodGoalGroup := v1.Group("/productivity-goals")
	prodGoalGroup.GET("", productivityHandler.ListProductivityGoals)
	prodGoalGroup.POST("", productivityHandler.CreateProductivityGoal)
	prodGoalGroup.PATCH("/:id", productivityHandler.UpdateProductivityGoal)
	prodGoalGroup.DELETE("/:id", productivityHandler.DeleteProductivityGoal)

	attrGoalGroup := v1.Group("/attraction-goals")
	attrGoalGroup.GET("", productivityHandler.ListAttractionGoals)
	attrGoalGroup.POST("", productivityHandler.CreateAttractionGoal)
	attrGoalGroup.PATCH("/:id", productivityHandler.UpdateAttractionGoal)
	attrGoalGroup.DELETE("/:id", productivityHandler.DeleteAttractionGoal)

	// Study domain
	studyGroup := v1.Group("/study-areas")
	studyGroup.GET("", studyHandler.ListStudyAreas)
	studyGroup.POST("", studyHandler.CreateStudyArea)
	studyGroup.PATCH("/:id", studyHandler.UpdateStudyArea)
	studyGroup.DELETE("/:id", studyHandler.DeleteStudyArea)
	studyGroup.POST("/:areaId/subjects", studyHandler.CreateSubject)
	studyGroup.PATCH("/:areaId/subjects/:subjectId", studyHandler.UpdateSubject)
	studyGroup.DELETE("/:areaId/subjects/:subjectId", studyHandler.DeleteSubject)

	subjectGroup := v1.Group("/subjects")
	subjectGroup.POST("/:subjectId/classes", studyHandler.CreateClassSession)
	subjectGroup.PATCH("/:subjectId/classes/:classId", studyHandler.UpdateClassSession)
	subjectGroup.DELETE("/:subjectId/classes/:classId", studyHandler.DeleteClassSession)

	classGroup := v1.Group("/classes")
	classGroup.POST("/:classId/pomodoros", studyHandler.CreatePomodoro)

	// Notifications
	notificationGroup := v1.Group("/notifications")
	notificationGroup.GET("", notificationHandler.ListNotifications)
	notificationGroup.POST("", notificationHandler.EmitNotification)
	notificationGroup.POST("/:id/read", notificationHandler.MarkRead)
	notificationGroup.DELETE("/:id", notificationHandler.DeleteNotification)
	notificationGroup.DELETE("", notificationHandler.ClearNotifications)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	entitiesTotal := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "store_entities_total",
			Help: "Total number of entities across all collections",
		},
		func() float64 {
			snapshot := s.store.Snapshot()
			total := len(snapshot.Meals) + len(snapshot.Workouts) + len(snapshot.SleepRecords) +
				len(snapshot.HealthGoals) + len(snapshot.Transactions) + len(snapshot.FinancialGoals) +
				len(snapshot.Investments) + len(snapshot.Tasks) + len(snapshot.StudyAreas) +
				len(snapshot.PersonalProjects) + len(snapshot.ProductivityGoals) +
				len(snapshot.AttractionGoals) + len(snapshot.Notifications)
			return float64(total)
		},
	)

	registry.MustRegister(requestsTotal, requestDuration, entitiesTotal)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err.Error(), "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err.Error())
			}
		}
	}
}
