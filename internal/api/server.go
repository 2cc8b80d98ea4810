package api

import (
	"fmt"
	"net/http"

	"epark/internal/cache"
	"epark/internal/config"
	"epark/internal/database"
	"epark/internal/external"
	"epark/internal/handlers"
	"epark/internal/logger"
	"epark/internal/messaging"
	"epark/internal/middleware"
	"epark/internal/models"
	"epark/internal/repository"
	"epark/internal/search"
	"epark/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server with all of its backing connections
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	redis    *cache.RedisClient
	es       *search.ElasticsearchClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		logger.Fatal("Failed to connect to Elasticsearch", "error", err)
	}

	redisClient, err := cache.NewRedisClient()
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}

	mailerClient := external.NewMailerClient(cfg.Mailer)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, esClient, redisClient, mailerClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		redis:    redisClient,
		es:       esClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	s.router.POST("/auth/register", h.Register)

	api := s.router.Group("/api")
	api.Use(middleware.BasicAuth(s.repos.Users, s.redis))
	{
		spaces := api.Group("/spaces")
		{
			spaces.GET("", h.ListSpaces)
			spaces.GET("/search", h.SearchSpaces)
			spaces.GET("/mine", middleware.RequireUserType(s.repos.Users, models.UserTypeOperator, models.UserTypeAdmin), h.ListMySpaces)
			spaces.GET("/:id", h.GetSpace)
			spaces.POST("", middleware.RequireUserType(s.repos.Users, models.UserTypeOperator, models.UserTypeAdmin), h.CreateSpace)
			spaces.PATCH("/:id", middleware.RequireUserType(s.repos.Users, models.UserTypeOperator, models.UserTypeAdmin), h.UpdateSpace)
		}

		sessions := api.Group("/sessions")
		{
			sessions.GET("", h.ListSessions)
			sessions.GET("/operator", middleware.RequireUserType(s.repos.Users, models.UserTypeOperator, models.UserTypeAdmin), h.ListOperatorSessions)
			sessions.GET("/:id", h.GetSession)
			sessions.POST("/reserve", h.ReserveSession)
			sessions.POST("/check-in", h.CheckInSession)
			sessions.POST("/pause", h.PauseSession)
			sessions.POST("/resume", h.ResumeSession)
			sessions.POST("/checkout", h.CheckoutSession)
			sessions.POST("/cancel", h.CancelSession)
		}

		wallet := api.Group("/wallet")
		{
			wallet.GET("", h.GetWallet)
			wallet.POST("/fund", h.FundWallet)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.GET("/unread-count", h.UnreadNotificationsCount)
			notifications.POST("/read", h.MarkNotificationsRead)
		}

		invites := api.Group("/invites")
		{
			invites.GET("", middleware.RequireUserType(s.repos.Users, models.UserTypeOperator, models.UserTypeAdmin), h.ListInvites)
			invites.POST("", middleware.RequireUserType(s.repos.Users, models.UserTypeOperator, models.UserTypeAdmin), h.CreateInvite)
			invites.POST("/accept", h.AcceptInvite)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireUserType(s.repos.Users, models.UserTypeAdmin))
		{
			admin.POST("/verify", h.VerifyUser)
			admin.POST("/discount", h.SetDiscount)
			admin.POST("/bonus", h.SetBonus)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealth := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	overall := "ok"
	if dbHealth.Status != "healthy" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	esStatus := "healthy"
	if err := s.es.HealthCheck(c.Request.Context()); err != nil {
		// Search degradation is not fatal; listings still work from the
		// database.
		esStatus = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":        overall,
		"service":       "epark-api",
		"version":       "1.0.0",
		"database":      dbHealth,
		"elasticsearch": esStatus,
	})
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes all backing connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.Get().Error("Error closing Redis connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
