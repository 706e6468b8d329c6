package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"chargerbnb/internal/admin"
	"chargerbnb/internal/auth"
	"chargerbnb/internal/booking"
	"chargerbnb/internal/charger"
	"chargerbnb/internal/config"
	"chargerbnb/internal/email"
	"chargerbnb/internal/report"
	"chargerbnb/internal/review"
	"chargerbnb/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	userRepo := user.NewRepository(db)
	chargerRepo := charger.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	reportRepo := report.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	userService := user.NewService(userRepo, cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	chargerService := charger.NewService(chargerRepo)
	bookingService := booking.NewService(bookingRepo, chargerRepo, userRepo, emailService)
	reviewService := review.NewService(reviewRepo, bookingRepo)
	reportService := report.NewService(reportRepo, chargerRepo)
	adminService := admin.NewService(adminRepo, chargerService, reportService, userRepo, emailService)

	userHandler := user.NewHandler(userService)
	chargerHandler := charger.NewHandler(chargerService)
	bookingHandler := booking.NewHandler(bookingService)
	reviewHandler := review.NewHandler(reviewService)
	reportHandler := report.NewHandler(reportService)
	adminHandler := admin.NewHandler(adminService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	// Listing browsing is open; only approved and available chargers show up.
	router.GET("/chargers", chargerHandler.ListPublic)
	router.GET("/chargers/:chargerID", chargerHandler.GetCharger)
	router.GET("/chargers/:chargerID/availability", bookingHandler.CheckAvailability)
	router.GET("/chargers/:chargerID/slots", bookingHandler.NextAvailableSlots)
	router.GET("/chargers/:chargerID/reviews", reviewHandler.ListChargerReviews)

	authMiddleware := auth.AuthMiddleware(cfg.AccessTokenSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)
		protected.POST("/reviews", reviewHandler.CreateReview)
		protected.POST("/reports", reportHandler.CreateReport)
	}

	host := router.Group("/host")
	host.Use(authMiddleware, auth.RequireRole(auth.RoleHost, auth.RoleAdmin))
	{
		host.POST("/chargers", chargerHandler.CreateCharger)
		host.GET("/chargers", chargerHandler.ListMyChargers)
		host.PUT("/chargers/:chargerID", chargerHandler.UpdateCharger)
		host.GET("/bookings", bookingHandler.ListHostBookings)
		host.PATCH("/bookings/:bookingID/accept", bookingHandler.AcceptBooking)
		host.PATCH("/bookings/:bookingID/reject", bookingHandler.RejectBooking)
		host.PATCH("/bookings/:bookingID/complete", bookingHandler.CompleteBooking)
	}

	adminGroup := router.Group("/admin")
	adminGroup.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.GET("/hosts", adminHandler.ListHosts)
		adminGroup.GET("/chargers", adminHandler.ListChargers)
		adminGroup.PATCH("/chargers/:chargerID/approve", adminHandler.ApproveCharger)
		adminGroup.PATCH("/chargers/:chargerID/suspend", adminHandler.SuspendCharger)
		adminGroup.GET("/reports", adminHandler.ListReports)
		adminGroup.PATCH("/reports/:reportID/resolve", adminHandler.ResolveReport)
		adminGroup.PATCH("/reports/:reportID/dismiss", adminHandler.DismissReport)
		adminGroup.GET("/actions", adminHandler.ListActions)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
