package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/clinic-api/internal/config"
	"github.com/yourusername/clinic-api/internal/handler"
	"github.com/yourusername/clinic-api/internal/middleware"
	"github.com/yourusername/clinic-api/internal/repository/postgres"
	"github.com/yourusername/clinic-api/internal/service"
	"github.com/yourusername/clinic-api/pkg/auth"
	"github.com/yourusername/clinic-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to apply migrations: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewRedisClient(database.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepo(db)
	codeRepo := postgres.NewVerificationCodeRepo(db)
	resetRepo := postgres.NewPasswordResetRepo(db)
	refreshRepo, err := postgres.NewRefreshTokenRepo(db)
	if err != nil {
		log.Printf("Failed to initialize refresh token repo: %v", err)
		os.Exit(1)
	}
	txManager, err := postgres.NewTxManager(db)
	if err != nil {
		log.Printf("Failed to initialize tx manager: %v", err)
		os.Exit(1)
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenTTLMin)*time.Minute)
	if err != nil {
		log.Printf("Failed to initialize JWT service: %v", err)
		os.Exit(1)
	}

	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("[Main] Email disabled, using noop email service")
		emailService = &service.NoopEmailService{}
	}

	authService := service.NewAuthService(
		userRepo, codeRepo, refreshRepo, resetRepo, txManager,
		jwtService, emailService,
		service.AuthConfig{
			FrontendURL:   cfg.Email.FrontendURL,
			EmailFailOpen: cfg.Auth.EmailFailOpen,
		},
	)

	// Hourly cleanup of expired refresh tokens.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				deleted, err := authService.CleanupExpiredTokens()
				if err != nil {
					log.Printf("[Cleanup] Failed to remove expired refresh tokens: %v", err)
				} else if deleted > 0 {
					log.Printf("[Cleanup] Removed %d expired refresh tokens", deleted)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Printf("Failed to set trusted proxies: %v", err)
		os.Exit(1)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Email.FrontendURL, "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		authRoutes.Use(rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()))
		{
			// Tighter budget where brute force pays off.
			strict := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
			authRoutes.POST("/register", strict, authHandler.Register)
			authRoutes.POST("/verify", authHandler.Verify)
			authRoutes.POST("/login", strict, authHandler.Login)
			authRoutes.POST("/request-reset", strict, authHandler.RequestPasswordReset)
			authRoutes.POST("/reset-password", authHandler.ResetPassword)
		}

		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", authHandler.GetMe)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
