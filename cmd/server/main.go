package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pitstop-backend/internal/config"
	"pitstop-backend/internal/database"
	"pitstop-backend/internal/handlers"
	"pitstop-backend/internal/middleware"
	"pitstop-backend/internal/repository"
	"pitstop-backend/internal/router"
	"pitstop-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting PitStop Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	vehicleRepo := repository.NewVehicleRepo(pool)
	chatRepo := repository.NewChatRepo(pool)
	messageRepo := repository.NewMessageRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	mechanicService, err := services.NewMechanicService(
		cfg.GeminiAPIKey,
		cfg.GeminiChatModel,
		cfg.GeminiConcurrentReqs,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer mechanicService.Close()
	log.Printf("✓ Gemini client initialized (model: %s)", cfg.GeminiChatModel)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, redisClient, jwtAuth)
	streamBudget := time.Duration(cfg.StreamTimeoutSecs) * time.Second
	finalizer := services.NewFinalizer(10 * time.Second)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, vehicleRepo, userRepo, mechanicService, finalizer, streamBudget)
	vehicleHandler := handlers.NewVehicleHandler(vehicleRepo)
	userHandler := handlers.NewUserHandler(userRepo)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(router.Config{
		FrontendURL: cfg.FrontendURL,
		JWTAuth:     jwtAuth,
		Auth:        authHandler,
		Chat:        chatHandler,
		Vehicle:     vehicleHandler,
		User:        userHandler,
	})

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout must outlast the streaming budget or the server cuts
		// replies off mid-generation.
		WriteTimeout: streamBudget + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: stop accepting requests, then drain pending
	// persistence tasks so completed exchanges are not lost.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)

		if !finalizer.Wait(15 * time.Second) {
			log.Println("⚠ Persistence tasks did not finish before deadline")
		}
	}()

	log.Printf("✓ PitStop Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	if !finalizer.Wait(15 * time.Second) {
		log.Println("⚠ Persistence tasks did not finish before deadline")
	}
}
