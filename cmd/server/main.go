package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"vortex_api/internal/api"
	"vortex_api/internal/app/service"
	"vortex_api/internal/common/security"
	"vortex_api/internal/domain/repository"
	"vortex_api/internal/logger"
	"vortex_api/internal/platform/cache"
	"vortex_api/internal/platform/config"
	"vortex_api/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()

	log := logger.New(0)
	log.Info("configuration loaded")

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize Database (runs embedded migrations)
	database.Connect()
	defer database.Close()
	log.Info("database connected")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	log.Info("redis connected")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	testCaseRepo := repository.NewPgTestCaseRepository(database.DB)

	// 6. Initialize Services
	listCache := cache.NewProblemListCache(cache.RDB, config.AppConfig.ProblemListCacheTTL)
	authService := service.NewAuthService(userRepo)
	problemService := service.NewProblemService(problemRepo, userRepo, listCache, config.AppConfig.MaxUserProblems, log)
	testCaseService := service.NewTestCaseService(testCaseRepo, problemRepo, listCache, config.AppConfig.MaxTestCases, log)
	authoringService := service.NewAuthoringService(problemRepo, testCaseRepo, listCache, log)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, problemService, testCaseService, authoringService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("could not listen", "port", config.AppConfig.APIPort, "error", err.Error())
		}
	}()

	<-stop // Wait for interrupt signal

	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown failed", "error", err.Error())
	}

	log.Info("server stopped gracefully")
}
