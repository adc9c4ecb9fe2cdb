package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"remixarena/internal/api"
	"remixarena/internal/api/ws"
	"remixarena/internal/app/service"
	"remixarena/internal/app/worker"
	"remixarena/internal/common/security"
	"remixarena/internal/domain/repository"
	"remixarena/internal/platform/config"
	"remixarena/internal/platform/database"
	"remixarena/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.Migrate(database.DB)

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	contestRepo := repository.NewPgContestRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	voteRepo := repository.NewPgVoteRepository(database.DB)
	eventRepo := repository.NewPgEventRepository(database.DB)
	ledger := repository.NewPgTokenLedger(database.DB)

	// 6. Initialize Services
	escrow := config.AppConfig.EscrowAddress
	locks := service.NewContestLocks()
	authService := service.NewAuthService(userRepo)
	contestService := service.NewContestService(contestRepo, eventRepo, ledger, escrow, database.DB)
	submissionService := service.NewSubmissionService(submissionRepo, contestRepo, eventRepo, database.DB, locks)
	voteService := service.NewVoteService(voteRepo, submissionRepo, contestRepo, eventRepo, database.DB, locks)
	settlementService := service.NewSettlementService(contestRepo, submissionRepo, eventRepo, ledger, escrow, database.DB, locks)
	eventService := service.NewEventService(eventRepo)
	tokenService := service.NewTokenService(ledger, escrow, config.AppConfig.FaucetDripAmount)

	// 7. Initialize Event Relay Worker (as a goroutine)
	eventRelay := worker.NewEventRelay(queue.RDB, eventRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go eventRelay.Start(workerCtx)
	fmt.Println("Event relay worker started.")

	// 8. Initialize Router & HTTP Server
	wsHandler := ws.NewHandler(queue.RDB, slog.Default())
	router := api.NewRouter(
		authService,
		contestService,
		submissionService,
		voteService,
		settlementService,
		eventService,
		tokenService,
		wsHandler,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
