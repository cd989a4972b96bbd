package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	app2 "github.com/IT-Nick/quizbot/internal/app"
	questionsRepo "github.com/IT-Nick/quizbot/internal/domain/questions/repository"
	"github.com/IT-Nick/quizbot/internal/infra/config"
)

func main() {
	// Инициализируем кастомный логгер.
	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags)

	app, err := app2.NewApp(os.Getenv("CONFIG_PATH"), logger)
	if err != nil {
		var cfgErr *config.ConfigError
		var loadErr *questionsRepo.LoadError
		switch {
		case errors.As(err, &cfgErr):
			logger.Fatalf("Invalid configuration: %v", cfgErr)
		case errors.As(err, &loadErr):
			logger.Fatalf("Failed to load questions: %v", loadErr)
		}
		logger.Fatalf("Failed to start: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.ListenAndServe()
	}()

	logger.Println("Bot is running...")

	select {
	case err := <-errCh:
		if err != nil {
			logger.Printf("Server stopped: %v", err)
		}
	case <-ctx.Done():
		logger.Println("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Shutdown error: %v", err)
	}
}
