package app

import (
	"context"
	"fmt"
	"log"

	"github.com/IT-Nick/quizbot/internal/infra/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InitDatabase устанавливает подключение к базе данных
func InitDatabase(cfg *config.Config, logger *log.Logger) (*pgxpool.Pool, error) {
	const op = "app.InitDatabase"

	connConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse database config: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(context.Background(), connConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create database pool: %w", op, err)
	}

	if err := db.Ping(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	logger.Println("Database connected successfully!")
	return db, nil
}
