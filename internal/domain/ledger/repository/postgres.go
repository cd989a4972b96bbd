package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSentMessagesTable = `
        CREATE TABLE IF NOT EXISTS sent_messages (
                chat_id    BIGINT      NOT NULL,
                message_id INTEGER     NOT NULL,
                sent_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
                PRIMARY KEY (chat_id, message_id)
        )
`

// PostgresRepository хранит ID отправленных сообщений в PostgreSQL, чтобы очистка пережила перезапуск
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository создает новый экземпляр PostgresRepository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema создает таблицу sent_messages, если ее нет
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createSentMessagesTable); err != nil {
		return fmt.Errorf("failed to create sent_messages table: %w", err)
	}
	return nil
}

// Append добавляет ID сообщения
func (r *PostgresRepository) Append(ctx context.Context, chatID int64, messageID int) error {
	_, err := r.db.Exec(ctx, `
                INSERT INTO sent_messages (chat_id, message_id)
                VALUES ($1, $2)
                ON CONFLICT DO NOTHING
        `, chatID, messageID)
	if err != nil {
		return fmt.Errorf("failed to append sent message: %w", err)
	}
	return nil
}

// Take удаляет записи чата и возвращает их ID по возрастанию
func (r *PostgresRepository) Take(ctx context.Context, chatID int64) ([]int, error) {
	rows, err := r.db.Query(ctx, `
                DELETE FROM sent_messages
                WHERE chat_id = $1
                RETURNING message_id
        `, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to take sent messages: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("failed to scan sent messages: %w", err)
	}

	// DELETE ... RETURNING не гарантирует порядок
	slices.Sort(ids)
	return ids, nil
}

// Len количество ID, ожидающих удаления
func (r *PostgresRepository) Len(ctx context.Context, chatID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM sent_messages WHERE chat_id=$1", chatID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sent messages: %w", err)
	}
	return count, nil
}

// Chats возвращает чаты, у которых остались неудаленные сообщения
func (r *PostgresRepository) Chats(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, "SELECT DISTINCT chat_id FROM sent_messages")
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}

	chats, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan chats: %w", err)
	}
	return chats, nil
}
