package service

import (
	"context"
	"fmt"
	"log"
)

// Repository хранилище ID отправленных сообщений
type Repository interface {
	Append(ctx context.Context, chatID int64, messageID int) error
	Take(ctx context.Context, chatID int64) ([]int, error)
	Len(ctx context.Context, chatID int64) (int, error)
	Chats(ctx context.Context) ([]int64, error)
}

// Deleter удаляет сообщение в чате
type Deleter interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// FlushResult итог очистки чата
type FlushResult struct {
	Attempted int
	Deleted   int
}

// Failed количество сообщений, которые не удалось удалить
func (r FlushResult) Failed() int {
	return r.Attempted - r.Deleted
}

// LedgerService ведет учет отправленных вопросов и удаляет их
type LedgerService struct {
	repo    Repository
	deleter Deleter
	logger  *log.Logger
}

// NewLedgerService создает новый экземпляр LedgerService
func NewLedgerService(repo Repository, deleter Deleter, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.Default()
	}
	return &LedgerService{repo: repo, deleter: deleter, logger: logger}
}

// RecordSent запоминает ID отправленного сообщения
func (s *LedgerService) RecordSent(ctx context.Context, chatID int64, messageID int) error {
	if err := s.repo.Append(ctx, chatID, messageID); err != nil {
		return fmt.Errorf("failed to record sent message: %w", err)
	}
	return nil
}

// Pending количество сообщений чата, ожидающих удаления
func (s *LedgerService) Pending(ctx context.Context, chatID int64) (int, error) {
	n, err := s.repo.Len(ctx, chatID)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending messages: %w", err)
	}
	return n, nil
}

// FlushAndDelete забирает все ID чата и удаляет сообщения по одному.
// Ошибка удаления отдельного сообщения только логируется. Запись чата после вызова всегда пуста.
func (s *LedgerService) FlushAndDelete(ctx context.Context, chatID int64) (FlushResult, error) {
	ids, err := s.repo.Take(ctx, chatID)
	if err != nil {
		return FlushResult{}, fmt.Errorf("failed to take sent messages: %w", err)
	}

	result := FlushResult{Attempted: len(ids)}
	for _, id := range ids {
		if err := s.deleter.DeleteMessage(ctx, chatID, id); err != nil {
			s.logger.Printf("Error deleting message %d in chat %d: %v", id, chatID, err)
			continue
		}
		result.Deleted++
	}

	return result, nil
}

// PendingChats чаты с неудаленными сообщениями, например оставшиеся от прошлого запуска
func (s *LedgerService) PendingChats(ctx context.Context) ([]int64, error) {
	chats, err := s.repo.Chats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending chats: %w", err)
	}
	return chats, nil
}
