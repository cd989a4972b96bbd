package repository

import (
	"context"
	"sync"
)

// MemoryRepository хранит ID отправленных сообщений в памяти процесса
type MemoryRepository struct {
	data map[int64][]int
	mu   sync.Mutex
}

// NewMemoryRepository создает пустое хранилище
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[int64][]int)}
}

// Append добавляет ID сообщения в конец списка чата
func (r *MemoryRepository) Append(_ context.Context, chatID int64, messageID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[chatID] = append(r.data[chatID], messageID)
	return nil
}

// Take возвращает все ID чата и очищает запись
func (r *MemoryRepository) Take(_ context.Context, chatID int64) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.data[chatID]
	delete(r.data, chatID)
	return ids, nil
}

// Len количество ID, ожидающих удаления
func (r *MemoryRepository) Len(_ context.Context, chatID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data[chatID]), nil
}

// Chats возвращает чаты, у которых есть неудаленные сообщения
func (r *MemoryRepository) Chats(_ context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chats := make([]int64, 0, len(r.data))
	for chatID, ids := range r.data {
		if len(ids) > 0 {
			chats = append(chats, chatID)
		}
	}
	return chats, nil
}
