package repository

import (
	"sort"
	"sync"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// SessionRepository реестр активных сессий викторины по ID чата.
// Хранит значения, поэтому изменения сессии видны только после Set.
type SessionRepository struct {
	data map[int64]model.Session
	mu   sync.RWMutex
}

// NewSessionRepository создает пустой реестр
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{data: make(map[int64]model.Session)}
}

// Get возвращает сессию чата
func (r *SessionRepository) Get(chatID int64) (model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[chatID]
	return s, ok
}

// Create добавляет сессию, если у чата ее еще нет
func (r *SessionRepository) Create(s model.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[s.ChatID]; exists {
		return false
	}
	r.data[s.ChatID] = s
	return true
}

// Set сохраняет сессию
func (r *SessionRepository) Set(s model.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.ChatID] = s
}

// Delete удаляет сессию и сообщает, была ли она
func (r *SessionRepository) Delete(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.data[chatID]
	delete(r.data, chatID)
	return ok
}

// List возвращает все сессии, отсортированные по ID чата
func (r *SessionRepository) List() []model.Session {
	r.mu.RLock()
	out := make([]model.Session, 0, len(r.data))
	for _, s := range r.data {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out
}

// Count количество активных сессий
func (r *SessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
