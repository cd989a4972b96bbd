package model

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryPolicy определяет порядок выдачи вопросов в сессии
type DeliveryPolicy string

const (
	// PolicySequential выдает вопросы в порядке файла, каждый ровно один раз
	PolicySequential DeliveryPolicy = "sequential"
	// PolicyRandom выбирает вопрос случайно с повторениями на каждом тике
	PolicyRandom DeliveryPolicy = "random"
)

// ParseDeliveryPolicy разбирает значение из конфигурации
func ParseDeliveryPolicy(s string) (DeliveryPolicy, bool) {
	switch DeliveryPolicy(s) {
	case PolicySequential, "":
		return PolicySequential, true
	case PolicyRandom, "random-with-repetition":
		return PolicyRandom, true
	}
	return "", false
}

// Session состояние викторины в одном чате
type Session struct {
	ID        uuid.UUID
	ChatID    int64
	TopicCode string
	TopicName string
	// Questions копия вопросов темы на момент старта
	Questions []Question
	Position  int
	Answered  int
	Correct   int
	StartedAt time.Time
}

// NewSession создает сессию с копией вопросов темы
func NewSession(chatID int64, topic Topic) *Session {
	questions := make([]Question, len(topic.Questions))
	copy(questions, topic.Questions)

	return &Session{
		ID:        uuid.New(),
		ChatID:    chatID,
		TopicCode: topic.Code,
		TopicName: topic.Name,
		Questions: questions,
		StartedAt: time.Now(),
	}
}

// Done возвращает true, если все вопросы уже выданы
func (s *Session) Done() bool {
	return s.Position >= len(s.Questions)
}
