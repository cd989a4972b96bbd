package start_handler

import (
	"context"
	"fmt"
	"log"
	"strings"

	quizService "github.com/IT-Nick/quizbot/internal/domain/quiz/service"
	"gopkg.in/telebot.v4"
)

// StartHandler структура для обработки команды /start
type StartHandler struct {
	quizService *quizService.QuizService
	logger      *log.Logger
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(quizService *quizService.QuizService, logger *log.Logger) *StartHandler {
	return &StartHandler{
		quizService: quizService,
		logger:      logger,
	}
}

// Handle выводит список тем и отправляет опрос для выбора темы
func (h *StartHandler) Handle(c telebot.Context) error {
	topics := h.quizService.Topics()
	if len(topics) == 0 {
		return c.Send("No topics available.")
	}

	var b strings.Builder
	b.WriteString("📚 Available Topics:\n")
	for _, t := range topics {
		fmt.Fprintf(&b, "- %s (%s)\n", t.Name, t.Code)
	}
	fmt.Fprintf(&b, "\nUse /quiz <topic_code> to start a quiz, e.g. /quiz %s", topics[0].Code)

	if err := c.Send(b.String()); err != nil {
		return err
	}

	// Опрос выбора темы не обязателен, список уже отправлен
	if _, err := h.quizService.OfferTopics(context.Background(), c.Chat().ID); err != nil {
		h.logger.Printf("Failed to offer topics in chat %d: %v", c.Chat().ID, err)
	}
	return nil
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
