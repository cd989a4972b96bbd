package stop_quiz_handler

import (
	"context"
	"errors"

	quizService "github.com/IT-Nick/quizbot/internal/domain/quiz/service"
	"gopkg.in/telebot.v4"
)

// StopQuizHandler обработчик команды /stopquiz
type StopQuizHandler struct {
	quizService *quizService.QuizService
}

// NewStopQuizHandler возвращает структуру обработчика
func NewStopQuizHandler(quizService *quizService.QuizService) *StopQuizHandler {
	return &StopQuizHandler{quizService: quizService}
}

// Handle останавливает викторину в чате
func (h *StopQuizHandler) Handle(c telebot.Context) error {
	err := h.quizService.StopQuiz(context.Background(), c.Chat().ID)
	if errors.Is(err, quizService.ErrNoActiveQuiz) {
		return c.Send("⚠ No active quiz to stop.")
	}
	if err != nil {
		return err
	}
	return c.Send("⛔ Quiz Stopped!")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StopQuizHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
