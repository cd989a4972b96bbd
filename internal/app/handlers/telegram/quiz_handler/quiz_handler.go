package quiz_handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	quizService "github.com/IT-Nick/quizbot/internal/domain/quiz/service"
	"gopkg.in/telebot.v4"
)

// QuizHandler обработчик команды /quiz <тема>
type QuizHandler struct {
	quizService *quizService.QuizService
}

// NewQuizHandler возвращает структуру обработчика
func NewQuizHandler(quizService *quizService.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Handle запускает викторину по коду или названию темы
func (h *QuizHandler) Handle(c telebot.Context) error {
	chatID := c.Chat().ID

	topic, err := h.quizService.StartQuiz(context.Background(), chatID, selector(c.Args()))
	if err != nil {
		if msg, ok := ErrorReply(err, h.quizService); ok {
			return c.Send(msg)
		}
		// ошибка транспорта: сообщаем пользователю и отдаем ошибку в лог
		_ = c.Send("⚠ Could not start the quiz, please try again later.")
		return fmt.Errorf("start quiz in chat %d: %w", chatID, err)
	}

	return c.Send(fmt.Sprintf("🚀 Quiz \"%s\" started: %d questions.", topic.Name, len(topic.Questions)))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *QuizHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

// ErrorReply текст ответа на ошибку ввода пользователя
func ErrorReply(err error, svc *quizService.QuizService) (string, bool) {
	switch {
	case errors.Is(err, quizService.ErrNoArguments):
		example := "<topic_code>"
		if topics := svc.Topics(); len(topics) > 0 {
			example = topics[0].Code
		}
		return "⚠ Please provide a topic code. Example: /quiz " + example, true
	case errors.Is(err, quizService.ErrUnknownTopic):
		return "⚠ Invalid topic code. Use /start to see available topics.", true
	case errors.Is(err, quizService.ErrAlreadyRunning):
		return "⚠ A quiz is already running in this chat. Use /stopquiz to stop it.", true
	}
	return "", false
}

// selector тема может состоять из нескольких слов, если указана по названию
func selector(args []string) string {
	return strings.Join(args, " ")
}
