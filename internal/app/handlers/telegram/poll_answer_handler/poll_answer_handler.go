package poll_answer_handler

import (
	"context"
	"fmt"
	"log"

	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/quiz_handler"
	quizService "github.com/IT-Nick/quizbot/internal/domain/quiz/service"
	"gopkg.in/telebot.v4"
)

// Notifier отправляет сообщение в чат, из которого пришел опрос.
// Ответ на опрос приходит без чата, поэтому c.Send здесь не работает.
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// PollAnswerHandler обработчик ответов на опросы
type PollAnswerHandler struct {
	quizService *quizService.QuizService
	notifier    Notifier
	logger      *log.Logger
}

// NewPollAnswerHandler возвращает структуру обработчика
func NewPollAnswerHandler(quizService *quizService.QuizService, notifier Notifier, logger *log.Logger) *PollAnswerHandler {
	return &PollAnswerHandler{
		quizService: quizService,
		notifier:    notifier,
		logger:      logger,
	}
}

// Handle засчитывает ответ на вопрос или запускает викторину по выбранной в опросе теме
func (h *PollAnswerHandler) Handle(c telebot.Context) error {
	pa := c.PollAnswer()
	if pa == nil {
		return nil
	}

	answer := quizService.PollAnswer{PollID: pa.PollID, Options: pa.Options}
	if pa.Sender != nil {
		answer.UserID = pa.Sender.ID
	}

	ctx := context.Background()
	res, err := h.quizService.HandlePollAnswer(ctx, answer)

	switch res.Kind {
	case quizService.AnswerQuiz:
		h.logger.Printf("Poll answer from user %d in chat %d: correct=%t", answer.UserID, res.ChatID, res.Correct)
		return nil
	case quizService.AnswerTopic:
		if err != nil {
			if msg, ok := quiz_handler.ErrorReply(err, h.quizService); ok {
				return h.notifier.SendText(ctx, res.ChatID, msg)
			}
			return fmt.Errorf("start quiz from topic poll in chat %d: %w", res.ChatID, err)
		}
		text := fmt.Sprintf("🚀 Quiz \"%s\" started: %d questions.", res.Topic.Name, len(res.Topic.Questions))
		return h.notifier.SendText(ctx, res.ChatID, text)
	}

	return err
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *PollAnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
