package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/IT-Nick/quizbot/internal/domain/model"
	"gopkg.in/telebot.v4"
)

// TransportError ошибка обращения к Telegram API
type TransportError struct {
	Op     string
	ChatID int64
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("telegram %s (chat %d): %v", e.Op, e.ChatID, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsPermanent сообщает, что писать в чат больше нельзя: бот заблокирован, исключен из чата или чат не найден
func IsPermanent(err error) bool {
	if errors.Is(err, telebot.ErrChatNotFound) {
		return true
	}
	var apiErr *telebot.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden
}

// SentPoll данные отправленного опроса
type SentPoll struct {
	MessageID int
	PollID    string
}

// API часть *telebot.Bot, которая нужна клиенту
type API interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
	Delete(msg telebot.Editable) error
}

// Client отправляет опросы и сообщения, удаляет сообщения
type Client struct {
	api API
}

// NewClient создает клиент поверх бота
func NewClient(api API) *Client {
	return &Client{api: api}
}

// SendQuizPoll отправляет вопрос в виде неанонимной викторины с одним правильным ответом
func (c *Client) SendQuizPoll(ctx context.Context, chatID int64, q model.Question) (SentPoll, error) {
	const op = "sendQuizPoll"

	poll := &telebot.Poll{
		Type:          telebot.PollQuiz,
		Question:      q.Text,
		CorrectOption: q.Answer,
		Anonymous:     false,
	}
	poll.AddOptions(q.Options...)

	return c.sendPoll(ctx, op, chatID, poll)
}

// SendTopicPoll отправляет обычный опрос для выбора темы
func (c *Client) SendTopicPoll(ctx context.Context, chatID int64, question string, options []string) (SentPoll, error) {
	const op = "sendTopicPoll"

	poll := &telebot.Poll{
		Type:      telebot.PollRegular,
		Question:  question,
		Anonymous: false,
	}
	poll.AddOptions(options...)

	return c.sendPoll(ctx, op, chatID, poll)
}

func (c *Client) sendPoll(ctx context.Context, op string, chatID int64, poll *telebot.Poll) (SentPoll, error) {
	if err := ctx.Err(); err != nil {
		return SentPoll{}, &TransportError{Op: op, ChatID: chatID, Err: err}
	}

	msg, err := c.api.Send(telebot.ChatID(chatID), poll)
	if err != nil {
		return SentPoll{}, &TransportError{Op: op, ChatID: chatID, Err: err}
	}

	sent := SentPoll{MessageID: msg.ID}
	if msg.Poll != nil {
		sent.PollID = msg.Poll.ID
	}
	return sent, nil
}

// SendText отправляет текстовое сообщение
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	const op = "sendMessage"

	if err := ctx.Err(); err != nil {
		return &TransportError{Op: op, ChatID: chatID, Err: err}
	}
	if _, err := c.api.Send(telebot.ChatID(chatID), text); err != nil {
		return &TransportError{Op: op, ChatID: chatID, Err: err}
	}
	return nil
}

// DeleteMessage удаляет сообщение по ID
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	const op = "deleteMessage"

	if err := ctx.Err(); err != nil {
		return &TransportError{Op: op, ChatID: chatID, Err: err}
	}

	msg := telebot.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	if err := c.api.Delete(msg); err != nil {
		return &TransportError{Op: op, ChatID: chatID, Err: err}
	}
	return nil
}
