// Package telegramtest содержит заглушки для тестов обработчиков Telegram.
package telegramtest

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	ledgerRepo "github.com/IT-Nick/quizbot/internal/domain/ledger/repository"
	ledgerService "github.com/IT-Nick/quizbot/internal/domain/ledger/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
	quizService "github.com/IT-Nick/quizbot/internal/domain/quiz/service"
	"github.com/IT-Nick/quizbot/internal/domain/sessions/repository"
	topicsService "github.com/IT-Nick/quizbot/internal/domain/topics/service"
	"github.com/IT-Nick/quizbot/internal/infra/telegram"
	"gopkg.in/telebot.v4"
)

// Context реализует telebot.Context для команд и ответов на опросы.
// Непереопределенные методы паникуют через nil-интерфейс.
type Context struct {
	telebot.Context

	ChatID  int64
	MsgText string
	PollAns *telebot.PollAnswer

	Replies []string
}

// Command создает контекст команды в чате
func Command(chatID int64, text string) *Context {
	return &Context{ChatID: chatID, MsgText: text}
}

// PollAnswerFrom создает контекст ответа на опрос
func PollAnswerFrom(userID int64, pollID string, options ...int) *Context {
	return &Context{PollAns: &telebot.PollAnswer{
		PollID:  pollID,
		Sender:  &telebot.User{ID: userID},
		Options: options,
	}}
}

func (c *Context) Chat() *telebot.Chat {
	if c.PollAns != nil {
		return nil
	}
	return &telebot.Chat{ID: c.ChatID}
}

func (c *Context) Sender() *telebot.User {
	if c.PollAns != nil {
		return c.PollAns.Sender
	}
	return &telebot.User{ID: c.ChatID}
}

func (c *Context) Message() *telebot.Message {
	if c.PollAns != nil {
		return nil
	}
	return &telebot.Message{Text: c.MsgText, Chat: c.Chat()}
}

func (c *Context) Args() []string {
	fields := strings.Fields(c.MsgText)
	if len(fields) <= 1 {
		return []string{}
	}
	return fields[1:]
}

func (c *Context) PollAnswer() *telebot.PollAnswer {
	return c.PollAns
}

func (c *Context) Send(what interface{}, _ ...interface{}) error {
	c.Replies = append(c.Replies, fmt.Sprint(what))
	return nil
}

func (c *Context) Reply(what interface{}, opts ...interface{}) error {
	return c.Send(what, opts...)
}

// Sender заглушка исходящих операций Telegram
type Sender struct {
	mu      sync.Mutex
	Polls   []model.Question
	Topics  [][]string
	Texts   map[int64][]string
	Deleted []int
	FailAll bool
	nextID  int
}

func NewSender() *Sender {
	return &Sender{Texts: make(map[int64][]string)}
}

func (s *Sender) fail(op string, chatID int64) error {
	return &telegram.TransportError{Op: op, ChatID: chatID, Err: fmt.Errorf("telegram unavailable")}
}

func (s *Sender) SendQuizPoll(_ context.Context, chatID int64, q model.Question) (telegram.SentPoll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return telegram.SentPoll{}, s.fail("sendQuizPoll", chatID)
	}
	s.nextID++
	s.Polls = append(s.Polls, q)
	return telegram.SentPoll{MessageID: s.nextID, PollID: fmt.Sprintf("poll-%d", s.nextID)}, nil
}

func (s *Sender) SendTopicPoll(_ context.Context, chatID int64, _ string, options []string) (telegram.SentPoll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return telegram.SentPoll{}, s.fail("sendTopicPoll", chatID)
	}
	s.nextID++
	s.Topics = append(s.Topics, options)
	return telegram.SentPoll{MessageID: s.nextID, PollID: fmt.Sprintf("topics-%d", s.nextID)}, nil
}

func (s *Sender) SendText(_ context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return s.fail("sendMessage", chatID)
	}
	s.Texts[chatID] = append(s.Texts[chatID], text)
	return nil
}

func (s *Sender) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return s.fail("deleteMessage", chatID)
	}
	s.Deleted = append(s.Deleted, messageID)
	return nil
}

// Scheduler заглушка планировщика, задачи не запускаются
type Scheduler struct {
	mu        sync.Mutex
	Repeating map[int64]func()
	Once      []func()
}

func NewScheduler() *Scheduler {
	return &Scheduler{Repeating: make(map[int64]func())}
}

func (s *Scheduler) Every(chatID int64, _ time.Duration, job func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Repeating[chatID] = job
}

func (s *Scheduler) After(_ int64, _ time.Duration, job func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Once = append(s.Once, job)
}

func (s *Scheduler) Cancel(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Repeating[chatID]
	delete(s.Repeating, chatID)
	return ok
}

// Env собранные сервисы поверх заглушек
type Env struct {
	Quiz      *quizService.QuizService
	Ledger    *ledgerService.LedgerService
	Sessions  *repository.SessionRepository
	Sender    *Sender
	Scheduler *Scheduler
}

// NewEnv собирает сервисы викторины с заглушками транспорта и планировщика
func NewEnv(questions []model.Question) *Env {
	logger := log.New(io.Discard, "", 0)
	sender := NewSender()
	scheduler := NewScheduler()
	sessions := repository.NewSessionRepository()
	ledger := ledgerService.NewLedgerService(ledgerRepo.NewMemoryRepository(), sender, logger)

	quiz := quizService.NewQuizService(topicsService.NewTopicIndex(questions), sessions, ledger, sender, scheduler, quizService.Options{
		Logger: logger,
	})

	return &Env{Quiz: quiz, Ledger: ledger, Sessions: sessions, Sender: sender, Scheduler: scheduler}
}

// Questions набор из двух тем для тестов
func Questions() []model.Question {
	return []model.Question{
		{Text: "2+2?", Options: []string{"3", "4"}, Answer: 1, TopicCode: "math", TopicName: "Math"},
		{Text: "Who wrote the Rigveda hymns?", Options: []string{"Rishis", "Kings"}, Answer: 0, TopicCode: "history", TopicName: "History"},
		{Text: "3*3?", Options: []string{"9", "6"}, Answer: 0, TopicCode: "math", TopicName: "Math"},
	}
}
