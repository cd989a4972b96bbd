package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	ledgerService "github.com/IT-Nick/quizbot/internal/domain/ledger/service"
	"github.com/IT-Nick/quizbot/internal/domain/model"
	"github.com/IT-Nick/quizbot/internal/domain/sessions/repository"
	topicsService "github.com/IT-Nick/quizbot/internal/domain/topics/service"
	"github.com/IT-Nick/quizbot/internal/infra/telegram"
)

const (
	DefaultQuestionInterval = 30 * time.Second
	DefaultMessageRetention = 15 * time.Minute

	// callbackTimeout ограничивает один вызов из планировщика
	callbackTimeout = 30 * time.Second

	// Telegram принимает в опросе от 2 до 10 вариантов
	minPollOptions = 2
	maxPollOptions = 10

	topicPollQuestion = "Choose a quiz topic"
)

// Sender исходящие операции Telegram
type Sender interface {
	SendQuizPoll(ctx context.Context, chatID int64, q model.Question) (telegram.SentPoll, error)
	SendTopicPoll(ctx context.Context, chatID int64, question string, options []string) (telegram.SentPoll, error)
	SendText(ctx context.Context, chatID int64, text string) error
}

// Scheduler планировщик задач в разрезе чатов
type Scheduler interface {
	Every(chatID int64, interval time.Duration, job func())
	After(chatID int64, delay time.Duration, job func())
	Cancel(chatID int64) bool
}

// Options настройки викторины
type Options struct {
	Policy           model.DeliveryPolicy
	QuestionInterval time.Duration
	MessageRetention time.Duration
	// Rand источник случайности для PolicyRandom. По умолчанию случайный seed.
	Rand   *rand.Rand
	Logger *log.Logger
}

// QuizService машина состояний викторины: Idle -> Running -> Completed -> Idle
type QuizService struct {
	topics    *topicsService.TopicIndex
	sessions  *repository.SessionRepository
	ledger    *ledgerService.LedgerService
	sender    Sender
	scheduler Scheduler

	policy    model.DeliveryPolicy
	interval  time.Duration
	retention time.Duration
	logger    *log.Logger

	randMu sync.Mutex
	rand   *rand.Rand

	locks chatLocks
	polls *pollRegistry
}

// NewQuizService создает новый экземпляр QuizService
func NewQuizService(
	topics *topicsService.TopicIndex,
	sessions *repository.SessionRepository,
	ledger *ledgerService.LedgerService,
	sender Sender,
	scheduler Scheduler,
	opts Options,
) *QuizService {
	if opts.Policy == "" {
		opts.Policy = model.PolicySequential
	}
	if opts.QuestionInterval <= 0 {
		opts.QuestionInterval = DefaultQuestionInterval
	}
	if opts.MessageRetention <= 0 {
		opts.MessageRetention = DefaultMessageRetention
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &QuizService{
		topics:    topics,
		sessions:  sessions,
		ledger:    ledger,
		sender:    sender,
		scheduler: scheduler,
		policy:    opts.Policy,
		interval:  opts.QuestionInterval,
		retention: opts.MessageRetention,
		logger:    opts.Logger,
		rand:      opts.Rand,
		polls:     newPollRegistry(),
	}
}

// Topics возвращает темы в порядке первого появления
func (s *QuizService) Topics() []model.Topic {
	return s.topics.Topics()
}

// ActiveSessions снимок активных сессий
func (s *QuizService) ActiveSessions() []model.Session {
	return s.sessions.List()
}

// Policy текущая политика выдачи вопросов
func (s *QuizService) Policy() model.DeliveryPolicy {
	return s.policy
}

// StartQuiz начинает викторину по теме (код или название), сразу отправляет первый вопрос
// и ставит периодическую выдачу следующих.
func (s *QuizService) StartQuiz(ctx context.Context, chatID int64, selector string) (model.Topic, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return model.Topic{}, ErrNoArguments
	}

	topic, ok := s.topics.Lookup(selector)
	if !ok {
		return model.Topic{}, fmt.Errorf("%w: %q", ErrUnknownTopic, selector)
	}

	unlock := s.locks.lock(chatID)
	defer unlock()

	session := model.NewSession(chatID, topic)
	if !s.sessions.Create(*session) {
		return model.Topic{}, ErrAlreadyRunning
	}

	if err := s.deliverLocked(ctx, chatID); err != nil {
		s.sessions.Delete(chatID)
		s.polls.forgetSession(session.ID)
		return model.Topic{}, fmt.Errorf("failed to deliver first question: %w", err)
	}

	s.scheduler.Every(chatID, s.interval, func() { s.tick(chatID) })
	s.logger.Printf("Quiz %s started in chat %d: topic %s, %d questions, policy %s",
		session.ID, chatID, topic.Code, len(topic.Questions), s.policy)

	return topic, nil
}

// DeliverNext выдает следующий вопрос или завершает викторину.
// Если сессии уже нет (викторину остановили), ничего не делает.
func (s *QuizService) DeliverNext(ctx context.Context, chatID int64) error {
	unlock := s.locks.lock(chatID)
	defer unlock()
	return s.deliverLocked(ctx, chatID)
}

// StopQuiz останавливает викторину и отменяет периодическую выдачу
func (s *QuizService) StopQuiz(_ context.Context, chatID int64) error {
	unlock := s.locks.lock(chatID)
	defer unlock()

	session, ok := s.sessions.Get(chatID)
	if !ok {
		return ErrNoActiveQuiz
	}

	s.endLocked(session)
	s.logger.Printf("Quiz %s stopped in chat %d at question %d/%d", session.ID, chatID, session.Position, len(session.Questions))
	return nil
}

func (s *QuizService) tick(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	if err := s.DeliverNext(ctx, chatID); err != nil {
		s.logger.Printf("Scheduled delivery failed for chat %d: %v", chatID, err)
	}
}

func (s *QuizService) deliverLocked(ctx context.Context, chatID int64) error {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return nil
	}

	if session.Done() {
		return s.completeLocked(ctx, session)
	}

	question := s.pick(session)
	sent, err := s.sender.SendQuizPoll(ctx, chatID, question)
	if err != nil {
		if telegram.IsPermanent(err) {
			s.endLocked(session)
			return fmt.Errorf("chat unreachable, quiz %s ended: %w", session.ID, err)
		}
		// вопрос не повторяется: следующий тик выдаст следующий или завершит викторину
		session.Position++
		s.sessions.Set(session)
		return fmt.Errorf("failed to send question %d, skipped: %w", session.Position, err)
	}

	session.Position++
	s.sessions.Set(session)
	s.polls.addQuiz(sent.PollID, chatID, session.ID, question.Answer)

	if err := s.ledger.RecordSent(ctx, chatID, sent.MessageID); err != nil {
		s.logger.Printf("Failed to record message %d in chat %d: %v", sent.MessageID, chatID, err)
	}
	s.scheduler.After(chatID, s.retention, func() { s.cleanup(chatID) })

	return nil
}

func (s *QuizService) completeLocked(ctx context.Context, session model.Session) error {
	s.endLocked(session)
	s.logger.Printf("Quiz %s completed in chat %d: %d/%d correct", session.ID, session.ChatID, session.Correct, session.Answered)

	if err := s.sender.SendText(ctx, session.ChatID, CompletionText(session)); err != nil {
		return fmt.Errorf("failed to send completion message: %w", err)
	}
	return nil
}

// endLocked удаляет сессию, ее периодическую задачу и опросы
func (s *QuizService) endLocked(session model.Session) {
	s.sessions.Delete(session.ChatID)
	s.scheduler.Cancel(session.ChatID)
	s.polls.forgetSession(session.ID)
}

// pick выбирает вопрос по политике выдачи
func (s *QuizService) pick(session model.Session) model.Question {
	if s.policy == model.PolicyRandom {
		s.randMu.Lock()
		i := s.rand.IntN(len(session.Questions))
		s.randMu.Unlock()
		return session.Questions[i]
	}
	return session.Questions[session.Position]
}

func (s *QuizService) cleanup(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	res, err := s.ledger.FlushAndDelete(ctx, chatID)
	if err != nil {
		s.logger.Printf("Scheduled cleanup failed for chat %d: %v", chatID, err)
		return
	}
	if res.Attempted > 0 {
		s.logger.Printf("Cleaned chat %d: %d/%d messages deleted", chatID, res.Deleted, res.Attempted)
	}
}

// OfferTopics отправляет опрос выбора темы. Возвращает false, если тем меньше двух или больше десяти.
func (s *QuizService) OfferTopics(ctx context.Context, chatID int64) (bool, error) {
	topics := s.topics.Topics()
	if len(topics) < minPollOptions || len(topics) > maxPollOptions {
		return false, nil
	}

	names := make([]string, 0, len(topics))
	codes := make([]string, 0, len(topics))
	for _, t := range topics {
		names = append(names, t.Name)
		codes = append(codes, t.Code)
	}

	sent, err := s.sender.SendTopicPoll(ctx, chatID, topicPollQuestion, names)
	if err != nil {
		return false, fmt.Errorf("failed to send topic poll: %w", err)
	}
	s.polls.addTopic(sent.PollID, chatID, codes)
	return true, nil
}

// PollAnswer ответ пользователя на опрос
type PollAnswer struct {
	PollID  string
	UserID  int64
	Options []int
}

// AnswerKind тип обработанного ответа
type AnswerKind int

const (
	AnswerIgnored AnswerKind = iota
	AnswerQuiz
	AnswerTopic
)

// AnswerResult результат обработки ответа на опрос
type AnswerResult struct {
	Kind    AnswerKind
	ChatID  int64
	Correct bool
	Topic   model.Topic
}

// HandlePollAnswer засчитывает ответ на вопрос викторины или запускает викторину по выбранной теме
func (s *QuizService) HandlePollAnswer(ctx context.Context, answer PollAnswer) (AnswerResult, error) {
	ref, ok := s.polls.get(answer.PollID)
	// пустой список вариантов: пользователь отозвал голос
	if !ok || len(answer.Options) == 0 {
		return AnswerResult{Kind: AnswerIgnored}, nil
	}

	switch ref.kind {
	case pollQuiz:
		return s.recordQuizAnswer(ref, answer), nil
	case pollTopic:
		choice := answer.Options[0]
		if choice < 0 || choice >= len(ref.topics) {
			return AnswerResult{Kind: AnswerIgnored}, nil
		}
		topic, err := s.StartQuiz(ctx, ref.chatID, ref.topics[choice])
		if err != nil {
			return AnswerResult{Kind: AnswerTopic, ChatID: ref.chatID}, err
		}
		return AnswerResult{Kind: AnswerTopic, ChatID: ref.chatID, Topic: topic}, nil
	}

	return AnswerResult{Kind: AnswerIgnored}, nil
}

func (s *QuizService) recordQuizAnswer(ref pollRef, answer PollAnswer) AnswerResult {
	unlock := s.locks.lock(ref.chatID)
	defer unlock()

	session, ok := s.sessions.Get(ref.chatID)
	if !ok || session.ID != ref.sessionID {
		return AnswerResult{Kind: AnswerIgnored}
	}

	correct := answer.Options[0] == ref.correct
	session.Answered++
	if correct {
		session.Correct++
	}
	s.sessions.Set(session)

	return AnswerResult{Kind: AnswerQuiz, ChatID: ref.chatID, Correct: correct}
}

// CompletionText текст сообщения о завершении викторины.
// В группе на один вопрос голосуют несколько участников, поэтому считаются голоса, а не вопросы.
func CompletionText(session model.Session) string {
	text := "✅ Quiz Completed!"
	if session.Answered > 0 {
		text += fmt.Sprintf("\nCorrect votes: %d of %d", session.Correct, session.Answered)
	}
	return text
}

// IsUserError ошибки ввода пользователя, о которых сообщаем в чат, а не в лог
func IsUserError(err error) bool {
	return errors.Is(err, ErrNoArguments) ||
		errors.Is(err, ErrUnknownTopic) ||
		errors.Is(err, ErrAlreadyRunning) ||
		errors.Is(err, ErrNoActiveQuiz)
}
