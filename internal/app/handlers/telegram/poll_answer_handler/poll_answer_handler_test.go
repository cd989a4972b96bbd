package poll_answer_handler

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/telegramtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(env *telegramtest.Env) *PollAnswerHandler {
	return NewPollAnswerHandler(env.Quiz, env.Sender, log.New(io.Discard, "", 0))
}

func TestPollAnswerHandler_TopicSelectionStartsQuiz(t *testing.T) {
	env := telegramtest.NewEnv(telegramtest.Questions())
	h := newHandler(env)

	offered, err := env.Quiz.OfferTopics(context.Background(), 9)
	require.NoError(t, err)
	require.True(t, offered)

	// второй вариант: History
	require.NoError(t, h.GetHandlerFunc()(telegramtest.PollAnswerFrom(100, "topics-1", 1)))

	require.Len(t, env.Sender.Polls, 1)
	assert.Equal(t, "history", env.Sender.Polls[0].TopicCode)
	assert.Equal(t, []string{`🚀 Quiz "History" started: 1 questions.`}, env.Sender.Texts[9])
}

func TestPollAnswerHandler_TopicSelectionWhileRunning(t *testing.T) {
	env := telegramtest.NewEnv(telegramtest.Questions())
	h := newHandler(env)

	_, err := env.Quiz.OfferTopics(context.Background(), 9)
	require.NoError(t, err)
	_, err = env.Quiz.StartQuiz(context.Background(), 9, "math")
	require.NoError(t, err)

	require.NoError(t, h.Handle(telegramtest.PollAnswerFrom(100, "topics-1", 0)))
	require.Len(t, env.Sender.Texts[9], 1)
	assert.Contains(t, env.Sender.Texts[9][0], "already running")
}

func TestPollAnswerHandler_QuizAnswerCounted(t *testing.T) {
	env := telegramtest.NewEnv(telegramtest.Questions())
	h := newHandler(env)

	_, err := env.Quiz.StartQuiz(context.Background(), 9, "history")
	require.NoError(t, err)

	// правильный ответ на "Who wrote the Rigveda hymns?" - вариант 0
	require.NoError(t, h.Handle(telegramtest.PollAnswerFrom(100, "poll-1", 0)))

	session, ok := env.Sessions.Get(9)
	require.True(t, ok)
	assert.Equal(t, 1, session.Answered)
	assert.Equal(t, 1, session.Correct)
	assert.Empty(t, env.Sender.Texts[9])
}

func TestPollAnswerHandler_UnknownPollIgnored(t *testing.T) {
	env := telegramtest.NewEnv(telegramtest.Questions())
	h := newHandler(env)

	assert.NoError(t, h.Handle(telegramtest.PollAnswerFrom(100, "nope", 0)))
	assert.NoError(t, h.Handle(&telegramtest.Context{}))
	assert.Empty(t, env.Sender.Texts)
}
