package middleware

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/IT-Nick/quizbot/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func newContext(t *testing.T) tele.Context {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	return bot.NewContext(tele.Update{ID: 42, Message: &tele.Message{Text: "/start"}})
}

func TestRecover(t *testing.T) {
	var recovered error
	h := Recover(func(err error, _ tele.Context) { recovered = err })(func(tele.Context) error {
		panic("boom")
	})

	err := h(newContext(t))
	require.EqualError(t, err, "boom")
	assert.EqualError(t, recovered, "boom")
}

func TestRecover_PassThrough(t *testing.T) {
	want := errors.New("handler failed")
	h := Recover()(func(tele.Context) error { return want })

	assert.ErrorIs(t, h(newContext(t)), want)
}

func TestErrors(t *testing.T) {
	var buf bytes.Buffer
	h := Errors(log.New(&buf, "", 0))(func(tele.Context) error { return errors.New("no luck") })

	assert.NoError(t, h(newContext(t)))
	assert.Contains(t, buf.String(), "Update 42 failed: no luck")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	called := false
	h := Logger(log.New(&buf, "", 0))(func(tele.Context) error {
		called = true
		return nil
	})

	require.NoError(t, h(newContext(t)))
	assert.True(t, called)
	assert.Contains(t, buf.String(), `"update_id": 42`)
}

func TestDebugUserActions(t *testing.T) {
	var buf bytes.Buffer
	bot, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)

	c := bot.NewContext(tele.Update{ID: 7, Message: &tele.Message{
		Text:   "/quiz math",
		Chat:   &tele.Chat{ID: 5},
		Sender: &tele.User{ID: 9, FirstName: "Ann"},
	}})

	lookup := func(chatID int64) (model.Session, bool) {
		if chatID != 5 {
			return model.Session{}, false
		}
		return model.Session{TopicCode: "math", Position: 1, Questions: make([]model.Question, 3)}, true
	}

	want := errors.New("handler failed")
	h := DebugUserActions(log.New(&buf, "", 0), lookup)(func(tele.Context) error { return want })

	assert.ErrorIs(t, h(c), want)
	assert.Contains(t, buf.String(), "DEBUG: User: Ann (ID: 9), Quiz: math 1/3, Action: Message: /quiz math")
}
