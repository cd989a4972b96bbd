package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/IT-Nick/quizbot/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v4"
)

type fakeAPI struct {
	sent    []interface{}
	to      []string
	deleted []telebot.Editable
	err     error
}

func (f *fakeAPI) Send(to telebot.Recipient, what interface{}, _ ...interface{}) (*telebot.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, what)
	f.to = append(f.to, to.Recipient())

	msg := &telebot.Message{ID: 100 + len(f.sent)}
	if _, ok := what.(*telebot.Poll); ok {
		msg.Poll = &telebot.Poll{ID: "poll-1"}
	}
	return msg, nil
}

func (f *fakeAPI) Delete(msg telebot.Editable) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, msg)
	return nil
}

func TestSendQuizPoll(t *testing.T) {
	api := &fakeAPI{}
	client := NewClient(api)

	sent, err := client.SendQuizPoll(context.Background(), 42, model.Question{
		Text:    "2+2?",
		Options: []string{"3", "4"},
		Answer:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, SentPoll{MessageID: 101, PollID: "poll-1"}, sent)
	assert.Equal(t, []string{"42"}, api.to)

	poll, ok := api.sent[0].(*telebot.Poll)
	require.True(t, ok)
	assert.Equal(t, telebot.PollQuiz, poll.Type)
	assert.Equal(t, "2+2?", poll.Question)
	assert.Equal(t, 1, poll.CorrectOption)
	assert.False(t, poll.Anonymous)
	require.Len(t, poll.Options, 2)
	assert.Equal(t, "4", poll.Options[1].Text)
}

func TestSendTopicPoll(t *testing.T) {
	api := &fakeAPI{}
	client := NewClient(api)

	_, err := client.SendTopicPoll(context.Background(), 1, "Choose a topic", []string{"Math", "History"})
	require.NoError(t, err)

	poll := api.sent[0].(*telebot.Poll)
	assert.Equal(t, telebot.PollRegular, poll.Type)
	assert.Len(t, poll.Options, 2)
}

func TestDeleteMessage(t *testing.T) {
	api := &fakeAPI{}
	client := NewClient(api)

	require.NoError(t, client.DeleteMessage(context.Background(), -100, 77))
	require.Len(t, api.deleted, 1)

	id, chatID := api.deleted[0].MessageSig()
	assert.Equal(t, "77", id)
	assert.Equal(t, int64(-100), chatID)
}

func TestErrorsAreTransportErrors(t *testing.T) {
	cause := errors.New("telegram: Forbidden: bot was blocked by the user (403)")
	client := NewClient(&fakeAPI{err: cause})
	ctx := context.Background()

	var transportErr *TransportError

	err := client.SendText(ctx, 5, "hi")
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "sendMessage", transportErr.Op)
	assert.Equal(t, int64(5), transportErr.ChatID)
	assert.ErrorIs(t, err, cause)

	_, err = client.SendQuizPoll(ctx, 5, model.Question{Text: "q", Options: []string{"a", "b"}})
	require.ErrorAs(t, err, &transportErr)

	err = client.DeleteMessage(ctx, 5, 1)
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "deleteMessage", transportErr.Op)
}

func TestCanceledContext(t *testing.T) {
	api := &fakeAPI{}
	client := NewClient(api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.SendText(ctx, 1, "hi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.sent)
}

func TestIsPermanent(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "blocked by user", err: telebot.ErrBlockedByUser, want: true},
		{name: "kicked from group", err: telebot.ErrKickedFromGroup, want: true},
		{name: "chat not found", err: telebot.ErrChatNotFound, want: true},
		{name: "too many requests", err: telebot.NewError(429, "Too Many Requests"), want: false},
		{name: "network", err: errors.New("connection reset"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.err
			if err != nil {
				err = &TransportError{Op: "sendQuizPoll", ChatID: 1, Err: err}
			}
			assert.Equal(t, tt.want, IsPermanent(err))
		})
	}
}
