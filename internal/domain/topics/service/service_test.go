package service

import (
	"testing"

	"github.com/IT-Nick/quizbot/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func q(text, code, name string) model.Question {
	return model.Question{Text: text, Options: []string{"a", "b"}, TopicCode: code, TopicName: name}
}

func TestTopicIndex_FirstOccurrenceOrder(t *testing.T) {
	idx := NewTopicIndex([]model.Question{
		q("1", "math", "Math"),
		q("2", "history", "History"),
		q("3", "math", "Math"),
		q("4", "vaidik_samhita", "वैदिक संहिता"),
		q("5", "history", "History"),
	})

	topics := idx.Topics()
	require.Len(t, topics, 3)
	assert.Equal(t, []string{"math", "history", "vaidik_samhita"}, []string{topics[0].Code, topics[1].Code, topics[2].Code})
	assert.Len(t, topics[0].Questions, 2)
	assert.Len(t, topics[1].Questions, 2)
	assert.Equal(t, "वैदिक संहिता", topics[2].Name)
	assert.Equal(t, 3, idx.Len())
}

func TestTopicIndex_QuestionsKeepFileOrder(t *testing.T) {
	idx := NewTopicIndex([]model.Question{
		q("first", "math", "Math"),
		q("other", "history", "History"),
		q("second", "math", "Math"),
	})

	topic, ok := idx.Lookup("math")
	require.True(t, ok)
	assert.Equal(t, "first", topic.Questions[0].Text)
	assert.Equal(t, "second", topic.Questions[1].Text)
}

func TestTopicIndex_Lookup(t *testing.T) {
	idx := NewTopicIndex([]model.Question{
		q("1", "math", "Math"),
		q("2", "history", "History"),
	})

	byCode, ok := idx.Lookup("history")
	require.True(t, ok)
	assert.Equal(t, "History", byCode.Name)

	byName, ok := idx.Lookup("Math")
	require.True(t, ok)
	assert.Equal(t, "math", byName.Code)

	for _, selector := range []string{"", "MATH", "mat", "hist ory"} {
		_, ok := idx.Lookup(selector)
		assert.False(t, ok, "selector %q", selector)
	}
}

func TestTopicIndex_LookupReturnsCopy(t *testing.T) {
	idx := NewTopicIndex([]model.Question{q("1", "math", "Math")})

	topic, _ := idx.Lookup("math")
	topic.Questions[0].Text = "changed"

	again, _ := idx.Lookup("math")
	assert.Equal(t, "1", again.Questions[0].Text)
}

func TestTopicIndex_Empty(t *testing.T) {
	idx := NewTopicIndex(nil)

	assert.Empty(t, idx.Topics())
	_, ok := idx.Lookup("math")
	assert.False(t, ok)
}
