package service

import (
	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// TopicIndex индекс тем, построенный один раз по загруженным вопросам
type TopicIndex struct {
	order  []string
	byCode map[string]*model.Topic
	byName map[string]string
}

// NewTopicIndex группирует вопросы по коду темы. Темы перечисляются в порядке первого появления.
func NewTopicIndex(questions []model.Question) *TopicIndex {
	idx := &TopicIndex{
		byCode: make(map[string]*model.Topic),
		byName: make(map[string]string),
	}

	for _, q := range questions {
		topic, ok := idx.byCode[q.TopicCode]
		if !ok {
			topic = &model.Topic{Code: q.TopicCode, Name: q.TopicName}
			idx.byCode[q.TopicCode] = topic
			idx.order = append(idx.order, q.TopicCode)
			if _, taken := idx.byName[q.TopicName]; !taken {
				idx.byName[q.TopicName] = q.TopicCode
			}
		}
		topic.Questions = append(topic.Questions, q)
	}

	return idx
}

// Topics возвращает темы в порядке первого появления в файле
func (idx *TopicIndex) Topics() []model.Topic {
	topics := make([]model.Topic, 0, len(idx.order))
	for _, code := range idx.order {
		topics = append(topics, idx.clone(idx.byCode[code]))
	}
	return topics
}

// Lookup ищет тему по точному совпадению кода, затем названия
func (idx *TopicIndex) Lookup(selector string) (model.Topic, bool) {
	if topic, ok := idx.byCode[selector]; ok {
		return idx.clone(topic), true
	}
	if code, ok := idx.byName[selector]; ok {
		return idx.clone(idx.byCode[code]), true
	}
	return model.Topic{}, false
}

// Len количество тем
func (idx *TopicIndex) Len() int {
	return len(idx.order)
}

func (idx *TopicIndex) clone(t *model.Topic) model.Topic {
	questions := make([]model.Question, len(t.Questions))
	copy(questions, t.Questions)
	return model.Topic{Code: t.Code, Name: t.Name, Questions: questions}
}
