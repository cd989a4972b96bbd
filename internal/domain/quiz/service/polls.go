package service

import (
	"sync"

	"github.com/google/uuid"
)

type pollKind int

const (
	pollQuiz pollKind = iota + 1
	pollTopic
)

// pollRef связывает ID опроса Telegram с чатом. Ответы на опрос приходят без ID чата.
type pollRef struct {
	kind      pollKind
	chatID    int64
	sessionID uuid.UUID
	correct   int
	topics    []string
}

// pollRegistry индекс отправленных опросов
type pollRegistry struct {
	mu         sync.Mutex
	refs       map[string]pollRef
	topicPolls map[int64]string
}

func newPollRegistry() *pollRegistry {
	return &pollRegistry{
		refs:       make(map[string]pollRef),
		topicPolls: make(map[int64]string),
	}
}

func (r *pollRegistry) addQuiz(pollID string, chatID int64, sessionID uuid.UUID, correct int) {
	if pollID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs[pollID] = pollRef{kind: pollQuiz, chatID: chatID, sessionID: sessionID, correct: correct}
}

// addTopic запоминает опрос выбора темы. Предыдущий опрос выбора темы в чате забывается.
func (r *pollRegistry) addTopic(pollID string, chatID int64, topics []string) {
	if pollID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.topicPolls[chatID]; ok {
		delete(r.refs, old)
	}
	r.topicPolls[chatID] = pollID
	r.refs[pollID] = pollRef{kind: pollTopic, chatID: chatID, topics: topics}
}

func (r *pollRegistry) get(pollID string) (pollRef, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.refs[pollID]
	return ref, ok
}

func (r *pollRegistry) forgetSession(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ref := range r.refs {
		if ref.kind == pollQuiz && ref.sessionID == sessionID {
			delete(r.refs, id)
		}
	}
}

func (r *pollRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refs)
}
