package dto

import (
	"time"

	"github.com/IT-Nick/quizbot/internal/domain/model"
)

// ActiveSessionsResponse структура для отчета по активным викторинам
type ActiveSessionsResponse struct {
	Policy         string              `json:"policy"`
	TotalSessions  int                 `json:"total_sessions"`
	ActiveSessions []ActiveSessionInfo `json:"active_sessions"`
}

type ActiveSessionInfo struct {
	SessionID      string    `json:"session_id"`
	ChatID         int64     `json:"chat_id"`
	TopicCode      string    `json:"topic_code"`
	TopicName      string    `json:"topic_name"`
	Delivered      int       `json:"delivered"`
	TotalQuestions int       `json:"total_questions"`
	Answered       int       `json:"answered"`
	CorrectAnswers int       `json:"correct_answers"`
	StartedAt      time.Time `json:"started_at"`
}

// NewActiveSessionsResponse собирает отчет из снимка сессий
func NewActiveSessionsResponse(policy model.DeliveryPolicy, sessions []model.Session) ActiveSessionsResponse {
	resp := ActiveSessionsResponse{
		Policy:         string(policy),
		TotalSessions:  len(sessions),
		ActiveSessions: make([]ActiveSessionInfo, 0, len(sessions)),
	}
	for _, s := range sessions {
		resp.ActiveSessions = append(resp.ActiveSessions, ActiveSessionInfo{
			SessionID:      s.ID.String(),
			ChatID:         s.ChatID,
			TopicCode:      s.TopicCode,
			TopicName:      s.TopicName,
			Delivered:      s.Position,
			TotalQuestions: len(s.Questions),
			Answered:       s.Answered,
			CorrectAnswers: s.Correct,
			StartedAt:      s.StartedAt,
		})
	}
	return resp
}
