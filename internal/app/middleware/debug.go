package middleware

import (
	"fmt"
	"log"

	"github.com/IT-Nick/quizbot/internal/domain/model"
	tele "gopkg.in/telebot.v4"
)

// SessionLookup возвращает активную сессию чата
type SessionLookup func(chatID int64) (model.Session, bool)

// DebugUserActions после обработки обновления пишет в лог, кто и что сделал
// и в каком состоянии викторина чата.
func DebugUserActions(logger *log.Logger, sessions SessionLookup) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			err := next(c)

			var action string
			if msg := c.Message(); msg != nil {
				action = "Message: " + msg.Text
			} else if pa := c.PollAnswer(); pa != nil {
				action = fmt.Sprintf("PollAnswer: %s %v", pa.PollID, pa.Options)
			} else {
				action = "Unknown action"
			}

			state := "idle"
			if chat := c.Chat(); chat != nil {
				if s, ok := sessions(chat.ID); ok {
					state = fmt.Sprintf("%s %d/%d", s.TopicCode, s.Position, len(s.Questions))
				}
			}

			var userID int64
			var name string
			if user := c.Sender(); user != nil {
				userID, name = user.ID, user.FirstName
			}

			logger.Printf("DEBUG: User: %s (ID: %d), Quiz: %s, Action: %s", name, userID, state, action)
			return err
		}
	}
}
