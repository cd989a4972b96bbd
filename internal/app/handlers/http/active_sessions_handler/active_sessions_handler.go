package active_sessions_handler

import (
	"encoding/json"
	"net/http"

	"github.com/IT-Nick/quizbot/internal/domain/dto"
	quizService "github.com/IT-Nick/quizbot/internal/domain/quiz/service"
	httpError "github.com/IT-Nick/quizbot/pkg/http"
)

// ActiveSessionsHandler структура для обработчика
type ActiveSessionsHandler struct {
	quizService *quizService.QuizService
}

// NewActiveSessionsHandler создает новый экземпляр обработчика
func NewActiveSessionsHandler(quizService *quizService.QuizService) *ActiveSessionsHandler {
	return &ActiveSessionsHandler{quizService: quizService}
}

// ServeHTTP метод для обработки запроса
func (h *ActiveSessionsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	// Формируем отчет по снимку активных сессий
	response := dto.NewActiveSessionsResponse(h.quizService.Policy(), h.quizService.ActiveSessions())

	body, err := json.Marshal(response)
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
