package health_handler

import (
	"encoding/json"
	"net/http"
)

// HealthResponse ответ проверки состояния
type HealthResponse struct {
	Status string `json:"status"`
	Topics int    `json:"topics"`
}

// HealthHandler отвечает, что процесс жив и вопросы загружены
type HealthHandler struct {
	topics func() int
}

// NewHealthHandler создает новый экземпляр обработчика
func NewHealthHandler(topics func() int) *HealthHandler {
	return &HealthHandler{topics: topics}
}

// ServeHTTP метод для обработки запроса
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Topics: h.topics()})
}
