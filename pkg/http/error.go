package http

import (
	"encoding/json"
	"net/http"
)

// ErrorBody тело ответа с ошибкой
type ErrorBody struct {
	Error string `json:"error"`
}

// ErrorResponse отправляет ошибку в формате JSON
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: message})
}
