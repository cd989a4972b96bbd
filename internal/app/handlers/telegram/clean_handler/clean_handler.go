package clean_handler

import (
	"context"
	"log"

	ledgerService "github.com/IT-Nick/quizbot/internal/domain/ledger/service"
	"gopkg.in/telebot.v4"
)

// CleanHandler обработчик команд /clean и /clearchat
type CleanHandler struct {
	ledgerService *ledgerService.LedgerService
	logger        *log.Logger
}

// NewCleanHandler возвращает структуру обработчика
func NewCleanHandler(ledgerService *ledgerService.LedgerService, logger *log.Logger) *CleanHandler {
	return &CleanHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Handle удаляет все отправленные ботом вопросы в чате
func (h *CleanHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID

	res, err := h.ledgerService.FlushAndDelete(ctx, chatID)
	if err != nil {
		return err
	}
	// запись могла очистить отложенная задача
	if res.Attempted == 0 {
		return c.Send("⚠ No messages to clean.")
	}
	if res.Failed() > 0 {
		h.logger.Printf("Chat %d cleaned with %d failed deletions", chatID, res.Failed())
	}
	return c.Send("🧹 Chat cleaned!")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CleanHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
