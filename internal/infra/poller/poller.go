package poller

import (
	"fmt"

	"github.com/IT-Nick/quizbot/internal/infra/config"
	"gopkg.in/telebot.v4"
)

// NewPoller создаёт Poller в зависимости от режима.
func NewPoller(cfg *config.Config) (telebot.Poller, error) {
	switch cfg.TelegramBot.Mode {
	case "webhook":
		if cfg.TelegramBot.WebhookURL == "" {
			return nil, fmt.Errorf("webhook mode requires WEBHOOK_URL")
		}
		return &telebot.Webhook{
			Listen: cfg.TelegramBot.ListenAddr,
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: cfg.TelegramBot.WebhookURL,
			},
			AllowedUpdates: allowedUpdates,
		}, nil
	case "polling", "":
		return &telebot.LongPoller{
			Timeout:        cfg.TelegramBot.PollTimeout,
			AllowedUpdates: allowedUpdates,
		}, nil
	}
	return nil, fmt.Errorf("unknown bot mode %q", cfg.TelegramBot.Mode)
}

// allowedUpdates ответы на опросы Telegram по умолчанию не присылает
var allowedUpdates = []string{"message", "poll_answer"}
