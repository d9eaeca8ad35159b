package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avelardi/polisbot/internal/infrastructure/config"
)

// TelegramNotifier delivers run status messages to a Telegram chat.
// Delivery is best effort: callers log failures and carry on.
type TelegramNotifier struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
	chatID     string
}

func NewTelegramNotifier(cfg *config.TelegramConfig) *TelegramNotifier {
	return &TelegramNotifier{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://api.telegram.org",
		botToken:   cfg.BotToken,
		chatID:     cfg.ChatID,
	}
}

// Notify sends one text message.
func (n *TelegramNotifier) Notify(ctx context.Context, message string) error {
	if n.botToken == "" || n.chatID == "" {
		return nil
	}

	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", message)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram answered %d", resp.StatusCode)
	}
	return nil
}
