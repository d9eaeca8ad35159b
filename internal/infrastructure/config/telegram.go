package config

// TelegramConfig holds the notification bot settings. Both fields empty
// disables notifications entirely.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// Enabled reports whether notifications are configured.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}
