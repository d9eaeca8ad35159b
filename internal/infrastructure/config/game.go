package config

import "time"

// GameConfig holds game server and session settings
type GameConfig struct {
	// BaseURL of the game server, e.g. https://s59-en.ikariam.gameforge.com
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// SessionCookie is the exported browser session used to authenticate.
	SessionCookie string `mapstructure:"session_cookie"`

	// RequestsPerSecond throttles outgoing calls to the game.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`

	// MaxRetries for transient transport failures.
	MaxRetries int `mapstructure:"max_retries" validate:"min=0,max=10"`

	// Timeout per request.
	Timeout time.Duration `mapstructure:"timeout"`
}
