package config

import "time"

// Default values for all configuration options
const (
	DefaultBaseURL           = "https://s1-en.ikariam.gameforge.com"
	DefaultRequestsPerSecond = 1.0
	DefaultMaxRetries        = 3
	DefaultTimeout           = 30 * time.Second

	DefaultCommitThreshold   = 0.20
	DefaultCitizenWaitFactor = 0.8
	DefaultSkewTolerance     = 1800
	DefaultOrderOverhead     = 10
	DefaultBalanceMoveChunk  = 10
	DefaultShortPollSecs     = 60
	DefaultLongPollSecs      = 300

	DefaultDatabasePath = "polisbot.db"
	DefaultLogLevel     = "info"
	DefaultPIDFile      = "/tmp/polisbot.pid"
)

// SetDefaults fills any zero-valued fields with the stock policy.
func SetDefaults(cfg *Config) {
	if cfg.Game.BaseURL == "" {
		cfg.Game.BaseURL = DefaultBaseURL
	}
	if cfg.Game.RequestsPerSecond == 0 {
		cfg.Game.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Game.MaxRetries == 0 {
		cfg.Game.MaxRetries = DefaultMaxRetries
	}
	if cfg.Game.Timeout == 0 {
		cfg.Game.Timeout = DefaultTimeout
	}

	if cfg.Recruitment.CommitThreshold == 0 {
		cfg.Recruitment.CommitThreshold = DefaultCommitThreshold
	}
	if cfg.Recruitment.CitizenWaitFactor == 0 {
		cfg.Recruitment.CitizenWaitFactor = DefaultCitizenWaitFactor
	}
	if cfg.Recruitment.SkewToleranceSecs == 0 {
		cfg.Recruitment.SkewToleranceSecs = DefaultSkewTolerance
	}
	if cfg.Recruitment.OrderOverheadSecs == 0 {
		cfg.Recruitment.OrderOverheadSecs = DefaultOrderOverhead
	}
	if cfg.Recruitment.BalanceMoveChunk == 0 {
		cfg.Recruitment.BalanceMoveChunk = DefaultBalanceMoveChunk
	}
	if cfg.Recruitment.ShortPollSecs == 0 {
		cfg.Recruitment.ShortPollSecs = DefaultShortPollSecs
	}
	if cfg.Recruitment.LongPollSecs == 0 {
		cfg.Recruitment.LongPollSecs = DefaultLongPollSecs
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.PIDFile == "" {
		cfg.PIDFile = DefaultPIDFile
	}
}
