package config

// RecruitmentConfig holds the planner and execution policy constants.
// The threshold and wait-factor values are long-standing heuristics
// (partial batching efficiency); they are exposed here rather than baked
// in, but the defaults are the tested behavior.
type RecruitmentConfig struct {
	// CommitThreshold is the fraction of a building's remaining order that
	// must be affordable before a partial order is submitted.
	CommitThreshold float64 `mapstructure:"commit_threshold" validate:"gt=0,lte=1"`

	// CitizenWaitFactor discounts citizen regrowth time in estimates,
	// mirroring that recruitment starts before the full deficit is covered.
	CitizenWaitFactor float64 `mapstructure:"citizen_wait_factor" validate:"gt=0,lte=1"`

	// SkewToleranceSecs is the acceptable completion spread between
	// buildings after balancing.
	SkewToleranceSecs int `mapstructure:"skew_tolerance_secs" validate:"min=0"`

	// OrderOverheadSecs is the per-order-line handling time the game adds.
	OrderOverheadSecs int `mapstructure:"order_overhead_secs" validate:"min=0"`

	// BalanceMoveChunk is the most units one balancing step moves.
	BalanceMoveChunk int `mapstructure:"balance_move_chunk" validate:"min=1"`

	// ShortPollSecs is the pause after a cycle that placed orders.
	ShortPollSecs int `mapstructure:"short_poll_secs" validate:"min=1"`

	// LongPollSecs is the backoff when no building met its threshold.
	LongPollSecs int `mapstructure:"long_poll_secs" validate:"min=1"`
}
