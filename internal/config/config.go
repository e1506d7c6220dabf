// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package config loads Promoscore configuration with Koanf.
//
// Sources are layered in order of increasing priority:
//
//  1. Struct defaults (defaultConfig)
//  2. YAML file (CONFIG_PATH, config.yaml, /etc/promoscore/config.yaml)
//  3. Environment variables (legacy flat names, see envTransformFunc)
//
// The loaded Config is validated once and then passed explicitly into each
// component constructor; nothing in the scoring or money paths reads
// configuration from package state.
package config

import "time"

// Config is the complete service configuration.
type Config struct {
	Detection  DetectionConfig  `koanf:"detection"`
	Payout     PayoutConfig     `koanf:"payout"`
	Pricing    PricingConfig    `koanf:"pricing"`
	Finance    FinanceConfig    `koanf:"finance"`
	Settlement SettlementConfig `koanf:"settlement"`
	Gateway    GatewayConfig    `koanf:"gateway"`
	Store      StoreConfig      `koanf:"store"`
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// DetectionConfig holds the normal-activity baseline.
type DetectionConfig struct {
	// MeanNormalActivity is μ, the mean per-minute activity rate of a normal user.
	MeanNormalActivity float64 `koanf:"mean_normal_activity"`

	// StdDevNormalActivity is σ, the standard deviation of that rate.
	StdDevNormalActivity float64 `koanf:"std_dev_normal_activity"`

	// DefaultMeasurementDurationMinutes is T, the window length used when
	// splitting a session into per-window rates.
	DefaultMeasurementDurationMinutes float64 `koanf:"default_measurement_duration_minutes"`

	// MaxEvaluationRange bounds the [start, cutoff) range of a single
	// evaluation or settlement.
	MaxEvaluationRange time.Duration `koanf:"max_evaluation_range"`

	// WebhookURL receives block and audit notifications when set.
	WebhookURL string `koanf:"webhook_url"`
}

// PayoutConfig holds the daily payout fee.
type PayoutConfig struct {
	RateFeePerActivity float64 `koanf:"rate_fee_per_activity"`
}

// PricingConfig holds usage pricing parameters.
type PricingConfig struct {
	CostPer1000RateUnits                    float64 `koanf:"cost_per_1000_rate_units"`
	PrepaidCreditDiscountThresholdRateUnits int64   `koanf:"prepaid_credit_discount_threshold_rate_units"`
	PrepaidDiscountPercentage               float64 `koanf:"prepaid_discount_percentage"`
	OverageFeeMultiplier                    float64 `koanf:"overage_fee_multiplier"`
}

// FinanceConfig holds withdrawal and advertiser budget rates.
type FinanceConfig struct {
	PromoterWithdrawalPPHRate                float64 `koanf:"promoter_withdrawal_pph_rate"`
	PromoterPlatformFeeRate                  float64 `koanf:"promoter_platform_fee_rate"`
	CreatorPlatformFeeRateOnAdvertiserBudget float64 `koanf:"creator_platform_fee_rate_on_advertiser_budget"`
}

// SettlementConfig controls the periodic settlement sweep.
type SettlementConfig struct {
	Enabled       bool          `koanf:"enabled"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	Lookback      time.Duration `koanf:"lookback"`
	Workers       int           `koanf:"workers"`
}

// GatewayConfig controls the payment gateway circuit breaker.
type GatewayConfig struct {
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
	BreakerInterval    time.Duration `koanf:"breaker_interval"`
}

// StoreConfig selects where activity events and advertiser budgets live.
type StoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecurityConfig holds request rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}
