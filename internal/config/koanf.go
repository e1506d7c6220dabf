// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/promoscore/config.yaml",
	"/etc/promoscore/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. Detection, payout, pricing and
// finance values are the calibrated platform defaults.
func defaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			MeanNormalActivity:                10.0,
			StdDevNormalActivity:              2.0,
			DefaultMeasurementDurationMinutes: 1.0,
			MaxEvaluationRange:                31 * 24 * time.Hour,
		},
		Payout: PayoutConfig{
			RateFeePerActivity: 1.5,
		},
		Pricing: PricingConfig{
			CostPer1000RateUnits:                    10000,
			PrepaidCreditDiscountThresholdRateUnits: 10_000_000,
			PrepaidDiscountPercentage:               10,
			OverageFeeMultiplier:                    1.5,
		},
		Finance: FinanceConfig{
			PromoterWithdrawalPPHRate:                0.02,
			PromoterPlatformFeeRate:                  0.10,
			CreatorPlatformFeeRateOnAdvertiserBudget: 0.10,
		},
		Settlement: SettlementConfig{
			Enabled:       false,
			SweepInterval: 24 * time.Hour,
			Lookback:      24 * time.Hour,
			Workers:       4,
		},
		Gateway: GatewayConfig{
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
			BreakerInterval:    time.Minute,
		},
		Store: StoreConfig{
			Path:     "/data/promoscore",
			InMemory: false,
		},
		Server: ServerConfig{
			Port:    8480,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads defaults, then the config file, then the environment,
// and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in defaults without consulting file or environment.
func Default() *Config {
	return defaultConfig()
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma separated env values into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps flat environment variable names to koanf paths.
// Unmapped variables are dropped so unrelated environment does not leak in.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		"mean_normal_activity":                 "detection.mean_normal_activity",
		"std_dev_normal_activity":              "detection.std_dev_normal_activity",
		"default_measurement_duration_minutes": "detection.default_measurement_duration_minutes",
		"max_evaluation_range":                 "detection.max_evaluation_range",
		"detection_webhook_url":                "detection.webhook_url",

		"rate_fee_per_activity": "payout.rate_fee_per_activity",

		"cost_per_1000_rate_units":                     "pricing.cost_per_1000_rate_units",
		"prepaid_credit_discount_threshold_rate_units": "pricing.prepaid_credit_discount_threshold_rate_units",
		"prepaid_discount_percentage":                  "pricing.prepaid_discount_percentage",
		"overage_fee_multiplier":                       "pricing.overage_fee_multiplier",

		"promoter_withdrawal_pph_rate":                   "finance.promoter_withdrawal_pph_rate",
		"promoter_platform_fee_rate":                     "finance.promoter_platform_fee_rate",
		"creator_platform_fee_rate_on_advertiser_budget": "finance.creator_platform_fee_rate_on_advertiser_budget",

		"settlement_enabled":        "settlement.enabled",
		"settlement_sweep_interval": "settlement.sweep_interval",
		"settlement_lookback":       "settlement.lookback",
		"settlement_workers":        "settlement.workers",

		"gateway_breaker_max_failures": "gateway.breaker_max_failures",
		"gateway_breaker_timeout":      "gateway.breaker_timeout",
		"gateway_breaker_interval":     "gateway.breaker_interval",

		"store_path":      "store.path",
		"store_in_memory": "store.in_memory",

		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",

		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
