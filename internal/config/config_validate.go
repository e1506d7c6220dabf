// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomtom215/promoscore/internal/activity"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validatePayout(); err != nil {
		return err
	}
	if err := c.validatePricing(); err != nil {
		return err
	}
	if err := c.validateFinance(); err != nil {
		return err
	}
	if err := c.validateSettlement(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDetection() error {
	d := c.Detection
	if !isFinite(d.MeanNormalActivity) || d.MeanNormalActivity < 0 {
		return fmt.Errorf("MEAN_NORMAL_ACTIVITY must be a non-negative number, got %v", d.MeanNormalActivity)
	}
	if !isFinite(d.StdDevNormalActivity) || d.StdDevNormalActivity < 0 {
		return fmt.Errorf("STD_DEV_NORMAL_ACTIVITY must be a non-negative number, got %v", d.StdDevNormalActivity)
	}
	if !isFinite(d.DefaultMeasurementDurationMinutes) || d.DefaultMeasurementDurationMinutes <= 0 {
		return fmt.Errorf("DEFAULT_MEASUREMENT_DURATION_MINUTES must be positive, got %v", d.DefaultMeasurementDurationMinutes)
	}
	if d.MaxEvaluationRange <= 0 {
		return fmt.Errorf("MAX_EVALUATION_RANGE must be positive, got %s", d.MaxEvaluationRange)
	}
	step := time.Duration(d.DefaultMeasurementDurationMinutes * float64(time.Minute))
	if n := activity.WindowCount(d.MaxEvaluationRange, step); n > activity.MaxWindows {
		return fmt.Errorf("MAX_EVALUATION_RANGE of %s splits into %d windows, limit is %d", d.MaxEvaluationRange, n, activity.MaxWindows)
	}
	return nil
}

func (c *Config) validatePayout() error {
	if !isFinite(c.Payout.RateFeePerActivity) || c.Payout.RateFeePerActivity < 0 {
		return fmt.Errorf("RATE_FEE_PER_ACTIVITY must be non-negative, got %v", c.Payout.RateFeePerActivity)
	}
	return nil
}

func (c *Config) validatePricing() error {
	p := c.Pricing
	if !isFinite(p.CostPer1000RateUnits) || p.CostPer1000RateUnits < 0 {
		return fmt.Errorf("COST_PER_1000_RATE_UNITS must be non-negative, got %v", p.CostPer1000RateUnits)
	}
	if p.PrepaidCreditDiscountThresholdRateUnits < 0 {
		return fmt.Errorf("PREPAID_CREDIT_DISCOUNT_THRESHOLD_RATE_UNITS must be non-negative, got %d", p.PrepaidCreditDiscountThresholdRateUnits)
	}
	if p.PrepaidDiscountPercentage < 0 || p.PrepaidDiscountPercentage > 100 {
		return fmt.Errorf("PREPAID_DISCOUNT_PERCENTAGE must be between 0 and 100, got %v", p.PrepaidDiscountPercentage)
	}
	if !isFinite(p.OverageFeeMultiplier) || p.OverageFeeMultiplier < 0 {
		return fmt.Errorf("OVERAGE_FEE_MULTIPLIER must be non-negative, got %v", p.OverageFeeMultiplier)
	}
	return nil
}

func (c *Config) validateFinance() error {
	rates := map[string]float64{
		"PROMOTER_WITHDRAWAL_PPH_RATE":                   c.Finance.PromoterWithdrawalPPHRate,
		"PROMOTER_PLATFORM_FEE_RATE":                     c.Finance.PromoterPlatformFeeRate,
		"CREATOR_PLATFORM_FEE_RATE_ON_ADVERTISER_BUDGET": c.Finance.CreatorPlatformFeeRateOnAdvertiserBudget,
	}
	for name, rate := range rates {
		if !isFinite(rate) || rate < 0 {
			return fmt.Errorf("%s must be non-negative, got %v", name, rate)
		}
	}
	return nil
}

func (c *Config) validateSettlement() error {
	if !c.Settlement.Enabled {
		return nil
	}
	if c.Settlement.SweepInterval <= 0 {
		return fmt.Errorf("SETTLEMENT_SWEEP_INTERVAL must be positive when settlement is enabled")
	}
	if c.Settlement.Lookback <= 0 {
		return fmt.Errorf("SETTLEMENT_LOOKBACK must be positive when settlement is enabled")
	}
	if c.Settlement.Lookback > c.Detection.MaxEvaluationRange {
		return fmt.Errorf("SETTLEMENT_LOOKBACK %s exceeds MAX_EVALUATION_RANGE %s", c.Settlement.Lookback, c.Detection.MaxEvaluationRange)
	}
	if c.Settlement.Workers < 1 {
		return fmt.Errorf("SETTLEMENT_WORKERS must be at least 1, got %d", c.Settlement.Workers)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
