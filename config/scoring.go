package config

import (
	"errors"
	"os"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ScoringPolicy holds the COR composite weights and recommendation thresholds.
// The defaults are a reasonable policy, not a regulatory requirement; auditors
// can override them with a YAML file pointed to by SCORING_CONFIG.
type ScoringPolicy struct {
	// composite weights, must sum to 1
	OnTimeCompletionWeight float64 `yaml:"on_time_completion_weight"`
	PassRateWeight         float64 `yaml:"pass_rate_weight"`
	OnTimeCorrectionWeight float64 `yaml:"on_time_correction_weight"`

	// grace in days added to scheduledDate when judging on-time completion
	CompletionGraceDays int `yaml:"completion_grace_days"`

	// recommendation thresholds
	PassRateFloor      float64 `yaml:"pass_rate_floor"`
	ActivityWindowDays int     `yaml:"activity_window_days"`
}

func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		OnTimeCompletionWeight: 0.40,
		PassRateWeight:         0.30,
		OnTimeCorrectionWeight: 0.30,
		CompletionGraceDays:    0,
		PassRateFloor:          0.8,
		ActivityWindowDays:     30,
	}
}

func (p ScoringPolicy) OnTimeCompletionWeightDecimal() decimal.Decimal {
	return decimal.NewFromFloat(p.OnTimeCompletionWeight)
}

func (p ScoringPolicy) PassRateWeightDecimal() decimal.Decimal {
	return decimal.NewFromFloat(p.PassRateWeight)
}

func (p ScoringPolicy) OnTimeCorrectionWeightDecimal() decimal.Decimal {
	return decimal.NewFromFloat(p.OnTimeCorrectionWeight)
}

func (p ScoringPolicy) PassRateFloorDecimal() decimal.Decimal {
	return decimal.NewFromFloat(p.PassRateFloor)
}

var (
	scoringPolicy     ScoringPolicy
	scoringPolicyOnce sync.Once
)

// GetScoringPolicy returns the active scoring policy. The SCORING_CONFIG file
// is read once; a missing or unreadable file falls back to defaults.
func GetScoringPolicy() ScoringPolicy {
	scoringPolicyOnce.Do(func() {
		scoringPolicy = loadScoringPolicy()
	})
	return scoringPolicy
}

func loadScoringPolicy() ScoringPolicy {
	policy := DefaultScoringPolicy()

	path := os.Getenv("SCORING_CONFIG")
	if path == "" {
		return policy
	}

	data, err := os.ReadFile(path)
	if err != nil {
		LogError(GetLogger(), "scoring.go", "loadScoringPolicy", "ReadFile", path, err)
		return policy
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		LogError(GetLogger(), "scoring.go", "loadScoringPolicy", "yaml.Unmarshal", path, err)
		return DefaultScoringPolicy()
	}

	// A policy that does not sum to 1 would silently skew scores.
	sum := policy.OnTimeCompletionWeight + policy.PassRateWeight + policy.OnTimeCorrectionWeight
	if sum < 0.999 || sum > 1.001 {
		LogError(GetLogger(), "scoring.go", "loadScoringPolicy", "validate", sum, errors.New("scoring weights must sum to 1"))
		return DefaultScoringPolicy()
	}
	return policy
}
