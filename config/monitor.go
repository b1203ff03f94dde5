package config

import (
	"fmt"
	"time"
)

// MonitorConfig configures metrics collection and alerting
type MonitorConfig struct {
	// CollectionInterval is how often a metrics sample is taken
	CollectionInterval time.Duration `yaml:"collection_interval"`

	// HistoryCapacity bounds the in-memory sample ring. At the default
	// 60s interval 1440 samples cover 24 hours.
	HistoryCapacity int `yaml:"history_capacity"`

	// AlertRetention is how long resolved alerts are kept for queries
	AlertRetention time.Duration `yaml:"alert_retention"`

	// AlertDedupInterval suppresses repeats of the same alert type and level
	AlertDedupInterval time.Duration `yaml:"alert_dedup_interval"`
}

// DefaultMonitorConfig returns monitor defaults
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		CollectionInterval: 60 * time.Second,
		HistoryCapacity:    1440,
		AlertRetention:     time.Hour,
		AlertDedupInterval: 5 * time.Minute,
	}
}

func (c *MonitorConfig) Validate() error {
	if c.CollectionInterval <= 0 {
		return fmt.Errorf("collection_interval must be greater than 0, got %v", c.CollectionInterval)
	}
	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("history_capacity must be greater than 0, got %d", c.HistoryCapacity)
	}
	if c.AlertRetention <= 0 {
		return fmt.Errorf("alert_retention must be greater than 0, got %v", c.AlertRetention)
	}
	if c.AlertDedupInterval <= 0 {
		return fmt.Errorf("alert_dedup_interval must be greater than 0, got %v", c.AlertDedupInterval)
	}
	return nil
}
