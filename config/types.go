package config

// ServerConfig contains the metrics/health HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// EnturConfig contains the journey-planner GraphQL endpoint configuration
type EnturConfig struct {
	APIURL             string   `yaml:"apiURL" validate:"omitempty,url"`
	ClientName         string   `yaml:"clientName" validate:"required"`
	StopPlaceID        string   `yaml:"stopPlaceID" validate:"required"`
	TimeRangeSeconds   int      `yaml:"timeRangeSeconds" validate:"gte=0"`
	NumberOfDepartures int      `yaml:"numberOfDepartures" validate:"gte=0"`
	TimeoutMS          int      `yaml:"timeoutMS" validate:"gte=0"`
	MaxRetries         int      `yaml:"maxRetries" validate:"gte=0"`
	LineFilter         []string `yaml:"lineFilter"`
	RealtimeOnly       *bool    `yaml:"realtimeOnly"`
}

// DatabaseConfig contains the Postgres connection configuration
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ScheduleConfig contains the daily collection window.
// Start/End use "HH:MM"; an End before Start rolls over to the next day.
// Empty Start and End means collect at the interval until stopped.
type ScheduleConfig struct {
	Start           string `yaml:"start"`
	End             string `yaml:"end"`
	IntervalSeconds int    `yaml:"intervalSeconds" validate:"gte=0"`
}

// ArchiveConfig contains raw snapshot archiving configuration
type ArchiveConfig struct {
	Enabled      bool   `yaml:"enabled"`
	RawDir       string `yaml:"rawDir"`
	ProcessedDir string `yaml:"processedDir"`
}

// RedisConfig contains the optional live fan-out channel.
// An empty URL disables publishing.
type RedisConfig struct {
	URL     string `yaml:"url"`
	Channel string `yaml:"channel"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Entur    EnturConfig    `yaml:"entur"`
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Redis    RedisConfig    `yaml:"redis"`
}

// RealtimeOnlyEnabled reports whether non-realtime calls should be skipped.
// Defaults to true when unset, matching the deviation analysis downstream.
func (c EnturConfig) RealtimeOnlyEnabled() bool {
	if c.RealtimeOnly == nil {
		return true
	}
	return *c.RealtimeOnly
}
