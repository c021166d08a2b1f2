package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// DefaultAPIURL is the public Entur journey-planner v3 GraphQL endpoint.
const DefaultAPIURL = "https://api.entur.io/journey-planner/v3/graphql"

// LoadAppConfig loads and validates the application configuration from config.yml
func LoadAppConfig(path string) error {
	paths := []string{"config.yml"}
	if path != "" {
		paths = []string{path}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	v := validator.New()
	if err := v.Struct(cfg.Entur); err != nil {
		return err
	}
	if err := v.Struct(cfg.Schedule); err != nil {
		return err
	}
	Config = cfg
	applyDefaults(&Config)
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 16182
	}
	if cfg.Entur.APIURL == "" {
		cfg.Entur.APIURL = DefaultAPIURL
	}
	if cfg.Entur.TimeRangeSeconds == 0 {
		cfg.Entur.TimeRangeSeconds = 3600
	}
	if cfg.Entur.NumberOfDepartures == 0 {
		cfg.Entur.NumberOfDepartures = 20
	}
	if cfg.Entur.TimeoutMS == 0 {
		cfg.Entur.TimeoutMS = 10000
	}
	if cfg.Schedule.IntervalSeconds == 0 {
		cfg.Schedule.IntervalSeconds = 300
	}
	if cfg.Archive.RawDir == "" {
		cfg.Archive.RawDir = "data"
	}
	if cfg.Archive.ProcessedDir == "" {
		cfg.Archive.ProcessedDir = "processed"
	}
	if cfg.Redis.Channel == "" {
		cfg.Redis.Channel = "entur:deviations"
	}
}
