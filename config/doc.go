// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Defaults cover the public Entur endpoint and a five minute collection
// interval so a minimal config only needs a client name, a stop place id
// and a database DSN.
package config
