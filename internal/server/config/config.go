// Package config handles configuration for the mail server,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the GophMail server.
//
// Fields:
//   - EndpointAddr: bind address of the mail protocol listener.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps accounts in memory.
//   - HealthAddrGRPC: bind address of the gRPC health service; empty disables it.
//   - MetricsAddr: bind address of the Prometheus /metrics endpoint; empty disables it.
//   - MaxRequestBytes: upper bound of a single request frame.
//   - MaxResponseBytes: size a receive_emails response is kept within; it
//     should not exceed the clients' own limit. Zero or less disables it.
//   - BcryptCost: cost factor for password hashes.
//   - ShutdownTimeout: grace period for open connections and the admin
//     servers on shutdown.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddr     string
	DatabaseDSN      string
	HealthAddrGRPC   string
	MetricsAddr      string
	MaxRequestBytes  int
	MaxResponseBytes int
	BcryptCost       int
	ShutdownTimeout  time.Duration
	LogLevel         string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = "localhost:8080"
	c.DatabaseDSN = ""
	c.HealthAddrGRPC = ""
	c.MetricsAddr = ""
	c.MaxRequestBytes = 64 * 1024
	c.MaxResponseBytes = 1024 * 1024
	c.BcryptCost = bcrypt.DefaultCost
	c.ShutdownTimeout = 5 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
// args are the command-line arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
