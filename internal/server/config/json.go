package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophmail/internal/flagx"
	"github.com/dmitrijs2005/gophmail/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Pointer
// fields distinguish "absent" from a zero value, so a partial file only
// overrides what it names.
type JsonConfig struct {
	EndpointAddr     *string         `json:"endpoint_addr"`
	DatabaseDSN      *string         `json:"database_dsn"`
	HealthAddrGRPC   *string         `json:"health_addr_grpc"`
	MetricsAddr      *string         `json:"metrics_addr"`
	MaxRequestBytes  *int            `json:"max_request_bytes"`
	MaxResponseBytes *int            `json:"max_response_bytes"`
	BcryptCost       *int            `json:"bcrypt_cost"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout"`
	LogLevel         *string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c / -config.
// Nothing happens when neither flag is present.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.HealthAddrGRPC != nil {
		config.HealthAddrGRPC = *c.HealthAddrGRPC
	}
	if c.MetricsAddr != nil {
		config.MetricsAddr = *c.MetricsAddr
	}
	if c.MaxRequestBytes != nil {
		config.MaxRequestBytes = *c.MaxRequestBytes
	}
	if c.MaxResponseBytes != nil {
		config.MaxResponseBytes = *c.MaxResponseBytes
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	return nil
}
