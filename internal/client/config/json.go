package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophmail/internal/flagx"
	"github.com/dmitrijs2005/gophmail/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	MaxResponseBytes   *int            `json:"max_response_bytes"`
	DialTimeout        *timex.Duration `json:"dial_timeout"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Fields missing from the file keep their current values.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.MaxResponseBytes != nil {
		cfg.MaxResponseBytes = *jc.MaxResponseBytes
	}
	if jc.DialTimeout != nil {
		cfg.DialTimeout = jc.DialTimeout.Duration
	}
	return nil
}
