package config

import "time"

// Config holds runtime settings for the GophMail client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the mail server.
//   - MaxResponseBytes: upper bound of a single response frame.
//   - DialTimeout: how long to wait for the TCP connection.
type Config struct {
	ServerEndpointAddr string
	MaxResponseBytes   int
	DialTimeout        time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:8080"
	c.MaxResponseBytes = 1024 * 1024
	c.DialTimeout = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
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
