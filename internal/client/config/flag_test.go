package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{name: "all flags", args: []string{"-a", "127.0.0.1:9090", "-b", "2048", "-t", "10"},
			expected: &Config{ServerEndpointAddr: "127.0.0.1:9090", MaxResponseBytes: 2048, DialTimeout: 10 * time.Second}},
		{name: "foreign flags ignored", args: []string{"-c", "cfg.json", "-a", "mail:1"},
			expected: &Config{ServerEndpointAddr: "mail:1"}},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
