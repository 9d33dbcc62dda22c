// Package config loads runtime configuration for the GophMail client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the mail server
//	-b int      largest response frame accepted, bytes
//	-t int      dial timeout (seconds)
//
// # JSON schema
//
// Durations go through timex.Duration, so they may be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:8080",
//	  "max_response_bytes": 1048576,
//	  "dial_timeout": "3s"
//	}
package config
