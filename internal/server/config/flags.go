package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophmail/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   mail protocol bind address (e.g. "0.0.0.0:8080")
//	-d string   PostgreSQL DSN, empty for in-memory accounts
//	-g string   gRPC health bind address, empty disables
//	-m string   Prometheus metrics bind address, empty disables
//	-b int      max request frame size, bytes
//	-r int      max receive_emails response size, bytes
//	-k int      bcrypt cost
//	-t int      shutdown timeout, seconds
//	-l string   log level
//
// Only these flags are looked at; the rest of the command line is ignored.
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-a", "-d", "-g", "-m", "-b", "-r", "-k", "-t", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.HealthAddrGRPC, "g", config.HealthAddrGRPC, "gRPC health address")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics address")
	fs.IntVar(&config.MaxRequestBytes, "b", config.MaxRequestBytes, "max request size (bytes)")
	fs.IntVar(&config.MaxResponseBytes, "r", config.MaxResponseBytes, "max receive response size (bytes)")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	shutdownTimeout := fs.Int("t", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
	return nil
}
