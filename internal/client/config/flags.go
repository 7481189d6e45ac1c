package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/yoursay/internal/flagx"
)

// ParseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend base URL
//	-d string   local database path
//	-t int      request timeout in seconds
//	-l string   log level
//	-k          allow insecure http
//
// Note: args are filtered with flagx.FilterArgs so flags meant for other
// components (such as -c) do not break parsing. Pass -k as "-k" or
// "-k=false".
func (c *Config) ParseFlags(args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-l", "-k"})

	fs := flag.NewFlagSet("yoursay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&c.ServerBaseURL, "a", c.ServerBaseURL, "backend base URL")
	fs.StringVar(&c.DatabasePath, "d", c.DatabasePath, "local database path")
	timeout := fs.Int("t", int(c.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&c.LogLevel, "l", c.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&c.AllowInsecure, "k", c.AllowInsecure, "allow plain http to a non-local server")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
