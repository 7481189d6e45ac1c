// Command devserver runs the in-memory YourSay backend for local testing of
// the CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/yoursay/internal/buildinfo"
	"github.com/dmitrijs2005/yoursay/internal/common"
	"github.com/dmitrijs2005/yoursay/internal/logging"
	"github.com/dmitrijs2005/yoursay/internal/testserver"
)

type options struct {
	address string
	level   string
	rotate  bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory YourSay backend",
		Long: `Run an in-memory YourSay backend for trying the CLI locally.

Accounts, votes and opinions live only as long as the process. Verification
codes are written to the log instead of being emailed.

Example:
  devserver -a localhost:8080 -l debug --rotate`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.address, "addr", "a", "localhost:8080", "listen address")
	cmd.Flags().StringVarP(&opts.level, "log-level", "l", logging.LevelInfo, "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&opts.rotate, "rotate", false, "issue a new refresh token on every refresh")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	})

	return cmd
}

func run(ctx context.Context, opts *options) error {
	logger, err := logging.New(opts.level, logging.FormatJSON)
	if err != nil {
		return err
	}

	secret, err := common.MakeRandHexString(32)
	if err != nil {
		return fmt.Errorf("failed to generate signing key: %w", err)
	}

	serverOpts := []testserver.Option{
		testserver.WithLogger(logger),
		testserver.WithSecret([]byte(secret)),
	}
	if opts.rotate {
		serverOpts = append(serverOpts, testserver.WithRotation())
	}

	return testserver.New(serverOpts...).Run(ctx, opts.address)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "devserver:", err)
		stop()
		os.Exit(1)
	}
}
