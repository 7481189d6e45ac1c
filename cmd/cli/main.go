package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/yoursay/internal/buildinfo"
	"github.com/dmitrijs2005/yoursay/internal/client/cli"
	"github.com/dmitrijs2005/yoursay/internal/client/config"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel, logging.FormatText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
