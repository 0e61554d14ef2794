package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gonewx/starlight/pkg/subscribe"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := subscribe.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return subscribe.Serve(ctx, cfg, logger)
}
