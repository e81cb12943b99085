package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Keep an in-memory mirror of a chat workspace",
	Long: `mirror loads a workspace snapshot and keeps it current by applying
the live event stream from a websocket, NATS or Kafka source.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
