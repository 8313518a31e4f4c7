package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "server",
		Short:        "AMM pool transition validator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path (defaults to $CONFIG_PATH, then cfg/config.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation HTTP API",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen-addr", ":1337", "HTTP listen address")
	serveCmd.Flags().Duration("request-timeout", 0, "per-request validation timeout")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	checkCmd := &cobra.Command{
		Use:   "check <tx.json>...",
		Short: "Validate transaction files and print one verdict per line",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}

	checkCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(checkCmd)

	return root
}
