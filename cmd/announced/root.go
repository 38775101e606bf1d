package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "announced"

var (
	configFile string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Announce a service instance to a discovery registry",
	Long: `announced periodically PUTs a service descriptor to the first of several
redundant discovery registry endpoints that accepts it, and withdraws the
announcement from every endpoint on shutdown.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: search ./cmd/announced, ./config, .)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", ".env file to load before reading the environment")
}
