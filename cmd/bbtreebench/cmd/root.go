package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command when bbtreebench is called without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "bbtreebench",
	Short: "Synthetic broadphase workload driver for pkg/bbtree",
	Long: `bbtreebench drives a dynamic AABB tree through a batch of
synthetic moving bodies and (optionally) a static obstacle tree, either
as a one-shot run or as a live HTTP service exposing metrics.`,
}

// Execute adds all child commands to rootCmd and runs it. Called once
// by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a scenario YAML file (default scenario if empty)")
}
