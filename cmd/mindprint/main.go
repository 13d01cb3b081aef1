package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "mindprint",
		Short: "Adaptive trait inference and phone recommendation engine",
		Long: `mindprint runs adaptive question sessions that infer a 28-trait
preference profile, then ranks a candidate phone catalog against it.`,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(),
		newReplayCmd(),
		newInspectCmd(),
		newSimulateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mindprint version %s\n", version)
		},
	}
}
