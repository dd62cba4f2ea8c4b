// Package main provides the spacematch command: the matching API server and
// command-line access to the same matching engine.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "spacematch",
		Short:         "Find the catalog spaces that fit a group",
		Long:          "spacematch ranks a catalog of bookable spaces against a capacity, a privacy level and the equipment a group needs, over HTTP or from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newMatchCmd(),
		newQuestionsCmd(),
		newAskCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
