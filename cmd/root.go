package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rhocollide",
	Short: "Truncated-hash collision search with Pollard's rho",
	Long: `Search for two messages whose truncated hashes collide, using Pollard's
rho method with distinguished points and parallel trail generation.

Each worker walks from random starts to distinguished points; the first
two trails that reach the same distinguished point are replayed to find
the exact pair of colliding messages.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
