package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adamgarcia4/goLearning/rhocollide/logger"
	"github.com/adamgarcia4/goLearning/rhocollide/rho"
)

var searchOpts searchFlags

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a collision search and print the colliding messages",
	Long: `Run a collision search until two distinct messages with the same
truncated hash are found, then print both on stdout.

Examples:
  # Defaults: sha256 truncated to 64 bits, 8 workers
  rhocollide search

  # A quick 32-bit search with Prometheus metrics
  rhocollide search --bits=32 --distinguished-bits=8 --metrics-addr=127.0.0.1:9100

  # A reproducible single-worker run
  rhocollide search --bits=32 --workers=1 --seed=7`,
	Args: cobra.NoArgs,
	Run:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchOpts.bind(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	// Logs go to stderr; stdout carries only the report
	logger.Init("", os.Stderr)
	logger.SetVerbose(searchOpts.verbose)

	s, err := rho.New(searchOpts.config(cmd), logf)
	if err != nil {
		logger.Errorf("failed to create search: %v", err)
		os.Exit(1)
	}

	stop, err := searchOpts.observability(s)
	defer stop()
	if err != nil {
		logger.Errorf("%v", err)
		stop()
		os.Exit(1)
	}

	// Interrupts cancel the search
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := s.Run(ctx)
	if err != nil {
		logger.Errorf("search failed: %v", err)
		stop()
		os.Exit(1)
	}

	logger.Infof("[search] run %s finished in %v after %d trails and %d steps",
		result.RunID, result.Elapsed, result.Stats.Trails, result.Stats.Steps)
	if err := rho.WriteReport(os.Stdout, result); err != nil {
		logger.Errorf("failed to write report: %v", err)
		stop()
		os.Exit(1)
	}
}
