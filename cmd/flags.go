package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamgarcia4/goLearning/rhocollide/digest"
	"github.com/adamgarcia4/goLearning/rhocollide/logger"
	"github.com/adamgarcia4/goLearning/rhocollide/metrics"
	"github.com/adamgarcia4/goLearning/rhocollide/rho"
	"github.com/adamgarcia4/goLearning/rhocollide/transport"
)

// searchFlags holds the flags shared by every command that runs a search
type searchFlags struct {
	workers           int
	bits              int
	distinguishedBits int
	hash              string
	prefix            string
	maxTrailSteps     int
	dropLongTrails    bool
	attempts          int
	seed              uint64
	buffer            int

	metricsAddr string
	grpcAddr    string
	verbose     bool
}

func (f *searchFlags) bind(cmd *cobra.Command) {
	kinds := make([]string, 0, len(digest.HashKinds()))
	for _, k := range digest.HashKinds() {
		kinds = append(kinds, string(k))
	}

	// Search flags
	cmd.Flags().IntVarP(&f.workers, "workers", "w", rho.DefaultWorkers, "Number of concurrent trail generators")
	cmd.Flags().IntVarP(&f.bits, "bits", "b", rho.DefaultDigestBits, "Truncated hash width in bits (multiple of 8)")
	cmd.Flags().IntVarP(&f.distinguishedBits, "distinguished-bits", "d", rho.DefaultDistinguishedBits, "Leading zero bits marking a distinguished point (density 2^-d)")
	cmd.Flags().StringVar(&f.hash, "hash", string(digest.SHA256), "Hash function: "+strings.Join(kinds, ", "))
	cmd.Flags().StringVar(&f.prefix, "prefix", digest.DefaultPrefix, "Message prefix placed before the hex digest")
	cmd.Flags().IntVar(&f.maxTrailSteps, "max-trail-steps", 0, "Per-trail step limit (0 = 64 * 2^d, negative = unbounded)")
	cmd.Flags().BoolVar(&f.dropLongTrails, "drop-long-trails", false, "Discard trails over the step limit instead of failing")
	cmd.Flags().IntVar(&f.attempts, "attempts", rho.DefaultAttempts, "Fresh searches to try when refinement finds only overlapping trails")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Seed worker random sources for reproducible starts")
	cmd.Flags().IntVar(&f.buffer, "buffer", 0, "Capacity of the trail channel")

	// Observability flags
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9100)")
	cmd.Flags().StringVar(&f.grpcAddr, "grpc-addr", "", "Serve gRPC health on this address (e.g. 127.0.0.1:50051)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log debug messages")
}

// config builds a search config from defaults overridden by flags
func (f *searchFlags) config(cmd *cobra.Command) *rho.Config {
	config := rho.DefaultConfig()
	config.Workers = f.workers
	config.DigestBits = f.bits
	config.DistinguishedBits = f.distinguishedBits
	config.Hash = digest.HashKind(f.hash)
	config.Prefix = f.prefix
	config.MaxTrailSteps = f.maxTrailSteps
	config.DropLongTrails = f.dropLongTrails
	config.MaxAttempts = f.attempts
	config.TrailBuffer = f.buffer
	if cmd.Flags().Changed("seed") {
		config.Seeded = true
		config.Seed = f.seed
	}
	return config
}

// logf routes search log lines through the global logger
func logf(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// observability starts the optional metrics and health servers for s.
// The returned stop function is safe to call when neither was started.
func (f *searchFlags) observability(s *rho.Search) (func(), error) {
	var stops []func()
	stop := func() {
		for _, fn := range stops {
			fn()
		}
	}

	if f.metricsAddr != "" {
		srv, err := metrics.New(s.Stats()).Serve(f.metricsAddr)
		if err != nil {
			return stop, fmt.Errorf("failed to start metrics server: %w", err)
		}
		logger.Infof("[metrics] serving on http://%s/metrics", srv.Addr())
		stops = append(stops, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				logger.Errorf("[metrics] error stopping server: %v", err)
			}
		})
	}

	if f.grpcAddr != "" {
		g, err := transport.NewGRPC(f.grpcAddr)
		if err != nil {
			return stop, fmt.Errorf("failed to create gRPC transport: %w", err)
		}
		if err := g.Start(); err != nil {
			return stop, fmt.Errorf("failed to bind gRPC server: %w", err)
		}
		s.OnPhase(g.ObservePhase)
		logger.Infof("[grpc] health service on %s", g.Addr())
		stops = append(stops, func() {
			if err := g.Stop(); err != nil {
				logger.Errorf("[grpc] error stopping server: %v", err)
			}
		})
	}

	s.OnPhase(func(runID string, phase rho.Phase) {
		logger.Debugf("[search] run %s entered phase %s", runID, phase)
	})
	return stop, nil
}
