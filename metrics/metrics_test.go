package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamgarcia4/goLearning/rhocollide/rho"
)

func runNarrowSearch(t *testing.T) *rho.Search {
	t.Helper()
	cfg := rho.DefaultConfig()
	cfg.DigestBits = 16
	cfg.DistinguishedBits = 4
	cfg.Workers = 2
	cfg.MaxTrailSteps = 1000
	cfg.DropLongTrails = true
	cfg.MaxAttempts = 5

	s, err := rho.New(cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err = s.Run(ctx)
	require.NoError(t, err)
	return s
}

func TestCollectorsReadStats(t *testing.T) {
	s := runNarrowSearch(t)
	m := New(s.Stats())
	snap := s.Stats().Snapshot()

	assert.Equal(t, float64(snap.Trails), testutil.ToFloat64(m.trails))
	assert.Equal(t, float64(snap.Steps), testutil.ToFloat64(m.steps))
	assert.Equal(t, float64(snap.TableSize), testutil.ToFloat64(m.tableSize))
	assert.Equal(t, float64(rho.PhaseReported), testutil.ToFloat64(m.phase))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.attempts), 1.0)

	count, err := testutil.GatherAndCount(m.Registry())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestServeExposesMetrics(t *testing.T) {
	m := New(rho.NewStats())
	srv, err := m.Serve("127.0.0.1:0")
	require.NoError(t, err)
	defer srv.Stop(context.Background())

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "rho_rendezvous_entries 0"))
	assert.True(t, strings.Contains(string(body), "rho_phase 0"))
}

func TestServeRejectsBadAddress(t *testing.T) {
	_, err := New(rho.NewStats()).Serve("not-an-address")
	assert.Error(t, err)
}
