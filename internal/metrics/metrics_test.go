package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/optbench/internal/logging"
)

func TestCounters(t *testing.T) {
	m := New()

	m.TrialsStarted.WithLabelValues("tpe", "sphere", "none").Inc()
	m.TrialsStarted.WithLabelValues("tpe", "sphere", "none").Inc()
	m.TrialsPruned.WithLabelValues("tpe", "sphere", "median").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TrialsStarted.WithLabelValues("tpe", "sphere", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TrialsPruned.WithLabelValues("tpe", "sphere", "median")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.TrialsCompleted.WithLabelValues("tpe", "sphere", "none")))
}

func TestIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()

	a.TrialsStarted.WithLabelValues("tpe", "sphere", "none").Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.TrialsStarted.WithLabelValues("tpe", "sphere", "none")))
}

func TestScrapeOutput(t *testing.T) {
	m := New()
	m.TrialsCompleted.WithLabelValues("cmaes", "ackley", "none").Inc()
	m.StudyDuration.WithLabelValues("cmaes", "ackley", "none").Observe(0.25)

	srv := httptest.NewServer(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "optbench_trials_completed_total")
	assert.Contains(t, body, `sampler="cmaes"`)
	assert.Contains(t, body, "optbench_study_duration_seconds")
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	logger := logging.New(logging.ErrorLevel, "json", os.Stderr)

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", New(), logger)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics listener did not shut down")
	}
}
