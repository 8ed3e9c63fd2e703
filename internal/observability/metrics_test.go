package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsForTesting_Usable(t *testing.T) {
	m := NewMetricsForTesting()

	m.RowsRead.Add(3)
	m.RowsRejected.WithLabelValues("Year").Inc()
	m.RecomputeRequests.WithLabelValues("ws").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsRead))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsRejected.WithLabelValues("Year")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecomputeRequests.WithLabelValues("ws")))
}

func TestMetrics_RegisterOnFreshRegistry(t *testing.T) {
	m := NewMetricsForTesting()

	reg := prometheus.NewPedanticRegistry()
	for _, c := range m.collectors() {
		require.NoError(t, reg.Register(c))
	}

	m.ObservationsLoaded.Set(42)
	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "uap_dashboard_observations_loaded")
	assert.Contains(t, names, "uap_dashboard_rows_read_total")
}
