package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg)

	m.RecordLoad(OutcomeSuccess, 200*time.Millisecond)
	m.RecordLoad("timeout", time.Second)
	m.RecordLoad("timeout", time.Second)
	m.SetLoaded(50, 12)
	m.ObserveFilter("page", 3)
	m.ObserveFilter("api", 0)
	m.ObserveFilter("api", 7)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoadsTotal.WithLabelValues("timeout")))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.RecordsLoaded))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.Nationalities))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilterEvaluationsTotal.WithLabelValues("page")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FilterEvaluationsTotal.WithLabelValues("api")))

	families, err := reg.Gather()
	require.NoError(t, err)
	samples := map[string]uint64{}
	for _, f := range families {
		if f.GetType() == dto.MetricType_HISTOGRAM {
			samples[f.GetName()] = f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(3), samples["userdir_directory_visible_records"])
	assert.Equal(t, uint64(3), samples["userdir_directory_load_duration_seconds"])
}
