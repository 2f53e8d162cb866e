package otel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(Config{Enabled: false, ServiceName: "eventstats"})
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	counter, err := p.Meter("").Int64Counter("eventstats.test")
	require.NoError(t, err)
	assert.NotPanics(t, func() { counter.Add(context.Background(), 1) })
	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledWithoutWriter(t *testing.T) {
	_, err := New(Config{Enabled: true, ServiceName: "eventstats"})
	assert.Error(t, err)
}

func TestNew_EnabledExportsToWriter(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(Config{Enabled: true, ServiceName: "eventstats", MetricWriter: &buf})
	require.NoError(t, err)
	assert.True(t, p.Enabled())

	counter, err := p.Meter("dataset").Int64Counter("eventstats.games.parsed")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "eventstats.games.parsed")
	assert.Contains(t, buf.String(), "eventstats")
}

func TestNew_ExtraReaderCollects(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	p, err := New(Config{Enabled: true, ServiceName: "eventstats"}, reader)
	require.NoError(t, err)
	t.Cleanup(func() { p.Shutdown(context.Background()) })

	counter, err := p.Meter("").Int64Counter("eventstats.rows.emitted")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)
	counter.Add(context.Background(), 4)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	assert.Equal(t, "eventstats", rm.ScopeMetrics[0].Scope.Name)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(6), sum.DataPoints[0].Value)
}
