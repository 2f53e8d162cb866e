package influx

import (
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/pommerman/eventstats/internal/query"
	"github.com/pommerman/eventstats/pkg/core"
)

const (
	MeasurementEventRate   = "event_rate"
	MeasurementSuicideRate = "suicide_rate"
)

// ResultPoint converts one computed sweep entry into a point. Agent names
// come from vocab.
func ResultPoint(entry query.Entry, vocab core.Vocabulary, at time.Time) *influxdb2_write.Point {
	measurement := MeasurementEventRate
	if entry.Key.Metric == query.MetricSuicide {
		measurement = MeasurementSuicideRate
	}

	return influxdb2_write.NewPoint(
		measurement,
		map[string]string{
			"metric":        entry.Key.Metric,
			"mode":          entry.Key.Mode.String(),
			"observability": entry.Key.Observability.String(),
			"agent":         formatInt(int(entry.Key.Agent)),
			"agent_name":    vocab.AgentName(entry.Key.Agent),
		},
		map[string]interface{}{
			"mean":       entry.Result.Mean,
			"stderr":     entry.Result.StdErr,
			"half_width": entry.Result.HalfWidth,
			"samples":    entry.Result.Count,
			"games":      entry.Result.Games,
		},
		at,
	)
}

// ExportEntries writes every successfully computed entry and returns how
// many were written and how many were skipped because they carry an error.
func (m *Manager) ExportEntries(entries []query.Entry, vocab core.Vocabulary, at time.Time) (written, skipped int, err error) {
	for _, e := range entries {
		if e.Err != nil {
			m.Logger.Debug().Err(e.Err).Str("metric", e.Key.Metric).Msg("Skipping result without value")
			skipped++
			continue
		}
		if err := m.WritePoint(ResultPoint(e, vocab, at)); err != nil {
			return written, skipped, err
		}
		written++
	}
	m.Logger.Info().Int("written", written).Int("skipped", skipped).Msg("Exported results")
	return written, skipped, nil
}
