package dataset

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pommerman/eventstats/internal/parser"
	"github.com/pommerman/eventstats/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var validGame = []string{
	"1 | [0] placed a bomb at (1, 1)",
	"3 | [1] picked up AMMO at (2, 1)",
	"7 | [2] placed a bomb at (5, 5)",
	"9 | [0] died at (1, 2) by [0]'s flame(s)",
}

func TestBuild_EmitsThreeRowsPerGame(t *testing.T) {
	cfg := core.RunConfig{Mode: core.FreeForAll, Reps: 2, Observability: 2, Roster: core.Roster{2, 3, 4, 5}}
	runs := []RunLogs{{
		Config: cfg,
		Games: []GameSource{
			{Identity: core.GameIdentity{Seed: 93988, Instance: 0}, Lines: validGame},
			{Identity: core.GameIdentity{Seed: 93988, Instance: 1}, Lines: validGame},
		},
	}}

	ds, failures, err := NewBuilder(WithWorkers(2)).Build(context.Background(), runs)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Equal(t, 6, ds.Len())

	rows := ds.Rows()
	for i, kind := range []core.EventKind{core.Placement, core.Elimination, core.PickUp} {
		assert.Equal(t, kind, rows[i].Kind)
		assert.Equal(t, core.GameIdentity{Seed: 93988, Instance: 0}, rows[i].Game)
		assert.Equal(t, cfg, rows[i].Config)
		assert.Equal(t, 9, rows[i].LastTick)
		for _, ev := range rows[i].Events() {
			assert.Equal(t, kind, ev.Kind)
		}
	}
	assert.Equal(t, 2, rows[0].Len())
	assert.Equal(t, 1, rows[1].Len())
	assert.Equal(t, 1, rows[2].Len())
	assert.Equal(t, 1, rows[3].Game.Instance)
}

func TestBuild_BadGameIsExcludedNotFatal(t *testing.T) {
	cfg := core.RunConfig{Mode: core.Team, Reps: 1, Observability: core.FullyObservable, Roster: core.Roster{4, 5, 4, 5}}
	bad := []string{
		"1 | [0] placed a bomb at (1, 1)",
		"2 | [0] placed a bomb at (99, 1)",
		"3 | [1] placed a bomb at (1, 2)",
	}
	runs := []RunLogs{{
		Config: cfg,
		Games: []GameSource{
			{Identity: core.GameIdentity{Seed: 1}, Source: "1_0_events.txt", Lines: validGame},
			{Identity: core.GameIdentity{Seed: 2}, Source: "2_0_events.txt", Lines: bad},
			{Identity: core.GameIdentity{Seed: 3}, Source: "3_0_events.txt", Lines: validGame},
		},
	}}

	ds, failures, err := NewBuilder().Build(context.Background(), runs)
	require.NoError(t, err)
	assert.Equal(t, 6, ds.Len())
	assert.Equal(t, []int64{1, 3}, ds.Seeds())

	require.Len(t, failures, 1)
	assert.Equal(t, int64(2), failures[0].Game.Seed)
	assert.Equal(t, "2_0_events.txt", failures[0].Source)

	var mle *parser.MalformedLineError
	require.True(t, errors.As(failures[0], &mle))
	assert.Equal(t, "coordinate", mle.Field)
	assert.Contains(t, failures[0].Error(), "2_0_events.txt")
}

func TestBuild_UnknownVocabularyRejectsRun(t *testing.T) {
	runs := []RunLogs{
		{
			Config: core.RunConfig{Mode: core.FreeForAll, Observability: 3, Roster: core.Roster{2, 3, 4, 5}},
			Games:  []GameSource{{Identity: core.GameIdentity{Seed: 1}, Lines: validGame}},
		},
		{
			Config: core.RunConfig{Mode: core.FreeForAll, Observability: 1, Roster: core.Roster{2, 3, 4, 42}},
			Games:  []GameSource{{Identity: core.GameIdentity{Seed: 1}, Lines: validGame}},
		},
	}

	ds, failures, err := NewBuilder().Build(context.Background(), runs)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	require.Len(t, failures, 2)

	for _, f := range failures {
		var vocab *core.UnknownVocabularyError
		assert.ErrorAs(t, f, &vocab)
	}
}

func TestBuild_DeterministicOrderWithManyWorkers(t *testing.T) {
	cfg := core.RunConfig{Mode: core.FreeForAll, Observability: 4, Roster: core.Roster{2, 2, 3, 3}}
	var games []GameSource
	for i := 0; i < 50; i++ {
		games = append(games, GameSource{Identity: core.GameIdentity{Seed: int64(i)}, Source: fmt.Sprint(i), Lines: validGame})
	}

	ds, failures, err := NewBuilder(WithWorkers(8)).Build(context.Background(), []RunLogs{{Config: cfg, Games: games}})
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Equal(t, 150, ds.Len())

	for i, r := range ds.Rows() {
		assert.Equal(t, int64(i/3), r.Game.Seed)
		assert.Equal(t, core.EventKinds[i%3], r.Kind)
	}
}

func TestBuild_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runs := []RunLogs{{
		Config: core.RunConfig{Mode: core.FreeForAll, Observability: 1, Roster: core.Roster{2, 3, 4, 5}},
		Games:  []GameSource{{Identity: core.GameIdentity{Seed: 1}, Lines: validGame}},
	}}
	_, _, err := NewBuilder().Build(ctx, runs)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// counterTotals sums every int64 counter collected by reader, by name.
func counterTotals(t *testing.T, reader sdkmetric.Reader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, m.Name)
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	return totals
}

func TestBuild_RecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { mp.Shutdown(context.Background()) })

	cfg := core.RunConfig{Mode: core.FreeForAll, Observability: 1, Roster: core.Roster{2, 3, 4, 5}}
	runs := []RunLogs{{
		Config: cfg,
		Games: []GameSource{
			{Identity: core.GameIdentity{Seed: 1}, Lines: validGame},
			{Identity: core.GameIdentity{Seed: 2}, Lines: []string{"3 | [0] placed a bomb at (1, 1)", "2 | [1] placed a bomb at (1, 1)"}},
			{Identity: core.GameIdentity{Seed: 3}, Lines: validGame},
		},
	}}

	_, failures, err := NewBuilder(WithMeter(mp.Meter("eventstats"))).Build(context.Background(), runs)
	require.NoError(t, err)
	require.Len(t, failures, 1)

	assert.Equal(t, map[string]int64{
		"eventstats.games.parsed":   2,
		"eventstats.games.rejected": 1,
		"eventstats.rows.emitted":   6,
	}, counterTotals(t, reader))
}

func TestBuild_UnreadableSourceIsReportedAsFailure(t *testing.T) {
	errRead := errors.New("permission denied")
	runs := []RunLogs{{
		Config: core.RunConfig{Mode: core.FreeForAll, Observability: 2, Roster: core.Roster{2, 3, 4, 5}},
		Games: []GameSource{
			{Identity: core.GameIdentity{Seed: 1}, Source: "1_0_events.txt", ReadErr: errRead},
			{Identity: core.GameIdentity{Seed: 2}, Source: "2_0_events.txt", Lines: validGame},
		},
	}}

	ds, failures, err := NewBuilder().Build(context.Background(), runs)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ds.Seeds())
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], errRead)
	assert.Equal(t, "1_0_events.txt", failures[0].Source)
}

func TestBuild_AgentSixNeedsVocabularyOverride(t *testing.T) {
	runs := []RunLogs{{
		Config: core.RunConfig{Mode: core.FreeForAll, Observability: 2, Roster: core.Roster{2, 3, 4, 6}},
		Games:  []GameSource{{Identity: core.GameIdentity{Seed: 1}, Lines: validGame}},
	}}

	_, failures, err := NewBuilder().Build(context.Background(), runs)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	var unknown *core.UnknownVocabularyError
	assert.ErrorAs(t, failures[0], &unknown)

	vocab := core.DefaultVocabulary()
	vocab.Agents = map[core.AgentType]string{2: "OSLA", 3: "RuleBased", 4: "RHEA", 6: "MCTS"}
	ds, failures, err := NewBuilder(WithVocabulary(vocab)).Build(context.Background(), runs)
	require.NoError(t, err)
	assert.Empty(t, failures)
	assert.Equal(t, 3, ds.Len())
}
