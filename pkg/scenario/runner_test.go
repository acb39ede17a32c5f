// Copyright 2023 The Stella Authors
// SPDX-License-Identifier: Apache-2.0

package scenario_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stella/learning-switch/pkg/node"
	"github.com/stella/learning-switch/pkg/scenario"
	"github.com/stella/learning-switch/pkg/switcher"
)

// recorder keeps every notification for later inspection
type recorder struct {
	notes    []string
	frames   []scenario.Frame
	results  []switcher.Result
	advanced []time.Duration
	aged     [][]switcher.AgedEntry
	clears   int
	dumps    [][]switcher.TableEntry
	stats    []switcher.Stats
	sizes    []int
}

func (r *recorder) Note(_ int, text string) { r.notes = append(r.notes, text) }

func (r *recorder) Frame(_ int, f scenario.Frame, result switcher.Result) {
	r.frames = append(r.frames, f)
	r.results = append(r.results, result)
}

func (r *recorder) Advanced(_ int, by, _ time.Duration) { r.advanced = append(r.advanced, by) }

func (r *recorder) Aged(_ int, removed []switcher.AgedEntry) { r.aged = append(r.aged, removed) }

func (r *recorder) Cleared(int) { r.clears++ }

func (r *recorder) Dump(_ int, table []switcher.TableEntry) { r.dumps = append(r.dumps, table) }

func (r *recorder) Stats(_ int, stats switcher.Stats, size int) {
	r.stats = append(r.stats, stats)
	r.sizes = append(r.sizes, size)
}

func macs(entries []switcher.TableEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.MAC.String())
	}
	return out
}

func TestRunHubScenario(t *testing.T) {
	sc, err := scenario.Load(filepath.Join("testdata", "hub.yaml"))
	require.NoError(t, err)

	rec := &recorder{}
	require.NoError(t, scenario.Run(node.DefaultConfig(), sc, rec, nil))

	assert.Equal(t, []string{"Hosts announce themselves", "Same-segment traffic is filtered"}, rec.notes)
	require.Len(t, rec.results, 5)

	assert.Equal(t, switcher.EventLearned, rec.results[0].Event)
	assert.Equal(t, switcher.Flood(1), rec.results[0].Decision)
	assert.True(t, rec.results[0].Broadcast)

	assert.Equal(t, switcher.EventRefreshed, rec.results[2].Event)
	assert.Equal(t, switcher.Filter(1), rec.results[2].Decision)

	assert.Equal(t, switcher.Forward(1), rec.results[3].Decision)
	assert.Equal(t, switcher.EventRefreshed, rec.results[4].Event)
	assert.Equal(t, switcher.Forward(1), rec.results[4].Decision)

	require.Len(t, rec.dumps, 1)
	assert.Equal(t, []string{"44:44:44:44:44:44", "AA:AA:AA:AA:AA:AA", "BB:BB:BB:BB:BB:BB"}, macs(rec.dumps[0]))

	assert.Equal(t, []time.Duration{31 * time.Second}, rec.advanced)

	require.Len(t, rec.aged, 1)
	require.Len(t, rec.aged[0], 2)
	assert.Equal(t, "AA:AA:AA:AA:AA:AA", rec.aged[0][0].MAC.String())
	assert.Equal(t, "BB:BB:BB:BB:BB:BB", rec.aged[0][1].MAC.String())
	assert.Equal(t, 31*time.Second, rec.aged[0][0].Age)

	assert.Equal(t, 1, rec.clears)
	require.Len(t, rec.stats, 1)
	assert.Equal(t, switcher.Stats{
		FramesProcessed:  5,
		LearningEvents:   3,
		ForwardingEvents: 2,
		FloodingEvents:   2,
		FilteredEvents:   1,
	}, rec.stats[0])
	assert.Equal(t, 0, rec.sizes[0])
}

func TestRunStartupScenario(t *testing.T) {
	sc, _ := scenario.Builtin("startup")
	rec := &recorder{}
	require.NoError(t, scenario.Run(node.DefaultConfig(), sc, rec, nil))

	require.Len(t, rec.results, 12)
	require.Len(t, rec.stats, 1)
	assert.Equal(t, switcher.Stats{
		FramesProcessed:  12,
		LearningEvents:   4,
		ForwardingEvents: 8,
		FloodingEvents:   4,
	}, rec.stats[0])
	assert.Equal(t, 4, rec.sizes[0])

	// PC-A pinging PC-C floods while PC-C is unknown
	assert.Equal(t, switcher.Flood(1), rec.results[2].Decision)
	assert.False(t, rec.results[2].Broadcast)
	// PC-D announced itself with a broadcast, so PC-A reaches it directly
	assert.Equal(t, switcher.Forward(4), rec.results[8].Decision)
	assert.Equal(t, switcher.Forward(4), rec.results[10].Decision)
}

func TestRunAgingScenario(t *testing.T) {
	sc, _ := scenario.Builtin("aging")
	rec := &recorder{}
	require.NoError(t, scenario.Run(node.DefaultConfig(), sc, rec, nil))

	require.Len(t, rec.dumps, 3)
	assert.Len(t, rec.dumps[0], 2)
	assert.Empty(t, rec.dumps[1])
	assert.Equal(t, []string{"AA:AA:AA:AA:AA:AA"}, macs(rec.dumps[2]))

	require.Len(t, rec.aged, 1)
	assert.Len(t, rec.aged[0], 2)
	assert.Equal(t, switcher.EventLearned, rec.results[2].Event)
}

func TestRunMACMoveScenario(t *testing.T) {
	sc, _ := scenario.Builtin("mac-move")
	rec := &recorder{}
	require.NoError(t, scenario.Run(node.DefaultConfig(), sc, rec, nil))

	require.Len(t, rec.results, 4)
	moved := rec.results[2]
	assert.Equal(t, switcher.EventMoved, moved.Event)
	assert.Equal(t, 1, moved.PreviousPort)
	assert.Equal(t, switcher.Forward(2), moved.Decision)
	assert.Equal(t, switcher.Forward(3), rec.results[3].Decision)

	assert.Equal(t, uint64(3), rec.stats[0].LearningEvents)
}

func TestRunFilterScenario(t *testing.T) {
	sc, _ := scenario.Builtin("filter")
	rec := &recorder{}
	require.NoError(t, scenario.Run(node.DefaultConfig(), sc, rec, nil))

	assert.Equal(t, switcher.ActionFilter, rec.results[2].Decision.Action)
	assert.Equal(t, uint64(1), rec.stats[0].FilteredEvents)
}

func TestRunStopsAtRejectedFrame(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
name: too-many-ports
steps:
  - frame: {src: "AA:AA:AA:AA:AA:AA", dst: "FF:FF:FF:FF:FF:FF", port: 1}
  - frame: {src: "AA:AA:AA:AA:AA:AA", dst: "FF:FF:FF:FF:FF:FF", port: 9}
  - dump: true
`))
	require.NoError(t, err)

	rec := &recorder{}
	err = scenario.Run(node.DefaultConfig(), sc, rec, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, switcher.ErrInvalidPort)
	assert.Contains(t, err.Error(), "step 2")
	assert.Len(t, rec.results, 1)
	assert.Empty(t, rec.dumps)
}

func TestRunnerRequiresRunningNode(t *testing.T) {
	n, err := node.NewNode("idle", node.DefaultConfig(), nil)
	require.NoError(t, err)

	sc, _ := scenario.Builtin("filter")
	err = scenario.NewRunner(n, nil, nil).Run(sc)
	assert.ErrorIs(t, err, node.ErrNotRunning)
}

func TestRunDoesNotMutateConfig(t *testing.T) {
	cfg := node.DefaultConfig()
	sc, _ := scenario.Builtin("aging")
	require.NoError(t, scenario.Run(cfg, sc, nil, nil))
	assert.Equal(t, 8, cfg.Switch.Ports)
	assert.Equal(t, 300, cfg.Switch.AgingTimeout)
}
