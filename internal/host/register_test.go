package host

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/friendfinder/internal/core/events/bus"
	"github.com/zeusync/friendfinder/internal/core/geometry"
	"github.com/zeusync/friendfinder/internal/core/hud"
	"github.com/zeusync/friendfinder/internal/core/observability/log"
	"github.com/zeusync/friendfinder/internal/core/tracker"
)

type recordingSink struct {
	lines   []string
	watched [][]tracker.WatchedBlock
	err     error
}

func (s *recordingSink) Overlay(line hud.Line) error {
	s.lines = append(s.lines, line.String())
	return s.err
}

func (s *recordingSink) Watch(blocks []tracker.WatchedBlock) error {
	s.watched = append(s.watched, blocks)
	return s.err
}

func setup(t *testing.T) (bus.EventBus, *tracker.Tracker, *recordingSink, *Hooks) {
	t.Helper()
	b := bus.New()
	cfg := tracker.DefaultConfig()
	cfg.EnabledOnStart = true
	tr := tracker.New(cfg, log.NewNop())
	sink := &recordingSink{}
	hooks, err := Register(b, tr, sink, log.NewNop())
	require.NoError(t, err)
	return b, tr, sink, hooks
}

func publish(t *testing.T, b bus.EventBus, typ string, data any) error {
	t.Helper()
	return b.Publish(bus.NewEvent(typ, "test", data))
}

func TestTickRendersAndWatches(t *testing.T) {
	b, _, sink, _ := setup(t)

	alex := tracker.RosterEntry{ID: uuid.New(), Name: "Alex", Position: mgl64.Vec3{0, 0, 10}}
	require.NoError(t, publish(t, b, EventTick, tracker.Tick{Roster: []tracker.RosterEntry{alex}}))
	assert.Equal(t, []string{"Alex 0° -10"}, sink.lines)
	require.Len(t, sink.watched, 1)
	assert.Empty(t, sink.watched[0])
}

func TestWaypointCycleAndRender(t *testing.T) {
	b, tr, sink, _ := setup(t)
	chest := geometry.Block{ID: "minecraft:chest", Name: "Chest"}

	require.NoError(t, publish(t, b, EventAddWaypoint, AddWaypointEvent{
		Aim: tracker.Aim{Kind: tracker.AimBlock, Block: geometry.BlockPos{X: 0, Y: 0, Z: 20}, State: chest},
	}))
	require.NoError(t, publish(t, b, EventAddWaypoint, AddWaypointEvent{Aim: tracker.Aim{Kind: tracker.AimEntity}}))
	require.NoError(t, publish(t, b, EventRender, RenderEvent{Position: mgl64.Vec3{0.5, 0.5, 0.5}}))
	require.NoError(t, publish(t, b, EventCycle, nil))

	assert.Equal(t, []string{"Added waypoint: Chest", "Chest 0° -20", "Now tracking: Chest"}, sink.lines)
	assert.Len(t, tr.Targets(), 1)
}

func TestBlockMutationRemovesWaypoint(t *testing.T) {
	b, tr, _, _ := setup(t)
	pos := geometry.BlockPos{X: 3, Y: 70, Z: 3}
	tr.AddWaypointAtCrosshair(pos, geometry.Block{ID: "minecraft:furnace", Name: "Furnace"})

	require.NoError(t, publish(t, b, EventBlockMutated, BlockMutatedEvent{Block: pos, State: geometry.Air}))
	assert.Empty(t, tr.Targets())
}

func TestToggleEmitsClearLine(t *testing.T) {
	b, tr, sink, _ := setup(t)

	require.NoError(t, publish(t, b, EventToggle, nil))
	assert.False(t, tr.Enabled())
	require.Len(t, sink.lines, 1)
	assert.Equal(t, "", sink.lines[0])

	// Nothing is rendered while disabled.
	require.NoError(t, publish(t, b, EventRender, RenderEvent{}))
	assert.Len(t, sink.lines, 1)
}

func TestInvalidPayload(t *testing.T) {
	b, _, _, _ := setup(t)
	for _, typ := range []string{EventTick, EventRender, EventBlockMutated, EventAddWaypoint} {
		err := publish(t, b, typ, "garbage")
		assert.ErrorIs(t, err, ErrInvalidPayload, typ)
	}
}

func TestSinkErrorsPropagate(t *testing.T) {
	b, _, sink, _ := setup(t)
	sink.err = errors.New("host gone")
	err := publish(t, b, EventRender, RenderEvent{})
	assert.ErrorIs(t, err, sink.err)
}

func TestCloseUnsubscribes(t *testing.T) {
	b, _, sink, hooks := setup(t)
	require.NoError(t, hooks.Close())
	require.NoError(t, publish(t, b, EventRender, RenderEvent{}))
	assert.Empty(t, sink.lines)
}

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b, _, sink, _ := setup(t)
	b.AddObserver(NewLogObserver(log.FromZap(zap.New(core), log.LevelDebug)))

	require.NoError(t, publish(t, b, EventRender, RenderEvent{}))
	sink.err = errors.New("host gone")
	_ = publish(t, b, EventRender, RenderEvent{})

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "Event delivered", logs.All()[0].Message)
	assert.Equal(t, "Event handler failed", logs.All()[1].Message)
}
