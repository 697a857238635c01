package host

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/friendfinder/internal/core/geometry"
	"github.com/zeusync/friendfinder/internal/core/hud"
	"github.com/zeusync/friendfinder/internal/core/tracker"
)

// Event types published on the bus, one per host callback.
const (
	EventTick         = "host.tick"
	EventRender       = "host.render"
	EventBlockMutated = "host.block_mutated"
	EventAddWaypoint  = "host.waypoint"
	EventCycle        = "host.cycle"
	EventToggle       = "host.toggle"
)

// EventTypes lists every event type the handlers subscribe to.
var EventTypes = []string{EventTick, EventRender, EventBlockMutated, EventAddWaypoint, EventCycle, EventToggle}

// RenderEvent is the payload of EventRender.
type RenderEvent struct {
	Position mgl64.Vec3
	Yaw      float64
}

// BlockMutatedEvent is the payload of EventBlockMutated. State is the block now
// at Block, geometry.Air when it was broken.
type BlockMutatedEvent struct {
	Block geometry.BlockPos
	State geometry.Block
}

// AddWaypointEvent is the payload of EventAddWaypoint.
type AddWaypointEvent struct {
	Aim tracker.Aim
}

// The payload of EventTick is a tracker.Tick; EventCycle and EventToggle
// carry no payload.

// Sink receives what the host should display.
type Sink interface {
	// Overlay shows a line on the host's action-bar overlay. The empty line
	// clears it.
	Overlay(line hud.Line) error
	// Watch tells the host which block coordinates to sample on the next tick.
	Watch(blocks []tracker.WatchedBlock) error
}
