package tracker

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/zeusync/friendfinder/internal/core/geometry"
	"github.com/zeusync/friendfinder/internal/core/observability/log"
	"github.com/zeusync/friendfinder/pkg/sequence"
)

// WatchedBlock is a coordinate whose block state the host should report so
// the liveness sweep can check the waypoint anchored there.
type WatchedBlock struct {
	Dimension geometry.Dimension
	Block     geometry.BlockPos
}

// AddWaypointAtCrosshair creates a waypoint on the block the player is looking
// at and selects it. It is a no-op while disabled.
func (t *Tracker) AddWaypointAtCrosshair(pos geometry.BlockPos, block geometry.Block) (WaypointTarget, bool) {
	if !t.enabled {
		return WaypointTarget{}, false
	}

	base := block.Name
	if base == "" {
		base = block.ID
	}

	wp := WaypointTarget{
		ID:        uuid.New(),
		Name:      t.uniqueWaypointName(base),
		Block:     pos,
		Position:  pos.Center(),
		Dimension: t.dimension,
		Snapshot:  block,
	}
	t.targets = append(t.targets, wp)
	t.index = len(t.targets) - 1

	t.logger.Info("Waypoint added",
		log.String("name", wp.Name),
		log.Stringer("block", wp.Block),
		log.String("dimension", string(wp.Dimension)),
		log.Int("targets", len(t.targets)),
		log.Int("index", t.index),
	)
	return wp, true
}

// uniqueWaypointName appends " 1", " 2", ... to base until no waypoint uses
// the name. Player names are not considered.
func (t *Tracker) uniqueWaypointName(base string) string {
	waypoints := sequence.From(t.targets).Filter(isWaypoint)
	taken := func(name string) bool {
		return waypoints.Any(func(x Target) bool { return x.DisplayName() == name })
	}

	name := base
	for count := 1; taken(name); count++ {
		name = base + " " + strconv.Itoa(count)
	}
	return name
}

// OnBlockMutated removes waypoints in the current dimension anchored at pos
// whose block has been replaced or broken. It returns the number removed.
func (t *Tracker) OnBlockMutated(pos geometry.BlockPos, block geometry.Block) int {
	removed := t.removeWaypoints(func(w WaypointTarget) bool {
		return w.Block == pos && w.Dimension == t.dimension && w.invalidatedBy(block)
	})
	t.logger.Debug("Block mutated",
		log.Stringer("block", pos),
		log.String("type", block.ID),
		log.Int("removed", removed),
	)
	return removed
}

// sweep drops every waypoint whose block is now air or of another type.
// Coordinates the world cannot answer for are left alone.
func (t *Tracker) sweep(world geometry.World) int {
	return t.removeWaypoints(func(w WaypointTarget) bool {
		current, ok := world.BlockAt(w.Dimension, w.Block)
		return ok && w.invalidatedBy(current)
	})
}

// removeWaypoints deletes matching waypoints in one batch and clamps the index
// to the last valid position.
func (t *Tracker) removeWaypoints(match func(WaypointTarget) bool) int {
	removed, kept := sequence.From(t.targets).Partition(func(x Target) bool {
		w, ok := x.(WaypointTarget)
		return ok && match(w)
	})
	if len(removed) == 0 {
		return 0
	}

	t.targets = kept
	switch {
	case len(t.targets) == 0:
		t.index = 0
	case t.index >= len(t.targets):
		t.index = len(t.targets) - 1
	}

	for _, x := range removed {
		t.logger.Info("Waypoint removed", log.String("name", x.DisplayName()))
	}
	return len(removed)
}

// Watched lists the coordinates of all current waypoints.
func (t *Tracker) Watched() []WatchedBlock {
	waypoints := sequence.From(t.targets).Filter(isWaypoint)
	return sequence.Map(waypoints, func(x Target) WatchedBlock {
		w := x.(WaypointTarget)
		return WatchedBlock{Dimension: w.Dimension, Block: w.Block}
	}).Collect()
}
