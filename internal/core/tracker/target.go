package tracker

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/friendfinder/internal/core/geometry"
)

// Target is anything the tracker can report a bearing to. It is either a
// PlayerTarget or a WaypointTarget.
type Target interface {
	Key() uuid.UUID
	DisplayName() string
	Location() mgl64.Vec3
	DimensionID() geometry.Dimension

	isTarget()
}

var (
	_ Target = PlayerTarget{}
	_ Target = WaypointTarget{}
)

// PlayerTarget is a snapshot of another player taken at the last reconciliation.
type PlayerTarget struct {
	ID        uuid.UUID
	Name      string
	Position  mgl64.Vec3
	Dimension geometry.Dimension
}

func (p PlayerTarget) Key() uuid.UUID                  { return p.ID }
func (p PlayerTarget) DisplayName() string             { return p.Name }
func (p PlayerTarget) Location() mgl64.Vec3            { return p.Position }
func (p PlayerTarget) DimensionID() geometry.Dimension { return p.Dimension }
func (PlayerTarget) isTarget()                         {}

// WaypointTarget is a user-placed marker anchored to a block. Snapshot is the
// block observed when the waypoint was created; the waypoint is dropped once
// the block at Block no longer matches it.
type WaypointTarget struct {
	ID        uuid.UUID
	Name      string
	Block     geometry.BlockPos
	Position  mgl64.Vec3
	Dimension geometry.Dimension
	Snapshot  geometry.Block
}

func (w WaypointTarget) Key() uuid.UUID                  { return w.ID }
func (w WaypointTarget) DisplayName() string             { return w.Name }
func (w WaypointTarget) Location() mgl64.Vec3            { return w.Position }
func (w WaypointTarget) DimensionID() geometry.Dimension { return w.Dimension }
func (WaypointTarget) isTarget()                         {}

// invalidatedBy reports whether the block now at the waypoint's coordinate
// invalidates it.
func (w WaypointTarget) invalidatedBy(current geometry.Block) bool {
	return current.IsAir() || !current.SameType(w.Snapshot)
}

func isPlayer(t Target) bool {
	_, ok := t.(PlayerTarget)
	return ok
}

func isWaypoint(t Target) bool {
	_, ok := t.(WaypointTarget)
	return ok
}
