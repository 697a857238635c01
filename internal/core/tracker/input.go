package tracker

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/friendfinder/internal/core/geometry"
	"github.com/zeusync/friendfinder/internal/core/hud"
)

// Input is a discrete key-press edge delivered by the host. Each value is
// consumed exactly once.
type Input uint8

const (
	InputToggle Input = iota + 1
	InputCycle
	InputAddWaypoint
)

func (i Input) String() string {
	switch i {
	case InputToggle:
		return "toggle"
	case InputCycle:
		return "cycle"
	case InputAddWaypoint:
		return "add_waypoint"
	default:
		return fmt.Sprintf("input(%d)", uint8(i))
	}
}

// ParseInput is the inverse of Input.String.
func ParseInput(s string) (Input, error) {
	switch s {
	case "toggle":
		return InputToggle, nil
	case "cycle":
		return InputCycle, nil
	case "add_waypoint":
		return InputAddWaypoint, nil
	default:
		return 0, fmt.Errorf("unknown input %q", s)
	}
}

// AimKind classifies what the crosshair is on.
type AimKind uint8

const (
	AimNone AimKind = iota
	AimBlock
	AimEntity
)

// Aim is the host's crosshair raycast result. Block and State are only
// meaningful for AimBlock.
type Aim struct {
	Kind  AimKind
	Block geometry.BlockPos
	State geometry.Block
}

// RosterEntry is one live player as seen by the host this tick.
type RosterEntry struct {
	ID        uuid.UUID
	Name      string
	Position  mgl64.Vec3
	Dimension geometry.Dimension
}

// Tick is everything the host hands over on one client tick.
type Tick struct {
	Self      uuid.UUID
	Position  mgl64.Vec3
	Yaw       float64
	Dimension geometry.Dimension
	Roster    []RosterEntry
	Inputs    []Input
	Aim       Aim
	// World answers block queries for the liveness sweep. A nil World skips
	// the sweep for this tick.
	World geometry.World
}

// TickResult lists what the host should show after a tick.
type TickResult struct {
	// Overlay lines to emit in order: clear lines on disable, notices.
	Lines []hud.Line
	// Display is the HUD line for the tick's pose; Visible is false while
	// the tracker is disabled.
	Display hud.Line
	Visible bool
}
