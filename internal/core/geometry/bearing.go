package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// SameBlockThreshold is the 3D distance at or below which the target is
	// reported as being on the player's block.
	SameBlockThreshold = 1.0
	// SameHeightThreshold is the vertical offset below which no height is shown.
	SameHeightThreshold = 0.5
	// ZeroThreshold snaps near-zero angles, distances and heights to zero.
	ZeroThreshold = 0.1

	radToDeg = 180 / math.Pi
)

// Bearing is the relation between the local player and a target as shown on
// the HUD. Angle, Distance and Height are already rounded.
type Bearing struct {
	SameBlock  bool
	Angle      int
	Distance   int
	SameHeight bool
	// Height is the magnitude of the vertical offset; HeightSign is '+' when
	// the target is above the player and '-' when below.
	Height     int
	HeightSign byte

	// Unrounded values, kept for logging.
	RelativeAngle  float64
	Horizontal     float64
	VerticalOffset float64
}

// ComputeBearing derives the bearing from player to target. yaw follows the
// host convention: 0 is south, 90 west, 180 north, 270 east.
func ComputeBearing(player mgl64.Vec3, yaw float64, target mgl64.Vec3) Bearing {
	direction := target.Sub(player)
	if direction.Len() <= SameBlockThreshold {
		return Bearing{SameBlock: true, SameHeight: true}
	}

	worldAngle := math.Atan2(direction.X(), direction.Z()) * radToDeg
	normalizedYaw := math.Mod(360-yaw, 360)

	relativeAngle := math.Mod(worldAngle-normalizedYaw, 360)
	if relativeAngle > 180 {
		relativeAngle -= 360
	}
	if relativeAngle < -180 {
		relativeAngle += 360
	}
	if math.Abs(relativeAngle) < ZeroThreshold {
		relativeAngle = 0
	}

	horizontal := math.Sqrt(direction.X()*direction.X() + direction.Z()*direction.Z())
	if horizontal < ZeroThreshold {
		horizontal = 0
	}

	b := Bearing{
		Angle:          Round(relativeAngle),
		Distance:       Round(horizontal),
		SameHeight:     true,
		RelativeAngle:  relativeAngle,
		Horizontal:     horizontal,
		VerticalOffset: direction.Y(),
	}

	dy := direction.Y()
	if math.Abs(dy) < SameHeightThreshold {
		return b
	}

	b.SameHeight = false
	switch {
	case math.Abs(dy) < ZeroThreshold:
		// Unreachable after the SameHeightThreshold check; kept so the
		// behaviour stays put if the thresholds are ever changed.
		b.Height = 0
		b.SameHeight = true
	case dy > 0:
		b.Height = Round(dy)
		b.HeightSign = '+'
	default:
		b.Height = Round(math.Abs(dy))
		b.HeightSign = '-'
	}
	return b
}

// Round rounds half toward positive infinity, matching the host's
// Math.round: Round(2.5) == 3, Round(-2.5) == -2, Round(-0.5) == 0.
func Round(x float64) int {
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return int(r)
}
