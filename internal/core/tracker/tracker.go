package tracker

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/friendfinder/internal/core/geometry"
	"github.com/zeusync/friendfinder/internal/core/hud"
	"github.com/zeusync/friendfinder/internal/core/observability/log"
)

// Config holds tracker configuration
type Config struct {
	EnabledOnStart bool
	// SkipUnchangedRoster refreshes player targets in place when the set of
	// player ids did not change since the last reconciliation.
	SkipUnchangedRoster bool
	Palette             hud.Palette
}

// DefaultConfig returns default tracker configuration
func DefaultConfig() Config {
	return Config{
		EnabledOnStart:      false,
		SkipUnchangedRoster: true,
		Palette:             hud.DefaultPalette(),
	}
}

// Tracker owns the target list, the selected index and the enabled flag.
//
// A Tracker is not safe for concurrent use. Every method is meant to be called
// from the host's single tick/render thread.
type Tracker struct {
	config Config
	logger log.Log

	enabled bool
	targets []Target
	index   int

	self      uuid.UUID
	dimension geometry.Dimension

	roster      uint64
	rosterKnown bool
}

func New(config Config, logger log.Log) *Tracker {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Tracker{
		config:  config,
		logger:  logger.With(log.String("component", "tracker")),
		enabled: config.EnabledOnStart,
	}
}

func (t *Tracker) Enabled() bool {
	return t.enabled
}

// SetEnabled switches the tracker on or off. Turning it off yields one clear
// line so the host can wipe the last rendered text.
func (t *Tracker) SetEnabled(enabled bool) TickResult {
	if t.enabled == enabled {
		return TickResult{}
	}
	return t.Toggle()
}

// Toggle flips the enabled state once.
func (t *Tracker) Toggle() TickResult {
	t.enabled = !t.enabled
	t.logger.Info("Tracker toggled", log.Bool("enabled", t.enabled))

	if t.enabled {
		return TickResult{}
	}
	// Force a full rebuild on the next enabled tick.
	t.rosterKnown = false
	return TickResult{Lines: []hud.Line{hud.Clear()}}
}

// Palette returns the colours used for HUD lines and notices.
func (t *Tracker) Palette() hud.Palette {
	return t.config.Palette
}

// TrackingNotice is shown after the selection moved to target.
func (t *Tracker) TrackingNotice(target Target) hud.Line {
	return hud.Notice("Now tracking: "+target.DisplayName(), t.config.Palette.Tracking)
}

// WaypointNotice confirms a freshly added waypoint.
func (t *Tracker) WaypointNotice(wp WaypointTarget) hud.Line {
	return hud.Notice("Added waypoint: "+wp.Name, t.config.Palette.Notice)
}

// Targets returns a copy of the target list in selection order.
func (t *Tracker) Targets() []Target {
	out := make([]Target, len(t.targets))
	copy(out, t.targets)
	return out
}

// Index returns the selected index. It is 0 when the list is empty.
func (t *Tracker) Index() int {
	return t.index
}

// Current returns the selected target.
func (t *Tracker) Current() (Target, bool) {
	if len(t.targets) == 0 {
		return nil, false
	}
	return t.targets[t.index], true
}

// CycleTarget selects the next target, wrapping around. It is a no-op while
// disabled or when there is nothing to select.
func (t *Tracker) CycleTarget() (Target, bool) {
	if !t.enabled || len(t.targets) == 0 {
		t.logger.Debug("No targets available to cycle through", log.Bool("enabled", t.enabled))
		return nil, false
	}

	t.index = (t.index + 1) % len(t.targets)
	target := t.targets[t.index]
	t.logger.Info("Target cycled", log.String("target", target.DisplayName()), log.Int("index", t.index))
	return target, true
}

// Render computes the HUD line for the selected target from the given pose.
// It never mutates the tracker. ok is false while the tracker is disabled.
func (t *Tracker) Render(position mgl64.Vec3, yaw float64) (hud.Line, bool) {
	if !t.enabled {
		return hud.Line{}, false
	}

	target, ok := t.Current()
	if !ok {
		return hud.NoTarget(t.config.Palette), true
	}

	bearing := geometry.ComputeBearing(position, yaw, target.Location())
	return hud.FormatBearing(target.DisplayName(), bearing, t.config.Palette), true
}

// OnTick runs one host tick: key edges first, then reconciliation and the
// waypoint liveness sweep.
func (t *Tracker) OnTick(tick Tick) TickResult {
	t.self = tick.Self
	t.dimension = tick.Dimension

	var result TickResult
	toggles, cycles, adds := countInputs(tick.Inputs)

	for range toggles {
		result.Lines = append(result.Lines, t.Toggle().Lines...)
	}

	if t.enabled {
		for range cycles {
			if target, ok := t.CycleTarget(); ok {
				result.Lines = append(result.Lines, t.TrackingNotice(target))
			}
		}
		for range adds {
			if wp, ok := t.addFromAim(tick.Aim); ok {
				result.Lines = append(result.Lines, t.WaypointNotice(wp))
			}
		}

		t.reconcile(tick.Roster)
		if tick.World != nil {
			t.sweep(tick.World)
		}
	}

	result.Display, result.Visible = t.Render(tick.Position, tick.Yaw)
	return result
}

func countInputs(inputs []Input) (toggles, cycles, adds int) {
	for _, in := range inputs {
		switch in {
		case InputToggle:
			toggles++
		case InputCycle:
			cycles++
		case InputAddWaypoint:
			adds++
		}
	}
	return toggles, cycles, adds
}

func (t *Tracker) addFromAim(aim Aim) (WaypointTarget, bool) {
	if aim.Kind != AimBlock {
		t.logger.Info("No block targeted for waypoint")
		return WaypointTarget{}, false
	}
	return t.AddWaypointAtCrosshair(aim.Block, aim.State)
}
