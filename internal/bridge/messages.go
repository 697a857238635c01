package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/friendfinder/internal/core/geometry"
	"github.com/zeusync/friendfinder/internal/core/hud"
	"github.com/zeusync/friendfinder/internal/core/tracker"
	"github.com/zeusync/friendfinder/internal/host"
)

// Frame types on the wire. Host-to-bridge frames reuse the bus event names
// without the "host." prefix.
const (
	FrameTick         = "tick"
	FrameRender       = "render"
	FrameBlockMutated = "block_mutated"
	FrameWaypoint     = "waypoint"
	FrameCycle        = "cycle"
	FrameToggle       = "toggle"

	FrameOverlay = "overlay"
	FrameWatch   = "watch"
	FrameError   = "error"
)

var frameEvents = map[string]string{
	FrameTick:         host.EventTick,
	FrameRender:       host.EventRender,
	FrameBlockMutated: host.EventBlockMutated,
	FrameWaypoint:     host.EventAddWaypoint,
	FrameCycle:        host.EventCycle,
	FrameToggle:       host.EventToggle,
}

// Envelope wraps every frame in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TickPayload struct {
	Self      uuid.UUID          `json:"self"`
	Position  mgl64.Vec3         `json:"position"`
	Yaw       float64            `json:"yaw"`
	Dimension geometry.Dimension `json:"dimension"`
	Roster    []RosterPayload    `json:"roster"`
	Inputs    []string           `json:"inputs,omitempty"`
	Aim       *AimPayload        `json:"aim,omitempty"`
	Blocks    []BlockSample      `json:"blocks,omitempty"`
}

type RosterPayload struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Position  *mgl64.Vec3        `json:"position"`
	Dimension geometry.Dimension `json:"dimension"`
}

type AimPayload struct {
	Kind  string            `json:"kind"`
	Block geometry.BlockPos `json:"block"`
	State geometry.Block    `json:"state"`
}

// BlockSample reports the block at a watched coordinate.
type BlockSample struct {
	Dimension geometry.Dimension `json:"dimension"`
	Block     geometry.BlockPos  `json:"block"`
	State     geometry.Block     `json:"state"`
}

type RenderPayload struct {
	Position mgl64.Vec3 `json:"position"`
	Yaw      float64    `json:"yaw"`
}

type BlockMutatedPayload struct {
	Block geometry.BlockPos `json:"block"`
	State geometry.Block    `json:"state"`
}

type WaypointPayload struct {
	Aim AimPayload `json:"aim"`
}

type OverlayPayload struct {
	Segments []hud.Segment `json:"segments"`
	Text     string        `json:"text"`
}

type WatchPayload struct {
	Dimension geometry.Dimension `json:"dimension"`
	Block     geometry.BlockPos  `json:"block"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// decodeFrame turns a host frame into a bus event type and payload.
func decodeFrame(env Envelope) (string, any, error) {
	eventType, ok := frameEvents[env.Type]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}

	switch env.Type {
	case FrameTick:
		var p TickPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return "", nil, err
		}
		tick, err := p.toTick()
		return eventType, tick, err
	case FrameRender:
		var p RenderPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return "", nil, err
		}
		return eventType, host.RenderEvent{Position: p.Position, Yaw: p.Yaw}, nil
	case FrameBlockMutated:
		var p BlockMutatedPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return "", nil, err
		}
		return eventType, host.BlockMutatedEvent{Block: p.Block, State: p.State}, nil
	case FrameWaypoint:
		var p WaypointPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return "", nil, err
		}
		aim, err := p.Aim.toAim()
		return eventType, host.AddWaypointEvent{Aim: aim}, err
	default:
		return eventType, nil, nil
	}
}

func unmarshalPayload(env Envelope, v any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%w: %s frame without payload", ErrInvalidFrame, env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidFrame, env.Type, err)
	}
	return nil
}

func (p TickPayload) toTick() (tracker.Tick, error) {
	tick := tracker.Tick{
		Self:      p.Self,
		Position:  p.Position,
		Yaw:       p.Yaw,
		Dimension: p.Dimension,
		Roster:    make([]tracker.RosterEntry, 0, len(p.Roster)),
		Inputs:    make([]tracker.Input, 0, len(p.Inputs)),
	}

	for i, r := range p.Roster {
		if r.Position == nil {
			return tracker.Tick{}, fmt.Errorf("%w: roster[%d] (%s) has no position", ErrInvalidFrame, i, r.Name)
		}
		tick.Roster = append(tick.Roster, tracker.RosterEntry{
			ID:        r.ID,
			Name:      r.Name,
			Position:  *r.Position,
			Dimension: r.Dimension,
		})
	}

	for _, name := range p.Inputs {
		in, err := tracker.ParseInput(name)
		if err != nil {
			return tracker.Tick{}, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
		}
		tick.Inputs = append(tick.Inputs, in)
	}

	if p.Aim != nil {
		aim, err := p.Aim.toAim()
		if err != nil {
			return tracker.Tick{}, err
		}
		tick.Aim = aim
	}

	if p.Blocks != nil {
		tick.World = newSnapshotWorld(p.Blocks)
	}
	return tick, nil
}

func (a AimPayload) toAim() (tracker.Aim, error) {
	switch a.Kind {
	case "", "none":
		return tracker.Aim{Kind: tracker.AimNone}, nil
	case "entity":
		return tracker.Aim{Kind: tracker.AimEntity}, nil
	case "block":
		return tracker.Aim{Kind: tracker.AimBlock, Block: a.Block, State: a.State}, nil
	default:
		return tracker.Aim{}, fmt.Errorf("%w: unknown aim kind %q", ErrInvalidFrame, a.Kind)
	}
}

func encodeFrame(frameType string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", frameType, err)
	}
	return Envelope{Type: frameType, Payload: raw}, nil
}

func overlayPayload(line hud.Line) OverlayPayload {
	segments := line.Segments
	if segments == nil {
		segments = []hud.Segment{}
	}
	return OverlayPayload{Segments: segments, Text: line.String()}
}

func watchPayload(blocks []tracker.WatchedBlock) []WatchPayload {
	out := make([]WatchPayload, len(blocks))
	for i, b := range blocks {
		out[i] = WatchPayload{Dimension: b.Dimension, Block: b.Block}
	}
	return out
}

type worldKey struct {
	dim geometry.Dimension
	pos geometry.BlockPos
}

// snapshotWorld answers block queries from the samples sent with a tick.
type snapshotWorld map[worldKey]geometry.Block

func newSnapshotWorld(samples []BlockSample) snapshotWorld {
	w := make(snapshotWorld, len(samples))
	for _, s := range samples {
		w[worldKey{dim: s.Dimension, pos: s.Block}] = s.State
	}
	return w
}

func (w snapshotWorld) BlockAt(dim geometry.Dimension, pos geometry.BlockPos) (geometry.Block, bool) {
	b, ok := w[worldKey{dim: dim, pos: pos}]
	return b, ok
}
