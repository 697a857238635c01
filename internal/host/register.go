package host

import (
	"errors"
	"fmt"

	"github.com/zeusync/friendfinder/internal/core/events/bus"
	"github.com/zeusync/friendfinder/internal/core/hud"
	"github.com/zeusync/friendfinder/internal/core/observability/log"
	"github.com/zeusync/friendfinder/internal/core/tracker"
)

var ErrInvalidPayload = errors.New("invalid event payload")

// Hooks binds host events on a bus to one tracker and one sink. Every handler
// holds explicit references; there is no process-wide tracker lookup.
type Hooks struct {
	tracker *tracker.Tracker
	sink    Sink
	logger  log.Log

	subs []bus.Subscription
}

// Register subscribes a handler for every host event type.
func Register(b bus.EventBus, t *tracker.Tracker, sink Sink, logger log.Log) (*Hooks, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	h := &Hooks{
		tracker: t,
		sink:    sink,
		logger:  logger.With(log.String("component", "hooks")),
	}

	handlers := map[string]bus.EventHandler{
		EventTick:         h.onTick,
		EventRender:       h.onRender,
		EventBlockMutated: h.onBlockMutated,
		EventAddWaypoint:  h.onAddWaypoint,
		EventCycle:        h.onCycle,
		EventToggle:       h.onToggle,
	}
	for _, eventType := range EventTypes {
		sub, err := b.Subscribe(eventType, handlers[eventType])
		if err != nil {
			_ = h.Close()
			return nil, fmt.Errorf("subscribe %s: %w", eventType, err)
		}
		h.subs = append(h.subs, sub)
	}
	return h, nil
}

// Close cancels every subscription.
func (h *Hooks) Close() error {
	var all error
	for _, sub := range h.subs {
		all = errors.Join(all, sub.Cancel())
	}
	h.subs = nil
	return all
}

func (h *Hooks) onTick(e bus.Event) error {
	tick, ok := e.Data().(tracker.Tick)
	if !ok {
		return payloadError(e, tracker.Tick{})
	}

	res := h.tracker.OnTick(tick)
	err := h.emit(res.Lines...)
	if res.Visible {
		err = errors.Join(err, h.sink.Overlay(res.Display))
	}
	if h.tracker.Enabled() {
		err = errors.Join(err, h.sink.Watch(h.tracker.Watched()))
	}
	return err
}

func (h *Hooks) onRender(e bus.Event) error {
	frame, ok := e.Data().(RenderEvent)
	if !ok {
		return payloadError(e, RenderEvent{})
	}
	line, visible := h.tracker.Render(frame.Position, frame.Yaw)
	if !visible {
		return nil
	}
	return h.sink.Overlay(line)
}

func (h *Hooks) onBlockMutated(e bus.Event) error {
	ev, ok := e.Data().(BlockMutatedEvent)
	if !ok {
		return payloadError(e, BlockMutatedEvent{})
	}
	if removed := h.tracker.OnBlockMutated(ev.Block, ev.State); removed > 0 {
		h.logger.Debug("Waypoints invalidated", log.Stringer("block", ev.Block), log.Int("removed", removed))
	}
	return nil
}

func (h *Hooks) onAddWaypoint(e bus.Event) error {
	ev, ok := e.Data().(AddWaypointEvent)
	if !ok {
		return payloadError(e, AddWaypointEvent{})
	}
	if ev.Aim.Kind != tracker.AimBlock {
		h.logger.Info("No block targeted for waypoint")
		return nil
	}
	wp, added := h.tracker.AddWaypointAtCrosshair(ev.Aim.Block, ev.Aim.State)
	if !added {
		return nil
	}
	return h.emit(h.tracker.WaypointNotice(wp))
}

func (h *Hooks) onCycle(bus.Event) error {
	target, ok := h.tracker.CycleTarget()
	if !ok {
		return nil
	}
	return h.emit(h.tracker.TrackingNotice(target))
}

func (h *Hooks) onToggle(bus.Event) error {
	return h.emit(h.tracker.Toggle().Lines...)
}

func (h *Hooks) emit(lines ...hud.Line) error {
	var all error
	for _, line := range lines {
		all = errors.Join(all, h.sink.Overlay(line))
	}
	return all
}

func payloadError(e bus.Event, want any) error {
	return fmt.Errorf("%w: %s expects %T, got %T", ErrInvalidPayload, e.Type(), want, e.Data())
}
