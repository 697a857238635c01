package bridge

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/friendfinder/internal/core/hud"
	"github.com/zeusync/friendfinder/internal/core/tracker"
)

// session is the host.Sink of one attached host connection. All writes happen
// on the connection's read goroutine because the bus delivers synchronously.
type session struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func (s *session) Overlay(line hud.Line) error {
	return s.write(FrameOverlay, overlayPayload(line))
}

func (s *session) Watch(blocks []tracker.WatchedBlock) error {
	return s.write(FrameWatch, watchPayload(blocks))
}

func (s *session) replyError(err error) error {
	return s.write(FrameError, ErrorPayload{Message: err.Error()})
}

func (s *session) write(frameType string, payload any) error {
	env, err := encodeFrame(frameType, payload)
	if err != nil {
		return err
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(env)
}
