package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 1 << 20
)

// Source reads workspace events from a websocket stream.
type Source struct {
	url          string
	token        string
	log          *zap.Logger
	pingInterval time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewSource(url, token string, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{
		url:          url,
		token:        token,
		log:          log.Named("ws"),
		pingInterval: pingInterval,
	}
}

// Run dials the stream and hands every event frame to fn until ctx ends,
// the server closes the connection or fn fails.
func (s *Source) Run(ctx context.Context, fn func(frame []byte) error) error {
	opts := &websocket.DialOptions{HTTPHeader: http.Header{}}
	if s.token != "" {
		opts.HTTPHeader.Set("Authorization", "Bearer "+s.token)
	}

	conn, _, err := websocket.Dial(ctx, s.url, opts)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", s.url, err)
	}
	conn.SetReadLimit(maxMessageSize)
	s.setConn(conn)
	defer func() {
		s.setConn(nil)
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.pingLoop(ctx, conn)

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.CloseStatus(err) != -1 {
				s.log.Info("stream closed by server", zap.Int("status", int(websocket.CloseStatus(err))))
				return nil
			}
			return fmt.Errorf("reading frame: %w", err)
		}
		if typ != websocket.MessageText {
			continue
		}

		if h, ok := readHeader(data); ok && h.isControl() {
			if done := s.handleControl(h); done {
				return nil
			}
			continue
		}
		if err := fn(data); err != nil {
			return err
		}
	}
}

// handleControl reports whether the stream should end.
func (s *Source) handleControl(h frameHeader) bool {
	switch h.Type {
	case FrameHello:
		s.log.Info("stream ready")
	case FrameGoodbye:
		s.log.Info("server said goodbye")
		return true
	case FrameError:
		if h.Error != nil {
			s.log.Warn("stream error", zap.Int("code", h.Error.Code), zap.String("msg", h.Error.Msg))
		}
	}
	return false
}

func (s *Source) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	var id int64
	for {
		select {
		case <-ticker.C:
			id++
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := wsjson.Write(wctx, conn, pingFrame{ID: id, Type: FramePing})
			cancel()
			if err != nil {
				s.log.Warn("ping failed", zap.Error(err))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Source) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
}

// Close ends the current connection, if any.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close(websocket.StatusNormalClosure, "")
	s.conn = nil
	return err
}
