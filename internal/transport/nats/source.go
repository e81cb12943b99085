package nats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const bufferSize = 1024

// Source reads workspace events published on a NATS subject. Frames are
// consumed by a single goroutine so arrival order is kept.
type Source struct {
	url     string
	subject string
	log     *zap.Logger

	mu sync.Mutex
	nc *nats.Conn
}

func NewSource(url, subject string, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{
		url:     url,
		subject: subject,
		log:     log.Named("nats"),
	}
}

// Run subscribes to the subject and hands every message to fn until ctx ends,
// the connection is closed or fn fails.
func (s *Source) Run(ctx context.Context, fn func(frame []byte) error) error {
	closed := make(chan struct{})
	var once sync.Once

	nc, err := nats.Connect(s.url,
		nats.Name("pulse-mirror"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				s.log.Warn("disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			s.log.Info("reconnected", zap.String("url", c.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			once.Do(func() { close(closed) })
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", s.url, err)
	}
	s.setConn(nc)
	defer func() {
		s.setConn(nil)
		nc.Close()
	}()

	msgs := make(chan *nats.Msg, bufferSize)
	sub, err := nc.ChanSubscribe(s.subject, msgs)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", s.subject, err)
	}
	defer sub.Unsubscribe()

	s.log.Info("subscribed", zap.String("subject", s.subject))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-closed:
			return nil
		case msg := <-msgs:
			if err := fn(msg.Data); err != nil {
				return err
			}
		}
	}
}

func (s *Source) setConn(nc *nats.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nc = nc
}

// Close drains the subscription and closes the connection.
func (s *Source) Close() error {
	s.mu.Lock()
	nc := s.nc
	s.mu.Unlock()
	if nc == nil {
		return nil
	}
	return nc.Drain()
}
