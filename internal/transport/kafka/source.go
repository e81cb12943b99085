package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Config selects the topic and consumer group to read from.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Source reads workspace events from a Kafka topic. The topic is expected
// to carry one workspace per partition key so per-partition order is the
// event order. Offsets are committed after fn accepts a frame.
type Source struct {
	cfg Config
	log *zap.Logger

	mu     sync.Mutex
	reader *kafka.Reader
}

func NewSource(cfg Config, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{cfg: cfg, log: log.Named("kafka")}
}

func (s *Source) newReader() *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     s.cfg.Brokers,
		Topic:       s.cfg.Topic,
		GroupID:     s.cfg.GroupID,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
}

// Run consumes the topic until ctx ends, the reader is closed or fn fails.
func (s *Source) Run(ctx context.Context, fn func(frame []byte) error) error {
	if len(s.cfg.Brokers) == 0 || s.cfg.Topic == "" {
		return errors.New("kafka source needs brokers and a topic")
	}

	r := s.newReader()
	s.setReader(r)
	defer func() {
		s.setReader(nil)
		r.Close()
	}()

	s.log.Info("consuming",
		zap.Strings("brokers", s.cfg.Brokers),
		zap.String("topic", s.cfg.Topic),
		zap.String("group", s.cfg.GroupID),
	)

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}
		if err := fn(m.Value); err != nil {
			return err
		}
		if err := r.CommitMessages(ctx, m); err != nil {
			s.log.Warn("commit failed",
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
		}
	}
}

func (s *Source) setReader(r *kafka.Reader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reader = r
}

// Close stops the running reader, if any.
func (s *Source) Close() error {
	s.mu.Lock()
	r := s.reader
	s.reader = nil
	s.mu.Unlock()
	if r == nil {
		return nil
	}
	return r.Close()
}
