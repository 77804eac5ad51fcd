package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	publishTimeout = 5 * time.Second
	flushTimeout   = 2 * time.Second
)

// Client announces scoring activity. Publishing is fire-and-forget from the
// caller's point of view: a failed publish never fails the request.
type Client interface {
	Publish(subject string, data interface{}) error
	Close()
}

// StreamSetupError reports that the connection is up but the event stream
// could not be created. Events still go out on core NATS, unpersisted.
type StreamSetupError struct {
	Stream string
	Err    error
}

func (e *StreamSetupError) Error() string {
	return fmt.Sprintf("ensure stream %s: %v", e.Stream, e.Err)
}

func (e *StreamSetupError) Unwrap() error { return e.Err }

// NATSClient publishes JSON events. When the stream exists publishes are
// acknowledged by JetStream; otherwise they fall back to core NATS.
type NATSClient struct {
	conn      *nats.Conn
	js        jetstream.JetStream
	persisted bool
	logger    *slog.Logger
}

// NewNATSClient connects and ensures the event stream. A *StreamSetupError is
// returned together with a usable client; any other error means no client.
func NewNATSClient(ctx context.Context, url string, logger *slog.Logger) (*NATSClient, error) {
	nc, err := nats.Connect(url,
		nats.Name("commeval"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	c := &NATSClient{conn: nc, js: js, logger: logger}
	if err := c.ensureStream(ctx); err != nil {
		return c, &StreamSetupError{Stream: StreamName, Err: err}
	}
	c.persisted = true
	return c, nil
}

func (c *NATSClient) ensureStream(ctx context.Context) error {
	maxAge, err := time.ParseDuration(StreamMaxAge)
	if err != nil {
		return fmt.Errorf("stream max age: %w", err)
	}
	_, err = c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{StreamSubjects},
		MaxAge:   maxAge,
	})
	return err
}

// Publish encodes data as JSON and sends it on subject.
func (c *NATSClient) Publish(subject string, data interface{}) error {
	payload, err := encode(subject, data)
	if err != nil {
		return err
	}
	if !c.persisted {
		return c.conn.Publish(subject, payload)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	ack, err := c.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	c.logger.Debug("event stored", "subject", subject, "stream", ack.Stream, "seq", ack.Sequence)
	return nil
}

// Close flushes pending core publishes before closing the connection.
func (c *NATSClient) Close() {
	if err := c.conn.FlushTimeout(flushTimeout); err != nil {
		c.logger.Warn("nats flush on close", "error", err)
	}
	c.conn.Close()
}

func encode(subject string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", subject, err)
	}
	return payload, nil
}

// NopClient discards every event. Used when no broker is configured.
type NopClient struct{}

func (NopClient) Publish(string, interface{}) error { return nil }
func (NopClient) Close()                            {}
