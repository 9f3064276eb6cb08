// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/logging"
	"github.com/tomtom215/moodcart/internal/metrics"
	"github.com/tomtom215/moodcart/internal/recommend"
)

// provisionTimeout bounds stream provisioning and server shutdown.
const provisionTimeout = 10 * time.Second

// Config configures event publishing.
type Config struct {
	// Enabled turns event publishing on.
	Enabled bool `koanf:"enabled"`

	// NATSURL selects an external NATS server.
	NATSURL string `koanf:"nats_url"`

	// EmbeddedServer starts an in-process NATS JetStream server when NATSURL
	// is empty. With neither set, events are only written to the log.
	EmbeddedServer bool   `koanf:"embedded_server"`
	ServerHost     string `koanf:"server_host"`
	ServerPort     int    `koanf:"server_port"`
	StoreDir       string `koanf:"store_dir"`
	MaxMemory      int64  `koanf:"max_memory"`
	MaxStore       int64  `koanf:"max_store"`

	// JetStream publishes to Stream with message id deduplication. Core NATS
	// otherwise. Always on for the embedded server.
	JetStream bool          `koanf:"jetstream"`
	Stream    string        `koanf:"stream"`
	Retention time.Duration `koanf:"retention"`

	// Topic is the subject events are published on.
	Topic string `koanf:"topic"`

	// QueueSize bounds events waiting to be published.
	QueueSize int `koanf:"queue_size"`

	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
}

// DefaultConfig returns publishing defaults: an embedded server keeping a
// week of events under data/nats.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		EmbeddedServer: true,
		ServerHost:     "127.0.0.1",
		ServerPort:     4222,
		StoreDir:       "data/nats",
		MaxMemory:      64 << 20,
		MaxStore:       1 << 30,
		Stream:         DefaultStream,
		Retention:      7 * 24 * time.Hour,
		Topic:          DefaultTopic,
		QueueSize:      1024,
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
	}
}

// Publisher implements recommend.EventSink on top of a Watermill publisher.
type Publisher struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	server     *EmbeddedServer
	url        string
	topic      string
	queue      chan *message.Message
	logger     zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPublisher connects the configured transport: the external server at
// NATSURL, else an embedded server, else an in-process channel whose events
// Serve writes to the log.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPublisher(cfg Config, logger zerolog.Logger) (*Publisher, error) {
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.Stream == "" {
		cfg.Stream = DefaultStream
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}

	p := &Publisher{
		topic:  cfg.Topic,
		queue:  make(chan *message.Message, cfg.QueueSize),
		logger: logger.With().Str("component", "events").Logger(),
	}
	wmLogger := watermill.NewSlogLogger(logging.NewSlogLogger("watermill"))

	switch {
	case cfg.NATSURL != "":
		p.url = cfg.NATSURL
	case cfg.EmbeddedServer:
		srv, err := NewEmbeddedServer(&cfg, p.logger)
		if err != nil {
			return nil, err
		}
		p.server = srv
		p.url = srv.ClientURL()
		cfg.JetStream = true
	default:
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: int64(cfg.QueueSize)}, wmLogger)
		p.publisher = ch
		p.subscriber = ch
		p.logger.Info().Str("topic", cfg.Topic).Msg("no NATS configured, logging events in process")
		return p, nil
	}

	if cfg.JetStream {
		ctx, cancel := context.WithTimeout(context.Background(), provisionTimeout)
		err := provisionStream(ctx, p.url, &cfg)
		cancel()
		if err != nil {
			p.shutdownServer()
			return nil, err
		}
	}

	pub, err := newNATSPublisher(p.url, cfg, p.logger, wmLogger)
	if err != nil {
		p.shutdownServer()
		return nil, err
	}
	p.publisher = pub
	p.logger.Info().
		Str("url", p.url).
		Str("topic", cfg.Topic).
		Bool("embedded", p.server != nil).
		Bool("jetstream", cfg.JetStream).
		Msg("publishing events to NATS")
	return p, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newNATSPublisher(url string, cfg Config, logger zerolog.Logger, wmLogger watermill.LoggerAdapter) (message.Publisher, error) {
	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled: !cfg.JetStream,
			// The stream is provisioned by provisionStream.
			AutoProvision: false,
			TrackMsgId:    cfg.JetStream,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return pub, nil
}

// URL is the NATS server events go to, empty for the in-process channel.
func (p *Publisher) URL() string {
	return p.url
}

// Subscriber returns the in-process subscriber, or nil for NATS.
func (p *Publisher) Subscriber() message.Subscriber {
	return p.subscriber
}

// Topic returns the subject events are published on.
func (p *Publisher) Topic() string {
	return p.topic
}

// RecommendationServed implements recommend.EventSink. It never blocks:
// the event is dropped when the queue is full or the publisher is closed.
func (p *Publisher) RecommendationServed(_ context.Context, resp *recommend.Response) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}

	event := NewRecommendationServed(uuid.New().String(), resp)
	data, err := event.Marshal()
	if err != nil {
		p.logger.Error().Err(err).Str("request_id", event.RequestID).Msg("serialize event")
		metrics.EventsPublished.WithLabelValues("error").Inc()
		return
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("request_id", event.RequestID)
	msg.Metadata.Set("path", string(event.Path))
	msg.Metadata.Set(natsgo.MsgIdHdr, event.EventID)

	select {
	case p.queue <- msg:
	default:
		metrics.EventsPublished.WithLabelValues("dropped").Inc()
	}
}

// Serve publishes queued events until ctx is cancelled.
func (p *Publisher) Serve(ctx context.Context) error {
	if p.subscriber != nil {
		logged, err := p.subscriber.Subscribe(ctx, p.topic)
		if err != nil {
			return fmt.Errorf("subscribe event log: %w", err)
		}
		go p.logEvents(logged)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-p.queue:
			p.publish(msg)
		}
	}
}

func (p *Publisher) publish(msg *message.Message) {
	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Warn().Err(err).Str("event_id", msg.UUID).Msg("publish event failed")
		metrics.EventsPublished.WithLabelValues("error").Inc()
		return
	}
	metrics.EventsPublished.WithLabelValues("ok").Inc()
}

// logEvents writes in-process events to the log. It returns when the
// subscription's context ends.
func (p *Publisher) logEvents(messages <-chan *message.Message) {
	for msg := range messages {
		event, err := Unmarshal(msg.Payload)
		if err != nil {
			p.logger.Warn().Err(err).Str("event_id", msg.UUID).Msg("undecodable event")
			msg.Ack()
			continue
		}
		p.logger.Info().
			Str("event_id", event.EventID).
			Str("request_id", event.RequestID).
			Str("path", string(event.Path)).
			Int("initial", len(event.Initial)).
			Int("mood_related", len(event.MoodRelated)).
			Int("close_to_expiration", len(event.CloseToExpiration)).
			Msg("recommendation served")
		msg.Ack()
	}
}

// String names the service in supervisor logs.
func (p *Publisher) String() string {
	return "event-publisher"
}

// Close publishes what is still queued and closes the transport.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	for {
		select {
		case msg := <-p.queue:
			p.publish(msg)
		default:
			err := p.publisher.Close()
			p.shutdownServer()
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("close publisher: %w", err)
			}
			return nil
		}
	}
}

func (p *Publisher) shutdownServer() {
	if p.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), provisionTimeout)
	defer cancel()
	if err := p.server.Shutdown(ctx); err != nil {
		p.logger.Warn().Err(err).Msg("embedded NATS server shutdown")
	}
}
