// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Package recorder persists estimation results off the request path.
//
// Record publishes the result on an in-process Watermill channel and returns
// immediately. Run subscribes to the same topic and writes each result to a
// Sink (normally the BadgerDB session store). A full or closed channel drops
// the result; the estimation that produced it is never affected.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/vantage/internal/logging"
	"github.com/tomtom215/vantage/internal/metrics"
	"github.com/tomtom215/vantage/internal/models"
)

// DefaultTopic carries completed estimation results.
const DefaultTopic = "vantage.results"

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("recorder is closed")

// Sink stores one result. *store.Badger satisfies it.
type Sink interface {
	Save(ctx context.Context, result *models.EstimationResult) error
}

// Config controls the channel.
type Config struct {
	Topic string

	// Buffer is the per-subscriber output buffer.
	Buffer int64
}

// DefaultConfig returns a 256-message buffer on DefaultTopic.
func DefaultConfig() Config {
	return Config{Topic: DefaultTopic, Buffer: 256}
}

// Recorder publishes and consumes estimation results.
type Recorder struct {
	pubsub *gochannel.GoChannel
	topic  string

	mu     sync.RWMutex
	closed bool
}

// New creates a Recorder. Messages published before Run subscribes are dropped.
func New(cfg Config) *Recorder {
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultConfig().Buffer
	}

	logger := watermill.NewSlogLogger(logging.NewComponentSlogLogger("recorder"))
	return &Recorder{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: cfg.Buffer}, logger),
		topic:  cfg.Topic,
	}
}

// Record implements pipeline.Recorder. Failures are logged and counted.
func (r *Recorder) Record(ctx context.Context, result *models.EstimationResult) {
	if err := r.Publish(result); err != nil {
		metrics.RecordRecorderEvent(metrics.RecorderPublishFailed)
		logging.CtxWarn(ctx).Err(err).Str("session_id", sessionOf(result)).Msg("Failed to publish estimation result")
		return
	}
	metrics.RecordRecorderEvent(metrics.RecorderPublished)
}

// Publish serializes result and puts it on the topic.
func (r *Recorder) Publish(result *models.EstimationResult) error {
	if result == nil {
		return errors.New("nil result")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set("session_id", result.SessionID)
	if result.RequestID != "" {
		msg.Metadata.Set("request_id", result.RequestID)
	}
	return r.pubsub.Publish(r.topic, msg)
}

// Run consumes the topic until ctx is canceled, saving each result to sink.
// Messages are always acked: a result that cannot be decoded or saved is
// logged and dropped rather than redelivered.
func (r *Recorder) Run(ctx context.Context, sink Sink) error {
	messages, err := r.pubsub.Subscribe(ctx, r.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", r.topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.persist(ctx, sink, msg)
			msg.Ack()
		}
	}
}

func (r *Recorder) persist(ctx context.Context, sink Sink, msg *message.Message) {
	var result models.EstimationResult
	if err := json.Unmarshal(msg.Payload, &result); err != nil {
		metrics.RecordRecorderEvent(metrics.RecorderDecodeFailed)
		logging.Error().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping undecodable result")
		return
	}

	if err := sink.Save(ctx, &result); err != nil {
		metrics.RecordRecorderEvent(metrics.RecorderPersistFailed)
		logging.Warn().Err(err).
			Str("session_id", result.SessionID).
			Str("request_id", msg.Metadata.Get("request_id")).
			Msg("Failed to persist estimation result")
		return
	}
	metrics.RecordRecorderEvent(metrics.RecorderPersisted)
}

// Close stops accepting results and closes the channel, which ends Run.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.pubsub.Close()
}

func sessionOf(result *models.EstimationResult) string {
	if result == nil {
		return ""
	}
	return result.SessionID
}
