// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/metrics"
	"github.com/tradeguard/tradeguard/internal/recommendation"
)

// Evaluator runs one evaluation request to a terminal state.
type Evaluator interface {
	Evaluate(ctx context.Context, req recommendation.Request) (*recommendation.Recommendation, error)
}

// Consumer drives evaluation requests from the intake topic and announces
// completions on the notification topic.
//
// Every message is acknowledged exactly once, success or not: a request
// that cannot be decoded or evaluated is logged and counted, never
// redelivered. Redelivery would loop on a deterministic failure.
type Consumer struct {
	subscriber message.Subscriber
	publisher  message.Publisher
	evaluator  Evaluator

	evaluationTopic   string
	notificationTopic string
}

// NewConsumer creates a consumer over the given transport.
func NewConsumer(subscriber message.Subscriber, publisher message.Publisher, evaluator Evaluator, evaluationTopic, notificationTopic string) *Consumer {
	return &Consumer{
		subscriber:        subscriber,
		publisher:         publisher,
		evaluator:         evaluator,
		evaluationTopic:   evaluationTopic,
		notificationTopic: notificationTopic,
	}
}

// Run processes evaluation requests until ctx is canceled or the
// subscription channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.evaluationTopic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.evaluationTopic, err)
	}

	logging.Info().Str("topic", c.evaluationTopic).Msg("evaluation consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.handle(ctx, msg)
			msg.Ack()
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg *message.Message) {
	// A panic escaping handle would unwind Run before the ack and put
	// the message on the redelivery loop this consumer exists to avoid.
	defer func() {
		if r := recover(); r != nil {
			metrics.ConsumerMessages.WithLabelValues("failed").Inc()
			logging.Error().Str("message_uuid", msg.UUID).Interface("panic", r).
				Msg("evaluation request panicked")
		}
	}()

	var event EvaluationRequested
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		metrics.ConsumerMessages.WithLabelValues("malformed").Inc()
		logging.Warn().Str("message_uuid", msg.UUID).Err(err).
			Msg("dropping malformed evaluation request")
		return
	}

	logging.Info().
		Str("message_uuid", msg.UUID).
		Str("domestic_code", event.DomesticCode).
		Str("user_id", event.UserID).
		Msg("evaluation request received")

	rec, err := c.evaluator.Evaluate(ctx, recommendation.Request{
		DomesticCode: event.DomesticCode,
		ProductName:  event.ProductName,
		UserID:       event.UserID,
	})
	if err != nil {
		metrics.ConsumerMessages.WithLabelValues("failed").Inc()
		logging.Error().Str("message_uuid", msg.UUID).Err(err).
			Msg("evaluation request failed")
		return
	}

	metrics.ConsumerMessages.WithLabelValues("processed").Inc()
	c.notify(rec)
}

// notify publishes the completion announcement. Publish failures are
// logged only; the evaluation result is already durable.
func (c *Consumer) notify(rec *recommendation.Recommendation) {
	notification := Notification{
		RequestID:  rec.RequestID,
		UserID:     rec.UserID,
		Subject:    fmt.Sprintf("Evaluation complete: %s", rec.ProductName),
		Message:    rec.Summary,
		Status:     string(rec.Status),
		TotalScore: rec.TotalScore,
		Timestamp:  time.Now().UTC(),
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		logging.Error().Str("request_id", rec.RequestID).Err(err).
			Msg("could not encode notification")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := c.publisher.Publish(c.notificationTopic, msg); err != nil {
		logging.Error().Str("request_id", rec.RequestID).Err(err).
			Msg("could not publish notification")
		return
	}

	logging.Debug().Str("request_id", rec.RequestID).
		Str("topic", c.notificationTopic).Msg("notification published")
}
