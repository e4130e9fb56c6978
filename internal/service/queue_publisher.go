// Package service holds background collaborators of the HTTP layer: the
// order event publisher and the refresh token sweeper.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/glovo-marketplace/internal/metrics"
	"github.com/iliyamo/glovo-marketplace/internal/model"
	"github.com/iliyamo/glovo-marketplace/internal/queue"
)

// publishTimeout bounds one publish attempt, dial included.
const publishTimeout = 5 * time.Second

// OrderPublisher sends order events to the order.events queue.  Each
// publish opens its own connection; order writes are infrequent enough
// that a pooled channel is not worth its reconnect logic.
type OrderPublisher struct {
	url  string
	log  *zap.Logger
	send func(ctx context.Context, body []byte) error
	now  func() time.Time
}

func NewOrderPublisher(url string, log *zap.Logger) *OrderPublisher {
	p := &OrderPublisher{url: url, log: log.Named("order-publisher"), now: time.Now}
	p.send = p.publishAMQP
	return p
}

// Publish marshals ev and hands it to the broker.  Errors are logged,
// counted and returned so the caller can choose to ignore them.
func (p *OrderPublisher) Publish(ctx context.Context, ev queue.OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.send(ctx, body); err != nil {
		metrics.OrderEventsPublishedTotal.WithLabelValues("error").Inc()
		p.log.Warn("publish order event failed",
			zap.String("type", ev.Type), zap.Uint64("order_id", ev.OrderID), zap.Error(err))
		return err
	}
	metrics.OrderEventsPublishedTotal.WithLabelValues("ok").Inc()
	return nil
}

// OrderHook adapts the publisher to the order handler's OnWrite callback.
// Publishing runs in the background so a slow or absent broker never
// delays or fails the request.
func (p *OrderPublisher) OrderHook() func(ctx context.Context, action string, o *model.Order) {
	return func(ctx context.Context, action string, o *model.Order) {
		ev := queue.NewOrderEvent("order."+action, o, p.now())
		go func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
			defer cancel()
			_ = p.Publish(ctx, ev)
		}()
	}
}

func (p *OrderPublisher) publishAMQP(ctx context.Context, body []byte) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(publishTimeout)})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue.OrderEventsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	return ch.PublishWithContext(ctx,
		"",                     // default exchange
		queue.OrderEventsQueue, // routing key = queue name
		false,                  // mandatory
		false,                  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now().UTC(),
			Body:         body,
		})
}
