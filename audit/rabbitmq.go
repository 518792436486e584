package audit

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RabbitMQ publishes audit Records onto a durable fanout exchange with
// publisher confirms enabled.
type RabbitMQ struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *zap.Logger
}

const auditExchange = "anomi.audit"

func DialRabbitMQ(url string, logger *zap.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("audit: dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("audit: open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("audit: enable confirms: %w", err)
	}
	if err := ch.ExchangeDeclare(auditExchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("audit: declare exchange: %w", err)
	}

	logger.Info("audit rabbitmq client initialized", zap.String("exchange", auditExchange))
	return &RabbitMQ{conn: conn, ch: ch, exchange: auditExchange, logger: logger}, nil
}

func (r *RabbitMQ) publish(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	confirmation, err := r.ch.PublishWithDeferredConfirmWithContext(ctx, r.exchange, "", true, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return err
	}
	confirmation.Wait()
	return nil
}

func (r *RabbitMQ) Close() error {
	r.ch.Close()
	return r.conn.Close()
}
