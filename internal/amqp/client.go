// Package amqp publishes budget alert notifications to a RabbitMQ exchange
// so that out-of-process consumers (mailers, push gateways) can react to them.
package amqp

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel used by Client
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Client publishes notification messages to a topic exchange
type Client struct {
	conn       *amqp091.Connection
	channel    channel
	exchange   string
	routingKey string
}

var _ domain.Notifier = (*Client)(nil)

// NewClient dials the broker and declares the exchange
func NewClient(url, exchange, routingKey string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client, err := newClientWithChannel(ch, exchange, routingKey)
	if err != nil {
		conn.Close()
		return nil, err
	}
	client.conn = conn
	return client, nil
}

func newClientWithChannel(ch channel, exchange, routingKey string) (*Client, error) {
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Client{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

// Publish sends one alert notification to the exchange
func (c *Client) Publish(ctx context.Context, userID uuid.UUID, n domain.Notification) error {
	body, err := NewAlertMessage(userID, n).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchange,   // exchange
		c.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			MessageId:    uuid.NewString(),
			Headers:      amqp091.Table{"severity": string(n.Severity)},
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	log.Debug().
		Str("user_id", userID.String()).
		Str("exchange", c.exchange).
		Str("routing_key", c.routingKey).
		Msg("Published budget alert")
	return nil
}

// Notify implements domain.Notifier. Only budget alerts leave the process;
// publish failures are logged and dropped.
func (c *Client) Notify(userID uuid.UUID, n domain.Notification) {
	if n.Alert == nil {
		return
	}
	if err := c.Publish(context.Background(), userID, n); err != nil {
		log.Warn().
			Err(err).
			Str("user_id", userID.String()).
			Str("category", string(n.Alert.Category)).
			Msg("Failed to publish budget alert")
	}
}

// Close closes the channel and the connection
func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
