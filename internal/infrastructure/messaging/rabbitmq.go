package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"kinhealth/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const ExchangeType = "topic"

// Publisher publishes domain events to a topic exchange.
// A nil *Publisher is valid and drops every event.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *logrus.Logger
}

func NewPublisher(cfg config.RabbitMQConfig, log *logrus.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is not set")
	}

	log.Infof("Connecting to RabbitMQ at: %s", maskPassword(cfg.URL))

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Infof("Connected to RabbitMQ and declared exchange: %s", cfg.Exchange)

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
		log:      log,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	if p == nil || p.channel == nil {
		return nil
	}

	body, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			MessageId:    messageID(eventData),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", routingKey, err)
	}

	p.log.WithField("routing_key", routingKey).Debug("Published event")
	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Warnf("Error closing RabbitMQ channel: %v", err)
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func messageID(eventData interface{}) string {
	if e, ok := eventData.(interface{ ID() string }); ok {
		return e.ID()
	}
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// maskPassword hides credentials in the broker URL before it is logged
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "amqp://***"
	}
	if u.User != nil {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
