package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"sahara/pkg/config"
	"sahara/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	FeedQueueName  = "feed_updates"
	PostExchange   = "posts"
	PostRoutingKey = "post.created"
)

// PostEvent is published when a post record is committed and consumed by the
// feed service to push live updates to subscribers.
type PostEvent struct {
	PostID      string    `json:"post_id"`
	OwnerID     string    `json:"owner_id"`
	DisplayName string    `json:"display_name"`
	ImageURL    string    `json:"image_url"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description string    `json:"description"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		PostExchange, // name
		"direct",     // type
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

	_, err = channel.QueueDeclare(
		FeedQueueName, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		FeedQueueName,  // queue name
		PostRoutingKey, // routing key
		PostExchange,   // exchange
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishPostEvent publishes a post-created event to the feed queue.
func (c *Client) PublishPostEvent(event PostEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.Publish(
		PostExchange,   // exchange
		PostRoutingKey, // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("Failed to publish post event for post %s: %v", event.PostID, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// ConsumePostEvents delivers post-created events to the handler. Handler
// errors are requeued; undecodable messages are dropped.
func (c *Client) ConsumePostEvents(handler func(event PostEvent) error) error {
	msgs, err := c.channel.Consume(
		FeedQueueName, // queue
		"",            // consumer
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Started consuming from queue %s", FeedQueueName)

	go func() {
		for msg := range msgs {
			var event PostEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				c.logger.Error("Failed to unmarshal post event: %v", err)
				msg.Nack(false, false)
				continue
			}

			if err := handler(event); err != nil {
				c.logger.Error("Handler failed for post %s: %v", event.PostID, err)
				msg.Nack(false, true)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}
