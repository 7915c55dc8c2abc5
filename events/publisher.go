// Package events publishes property lifecycle messages to RabbitMQ so
// downstream consumers (search indexing, notifications) can react without
// coupling to the request path.
package events

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type PropertyEvent struct {
	Action     string `json:"action"`
	PropertyID string `json:"property_id"`
}

type Publisher struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
}

func NewPublisher(rabbitURL, queueName string) (*Publisher, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if queueName == "" {
		queueName = "properties_queue"
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Printf("Connected to RabbitMQ, queue '%s' declared", queueName)
	return &Publisher{connection: conn, channel: ch, queueName: queueName}, nil
}

// Publish sends a property event. Publishing is best-effort: failures are
// logged, never returned to the request path. A nil publisher is a no-op so
// the service runs without a broker configured.
func (p *Publisher) Publish(event PropertyEvent) {
	if p == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling property event: %v", err)
		return
	}

	err = p.channel.Publish(
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		log.Printf("Error publishing property event %s/%s: %v", event.Action, event.PropertyID, err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.connection != nil {
		p.connection.Close()
	}
}
