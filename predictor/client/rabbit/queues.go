package rabbit

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	PREDICTION_QUEUE_REQ  = "fund_prediction_req"
	PREDICTION_QUEUE_RESP = "fund_prediction_resp"
)

// Publisher is the part of *amqp.Channel the client and worker publish through.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func DeclareQueues(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(
		PREDICTION_QUEUE_REQ, // name
		false,                // durable
		false,                // delete when unused
		false,                // exclusive
		false,                // noWait
		nil,                  // arguments
	); err != nil {
		return fmt.Errorf("declare a queue for prediction request: %w", err)
	}

	if _, err := ch.QueueDeclare(
		PREDICTION_QUEUE_RESP, // name
		false,                 // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // noWait
		nil,                   // arguments
	); err != nil {
		return fmt.Errorf("declare a queue for prediction response: %w", err)
	}

	return nil
}

// DeclareReplyQueue declares a server-named queue owned by this connection
// and returns its name. Only replies to this client's requests land there.
func DeclareReplyQueue(ch *amqp.Channel) (string, error) {
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // noWait
		nil,   // arguments
	)
	if err != nil {
		return "", fmt.Errorf("declare a reply queue: %w", err)
	}

	return q.Name, nil
}

func Consume(ch *amqp.Channel, queue string) (<-chan amqp.Delivery, error) {
	msgs, err := ch.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", queue, err)
	}

	return msgs, nil
}

type reply struct {
	RiskLevel string  `json:"riskLevel,omitempty"`
	Returns   float64 `json:"returns"`
	Error     string  `json:"error,omitempty"`
}
