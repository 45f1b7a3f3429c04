// Package notify pushes order status updates to RabbitMQ so kitchen
// displays and the dashboard can follow orders without polling.
package notify

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/plateful/plateful/internal"
)

const statusExchange = "order.status"

type Publisher struct {
	conn *amqp.Connection
}

var _ internal.IStatusPublisher = (*Publisher)(nil)

func NewPublisher(uri string) (*Publisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

// PublishStatusUpdate fans the update out to every bound queue. Channels
// are cheap, so each publish opens its own and closes it right after.
func (p *Publisher) PublishStatusUpdate(ctx context.Context, upd internal.StatusUpdate) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(statusExchange, "fanout", true, false, false, false, nil)
	if err != nil {
		return err
	}

	body, err := json.Marshal(upd)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, statusExchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
