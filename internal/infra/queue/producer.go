package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// InboundMessagePayload é a mensagem recebida no webhook, publicada
// na fila para o worker de ingestão persistir.
type InboundMessagePayload struct {
	InstanceID  string `json:"instance_id"`
	WaMessageID string `json:"wa_message_id"`
	From        string `json:"from"`
	ProfileName string `json:"profile_name,omitempty"`
	Type        string `json:"type"`
	Body        string `json:"body,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"` // unix, como vem da Meta
}

type QueueProducerInterface interface {
	PublishInboundMessage(ctx context.Context, payload InboundMessagePayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishInboundMessage(ctx context.Context, payload InboundMessagePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)

	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}
