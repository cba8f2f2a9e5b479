package queue

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/smartzap/smartzap-events/internal/entity"
)

// InboundMessageStore persiste mensagens recebidas.
type InboundMessageStore interface {
	SaveInbound(ctx context.Context, msg *entity.InboundMessage) error
}

// ContactTracker mantém o last_active dos contatos que escrevem.
type ContactTracker interface {
	TouchLastActive(ctx context.Context, instanceID, phone, name string) error
}

type Worker struct {
	Channel  *amqp.Channel
	Messages InboundMessageStore
	Contacts ContactTracker
}

func NewWorker(ch *amqp.Channel, messages InboundMessageStore, contacts ContactTracker) *Worker {
	return &Worker{
		Channel:  ch,
		Messages: messages,
		Contacts: contacts,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload InboundMessagePayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON inválido: %s", err)
				// Mensagem podre. Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			if err := w.handleMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Erro ao ingerir mensagem %s: %s", payload.WaMessageID, err)
				d.Nack(false, false)
			} else {
				log.Printf("📥 [WORKER] Mensagem de %s ingerida (instância %s)", payload.From, payload.InstanceID)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker de ingestão aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) handleMessage(ctx context.Context, payload InboundMessagePayload) error {
	msg := &entity.InboundMessage{
		ID:          uuid.New().String(),
		InstanceID:  payload.InstanceID,
		WaMessageID: payload.WaMessageID,
		FromPhone:   payload.From,
		ProfileName: payload.ProfileName,
		Type:        payload.Type,
		Body:        payload.Body,
		ReceivedAt:  parseTimestamp(payload.Timestamp),
	}

	if err := w.Messages.SaveInbound(ctx, msg); err != nil {
		return err
	}

	// last_active é melhor esforço: a mensagem já está salva.
	if err := w.Contacts.TouchLastActive(ctx, payload.InstanceID, payload.From, payload.ProfileName); err != nil {
		log.Printf("⚠️ [WORKER] Falha ao atualizar contato %s: %s", payload.From, err)
	}

	return nil
}

func parseTimestamp(raw string) time.Time {
	if raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.Unix(unix, 0)
		}
	}
	return time.Now()
}
