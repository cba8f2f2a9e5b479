package entity

import (
	"context"
	"time"
)

// Entidade: InboundMessage
// Mensagem recebida de um contato via webhook, persistida pelo worker
// de ingestão para alimentar a tela de conversas.
type InboundMessage struct {
	ID          string    `json:"id"`
	InstanceID  string    `json:"instance_id"`
	WaMessageID string    `json:"wa_message_id"`
	FromPhone   string    `json:"from_phone"`
	ProfileName string    `json:"profile_name,omitempty"`
	Type        string    `json:"type"`
	Body        string    `json:"body,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}

type MessageRepository interface {
	// SaveInbound persiste a mensagem. Mensagem repetida (mesmo
	// wa_message_id, redelivery da Meta) é no-op, não erro.
	SaveInbound(ctx context.Context, msg *InboundMessage) error
}

type SettingsRepository interface {
	// Get retorna "" quando a chave não existe.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
