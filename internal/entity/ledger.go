package entity

import (
	"context"
	"time"
)

// Entidade: CampaignMessage (linha de campaign_contacts)
// Uma mensagem enviada para um destinatário dentro de uma campanha,
// rastreada pelo message_id devolvido pela API da Meta.
type CampaignMessage struct {
	ID            string         `json:"id"`
	CampaignID    string         `json:"campaign_id"`
	ContactID     string         `json:"contact_id"`
	Name          string         `json:"name"`
	Phone         string         `json:"phone"`
	MessageID     string         `json:"message_id"`
	Status        DeliveryStatus `json:"status"`
	SentAt        *time.Time     `json:"sent_at,omitempty"`
	DeliveredAt   *time.Time     `json:"delivered_at,omitempty"`
	ReadAt        *time.Time     `json:"read_at,omitempty"`
	FailedAt      *time.Time     `json:"failed_at,omitempty"`
	FailureCode   int            `json:"failure_code,omitempty"`
	FailureReason string         `json:"failure_reason,omitempty"`
}

// FailureInfo carrega o erro classificado de uma transição para failed.
type FailureInfo struct {
	Code   int
	Reason string
}

// TransitionResult diz se a transição foi aplicada e de onde pra onde.
type TransitionResult struct {
	Applied  bool
	Previous DeliveryStatus
	Next     DeliveryStatus
}

// Transition aplica a regra de progressão sobre a cópia em memória:
// failed sempre se aplica (menos sobre failed, pra não contar duas vezes),
// qualquer outro status só se aplica se avançar o rank.
func (m *CampaignMessage) Transition(next DeliveryStatus) TransitionResult {
	prev := m.Status

	if next == StatusFailed {
		if prev == StatusFailed {
			return TransitionResult{Applied: false, Previous: prev, Next: prev}
		}
		m.Status = next
		return TransitionResult{Applied: true, Previous: prev, Next: next}
	}

	if next.Rank() <= prev.Rank() {
		return TransitionResult{Applied: false, Previous: prev, Next: prev}
	}

	m.Status = next
	return TransitionResult{Applied: true, Previous: prev, Next: next}
}

type LedgerRepository interface {
	// FindByMessageID retorna (nil, nil) quando não existe linha para o
	// message_id: evento de mensagem que não pertence a nenhuma campanha.
	FindByMessageID(ctx context.Context, messageID string) (*CampaignMessage, error)

	// ApplyTransition grava o novo status com guarda condicional no WHERE.
	// Retorna false quando nenhuma linha mudou (outro handler chegou antes).
	ApplyTransition(ctx context.Context, campaignID, phone string, next DeliveryStatus, at time.Time, failure *FailureInfo) (bool, error)
}
