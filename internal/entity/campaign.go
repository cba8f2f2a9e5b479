package entity

import (
	"context"
	"time"
)

// Contadores agregados da campanha. Apenas display no dashboard,
// não servem de fonte de verdade para cobrança.
type Counter string

const (
	CounterSent      Counter = "sent"
	CounterDelivered Counter = "delivered"
	CounterRead      Counter = "read"
	CounterFailed    Counter = "failed"
)

// Entidade: Campaign
type Campaign struct {
	ID           string     `json:"id"`
	InstanceID   string     `json:"instance_id"`
	Name         string     `json:"name"`
	TemplateName string     `json:"template_name"`
	Status       string     `json:"status"`
	Recipients   int        `json:"recipients"`
	Sent         int        `json:"sent"`
	Delivered    int        `json:"delivered"`
	Read         int        `json:"read"`
	Failed       int        `json:"failed"`
	CreatedAt    time.Time  `json:"created_at"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type CampaignRepository interface {
	// IncrementCounter soma 1 no contador direto no banco
	// (UPDATE ... SET col = col + 1), sem read-modify-write.
	IncrementCounter(ctx context.Context, campaignID string, counter Counter) error

	FindByID(ctx context.Context, id string) (*Campaign, error)

	// List retorna as campanhas mais recentes primeiro.
	// instanceID vazio = todas as instâncias.
	List(ctx context.Context, instanceID string) ([]Campaign, error)
}
