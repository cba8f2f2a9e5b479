package entity

import (
	"context"
	"time"
)

const (
	ContactStatusActive   = "active"
	ContactStatusOptedOut = "opted_out"
	ContactStatusInvalid  = "invalid"
)

// Entidade: Contact
type Contact struct {
	ID         string    `json:"id"`
	InstanceID string    `json:"instance_id"`
	Name       string    `json:"name,omitempty"`
	Phone      string    `json:"phone"`
	Status     string    `json:"status"`
	LastActive time.Time `json:"last_active"`
	CreatedAt  time.Time `json:"created_at"`
}

type ContactRepository interface {
	// UpdateStatusByPhone marca o contato (ex: opted_out quando o erro
	// 131050 chega no webhook). Contato inexistente é no-op.
	UpdateStatusByPhone(ctx context.Context, instanceID, phone, status string) error

	// TouchLastActive faz upsert do contato e atualiza last_active quando
	// chega mensagem inbound dele.
	TouchLastActive(ctx context.Context, instanceID, phone, name string) error
}
