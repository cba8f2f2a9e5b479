package entity

import (
	"context"
	"time"
)

// Entidade: Instance
// Uma instância é um número do WhatsApp Business conectado, com suas
// credenciais da Meta. É a unidade de isolamento entre clientes.
type Instance struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	PhoneNumberID     string    `json:"phone_number_id"`
	BusinessAccountID string    `json:"business_account_id,omitempty"`
	AccessToken       string    `json:"-"`
	Status            string    `json:"status"`
	ClientName        string    `json:"client_name,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type InstanceRepository interface {
	// FindByPhoneNumberID resolve a instância dona de um evento de webhook.
	// Retorna (nil, nil) quando nenhuma instância registrou esse número.
	FindByPhoneNumberID(ctx context.Context, phoneNumberID string) (*Instance, error)

	FindByID(ctx context.Context, id string) (*Instance, error)

	List(ctx context.Context) ([]Instance, error)
}
