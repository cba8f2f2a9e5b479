package entity

import (
	"context"
	"fmt"
	"time"
)

const AlertTypePayment = "payment"

// Entidade: AccountAlert
// Alerta operacional visível no dashboard, criado quando um erro crítico
// é classificado no webhook (ou manualmente pela API).
type AccountAlert struct {
	ID         string    `json:"id"`
	InstanceID string    `json:"instanceId,omitempty"`
	Type       string    `json:"type"`
	Code       int       `json:"code,omitempty"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	Dismissed  bool      `json:"dismissed"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewWebhookAlert monta um alerta vindo do pipeline de webhook.
// O id carrega o timestamp, então erros repetidos geram alertas novos.
func NewWebhookAlert(instanceID, alertType string, code int, message string) *AccountAlert {
	return &AccountAlert{
		ID:         fmt.Sprintf("alert_%d_%s_%d", code, instanceID, time.Now().UnixMilli()),
		InstanceID: instanceID,
		Type:       alertType,
		Code:       code,
		Message:    message,
		CreatedAt:  time.Now(),
	}
}

// NewManualAlert monta um alerta criado pela API (uso interno/testes).
func NewManualAlert(instanceID, alertType string, code int, message, details string) *AccountAlert {
	codePart := "manual"
	if code != 0 {
		codePart = fmt.Sprintf("%d", code)
	}
	return &AccountAlert{
		ID:         fmt.Sprintf("alert_%s_%d", codePart, time.Now().UnixMilli()),
		InstanceID: instanceID,
		Type:       alertType,
		Code:       code,
		Message:    message,
		Details:    details,
		CreatedAt:  time.Now(),
	}
}

type AlertRepository interface {
	Create(ctx context.Context, alert *AccountAlert) error

	// ListActive retorna alertas não dispensados, mais recentes primeiro,
	// no máximo 10. instanceID vazio = todas as instâncias.
	ListActive(ctx context.Context, instanceID string) ([]AccountAlert, error)

	// Dismiss é idempotente: dispensar duas vezes não é erro.
	Dismiss(ctx context.Context, id string) error

	DismissAll(ctx context.Context, instanceID string) error

	// DismissByType dispensa alertas ativos de um tipo para a instância.
	// Usado pela heurística de recuperação: entrega com sucesso implica
	// que o bloqueio de pagamento foi resolvido.
	DismissByType(ctx context.Context, instanceID, alertType string) error
}
