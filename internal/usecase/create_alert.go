package usecase

import (
	"context"
	"strings"

	"github.com/smartzap/smartzap-events/internal/entity"
)

// CreateAlertUseCase registra um alerta de conta criado manualmente
// (painel interno, testes de integração).
type CreateAlertUseCase struct {
	AlertRepo entity.AlertRepository
}

func NewCreateAlertUseCase(alertRepo entity.AlertRepository) *CreateAlertUseCase {
	return &CreateAlertUseCase{AlertRepo: alertRepo}
}

type CreateAlertInput struct {
	InstanceID string
	Type       string
	Code       int
	Message    string
	Details    string
}

func (uc *CreateAlertUseCase) Execute(ctx context.Context, input CreateAlertInput) (*entity.AccountAlert, error) {
	if strings.TrimSpace(input.Type) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, &DomainError{Code: "MISSING_FIELDS", Message: "type e message são obrigatórios"}
	}

	alert := entity.NewManualAlert(input.InstanceID, input.Type, input.Code, input.Message, input.Details)

	if err := uc.AlertRepo.Create(ctx, alert); err != nil {
		return nil, &TechnicalError{Code: "ALERT_CREATE_FAILED", Message: "Falha ao criar alerta"}
	}

	return alert, nil
}
