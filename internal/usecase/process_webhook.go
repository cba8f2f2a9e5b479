package usecase

import (
	"context"
	"log"
	"time"

	"github.com/smartzap/smartzap-events/internal/entity"
	"github.com/smartzap/smartzap-events/internal/infra/http/middleware"
	"github.com/smartzap/smartzap-events/internal/infra/integration/whatsapp"
	"github.com/smartzap/smartzap-events/internal/infra/queue"
)

// Acks devolvidos pro webhook. Sempre 200: a Meta reenvia o evento se
// não receber confirmação, e retry storm é pior que evento perdido.
const (
	AckOK      = "ok"
	AckIgnored = "ignored"
)

// AlertNotifier avisa o operador fora do dashboard (email).
type AlertNotifier interface {
	SendCriticalAlert(alert *entity.AccountAlert) error
}

// ProcessWebhookUseCase reconcilia os eventos de status do webhook da Meta
// com o ledger de entrega, os contadores de campanha e os alertas de conta.
type ProcessWebhookUseCase struct {
	InstanceRepo entity.InstanceRepository
	LedgerRepo   entity.LedgerRepository
	CampaignRepo entity.CampaignRepository
	AlertRepo    entity.AlertRepository
	ContactRepo  entity.ContactRepository
	Producer     queue.QueueProducerInterface // opcional
	Notifier     AlertNotifier                // opcional
}

func NewProcessWebhookUseCase(
	instanceRepo entity.InstanceRepository,
	ledgerRepo entity.LedgerRepository,
	campaignRepo entity.CampaignRepository,
	alertRepo entity.AlertRepository,
	contactRepo entity.ContactRepository,
	producer queue.QueueProducerInterface,
	notifier AlertNotifier,
) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		InstanceRepo: instanceRepo,
		LedgerRepo:   ledgerRepo,
		CampaignRepo: campaignRepo,
		AlertRepo:    alertRepo,
		ContactRepo:  contactRepo,
		Producer:     producer,
		Notifier:     notifier,
	}
}

// Execute processa um lote de eventos. Nunca retorna erro: falha em um
// entry é logada e não derruba os irmãos do mesmo lote.
func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, payload whatsapp.WebhookPayload) string {
	if payload.Object != whatsapp.ObjectBusinessAccount {
		return AckIgnored
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			uc.processChange(ctx, change)
		}
	}

	return AckOK
}

func (uc *ProcessWebhookUseCase) processChange(ctx context.Context, change whatsapp.Change) {
	value := change.Value

	// Resolve a instância dona do evento pelo phone_number_id.
	// Sem instância o pipeline segue, só não levanta alertas.
	instanceID := ""
	if value.Metadata.PhoneNumberID != "" {
		instance, err := uc.InstanceRepo.FindByPhoneNumberID(ctx, value.Metadata.PhoneNumberID)
		if err != nil {
			log.Printf("❌ Webhook: erro ao resolver instância %s: %v", value.Metadata.PhoneNumberID, err)
		} else if instance != nil {
			instanceID = instance.ID
		}
	}

	for _, status := range value.Statuses {
		uc.processStatus(ctx, instanceID, status)
	}

	for _, msg := range value.Messages {
		uc.processInboundMessage(ctx, instanceID, value.Contacts, msg)
	}
}

func (uc *ProcessWebhookUseCase) processStatus(ctx context.Context, instanceID string, status whatsapp.Status) {
	newStatus, ok := entity.ParseDeliveryStatus(status.Status)
	if !ok {
		log.Printf("⚠️ Webhook: status desconhecido '%s' para %s", status.Status, status.ID)
		return
	}

	record, err := uc.LedgerRepo.FindByMessageID(ctx, status.ID)
	if err != nil {
		log.Printf("❌ Webhook: erro ao buscar ledger de %s: %v", status.ID, err)
		middleware.RecordIntegrationError("database")
		return
	}
	if record == nil {
		// Evento de mensagem que não pertence a nenhuma campanha. No-op.
		return
	}

	result := record.Transition(newStatus)
	if !result.Applied {
		return
	}

	errorCode := 0
	var classification whatsapp.ErrorClassification
	var failure *entity.FailureInfo
	if newStatus == entity.StatusFailed {
		if len(status.Errors) > 0 {
			errorCode = status.Errors[0].Code
		}
		classification = whatsapp.ClassifyError(errorCode)
		failure = &entity.FailureInfo{Code: errorCode, Reason: classification.UserMessage}
	}

	applied, err := uc.LedgerRepo.ApplyTransition(ctx, record.CampaignID, record.Phone, newStatus, time.Now(), failure)
	if err != nil {
		log.Printf("❌ Webhook: erro ao gravar transição %s→%s de %s: %v", result.Previous, newStatus, status.ID, err)
		middleware.RecordIntegrationError("database")
		return
	}
	if !applied {
		// Outro handler aplicou primeiro. Não incrementa nada.
		return
	}

	middleware.RecordStatusTransition(string(newStatus))

	switch newStatus {
	case entity.StatusDelivered:
		uc.incrementCounter(ctx, record.CampaignID, entity.CounterDelivered)

		// Entrega com sucesso = bloqueio de pagamento resolvido.
		if instanceID != "" {
			if err := uc.AlertRepo.DismissByType(ctx, instanceID, entity.AlertTypePayment); err != nil {
				log.Printf("⚠️ Webhook: falha ao dispensar alertas de pagamento: %v", err)
			}
		}

	case entity.StatusRead:
		uc.incrementCounter(ctx, record.CampaignID, entity.CounterRead)

	case entity.StatusFailed:
		uc.incrementCounter(ctx, record.CampaignID, entity.CounterFailed)
		uc.handleFailure(ctx, instanceID, record, errorCode, classification)
	}
}

func (uc *ProcessWebhookUseCase) handleFailure(ctx context.Context, instanceID string, record *entity.CampaignMessage, errorCode int, classification whatsapp.ErrorClassification) {
	log.Printf("📉 Webhook: falha de entrega na campanha %s (%s): %s", record.CampaignID, record.Phone, classification.UserMessage)

	if whatsapp.IsOptOutError(errorCode) && instanceID != "" {
		if err := uc.ContactRepo.UpdateStatusByPhone(ctx, instanceID, record.Phone, entity.ContactStatusOptedOut); err != nil {
			log.Printf("⚠️ Webhook: falha ao marcar opt-out de %s: %v", record.Phone, err)
		}
	}

	if !whatsapp.IsCriticalError(errorCode) || instanceID == "" {
		return
	}

	alert := entity.NewWebhookAlert(instanceID, classification.Category, errorCode, classification.UserMessage)
	if err := uc.AlertRepo.Create(ctx, alert); err != nil {
		log.Printf("❌ Webhook: falha ao criar alerta de conta: %v", err)
		middleware.RecordIntegrationError("database")
		return
	}

	middleware.RecordAlertRaised(alert.Type)
	log.Printf("🚨 Alerta de conta criado para instância %s: %s", instanceID, alert.Message)

	if uc.Notifier != nil {
		if err := uc.Notifier.SendCriticalAlert(alert); err != nil {
			log.Printf("⚠️ Webhook: falha ao enviar email de alerta: %v", err)
			middleware.RecordIntegrationError("mail")
		}
	}
}

func (uc *ProcessWebhookUseCase) processInboundMessage(ctx context.Context, instanceID string, contacts []whatsapp.Contact, msg whatsapp.Message) {
	log.Printf("📩 Webhook: mensagem de %s na instância %s", msg.From, instanceID)

	if uc.Producer == nil {
		return
	}

	payload := queue.InboundMessagePayload{
		InstanceID:  instanceID,
		WaMessageID: msg.ID,
		From:        msg.From,
		ProfileName: profileNameFor(contacts, msg.From),
		Type:        msg.Type,
		Timestamp:   msg.Timestamp,
	}
	if msg.Text != nil {
		payload.Body = msg.Text.Body
	}

	if err := uc.Producer.PublishInboundMessage(ctx, payload); err != nil {
		log.Printf("❌ Webhook: falha ao publicar mensagem inbound na fila: %v", err)
		middleware.RecordIntegrationError("rabbitmq")
	}
}

func (uc *ProcessWebhookUseCase) incrementCounter(ctx context.Context, campaignID string, counter entity.Counter) {
	if err := uc.CampaignRepo.IncrementCounter(ctx, campaignID, counter); err != nil {
		log.Printf("❌ Webhook: falha ao incrementar contador %s da campanha %s: %v", counter, campaignID, err)
		middleware.RecordIntegrationError("database")
	}
}

func profileNameFor(contacts []whatsapp.Contact, waID string) string {
	for _, c := range contacts {
		if c.WaID == waID {
			return c.Profile.Name
		}
	}
	return ""
}
