package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/smartzap/smartzap-events/internal/entity"
	"github.com/smartzap/smartzap-events/internal/infra/http/middleware"
	"github.com/smartzap/smartzap-events/internal/infra/integration/whatsapp"
	"github.com/smartzap/smartzap-events/internal/usecase"
)

const verifyTokenKey = "webhook_verify_token"

type WebhookHandler struct {
	ProcessWebhook *usecase.ProcessWebhookUseCase
	SettingsRepo   entity.SettingsRepository
}

func NewWebhookHandler(processWebhook *usecase.ProcessWebhookUseCase, settingsRepo entity.SettingsRepository) *WebhookHandler {
	return &WebhookHandler{
		ProcessWebhook: processWebhook,
		SettingsRepo:   settingsRepo,
	}
}

// HandleVerify responde o handshake de verificação da Meta (GET).
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.verifyToken(r.Context()) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleEvents recebe o lote de eventos (POST). Sempre responde 200:
// erro interno não pode virar retry storm da Meta.
func (h *WebhookHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	var payload whatsapp.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("⚠️ Webhook: payload ilegível: %v", err)
		h.ack(w, usecase.AckIgnored)
		return
	}

	ack := h.ProcessWebhook.Execute(r.Context(), payload)
	h.ack(w, ack)
}

func (h *WebhookHandler) ack(w http.ResponseWriter, ack string) {
	middleware.RecordWebhookAck(ack)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": ack})
}

// verifyToken busca o token no banco; no primeiro uso gera e persiste um.
// Se o banco falhar, cai pro valor da env.
func (h *WebhookHandler) verifyToken(ctx context.Context) string {
	stored, err := h.SettingsRepo.Get(ctx, verifyTokenKey)
	if err == nil && stored != "" {
		return stored
	}

	if err == nil {
		generated := uuid.New().String()
		if setErr := h.SettingsRepo.Set(ctx, verifyTokenKey, generated); setErr == nil {
			log.Printf("🔑 Webhook: verify token gerado e salvo")
			return generated
		}
	}

	if env := strings.TrimSpace(os.Getenv("WEBHOOK_VERIFY_TOKEN")); env != "" {
		return env
	}
	return "not-configured"
}
