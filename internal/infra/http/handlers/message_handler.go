package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/smartzap/smartzap-events/internal/entity"
	"github.com/smartzap/smartzap-events/internal/infra/integration/whatsapp"
)

type MessageHandler struct {
	InstanceRepo entity.InstanceRepository
}

func NewMessageHandler(instanceRepo entity.InstanceRepository) *MessageHandler {
	return &MessageHandler{InstanceRepo: instanceRepo}
}

type sendTestMessageRequest struct {
	InstanceID   string   `json:"instanceId"`
	To           string   `json:"to"`
	TemplateName string   `json:"templateName"`
	LanguageCode string   `json:"languageCode"`
	Parameters   []string `json:"parameters"`
}

// HandleSendTest envia um template de teste pela instância informada.
// Proxy fino da Graph API, usado pela tela de conexão do dashboard.
func (h *MessageHandler) HandleSendTest(w http.ResponseWriter, r *http.Request) {
	var req sendTestMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}

	if strings.TrimSpace(req.InstanceID) == "" || strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.TemplateName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "instanceId, to e templateName são obrigatórios"})
		return
	}

	instance, err := h.InstanceRepo.FindByID(r.Context(), req.InstanceID)
	if err != nil {
		log.Printf("❌ Mensagens: erro ao buscar instância %s: %v", req.InstanceID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Falha ao buscar instância"})
		return
	}
	if instance == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Instância não encontrada"})
		return
	}

	client := whatsapp.NewClient(instance.AccessToken, instance.PhoneNumberID)
	messageID, err := client.SendTemplate(r.Context(), whatsapp.SendTemplateInput{
		PhoneNumber:  req.To,
		TemplateName: req.TemplateName,
		LanguageCode: req.LanguageCode,
		Parameters:   req.Parameters,
	})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "messageId": messageID})
}
