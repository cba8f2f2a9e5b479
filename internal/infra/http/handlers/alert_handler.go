package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/smartzap/smartzap-events/internal/entity"
	"github.com/smartzap/smartzap-events/internal/usecase"
)

type AlertHandler struct {
	AlertRepo   entity.AlertRepository
	CreateAlert *usecase.CreateAlertUseCase
}

func NewAlertHandler(alertRepo entity.AlertRepository) *AlertHandler {
	return &AlertHandler{
		AlertRepo:   alertRepo,
		CreateAlert: usecase.NewCreateAlertUseCase(alertRepo),
	}
}

// HandleList retorna os alertas ativos (não dispensados), até 10,
// mais recentes primeiro.
func (h *AlertHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	instanceID := r.URL.Query().Get("instanceId")

	alerts, err := h.AlertRepo.ListActive(r.Context(), instanceID)
	if err != nil {
		log.Printf("❌ Alertas: erro ao listar: %v", err)
		// Dashboard não quebra por causa de alerta: devolve lista vazia.
		writeJSON(w, http.StatusOK, map[string]interface{}{"alerts": []entity.AccountAlert{}})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts})
}

type createAlertRequest struct {
	InstanceID string `json:"instanceId"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
}

// HandleCreate cria um alerta manualmente (uso interno/testes).
func (h *AlertHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}

	alert, err := h.CreateAlert.Execute(r.Context(), usecase.CreateAlertInput{
		InstanceID: req.InstanceID,
		Type:       req.Type,
		Code:       req.Code,
		Message:    req.Message,
		Details:    req.Details,
	})
	if err != nil {
		if usecase.IsDomainError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("❌ Alertas: erro ao criar: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": alert.ID})
}

// HandleDismiss dispensa um alerta (?id=...) ou todos (?all=true),
// com filtro opcional de instância. Idempotente.
func (h *AlertHandler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	alertID := r.URL.Query().Get("id")
	dismissAll := r.URL.Query().Get("all") == "true"
	instanceID := r.URL.Query().Get("instanceId")

	if dismissAll {
		if err := h.AlertRepo.DismissAll(r.Context(), instanceID); err != nil {
			log.Printf("❌ Alertas: erro ao dispensar todos: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Falha ao dispensar alertas"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Alertas dispensados"})
		return
	}

	if alertID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id é obrigatório"})
		return
	}

	if err := h.AlertRepo.Dismiss(r.Context(), alertID); err != nil {
		log.Printf("❌ Alertas: erro ao dispensar %s: %v", alertID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Falha ao dispensar alerta"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
