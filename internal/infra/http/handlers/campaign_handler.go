package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartzap/smartzap-events/internal/entity"
)

type CampaignHandler struct {
	CampaignRepo entity.CampaignRepository
}

func NewCampaignHandler(campaignRepo entity.CampaignRepository) *CampaignHandler {
	return &CampaignHandler{CampaignRepo: campaignRepo}
}

// HandleList lista as campanhas com os contadores agregados,
// filtro opcional por instância.
func (h *CampaignHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	instanceID := r.URL.Query().Get("instanceId")

	campaigns, err := h.CampaignRepo.List(r.Context(), instanceID)
	if err != nil {
		log.Printf("❌ Campanhas: erro ao listar: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Falha ao buscar campanhas"})
		return
	}

	writeJSON(w, http.StatusOK, campaigns)
}

func (h *CampaignHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := h.CampaignRepo.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("❌ Campanhas: erro ao buscar %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Falha ao buscar campanha"})
		return
	}
	if campaign == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Campanha não encontrada"})
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}
