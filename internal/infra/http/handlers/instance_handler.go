package handlers

import (
	"log"
	"net/http"

	"github.com/smartzap/smartzap-events/internal/entity"
)

type InstanceHandler struct {
	InstanceRepo entity.InstanceRepository
}

func NewInstanceHandler(instanceRepo entity.InstanceRepository) *InstanceHandler {
	return &InstanceHandler{InstanceRepo: instanceRepo}
}

// HandleList lista as instâncias conectadas. O access token nunca sai
// na resposta (json:"-" na entidade).
func (h *InstanceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	instances, err := h.InstanceRepo.List(r.Context())
	if err != nil {
		log.Printf("❌ Instâncias: erro ao listar: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Falha ao buscar instâncias"})
		return
	}

	writeJSON(w, http.StatusOK, instances)
}
