package handlers

import (
	"net/http"

	"edupay-backend/internal/services"
	"edupay-backend/pkg/utils"
)

type DashboardHandler struct {
	Service  *services.DashboardService
	Sessions *services.SessionService
}

func NewDashboardHandler(service *services.DashboardService, sessions *services.SessionService) *DashboardHandler {
	return &DashboardHandler{Service: service, Sessions: sessions}
}

func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	session := resolveSession(r, h.Sessions)
	stats, err := h.Service.Stats(r.Context(), session)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}
