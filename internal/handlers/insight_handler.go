package handlers

import (
	"net/http"

	"edupay-backend/internal/services"
	"edupay-backend/pkg/utils"
)

type InsightHandler struct {
	Service  *services.InsightService
	Sessions *services.SessionService
}

func NewInsightHandler(service *services.InsightService, sessions *services.SessionService) *InsightHandler {
	return &InsightHandler{Service: service, Sessions: sessions}
}

func (h *InsightHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	session := resolveSession(r, h.Sessions)
	text, err := h.Service.GenerateInsights(r.Context(), session)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{
		"session":  session,
		"insights": text,
	})
}
