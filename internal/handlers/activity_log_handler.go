package handlers

import (
	"net/http"
	"strconv"

	"edupay-backend/internal/services"
	"edupay-backend/pkg/utils"
)

type ActivityLogHandler struct {
	Service *services.ActivityService
}

func NewActivityLogHandler(service *services.ActivityService) *ActivityLogHandler {
	return &ActivityLogHandler{Service: service}
}

func (h *ActivityLogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	logs, err := h.Service.List(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, logs)
}
