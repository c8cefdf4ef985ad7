package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"edupay-backend/internal/models"
	"edupay-backend/internal/repositories"
	"edupay-backend/internal/services"
	"edupay-backend/pkg/utils"
)

type SystemSettingHandler struct {
	Repo     *repositories.SystemSettingRepository
	Sessions *services.SessionService
}

func NewSystemSettingHandler(repo *repositories.SystemSettingRepository, sessions *services.SessionService) *SystemSettingHandler {
	return &SystemSettingHandler{Repo: repo, Sessions: sessions}
}

func (h *SystemSettingHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Repo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, settings)
}

func (h *SystemSettingHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.Repo.Get(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Setting not found")
		return
	}
	utils.JSON(w, http.StatusOK, setting)
}

func (h *SystemSettingHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req models.UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The active session goes through its service for validation.
	if key == models.SettingActiveSession {
		if err := h.Sessions.SetActiveSession(r.Context(), req.Value); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	} else if err := h.Repo.Set(r.Context(), key, req.Value); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	setting, err := h.Repo.Get(r.Context(), key)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, setting)
}

// GetActiveSession returns the session every write currently resolves
// against.
func (h *SystemSettingHandler) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"session": h.Sessions.ActiveSession(r.Context()),
	})
}
