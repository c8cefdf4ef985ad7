package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"edupay-backend/internal/models"
	"edupay-backend/internal/services"
	"edupay-backend/pkg/utils"
)

type FeeStructureHandler struct {
	Service  *services.FeeStructureService
	Sessions *services.SessionService
}

func NewFeeStructureHandler(service *services.FeeStructureService, sessions *services.SessionService) *FeeStructureHandler {
	return &FeeStructureHandler{Service: service, Sessions: sessions}
}

func (h *FeeStructureHandler) ListStructures(w http.ResponseWriter, r *http.Request) {
	session := resolveSession(r, h.Sessions)
	structures, err := h.Service.ListBySession(r.Context(), session)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, structures)
}

func (h *FeeStructureHandler) CreateStructure(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFeeStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AcademicYear == "" {
		req.AcademicYear = resolveSession(r, h.Sessions)
	}

	actorID, actorName := actor(r)
	fs, err := h.Service.Create(r.Context(), &req, actorID, actorName)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, fs)
}

func (h *FeeStructureHandler) GetStructure(w http.ResponseWriter, r *http.Request) {
	fs, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Fee structure not found")
		return
	}
	utils.JSON(w, http.StatusOK, fs)
}

func (h *FeeStructureHandler) UpdateStructure(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateFeeStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actorID, actorName := actor(r)
	fs, err := h.Service.Update(r.Context(), mux.Vars(r)["id"], &req, actorID, actorName)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, fs)
}

func (h *FeeStructureHandler) DeleteStructure(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Fee structure deleted"})
}
