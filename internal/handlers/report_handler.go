package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"edupay-backend/internal/services"
	"edupay-backend/internal/timeutil"
	"edupay-backend/pkg/utils"
)

type ReportHandler struct {
	Service  *services.ReportService
	Sessions *services.SessionService
}

func NewReportHandler(service *services.ReportService, sessions *services.SessionService) *ReportHandler {
	return &ReportHandler{Service: service, Sessions: sessions}
}

func (h *ReportHandler) ListDefaulters(w http.ResponseWriter, r *http.Request) {
	session := resolveSession(r, h.Sessions)
	rows, err := h.Service.ListDefaulters(r.Context(), session)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) DefaultersCSV(w http.ResponseWriter, r *http.Request) {
	session := resolveSession(r, h.Sessions)
	data, err := h.Service.GenerateDefaultersCSV(r.Context(), session)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=defaulters_%s.csv", session))
	w.Write(data)
}

// DailyCollections summarizes payments between ?from= and ?to=
// (YYYY-MM-DD, both optional, default today).
func (h *ReportHandler) DailyCollections(w http.ResponseWriter, r *http.Request) {
	session := resolveSession(r, h.Sessions)

	from := timeutil.Now()
	to := from
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.ParseInLocation(timeutil.DateLayout, v, timeutil.IST)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.ParseInLocation(timeutil.DateLayout, v, timeutil.IST)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
			return
		}
		to = parsed
	}

	data, err := h.Service.DailyCollections(r.Context(), session, from, to)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, data)
}

// ClearanceCertificate streams a no-dues certificate for a fully paid
// student.
func (h *ReportHandler) ClearanceCertificate(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["id"]
	pdfData, err := h.Service.GenerateClearanceCertificate(r.Context(), studentID)
	if err != nil {
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=clearance_%s.pdf", studentID))
	w.Write(pdfData)
}
