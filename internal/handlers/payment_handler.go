package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"edupay-backend/internal/feeledger"
	"edupay-backend/internal/models"
	"edupay-backend/internal/repositories"
	"edupay-backend/internal/services"
	"edupay-backend/pkg/utils"
)

type PaymentHandler struct {
	Collection *services.CollectionService
	Payments   *repositories.PaymentRepository
	Reports    *services.ReportService
	Sessions   *services.SessionService
}

func NewPaymentHandler(
	collection *services.CollectionService,
	payments *repositories.PaymentRepository,
	reports *services.ReportService,
	sessions *services.SessionService,
) *PaymentHandler {
	return &PaymentHandler{
		Collection: collection,
		Payments:   payments,
		Reports:    reports,
		Sessions:   sessions,
	}
}

// SubmitPayment accepts one fee collection. A business refusal comes back
// as 422 with the reason and the balance due at the time of the check; a
// lost race against a concurrent submission is 409 and safe to retry.
func (h *PaymentHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actorID, actorName := actor(r)
	result, err := h.Collection.SubmitPayment(r.Context(), &req, actorID, actorName)
	if err != nil {
		var rejection *feeledger.Rejection
		var persistence *services.PersistenceError
		switch {
		case errors.As(err, &rejection):
			utils.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":       rejection.Error(),
				"reason":      rejection.Reason,
				"balance_due": rejection.BalanceDue,
			})
		case errors.Is(err, services.ErrConcurrentMutation):
			utils.Error(w, http.StatusConflict, err.Error())
		case errors.As(err, &persistence):
			utils.Error(w, http.StatusInternalServerError, persistence.Error())
		default:
			utils.Error(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	utils.JSON(w, http.StatusCreated, result)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	if studentID := r.URL.Query().Get("student_id"); studentID != "" {
		payments, err := h.Payments.ListByStudent(r.Context(), studentID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, payments)
		return
	}

	session := resolveSession(r, h.Sessions)
	payments, err := h.Payments.ListBySession(r.Context(), session)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Payments.ListByStudent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) GetByReceiptNumber(w http.ResponseWriter, r *http.Request) {
	payment, err := h.Payments.GetByReceiptNumber(r.Context(), mux.Vars(r)["receipt_number"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Receipt not found")
		return
	}
	utils.JSON(w, http.StatusOK, payment)
}

// ReceiptPDF streams the printable receipt for one payment.
func (h *PaymentHandler) ReceiptPDF(w http.ResponseWriter, r *http.Request) {
	receiptNumber := mux.Vars(r)["receipt_number"]
	pdfData, err := h.Reports.GenerateReceiptPDF(r.Context(), receiptNumber)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=receipt_%s.pdf", receiptNumber))
	w.Write(pdfData)
}
