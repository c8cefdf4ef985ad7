package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"edupay-backend/internal/models"
	"edupay-backend/internal/services"
	"edupay-backend/pkg/utils"
)

type StudentHandler struct {
	Service    *services.StudentService
	Collection *services.CollectionService
	Sessions   *services.SessionService
}

func NewStudentHandler(service *services.StudentService, collection *services.CollectionService, sessions *services.SessionService) *StudentHandler {
	return &StudentHandler{Service: service, Collection: collection, Sessions: sessions}
}

// ListStudents returns the session's students, each with a computed
// balance snapshot.
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	session := resolveSession(r, h.Sessions)
	students, err := h.Service.ListWithBalances(r.Context(), session)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, students)
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session := resolveSession(r, h.Sessions)
	actorID, actorName := actor(r)
	student, err := h.Service.Enroll(r.Context(), &req, session, actorID, actorName)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, student)
}

// BulkEnroll accepts either a JSON body of students or a multipart CSV
// upload under the "file" field. Every imported row lands in the active
// session regardless of any year the data carried.
func (h *StudentHandler) BulkEnroll(w http.ResponseWriter, r *http.Request) {
	session := resolveSession(r, h.Sessions)
	actorID, actorName := actor(r)

	var reqs []models.CreateStudentRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "CSV file required in 'file' field")
			return
		}
		defer file.Close()

		reqs, err = services.ParseEnrollmentCSV(file)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		var body models.BulkEnrollRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		reqs = body.Students
	}

	students, err := h.Service.BulkEnroll(r.Context(), reqs, session, actorID, actorName)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"enrolled": len(students),
		"session":  session,
		"students": students,
	})
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Student not found")
		return
	}
	utils.JSON(w, http.StatusOK, student)
}

// GetBalance returns the student's current balance snapshot.
func (h *StudentHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	student, snapshot, err := h.Collection.ComputeBalance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"student": student,
		"balance": snapshot,
	})
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actorID, actorName := actor(r)
	student, err := h.Service.Update(r.Context(), mux.Vars(r)["id"], &req, actorID, actorName)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, student)
}

func (h *StudentHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req models.ApplyDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actorID, actorName := actor(r)
	student, err := h.Service.ApplyDiscount(r.Context(), mux.Vars(r)["id"], req.Discount, actorID, actorName)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, student)
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Student deleted"})
}

// ListSessions returns every academic year that has enrolled students.
func (h *StudentHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Service.ListSessions(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, sessions)
}
