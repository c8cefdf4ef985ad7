package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edupay-backend/internal/events"
	"edupay-backend/internal/handlers"
	"edupay-backend/internal/middleware"
	"edupay-backend/internal/models"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	studentHandler *handlers.StudentHandler,
	feeStructureHandler *handlers.FeeStructureHandler,
	paymentHandler *handlers.PaymentHandler,
	dashboardHandler *handlers.DashboardHandler,
	reportHandler *handlers.ReportHandler,
	insightHandler *handlers.InsightHandler,
	activityLogHandler *handlers.ActivityLogHandler,
	systemSettingHandler *handlers.SystemSettingHandler,
	systemHandler *handlers.SystemHandler,
	healthHandler *handlers.HealthHandler,
	hub *events.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	admin := authMiddleware.RequireRole(models.RoleAdmin)
	collectors := authMiddleware.RequireRole(models.RoleAdmin, models.RoleAccounts)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", admin(http.HandlerFunc(userHandler.ListUsers)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", admin(http.HandlerFunc(userHandler.CreateUser)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(userHandler.GetUser)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(userHandler.UpdateUser)).ServeHTTP).Methods("PUT")
	usersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(userHandler.DeleteUser)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Students
	studentsAPI := r.PathPrefix("/api/students").Subrouter()
	studentsAPI.Use(authMiddleware.Authenticate)
	studentsAPI.HandleFunc("", studentHandler.ListStudents).Methods("GET")
	studentsAPI.HandleFunc("", studentHandler.CreateStudent).Methods("POST")
	studentsAPI.HandleFunc("/bulk", studentHandler.BulkEnroll).Methods("POST")
	studentsAPI.HandleFunc("/sessions", studentHandler.ListSessions).Methods("GET")
	studentsAPI.HandleFunc("/{id}", studentHandler.GetStudent).Methods("GET")
	studentsAPI.HandleFunc("/{id}", studentHandler.UpdateStudent).Methods("PUT")
	studentsAPI.HandleFunc("/{id}", admin(http.HandlerFunc(studentHandler.DeleteStudent)).ServeHTTP).Methods("DELETE")
	studentsAPI.HandleFunc("/{id}/balance", studentHandler.GetBalance).Methods("GET")
	studentsAPI.HandleFunc("/{id}/discount", admin(http.HandlerFunc(studentHandler.ApplyDiscount)).ServeHTTP).Methods("POST")
	studentsAPI.HandleFunc("/{id}/payments", paymentHandler.ListByStudent).Methods("GET")
	studentsAPI.HandleFunc("/{id}/clearance-certificate", reportHandler.ClearanceCertificate).Methods("GET")

	// Protected API routes - Fee Structures
	structuresAPI := r.PathPrefix("/api/fee-structures").Subrouter()
	structuresAPI.Use(authMiddleware.Authenticate)
	structuresAPI.HandleFunc("", feeStructureHandler.ListStructures).Methods("GET")
	structuresAPI.HandleFunc("", admin(http.HandlerFunc(feeStructureHandler.CreateStructure)).ServeHTTP).Methods("POST")
	structuresAPI.HandleFunc("/{id}", feeStructureHandler.GetStructure).Methods("GET")
	structuresAPI.HandleFunc("/{id}", admin(http.HandlerFunc(feeStructureHandler.UpdateStructure)).ServeHTTP).Methods("PUT")
	structuresAPI.HandleFunc("/{id}", admin(http.HandlerFunc(feeStructureHandler.DeleteStructure)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Payments (collection restricted to accounts
	// staff and admins)
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("", collectors(http.HandlerFunc(paymentHandler.SubmitPayment)).ServeHTTP).Methods("POST")
	paymentsAPI.HandleFunc("", paymentHandler.ListPayments).Methods("GET")
	paymentsAPI.HandleFunc("/receipt/{receipt_number}", paymentHandler.GetByReceiptNumber).Methods("GET")
	paymentsAPI.HandleFunc("/receipt/{receipt_number}/pdf", paymentHandler.ReceiptPDF).Methods("GET")

	// Protected API routes - Dashboard and reports
	dashboardAPI := r.PathPrefix("/api/dashboard").Subrouter()
	dashboardAPI.Use(authMiddleware.Authenticate)
	dashboardAPI.HandleFunc("", dashboardHandler.GetStats).Methods("GET")
	dashboardAPI.HandleFunc("/insights", insightHandler.GetInsights).Methods("GET")

	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/defaulters", reportHandler.ListDefaulters).Methods("GET")
	reportsAPI.HandleFunc("/defaulters/csv", reportHandler.DefaultersCSV).Methods("GET")
	reportsAPI.HandleFunc("/collections", reportHandler.DailyCollections).Methods("GET")

	// Protected API routes - Activity logs (admin only)
	logsAPI := r.PathPrefix("/api/activity-logs").Subrouter()
	logsAPI.Use(authMiddleware.Authenticate)
	logsAPI.HandleFunc("", admin(http.HandlerFunc(activityLogHandler.ListLogs)).ServeHTTP).Methods("GET")

	// Protected API routes - Settings
	settingsAPI := r.PathPrefix("/api/settings").Subrouter()
	settingsAPI.Use(authMiddleware.Authenticate)
	settingsAPI.HandleFunc("", systemSettingHandler.ListSettings).Methods("GET")
	settingsAPI.HandleFunc("/active-session", systemSettingHandler.GetActiveSession).Methods("GET")
	settingsAPI.HandleFunc("/{key}", systemSettingHandler.GetSetting).Methods("GET")
	settingsAPI.HandleFunc("/{key}", admin(http.HandlerFunc(systemSettingHandler.UpdateSetting)).ServeHTTP).Methods("PUT")

	// Protected API routes - System stats (admin only)
	systemAPI := r.PathPrefix("/api/system").Subrouter()
	systemAPI.Use(authMiddleware.Authenticate)
	systemAPI.HandleFunc("/stats", admin(http.HandlerFunc(systemHandler.GetStats)).ServeHTTP).Methods("GET")

	// WebSocket - live dashboard updates
	r.Handle("/ws/updates", hub)

	// Health endpoint (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
