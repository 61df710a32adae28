package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medstock-backend/internal/handlers"
	"medstock-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	stateHandler *handlers.StateHandler,
	medicineHandler *handlers.MedicineHandler,
	withdrawalHandler *handlers.WithdrawalHandler,
	orderHandler *handlers.OrderHandler,
	alertHandler *handlers.AlertHandler,
	taskHandler *handlers.TaskHandler,
	auditHandler *handlers.AuditHandler,
	userHandler *handlers.UserHandler,
	settingHandler *handlers.SettingHandler,
	reportHandler *handlers.ReportHandler,
	backupHandler *handlers.BackupHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Session
	authAPI := r.PathPrefix("/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	authAPI.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Protected API routes - Full state snapshot and live stream
	stateAPI := r.PathPrefix("/api/state").Subrouter()
	stateAPI.Use(authMiddleware.Authenticate)
	stateAPI.HandleFunc("", stateHandler.GetState).Methods("GET")

	wsAPI := r.PathPrefix("/ws/state").Subrouter()
	wsAPI.Use(authMiddleware.Authenticate)
	wsAPI.HandleFunc("", stateHandler.StreamState).Methods("GET")

	syncAPI := r.PathPrefix("/api/sync").Subrouter()
	syncAPI.Use(authMiddleware.Authenticate)
	syncAPI.HandleFunc("", stateHandler.SyncNow).Methods("POST")

	// Protected API routes - Medicines
	medicinesAPI := r.PathPrefix("/api/medicines").Subrouter()
	medicinesAPI.Use(authMiddleware.Authenticate)
	medicinesAPI.HandleFunc("", medicineHandler.ListMedicines).Methods("GET")
	medicinesAPI.HandleFunc("", medicineHandler.CreateMedicine).Methods("POST")
	medicinesAPI.HandleFunc("/search", medicineHandler.SearchByBarcode).Methods("GET")
	medicinesAPI.HandleFunc("/{id}", medicineHandler.GetMedicine).Methods("GET")
	medicinesAPI.HandleFunc("/{id}", medicineHandler.UpdateMedicine).Methods("PUT")
	medicinesAPI.HandleFunc("/{id}", medicineHandler.DeleteMedicine).Methods("DELETE")
	medicinesAPI.HandleFunc("/{id}/dispose", medicineHandler.DisposeMedicine).Methods("POST")

	// Protected API routes - Withdrawals
	withdrawalsAPI := r.PathPrefix("/api/withdrawals").Subrouter()
	withdrawalsAPI.Use(authMiddleware.Authenticate)
	withdrawalsAPI.HandleFunc("", withdrawalHandler.ListWithdrawals).Methods("GET")
	withdrawalsAPI.HandleFunc("", withdrawalHandler.Finalize).Methods("POST")

	// Protected API routes - Orders
	ordersAPI := r.PathPrefix("/api/orders").Subrouter()
	ordersAPI.Use(authMiddleware.Authenticate)
	ordersAPI.HandleFunc("", orderHandler.ListOrders).Methods("GET")
	ordersAPI.HandleFunc("", orderHandler.CreateOrder).Methods("POST")
	ordersAPI.HandleFunc("/{id}/status", orderHandler.UpdateStatus).Methods("PUT")
	ordersAPI.HandleFunc("/{id}/complete", orderHandler.CompleteDelivery).Methods("POST")
	ordersAPI.HandleFunc("/{id}", orderHandler.DeleteOrder).Methods("DELETE")

	// Protected API routes - Alerts
	alertsAPI := r.PathPrefix("/api/alerts").Subrouter()
	alertsAPI.Use(authMiddleware.Authenticate)
	alertsAPI.HandleFunc("", alertHandler.ListAlerts).Methods("GET")
	alertsAPI.HandleFunc("/broadcast", alertHandler.Broadcast).Methods("POST")
	alertsAPI.HandleFunc("/issues", alertHandler.ReportIssue).Methods("POST")
	alertsAPI.HandleFunc("/{id}/status", alertHandler.UpdateStatus).Methods("PUT")
	alertsAPI.HandleFunc("/{id}/read", alertHandler.MarkRead).Methods("POST")
	alertsAPI.HandleFunc("/{id}/chat", alertHandler.PostChatMessage).Methods("POST")

	// Protected API routes - Tasks
	tasksAPI := r.PathPrefix("/api/tasks").Subrouter()
	tasksAPI.Use(authMiddleware.Authenticate)
	tasksAPI.HandleFunc("", taskHandler.ListTasks).Methods("GET")
	tasksAPI.HandleFunc("", taskHandler.CreateTask).Methods("POST")
	tasksAPI.HandleFunc("/{id}/complete", taskHandler.CompleteTask).Methods("POST")
	tasksAPI.HandleFunc("/{id}", taskHandler.DeleteTask).Methods("DELETE")

	// Protected API routes - Inventory audits
	auditsAPI := r.PathPrefix("/api/audits").Subrouter()
	auditsAPI.Use(authMiddleware.Authenticate)
	auditsAPI.HandleFunc("", auditHandler.ListAudits).Methods("GET")
	auditsAPI.HandleFunc("", auditHandler.SubmitAudit).Methods("POST")
	auditsAPI.HandleFunc("/{id}/apply", authMiddleware.RequireRole("admin")(http.HandlerFunc(auditHandler.ApplyAudit)).ServeHTTP).Methods("POST")

	// Protected API routes - Users (admin only for writes)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", userHandler.ListUsers).Methods("GET")
	usersAPI.HandleFunc("", authMiddleware.RequireRole("admin")(http.HandlerFunc(userHandler.CreateUser)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireRole("admin")(http.HandlerFunc(userHandler.UpdateUser)).ServeHTTP).Methods("PUT")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireRole("admin")(http.HandlerFunc(userHandler.DeleteUser)).ServeHTTP).Methods("DELETE")

	// Protected API routes - App settings (admin only for writes)
	settingsAPI := r.PathPrefix("/api/settings").Subrouter()
	settingsAPI.Use(authMiddleware.Authenticate)
	settingsAPI.HandleFunc("", settingHandler.GetSettings).Methods("GET")
	settingsAPI.HandleFunc("", authMiddleware.RequireRole("admin")(http.HandlerFunc(settingHandler.UpdateSettings)).ServeHTTP).Methods("PUT")

	// Protected API routes - Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/withdrawals.pdf", reportHandler.WithdrawalPDF).Methods("GET")
	reportsAPI.HandleFunc("/inventory.csv", reportHandler.InventoryCSV).Methods("GET")
	reportsAPI.HandleFunc("/disposals.csv", reportHandler.DisposalsCSV).Methods("GET")
	reportsAPI.HandleFunc("/deliveries.csv", reportHandler.DeliveriesCSV).Methods("GET")
	reportsAPI.HandleFunc("/audits/{id}.pdf", reportHandler.AuditPDF).Methods("GET")

	// Protected API routes - Backup (admin only)
	backupAPI := r.PathPrefix("/api/backup").Subrouter()
	backupAPI.Use(authMiddleware.Authenticate)
	backupAPI.HandleFunc("", authMiddleware.RequireRole("admin")(http.HandlerFunc(backupHandler.TriggerBackup)).ServeHTTP).Methods("POST")

	// Health endpoints (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Readiness).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
