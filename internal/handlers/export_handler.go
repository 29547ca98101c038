package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"db-slice-export/internal/models"
	"db-slice-export/internal/services"
)

// Handler holds service dependencies
type Handler struct {
	exportService   *services.ExportService
	scheduleService *services.ScheduleService
	schemaService   *services.SchemaService
	hints           models.Hints
}

func NewHandler(exportService *services.ExportService, scheduleService *services.ScheduleService, schemaService *services.SchemaService, hints models.Hints) *Handler {
	return &Handler{
		exportService:   exportService,
		scheduleService: scheduleService,
		schemaService:   schemaService,
		hints:           hints,
	}
}

type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	Error     string      `json:"error,omitempty"`
}

type ExportRequest struct {
	Table string   `json:"table"`
	Keys  []string `json:"keys"`
}

type ConfigRequest struct {
	CronSchedule string `json:"cronSchedule,omitempty"`
	Seeds        string `json:"seeds,omitempty"`
	OutputDir    string `json:"outputDir,omitempty"`
}

// ExportHandler performs a one-shot export and returns the script as
// text/plain so it can be piped straight into a SQL client.
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Table == "" || len(req.Keys) == 0 {
		sendErrorResponse(w, "table and keys are required", http.StatusBadRequest)
		return
	}

	keys := make([][]interface{}, len(req.Keys))
	for i, key := range req.Keys {
		keys[i] = models.ParseKey(key)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	statements, err := h.exportService.Export(ctx, req.Table, keys)
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	for _, stmt := range statements {
		w.Write([]byte(stmt.SQL))
		w.Write([]byte("\n"))
	}
}

// TablesHandler returns the relationship index view of the connected schema.
func (h *Handler) TablesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	metas, err := h.schemaService.Introspect(ctx)
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if _, err := models.NewIndex(metas, h.hints); err != nil {
		sendErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sendSuccessResponse(w, "", map[string]interface{}{"tables": metas})
}

func (h *Handler) StartSchedulerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.scheduleService.Start(); err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	sendSuccessResponse(w, "Export scheduler started", nil)
}

func (h *Handler) StopSchedulerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.scheduleService.Stop(); err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	sendSuccessResponse(w, "Export scheduler stopped", nil)
}

func (h *Handler) RunHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.scheduleService.RunNow()
	status := h.scheduleService.GetStatus()
	sendSuccessResponse(w, "Scheduled seeds exported", status)
}

func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := h.scheduleService.GetStatus()
	sendSuccessResponse(w, "", status)
}

func (h *Handler) ConfigHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var configReq ConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&configReq); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.scheduleService.UpdateConfig(configReq.CronSchedule, configReq.Seeds, configReq.OutputDir); err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := h.scheduleService.GetStatus()
	sendSuccessResponse(w, "Configuration updated", status)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	sendSuccessResponse(w, "Service is running", nil)
}

func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{
		"health":         "GET /health",
		"export":         "POST /api/export",
		"tables":         "GET /api/schema/tables",
		"startScheduler": "POST /api/scheduler/start",
		"stopScheduler":  "POST /api/scheduler/stop",
		"runScheduler":   "POST /api/scheduler/run",
		"status":         "GET /api/scheduler/status",
		"updateConfig":   "PUT /api/scheduler/config",
	}

	response := Response{
		Success: true,
		Message: "Database Slice Export Service",
		Data:    map[string]interface{}{"endpoints": endpoints},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func sendSuccessResponse(w http.ResponseWriter, message string, data interface{}) {
	response := Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	response := Response{
		Success: false,
		Error:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
