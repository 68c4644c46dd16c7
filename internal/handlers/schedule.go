package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/farmops/equiptrack/internal/db"
	"github.com/farmops/equiptrack/internal/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleHandler handles maintenance schedule requests. Every read path
// derives the maintenance status fresh; it is never read from storage.
type ScheduleHandler struct {
	schedules db.ScheduleCollection
	equipment db.EquipmentCollection
	templates db.TemplateCollection
	now       func() time.Time
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(schedules db.ScheduleCollection, equipment db.EquipmentCollection, templates db.TemplateCollection) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		equipment: equipment,
		templates: templates,
		now:       time.Now,
	}
}

// Create handles POST /api/schedules
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.equipment.FindEquipmentByID(r.Context(), req.EquipmentID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Equipment not found")
			return
		}
		log.WithError(err).Error("failed to fetch equipment")
		writeError(w, http.StatusInternalServerError, "Failed to fetch equipment")
		return
	}

	schedule := models.Schedule{
		ID:            primitive.NewObjectID(),
		EquipmentID:   req.EquipmentID,
		TemplateID:    req.TemplateID,
		TaskName:      req.TaskName,
		IntervalDays:  req.IntervalDays,
		LastCompleted: req.LastCompleted,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := h.schedules.InsertSchedule(r.Context(), schedule); err != nil {
		log.WithError(err).Error("failed to insert schedule")
		writeError(w, http.StatusInternalServerError, "Failed to create schedule")
		return
	}

	view, err := models.NewScheduleView(schedule, h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to derive schedule status")
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// ApplyTemplate handles POST /api/equipment/{id}/schedules: creates a
// schedule on the equipment from a maintenance template.
func (h *ScheduleHandler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	equipmentID := r.PathValue("id")

	var req models.ApplyTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.equipment.FindEquipmentByID(r.Context(), equipmentID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Equipment not found")
			return
		}
		log.WithError(err).Error("failed to fetch equipment")
		writeError(w, http.StatusInternalServerError, "Failed to fetch equipment")
		return
	}

	template, err := h.templates.FindTemplateByID(r.Context(), req.TemplateID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Template not found")
			return
		}
		log.WithError(err).Error("failed to fetch template")
		writeError(w, http.StatusInternalServerError, "Failed to fetch template")
		return
	}

	schedule := models.Schedule{
		ID:           primitive.NewObjectID(),
		EquipmentID:  equipmentID,
		TemplateID:   template.ID.Hex(),
		TaskName:     template.Name,
		IntervalDays: template.IntervalDays,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.schedules.InsertSchedule(r.Context(), schedule); err != nil {
		log.WithError(err).Error("failed to insert schedule")
		writeError(w, http.StatusInternalServerError, "Failed to create schedule")
		return
	}

	view, err := models.NewScheduleView(schedule, h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to derive schedule status")
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// List handles GET /api/schedules with optional equipment_id and status
// filters. The status filter is applied after derivation; it is not a
// stored field.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if equipmentID := r.URL.Query().Get("equipment_id"); equipmentID != "" {
		filter["equipment_id"] = equipmentID
	}

	statusFilter := models.MaintenanceStatus(r.URL.Query().Get("status"))
	if statusFilter != "" && !models.IsValidMaintenanceStatus(statusFilter) {
		writeError(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	schedules, err := h.schedules.FindSchedules(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("failed to list schedules")
		writeError(w, http.StatusInternalServerError, "Failed to list schedules")
		return
	}

	now := h.now()
	views := []models.ScheduleView{}
	for _, s := range schedules {
		view, err := models.NewScheduleView(s, now)
		if err != nil {
			log.WithField("schedule_id", s.ID.Hex()).WithError(err).Warn("skipping schedule with invalid interval")
			continue
		}
		if statusFilter != "" && view.Status != statusFilter {
			continue
		}
		views = append(views, view)
	}

	writeJSON(w, http.StatusOK, views)
}

// Get handles GET /api/schedules/{id}
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.schedules.FindScheduleByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Schedule not found")
			return
		}
		log.WithError(err).Error("failed to fetch schedule")
		writeError(w, http.StatusInternalServerError, "Failed to fetch schedule")
		return
	}

	view, err := models.NewScheduleView(*schedule, h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to derive schedule status")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Update handles PUT /api/schedules/{id}. Completion history carries
// over; only the task definition is replaced.
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.schedules.FindScheduleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Schedule not found")
			return
		}
		log.WithError(err).Error("failed to fetch schedule")
		writeError(w, http.StatusInternalServerError, "Failed to fetch schedule")
		return
	}

	var req models.ScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated := *existing
	updated.EquipmentID = req.EquipmentID
	updated.TemplateID = req.TemplateID
	updated.TaskName = req.TaskName
	updated.IntervalDays = req.IntervalDays
	if req.LastCompleted != nil {
		updated.LastCompleted = req.LastCompleted
	}

	if err := h.schedules.UpdateSchedule(r.Context(), id, updated); err != nil {
		log.WithError(err).Error("failed to update schedule")
		writeError(w, http.StatusInternalServerError, "Failed to update schedule")
		return
	}

	view, err := models.NewScheduleView(updated, h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to derive schedule status")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Complete handles POST /api/schedules/{id}/complete: logs a maintenance
// event, advancing last_completed and appending to the history. An empty
// body logs a completion now.
func (h *ScheduleHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	schedule, err := h.schedules.FindScheduleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Schedule not found")
			return
		}
		log.WithError(err).Error("failed to fetch schedule")
		writeError(w, http.StatusInternalServerError, "Failed to fetch schedule")
		return
	}

	var req models.CompleteRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	completedAt := h.now()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	record := models.CompletionRecord{
		CompletedAt: completedAt,
		Technician:  req.Technician,
		Notes:       req.Notes,
		EngineHours: req.EngineHours,
	}

	if err := h.schedules.LogCompletion(r.Context(), id, record); err != nil {
		log.WithError(err).Error("failed to log completion")
		writeError(w, http.StatusInternalServerError, "Failed to log completion")
		return
	}

	if req.EngineHours > 0 {
		if err := h.equipment.UpdateEngineHours(r.Context(), schedule.EquipmentID, req.EngineHours); err != nil {
			log.WithError(err).WithField("equipment_id", schedule.EquipmentID).Warn("failed to update engine hours")
		}
	}

	schedule.LastCompleted = &completedAt
	schedule.History = append(schedule.History, record)
	view, err := models.NewScheduleView(*schedule, h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to derive schedule status")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /api/schedules/{id}
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.schedules.DeleteSchedule(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Schedule not found")
			return
		}
		log.WithError(err).Error("failed to delete schedule")
		writeError(w, http.StatusInternalServerError, "Failed to delete schedule")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
