package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/farmops/equiptrack/internal/db"
	"github.com/farmops/equiptrack/internal/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EquipmentHandler handles equipment CRUD requests
type EquipmentHandler struct {
	equipment db.EquipmentCollection
	schedules db.ScheduleCollection
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(equipment db.EquipmentCollection, schedules db.ScheduleCollection) *EquipmentHandler {
	return &EquipmentHandler{equipment: equipment, schedules: schedules}
}

// Create handles POST /api/equipment
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EquipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := req.Status
	if status == "" {
		status = models.EquipmentStatusActive
	}

	equipment := models.Equipment{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		Category:     req.Category,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		SerialNumber: req.SerialNumber,
		EngineHours:  req.EngineHours,
		Location:     req.Location,
		Status:       status,
		Notes:        req.Notes,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.equipment.InsertEquipment(r.Context(), equipment); err != nil {
		log.WithError(err).Error("failed to insert equipment")
		writeError(w, http.StatusInternalServerError, "Failed to create equipment")
		return
	}

	writeJSON(w, http.StatusCreated, equipment)
}

// List handles GET /api/equipment with optional category/status filters
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	equipment, err := h.equipment.FindEquipment(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("failed to list equipment")
		writeError(w, http.StatusInternalServerError, "Failed to list equipment")
		return
	}
	if equipment == nil {
		equipment = []models.Equipment{}
	}

	writeJSON(w, http.StatusOK, equipment)
}

// Get handles GET /api/equipment/{id}
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.equipment.FindEquipmentByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Equipment not found")
			return
		}
		log.WithError(err).Error("failed to fetch equipment")
		writeError(w, http.StatusInternalServerError, "Failed to fetch equipment")
		return
	}

	writeJSON(w, http.StatusOK, equipment)
}

// Update handles PUT /api/equipment/{id}
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.equipment.FindEquipmentByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Equipment not found")
			return
		}
		log.WithError(err).Error("failed to fetch equipment")
		writeError(w, http.StatusInternalServerError, "Failed to fetch equipment")
		return
	}

	var req models.EquipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated := *existing
	updated.Name = req.Name
	updated.Category = req.Category
	updated.Make = req.Make
	updated.Model = req.Model
	updated.Year = req.Year
	updated.SerialNumber = req.SerialNumber
	updated.EngineHours = req.EngineHours
	updated.Location = req.Location
	updated.Notes = req.Notes
	if req.Status != "" {
		updated.Status = req.Status
	}

	if err := h.equipment.UpdateEquipment(r.Context(), id, updated); err != nil {
		log.WithError(err).Error("failed to update equipment")
		writeError(w, http.StatusInternalServerError, "Failed to update equipment")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/equipment/{id}. Schedules attached to the
// equipment are removed with it.
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.equipment.DeleteEquipment(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Equipment not found")
			return
		}
		log.WithError(err).Error("failed to delete equipment")
		writeError(w, http.StatusInternalServerError, "Failed to delete equipment")
		return
	}

	if err := h.schedules.DeleteSchedulesForEquipment(r.Context(), id); err != nil {
		log.WithError(err).WithField("equipment_id", id).Error("failed to delete schedules for equipment")
	}

	w.WriteHeader(http.StatusNoContent)
}
