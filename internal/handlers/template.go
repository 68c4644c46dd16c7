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

// TemplateHandler handles maintenance template CRUD requests
type TemplateHandler struct {
	templates db.TemplateCollection
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templates db.TemplateCollection) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// Create handles POST /api/templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	template := models.MaintenanceTemplate{
		ID:            primitive.NewObjectID(),
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		IntervalDays:  req.IntervalDays,
		EstLaborHours: req.EstLaborHours,
		PartsNotes:    req.PartsNotes,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := h.templates.InsertTemplate(r.Context(), template); err != nil {
		log.WithError(err).Error("failed to insert template")
		writeError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}

	writeJSON(w, http.StatusCreated, template)
}

// List handles GET /api/templates with an optional category filter
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	templates, err := h.templates.FindTemplates(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("failed to list templates")
		writeError(w, http.StatusInternalServerError, "Failed to list templates")
		return
	}
	if templates == nil {
		templates = []models.MaintenanceTemplate{}
	}

	writeJSON(w, http.StatusOK, templates)
}

// Get handles GET /api/templates/{id}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	template, err := h.templates.FindTemplateByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return
		}
		log.WithError(err).Error("failed to fetch template")
		writeError(w, http.StatusInternalServerError, "Failed to fetch template")
		return
	}

	writeJSON(w, http.StatusOK, template)
}

// Update handles PUT /api/templates/{id}. Schedules already created from
// the template keep their own interval; they are not rewritten.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.templates.FindTemplateByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return
		}
		log.WithError(err).Error("failed to fetch template")
		writeError(w, http.StatusInternalServerError, "Failed to fetch template")
		return
	}

	var req models.TemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated := *existing
	updated.Name = req.Name
	updated.Description = req.Description
	updated.Category = req.Category
	updated.IntervalDays = req.IntervalDays
	updated.EstLaborHours = req.EstLaborHours
	updated.PartsNotes = req.PartsNotes

	if err := h.templates.UpdateTemplate(r.Context(), id, updated); err != nil {
		log.WithError(err).Error("failed to update template")
		writeError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/templates/{id}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.DeleteTemplate(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return
		}
		log.WithError(err).Error("failed to delete template")
		writeError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
