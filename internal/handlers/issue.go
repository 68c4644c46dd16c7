package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/farmops/equiptrack/internal/db"
	"github.com/farmops/equiptrack/internal/middleware"
	"github.com/farmops/equiptrack/internal/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueHandler handles equipment issue requests
type IssueHandler struct {
	issues    db.IssueCollection
	equipment db.EquipmentCollection
}

// NewIssueHandler creates a new issue handler
func NewIssueHandler(issues db.IssueCollection, equipment db.EquipmentCollection) *IssueHandler {
	return &IssueHandler{issues: issues, equipment: equipment}
}

// Create handles POST /api/issues
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.IssueRequest
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

	reportedBy := ""
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		reportedBy = claims.Username
	}

	status := req.Status
	if status == "" {
		status = models.IssueStatusOpen
	}

	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Ref:         models.NewIssueRef(),
		EquipmentID: req.EquipmentID,
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		Status:      status,
		Source:      models.IssueSourceStaff,
		ReportedBy:  reportedBy,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.issues.InsertIssue(r.Context(), issue); err != nil {
		log.WithError(err).Error("failed to insert issue")
		writeError(w, http.StatusInternalServerError, "Failed to create issue")
		return
	}

	writeJSON(w, http.StatusCreated, issue)
}

// List handles GET /api/issues with optional equipment_id, status and
// severity filters
func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if equipmentID := r.URL.Query().Get("equipment_id"); equipmentID != "" {
		filter["equipment_id"] = equipmentID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if severity := r.URL.Query().Get("severity"); severity != "" {
		if !models.IsValidSeverity(severity) {
			writeError(w, http.StatusBadRequest, "Invalid severity filter")
			return
		}
		filter["severity"] = severity
	}

	issues, err := h.issues.FindIssues(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("failed to list issues")
		writeError(w, http.StatusInternalServerError, "Failed to list issues")
		return
	}
	if issues == nil {
		issues = []models.Issue{}
	}

	writeJSON(w, http.StatusOK, issues)
}

// Get handles GET /api/issues/{id}
func (h *IssueHandler) Get(w http.ResponseWriter, r *http.Request) {
	issue, err := h.issues.FindIssueByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Issue not found")
			return
		}
		log.WithError(err).Error("failed to fetch issue")
		writeError(w, http.StatusInternalServerError, "Failed to fetch issue")
		return
	}

	writeJSON(w, http.StatusOK, issue)
}

// Update handles PUT /api/issues/{id}. Ref, source and reporter are
// immutable once filed.
func (h *IssueHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.issues.FindIssueByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Issue not found")
			return
		}
		log.WithError(err).Error("failed to fetch issue")
		writeError(w, http.StatusInternalServerError, "Failed to fetch issue")
		return
	}

	var req models.IssueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated := *existing
	updated.EquipmentID = req.EquipmentID
	updated.Title = req.Title
	updated.Description = req.Description
	updated.Severity = req.Severity
	if req.Status != "" {
		updated.Status = req.Status
	}

	if err := h.issues.UpdateIssue(r.Context(), id, updated); err != nil {
		log.WithError(err).Error("failed to update issue")
		writeError(w, http.StatusInternalServerError, "Failed to update issue")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Resolve handles POST /api/issues/{id}/resolve
func (h *IssueHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	resolvedAt := time.Now()
	if err := h.issues.ResolveIssue(r.Context(), id, resolvedAt); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Issue not found")
			return
		}
		log.WithError(err).Error("failed to resolve issue")
		writeError(w, http.StatusInternalServerError, "Failed to resolve issue")
		return
	}

	issue, err := h.issues.FindIssueByID(r.Context(), id)
	if err != nil {
		log.WithError(err).Error("failed to fetch resolved issue")
		writeError(w, http.StatusInternalServerError, "Failed to fetch issue")
		return
	}

	writeJSON(w, http.StatusOK, issue)
}

// Delete handles DELETE /api/issues/{id}
func (h *IssueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.issues.DeleteIssue(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Issue not found")
			return
		}
		log.WithError(err).Error("failed to delete issue")
		writeError(w, http.StatusInternalServerError, "Failed to delete issue")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
