package handlers

import (
	"net/http"
	"time"

	"github.com/farmops/equiptrack/internal/db"
	"github.com/farmops/equiptrack/internal/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// DashboardHandler summarizes the state of the operation: equipment by
// status, open issues by severity, and schedules bucketed by derived
// maintenance status. Status is evaluated once per schedule per request.
type DashboardHandler struct {
	equipment db.EquipmentCollection
	schedules db.ScheduleCollection
	issues    db.IssueCollection
	now       func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(equipment db.EquipmentCollection, schedules db.ScheduleCollection, issues db.IssueCollection) *DashboardHandler {
	return &DashboardHandler{
		equipment: equipment,
		schedules: schedules,
		issues:    issues,
		now:       time.Now,
	}
}

// DashboardResponse is the summary payload for the landing view.
type DashboardResponse struct {
	Equipment struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"by_status"`
	} `json:"equipment"`
	Issues struct {
		Open       int            `json:"open"`
		BySeverity map[string]int `json:"by_severity"`
	} `json:"issues"`
	Maintenance struct {
		PastDue    int `json:"past_due"`
		ComingDue  int `json:"coming_due"`
		OnSchedule int `json:"on_schedule"`
	} `json:"maintenance"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Summary handles GET /api/dashboard
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var resp DashboardResponse
	resp.Equipment.ByStatus = make(map[string]int)
	resp.Issues.BySeverity = make(map[string]int)

	equipment, err := h.equipment.FindEquipment(r.Context(), bson.M{})
	if err != nil {
		log.WithError(err).Error("failed to load equipment for dashboard")
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	resp.Equipment.Total = len(equipment)
	for _, e := range equipment {
		resp.Equipment.ByStatus[e.Status]++
	}

	issues, err := h.issues.FindIssues(r.Context(), bson.M{"status": bson.M{"$ne": models.IssueStatusResolved}})
	if err != nil {
		log.WithError(err).Error("failed to load issues for dashboard")
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	resp.Issues.Open = len(issues)
	for _, i := range issues {
		resp.Issues.BySeverity[i.Severity]++
	}

	schedules, err := h.schedules.FindSchedules(r.Context(), bson.M{})
	if err != nil {
		log.WithError(err).Error("failed to load schedules for dashboard")
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	now := h.now()
	for _, s := range schedules {
		status, err := s.StatusAt(now)
		if err != nil {
			log.WithField("schedule_id", s.ID.Hex()).WithError(err).Warn("skipping schedule with invalid interval")
			continue
		}
		switch status {
		case models.StatusPastDue:
			resp.Maintenance.PastDue++
		case models.StatusComingDue:
			resp.Maintenance.ComingDue++
		case models.StatusOnSchedule:
			resp.Maintenance.OnSchedule++
		}
	}

	resp.GeneratedAt = now
	writeJSON(w, http.StatusOK, resp)
}
