package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Schedule is a recurring maintenance task bound to one piece of
// equipment. A nil LastCompleted means the task has never been serviced.
// The maintenance status is derived on every read and never stored.
type Schedule struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EquipmentID   string             `bson:"equipment_id" json:"equipment_id"`
	TemplateID    string             `bson:"template_id,omitempty" json:"template_id,omitempty"`
	TaskName      string             `bson:"task_name" json:"task_name"`
	IntervalDays  int                `bson:"interval_days" json:"interval_days"`
	LastCompleted *time.Time         `bson:"last_completed,omitempty" json:"last_completed,omitempty"`
	History       []CompletionRecord `bson:"history,omitempty" json:"history,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// CompletionRecord is one logged maintenance event on a schedule.
type CompletionRecord struct {
	CompletedAt time.Time `bson:"completed_at" json:"completed_at"`
	Technician  string    `bson:"technician" json:"technician"`
	Notes       string    `bson:"notes" json:"notes"`
	EngineHours float64   `bson:"engine_hours" json:"engine_hours"`
}

// StatusAt evaluates the schedule's maintenance status at the given time.
func (s *Schedule) StatusAt(now time.Time) (MaintenanceStatus, error) {
	return EvaluateStatus(s.LastCompleted, s.IntervalDays, now)
}

// ScheduleView is a schedule with its derived status attached for API
// responses. DaysUntilDue is nil when the task has never been completed.
type ScheduleView struct {
	Schedule
	Status       MaintenanceStatus `json:"status"`
	DaysUntilDue *int              `json:"days_until_due,omitempty"`
}

// NewScheduleView derives the response view of a schedule at the given
// time. Schedules are validated at the API boundary, so an invalid
// interval here means a corrupt document; those surface as an error.
func NewScheduleView(s Schedule, now time.Time) (ScheduleView, error) {
	status, err := s.StatusAt(now)
	if err != nil {
		return ScheduleView{}, err
	}
	view := ScheduleView{Schedule: s, Status: status}
	if s.LastCompleted != nil {
		days := DaysUntilDue(*s.LastCompleted, s.IntervalDays, now)
		view.DaysUntilDue = &days
	}
	return view, nil
}

// ScheduleRequest is the payload for creating or updating a schedule
// directly, without going through a template.
type ScheduleRequest struct {
	EquipmentID   string     `json:"equipment_id" validate:"required"`
	TemplateID    string     `json:"template_id"`
	TaskName      string     `json:"task_name" validate:"required"`
	IntervalDays  int        `json:"interval_days" validate:"required,gt=0"`
	LastCompleted *time.Time `json:"last_completed"`
}

// ApplyTemplateRequest is the payload for creating a schedule on a piece
// of equipment from a maintenance template.
type ApplyTemplateRequest struct {
	TemplateID string `json:"template_id" validate:"required"`
}

// CompleteRequest is the payload for logging a maintenance event.
// CompletedAt defaults to the current time when omitted.
type CompleteRequest struct {
	CompletedAt *time.Time `json:"completed_at"`
	Technician  string     `json:"technician"`
	Notes       string     `json:"notes"`
	EngineHours float64    `json:"engine_hours" validate:"gte=0"`
}
