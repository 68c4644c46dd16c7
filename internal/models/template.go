package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaintenanceTemplate is a reusable definition of a recurring service
// task. Applying a template to a piece of equipment creates a Schedule.
type MaintenanceTemplate struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Category      string             `bson:"category" json:"category"` // equipment category this applies to
	IntervalDays  int                `bson:"interval_days" json:"interval_days"`
	EstLaborHours float64            `bson:"est_labor_hours" json:"est_labor_hours"`
	PartsNotes    string             `bson:"parts_notes" json:"parts_notes"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// TemplateRequest is the payload for creating or updating a template.
type TemplateRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category" validate:"omitempty,oneof=tractor combine sprayer implement irrigation vehicle other"`
	IntervalDays  int     `json:"interval_days" validate:"required,gt=0"`
	EstLaborHours float64 `json:"est_labor_hours" validate:"gte=0"`
	PartsNotes    string  `json:"parts_notes"`
}
