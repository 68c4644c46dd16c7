package models

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Issue is a reported problem on a piece of equipment. Ref is a stable
// human-facing reference code, distinct from the database ID.
type Issue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Ref         string             `bson:"ref" json:"ref"`
	EquipmentID string             `bson:"equipment_id" json:"equipment_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Severity    string             `bson:"severity" json:"severity"` // "low", "medium", "high", "critical"
	Status      string             `bson:"status" json:"status"`     // "open", "in_progress", "resolved"
	Source      string             `bson:"source" json:"source"`     // "staff" or "telemetry"
	ReportedBy  string             `bson:"reported_by" json:"reported_by"`
	ResolvedAt  *time.Time         `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

const (
	IssueStatusOpen       = "open"
	IssueStatusInProgress = "in_progress"
	IssueStatusResolved   = "resolved"

	IssueSourceStaff     = "staff"
	IssueSourceTelemetry = "telemetry"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// NewIssueRef generates a reference code for a new issue.
func NewIssueRef() string {
	return "ISS-" + uuid.NewString()[:8]
}

// IsValidSeverity checks if an issue severity is valid
func IsValidSeverity(severity string) bool {
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// IssueRequest is the payload for creating or updating an issue.
type IssueRequest struct {
	EquipmentID string `json:"equipment_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Severity    string `json:"severity" validate:"required,oneof=low medium high critical"`
	Status      string `json:"status" validate:"omitempty,oneof=open in_progress resolved"`
}
