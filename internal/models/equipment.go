package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Equipment represents a machine or implement tracked by the operation.
type Equipment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Category     string             `bson:"category" json:"category"` // "tractor", "combine", "sprayer", "implement", "irrigation", "vehicle", "other"
	Make         string             `bson:"make" json:"make"`
	Model        string             `bson:"model" json:"model"`
	Year         int                `bson:"year" json:"year"`
	SerialNumber string             `bson:"serial_number" json:"serial_number"`
	EngineHours  float64            `bson:"engine_hours" json:"engine_hours"`
	Location     string             `bson:"location" json:"location"`
	Status       string             `bson:"status" json:"status"` // "active", "in_shop", "retired"
	Notes        string             `bson:"notes" json:"notes"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

const (
	EquipmentStatusActive  = "active"
	EquipmentStatusInShop  = "in_shop"
	EquipmentStatusRetired = "retired"
)

// EquipmentRequest is the payload for creating or updating equipment.
type EquipmentRequest struct {
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category" validate:"required,oneof=tractor combine sprayer implement irrigation vehicle other"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	SerialNumber string  `json:"serial_number"`
	EngineHours  float64 `json:"engine_hours" validate:"gte=0"`
	Location     string  `json:"location"`
	Status       string  `json:"status" validate:"omitempty,oneof=active in_shop retired"`
	Notes        string  `json:"notes"`
}
