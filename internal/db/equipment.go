package db

import (
	"context"
	"time"

	"github.com/farmops/equiptrack/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EquipmentCollection defines the interface for equipment data operations.
type EquipmentCollection interface {
	InsertEquipment(ctx context.Context, equipment models.Equipment) error
	FindEquipment(ctx context.Context, filter bson.M) ([]models.Equipment, error)
	FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error)
	UpdateEquipment(ctx context.Context, id string, equipment models.Equipment) error
	UpdateEngineHours(ctx context.Context, id string, hours float64) error
	DeleteEquipment(ctx context.Context, id string) error
}

// MongoEquipmentCollection implements EquipmentCollection for MongoDB.
type MongoEquipmentCollection struct {
	Collection *mongo.Collection
}

// InsertEquipment inserts an equipment record into the collection.
func (c *MongoEquipmentCollection) InsertEquipment(ctx context.Context, equipment models.Equipment) error {
	equipment.CreatedAt = time.Now()
	equipment.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, equipment)
	return err
}

// FindEquipment queries equipment records matching the filter.
func (c *MongoEquipmentCollection) FindEquipment(ctx context.Context, filter bson.M) ([]models.Equipment, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []models.Equipment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindEquipmentByID finds an equipment record by its ID.
func (c *MongoEquipmentCollection) FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var equipment models.Equipment
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&equipment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &equipment, nil
}

// UpdateEquipment updates an equipment record by its ID.
func (c *MongoEquipmentCollection) UpdateEquipment(ctx context.Context, id string, equipment models.Equipment) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	equipment.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": equipment})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateEngineHours sets the engine-hour meter reading on an equipment
// record; readings only move forward, a lower value is ignored.
func (c *MongoEquipmentCollection) UpdateEngineHours(ctx context.Context, id string, hours float64) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$max": bson.M{"engine_hours": hours},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEquipment deletes an equipment record by its ID.
func (c *MongoEquipmentCollection) DeleteEquipment(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
