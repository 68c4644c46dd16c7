package db

import (
	"context"
	"time"

	"github.com/farmops/equiptrack/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleCollection defines the interface for maintenance schedule operations.
// Derived status never touches this layer; only last_completed and the
// completion history are persisted.
type ScheduleCollection interface {
	InsertSchedule(ctx context.Context, schedule models.Schedule) error
	FindSchedules(ctx context.Context, filter bson.M) ([]models.Schedule, error)
	FindScheduleByID(ctx context.Context, id string) (*models.Schedule, error)
	UpdateSchedule(ctx context.Context, id string, schedule models.Schedule) error
	LogCompletion(ctx context.Context, id string, record models.CompletionRecord) error
	DeleteSchedule(ctx context.Context, id string) error
	DeleteSchedulesForEquipment(ctx context.Context, equipmentID string) error
}

// MongoScheduleCollection implements ScheduleCollection for MongoDB.
type MongoScheduleCollection struct {
	Collection *mongo.Collection
}

// InsertSchedule inserts a schedule into the collection.
func (c *MongoScheduleCollection) InsertSchedule(ctx context.Context, schedule models.Schedule) error {
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, schedule)
	return err
}

// FindSchedules queries schedules matching the filter.
func (c *MongoScheduleCollection) FindSchedules(ctx context.Context, filter bson.M) ([]models.Schedule, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []models.Schedule
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindScheduleByID finds a schedule by its ID.
func (c *MongoScheduleCollection) FindScheduleByID(ctx context.Context, id string) (*models.Schedule, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var schedule models.Schedule
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&schedule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

// UpdateSchedule updates a schedule by its ID.
func (c *MongoScheduleCollection) UpdateSchedule(ctx context.Context, id string, schedule models.Schedule) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	schedule.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": schedule})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// LogCompletion records a maintenance event: appends the record to the
// history and advances last_completed in a single update.
func (c *MongoScheduleCollection) LogCompletion(ctx context.Context, id string, record models.CompletionRecord) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$push": bson.M{"history": record},
			"$set": bson.M{
				"last_completed": record.CompletedAt,
				"updated_at":     time.Now(),
			},
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

// DeleteSchedule deletes a schedule by its ID.
func (c *MongoScheduleCollection) DeleteSchedule(ctx context.Context, id string) error {
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

// DeleteSchedulesForEquipment removes all schedules attached to a piece
// of equipment. Used when the equipment itself is deleted.
func (c *MongoScheduleCollection) DeleteSchedulesForEquipment(ctx context.Context, equipmentID string) error {
	_, err := c.Collection.DeleteMany(ctx, bson.M{"equipment_id": equipmentID})
	return err
}
