package db

import (
	"context"
	"time"

	"github.com/farmops/equiptrack/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TemplateCollection defines the interface for maintenance template operations.
type TemplateCollection interface {
	InsertTemplate(ctx context.Context, template models.MaintenanceTemplate) error
	FindTemplates(ctx context.Context, filter bson.M) ([]models.MaintenanceTemplate, error)
	FindTemplateByID(ctx context.Context, id string) (*models.MaintenanceTemplate, error)
	UpdateTemplate(ctx context.Context, id string, template models.MaintenanceTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
}

// MongoTemplateCollection implements TemplateCollection for MongoDB.
type MongoTemplateCollection struct {
	Collection *mongo.Collection
}

// InsertTemplate inserts a maintenance template into the collection.
func (c *MongoTemplateCollection) InsertTemplate(ctx context.Context, template models.MaintenanceTemplate) error {
	template.CreatedAt = time.Now()
	template.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, template)
	return err
}

// FindTemplates queries maintenance templates matching the filter.
func (c *MongoTemplateCollection) FindTemplates(ctx context.Context, filter bson.M) ([]models.MaintenanceTemplate, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []models.MaintenanceTemplate
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindTemplateByID finds a maintenance template by its ID.
func (c *MongoTemplateCollection) FindTemplateByID(ctx context.Context, id string) (*models.MaintenanceTemplate, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var template models.MaintenanceTemplate
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// UpdateTemplate updates a maintenance template by its ID.
func (c *MongoTemplateCollection) UpdateTemplate(ctx context.Context, id string, template models.MaintenanceTemplate) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	template.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": template})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTemplate deletes a maintenance template by its ID.
func (c *MongoTemplateCollection) DeleteTemplate(ctx context.Context, id string) error {
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
