package db

import (
	"context"
	"time"

	"github.com/farmops/equiptrack/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IssueCollection defines the interface for issue data operations.
type IssueCollection interface {
	InsertIssue(ctx context.Context, issue models.Issue) error
	FindIssues(ctx context.Context, filter bson.M) ([]models.Issue, error)
	FindIssueByID(ctx context.Context, id string) (*models.Issue, error)
	UpdateIssue(ctx context.Context, id string, issue models.Issue) error
	ResolveIssue(ctx context.Context, id string, resolvedAt time.Time) error
	DeleteIssue(ctx context.Context, id string) error
}

// MongoIssueCollection implements IssueCollection for MongoDB.
type MongoIssueCollection struct {
	Collection *mongo.Collection
}

// InsertIssue inserts an issue into the collection.
func (c *MongoIssueCollection) InsertIssue(ctx context.Context, issue models.Issue) error {
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, issue)
	return err
}

// FindIssues queries issues matching the filter.
func (c *MongoIssueCollection) FindIssues(ctx context.Context, filter bson.M) ([]models.Issue, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []models.Issue
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindIssueByID finds an issue by its ID.
func (c *MongoIssueCollection) FindIssueByID(ctx context.Context, id string) (*models.Issue, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var issue models.Issue
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// UpdateIssue updates an issue by its ID.
func (c *MongoIssueCollection) UpdateIssue(ctx context.Context, id string, issue models.Issue) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	issue.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": issue})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ResolveIssue marks an issue resolved and stamps the resolution time.
func (c *MongoIssueCollection) ResolveIssue(ctx context.Context, id string, resolvedAt time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"status":      models.IssueStatusResolved,
			"resolved_at": resolvedAt,
			"updated_at":  time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIssue deletes an issue by its ID.
func (c *MongoIssueCollection) DeleteIssue(ctx context.Context, id string) error {
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
