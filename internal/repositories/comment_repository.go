package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonfeed/anonfeed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	GetCommentsByFeedIDs(ctx context.Context, feedIDs []primitive.ObjectID) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	DeleteCommentsByFeed(ctx context.Context, feedID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// CreateComment inserts a new comment document
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves a comment by ObjectID
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByFeedIDs retrieves all comments whose parent feed is in feedIDs
func (r *MongoCommentRepository) GetCommentsByFeedIDs(ctx context.Context, feedIDs []primitive.ObjectID) ([]models.Comment, error) {
	if len(feedIDs) == 0 {
		return []models.Comment{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"feed": bson.M{"$in": feedIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment deletes a comment document by ObjectID
func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteCommentsByFeed removes every comment attached to a feed and
// returns the deleted comment ids so callers can strip user references.
func (r *MongoCommentRepository) DeleteCommentsByFeed(ctx context.Context, feedID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"feed": feedID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	if len(ids) == 0 {
		return ids, nil
	}

	if _, err = r.collection.DeleteMany(ctx, bson.M{"feed": feedID}); err != nil {
		return nil, err
	}
	return ids, nil
}
