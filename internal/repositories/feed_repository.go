package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonfeed/anonfeed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeedRepository defines the interface for feed data operations
type FeedRepository interface {
	CreateFeed(ctx context.Context, feed *models.Feed) error
	GetFeedByID(ctx context.Context, id primitive.ObjectID) (*models.Feed, error)
	GetFeedsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Feed, error)
	DeleteFeed(ctx context.Context, id primitive.ObjectID) error
	AddCommentRef(ctx context.Context, feedID, commentID primitive.ObjectID) error
	RemoveCommentRef(ctx context.Context, feedID, commentID primitive.ObjectID) error
}

// MongoFeedRepository implements FeedRepository for MongoDB
type MongoFeedRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedRepository creates a new MongoFeedRepository
func NewMongoFeedRepository(db *mongo.Database) *MongoFeedRepository {
	return &MongoFeedRepository{collection: db.Collection("feeds")}
}

// CreateFeed inserts a new feed document
func (r *MongoFeedRepository) CreateFeed(ctx context.Context, feed *models.Feed) error {
	feed.ID = primitive.NewObjectID()
	if feed.CreatedAt.IsZero() {
		feed.CreatedAt = time.Now()
	}
	if feed.Comments == nil {
		feed.Comments = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, feed)
	return err
}

// GetFeedByID retrieves a feed by ObjectID
func (r *MongoFeedRepository) GetFeedByID(ctx context.Context, id primitive.ObjectID) (*models.Feed, error) {
	var feed models.Feed
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&feed)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &feed, nil
}

// GetFeedsByIDs retrieves the given feeds ordered by creation time
// descending. Equal timestamps fall back to insertion order, which the
// monotonically increasing ObjectID preserves.
func (r *MongoFeedRepository) GetFeedsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Feed, error) {
	if len(ids) == 0 {
		return []models.Feed{}, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var feeds []models.Feed
	if err = cursor.All(ctx, &feeds); err != nil {
		return nil, err
	}
	return feeds, nil
}

// DeleteFeed deletes a feed document by ObjectID
func (r *MongoFeedRepository) DeleteFeed(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AddCommentRef appends a comment reference to the feed's comments array
func (r *MongoFeedRepository) AddCommentRef(ctx context.Context, feedID, commentID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": feedID},
		bson.M{"$addToSet": bson.M{"comments": commentID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// RemoveCommentRef removes a comment reference from the feed's comments array
func (r *MongoFeedRepository) RemoveCommentRef(ctx context.Context, feedID, commentID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": feedID},
		bson.M{"$pull": bson.M{"comments": commentID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
