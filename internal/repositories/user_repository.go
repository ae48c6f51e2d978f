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

// UserRepository defines the interface for user directory operations,
// including the relationship edge mutations. Edge updates are expressed
// as $addToSet/$pull so they stay atomic per document; the two-sided
// pairs run inside a session transaction.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetVerifiedUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SearchByUsername(ctx context.Context, query string) ([]models.UserCompact, error)

	SetCredentials(ctx context.Context, id primitive.ObjectID, passwordHash, verifyCode string, expiry time.Time) error
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	SetAccepting(ctx context.Context, id primitive.ObjectID, accepting bool) error
	SetPublic(ctx context.Context, id primitive.ObjectID, public bool) error
	SetProfilePhoto(ctx context.Context, id primitive.ObjectID, url string) error
	SetCoverPhoto(ctx context.Context, id primitive.ObjectID, url string) error

	AddPendingRequest(ctx context.Context, targetID, requesterID primitive.ObjectID) error
	AcceptFollow(ctx context.Context, targetID, requesterID primitive.ObjectID) error
	RemovePendingRequest(ctx context.Context, targetID, requesterID primitive.ObjectID) error
	CreateFollow(ctx context.Context, followerID, targetID primitive.ObjectID) error
	RemoveFollow(ctx context.Context, followerID, targetID primitive.ObjectID) error

	AddFeedRef(ctx context.Context, userID, feedID primitive.ObjectID) error
	RemoveFeedRef(ctx context.Context, userID, feedID primitive.ObjectID) error
	AddCommentRef(ctx context.Context, userID, commentID primitive.ObjectID) error
	RemoveCommentRef(ctx context.Context, userID, commentID primitive.ObjectID) error
	RemoveCommentRefs(ctx context.Context, commentIDs []primitive.ObjectID) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user document
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.PendingFollowRequests == nil {
		user.PendingFollowRequests = []primitive.ObjectID{}
	}
	if user.SentFollowRequests == nil {
		user.SentFollowRequests = []primitive.ObjectID{}
	}
	if user.Feeds == nil {
		user.Feeds = []primitive.ObjectID{}
	}
	if user.Comments == nil {
		user.Comments = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ObjectID
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetUserByUsername retrieves a user by username
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetVerifiedUserByUsername retrieves a verified user by username
func (r *MongoUserRepository) GetVerifiedUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "verified": true})
}

// GetUsersByIDs retrieves all users whose id is in ids
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchByUsername performs a case-insensitive substring search on usernames
func (r *MongoUserRepository) SearchByUsername(ctx context.Context, query string) ([]models.UserCompact, error) {
	filter := bson.M{"username": bson.M{"$regex": query, "$options": "i"}}
	findOptions := options.Find().SetProjection(bson.M{"username": 1, "profilePhoto": 1})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.UserCompact
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetCredentials replaces the password hash and verification code of an
// unverified user re-registering with the same email
func (r *MongoUserRepository) SetCredentials(ctx context.Context, id primitive.ObjectID, passwordHash, verifyCode string, expiry time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"password":         passwordHash,
		"verifyCode":       verifyCode,
		"verifyCodeExpiry": expiry,
	}})
}

// MarkVerified flips the verified flag
func (r *MongoUserRepository) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"verified": true}})
}

// SetAccepting toggles whether the user accepts incoming feeds
func (r *MongoUserRepository) SetAccepting(ctx context.Context, id primitive.ObjectID, accepting bool) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"isAccepting": accepting}})
}

// SetPublic toggles whether the profile is public
func (r *MongoUserRepository) SetPublic(ctx context.Context, id primitive.ObjectID, public bool) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"isPublic": public}})
}

// SetProfilePhoto stores the CDN reference for the profile photo
func (r *MongoUserRepository) SetProfilePhoto(ctx context.Context, id primitive.ObjectID, url string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"profilePhoto": url}})
}

// SetCoverPhoto stores the CDN reference for the cover photo
func (r *MongoUserRepository) SetCoverPhoto(ctx context.Context, id primitive.ObjectID, url string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"coverPhoto": url}})
}

// withTransaction runs fn inside a session transaction so the two-sided
// edge updates commit or abort together. Requires a replica set.
func (r *MongoUserRepository) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// AddPendingRequest records an unapproved follow request on both sides:
// incoming on the target, outgoing on the requester.
func (r *MongoUserRepository) AddPendingRequest(ctx context.Context, targetID, requesterID primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.collection.UpdateOne(sc, bson.M{"_id": targetID},
			bson.M{"$addToSet": bson.M{"pendingFollowRequests": requesterID}}); err != nil {
			return err
		}
		_, err := r.collection.UpdateOne(sc, bson.M{"_id": requesterID},
			bson.M{"$addToSet": bson.M{"sentFollowRequests": targetID}})
		return err
	})
}

// AcceptFollow promotes a pending request into a follower/following edge
// pair and clears the request from both sides.
func (r *MongoUserRepository) AcceptFollow(ctx context.Context, targetID, requesterID primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.collection.UpdateOne(sc, bson.M{"_id": targetID}, bson.M{
			"$pull":     bson.M{"pendingFollowRequests": requesterID},
			"$addToSet": bson.M{"followers": requesterID},
		}); err != nil {
			return err
		}
		_, err := r.collection.UpdateOne(sc, bson.M{"_id": requesterID}, bson.M{
			"$pull":     bson.M{"sentFollowRequests": targetID},
			"$addToSet": bson.M{"following": targetID},
		})
		return err
	})
}

// RemovePendingRequest drops an unapproved request from both sides
// without creating any edge. Removing an absent request is a no-op.
func (r *MongoUserRepository) RemovePendingRequest(ctx context.Context, targetID, requesterID primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.collection.UpdateOne(sc, bson.M{"_id": targetID},
			bson.M{"$pull": bson.M{"pendingFollowRequests": requesterID}}); err != nil {
			return err
		}
		_, err := r.collection.UpdateOne(sc, bson.M{"_id": requesterID},
			bson.M{"$pull": bson.M{"sentFollowRequests": targetID}})
		return err
	})
}

// CreateFollow establishes a follower/following edge pair directly,
// without the request step. Used for public accounts.
func (r *MongoUserRepository) CreateFollow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.collection.UpdateOne(sc, bson.M{"_id": followerID},
			bson.M{"$addToSet": bson.M{"following": targetID}}); err != nil {
			return err
		}
		_, err := r.collection.UpdateOne(sc, bson.M{"_id": targetID},
			bson.M{"$addToSet": bson.M{"followers": followerID}})
		return err
	})
}

// RemoveFollow removes the follower/following edge pair
func (r *MongoUserRepository) RemoveFollow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.collection.UpdateOne(sc, bson.M{"_id": followerID},
			bson.M{"$pull": bson.M{"following": targetID}}); err != nil {
			return err
		}
		_, err := r.collection.UpdateOne(sc, bson.M{"_id": targetID},
			bson.M{"$pull": bson.M{"followers": followerID}})
		return err
	})
}

// AddFeedRef appends a feed reference to the user's feeds array
func (r *MongoUserRepository) AddFeedRef(ctx context.Context, userID, feedID primitive.ObjectID) error {
	return r.updateOne(ctx, userID, bson.M{"$addToSet": bson.M{"feeds": feedID}})
}

// RemoveFeedRef removes a feed reference from the user's feeds array.
// Returns ErrNotFound when the reference was not present.
func (r *MongoUserRepository) RemoveFeedRef(ctx context.Context, userID, feedID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "feeds": feedID},
		bson.M{"$pull": bson.M{"feeds": feedID}})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AddCommentRef appends a comment reference to the user's comments array
func (r *MongoUserRepository) AddCommentRef(ctx context.Context, userID, commentID primitive.ObjectID) error {
	return r.updateOne(ctx, userID, bson.M{"$addToSet": bson.M{"comments": commentID}})
}

// RemoveCommentRef removes a single comment reference from a user
func (r *MongoUserRepository) RemoveCommentRef(ctx context.Context, userID, commentID primitive.ObjectID) error {
	return r.updateOne(ctx, userID, bson.M{"$pull": bson.M{"comments": commentID}})
}

// RemoveCommentRefs strips the given comment references from every user
// holding one. Used by the feed cascade delete.
func (r *MongoUserRepository) RemoveCommentRefs(ctx context.Context, commentIDs []primitive.ObjectID) error {
	if len(commentIDs) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"comments": bson.M{"$in": commentIDs}},
		bson.M{"$pull": bson.M{"comments": bson.M{"$in": commentIDs}}})
	return err
}
