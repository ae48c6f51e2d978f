package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a feed. Its lifecycle is bounded by the
// parent feed: deleting the feed cascade-deletes its comments.
type Comment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Comment   string             `json:"comment" bson:"comment"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Feed      primitive.ObjectID `json:"feed" bson:"feed"`
}

// AddCommentRequest defines the request body for commenting on a feed
type AddCommentRequest struct {
	FeedID  string `json:"feedId" validate:"required"`
	Comment string `json:"comment" validate:"required,min=1,max=500"`
}
