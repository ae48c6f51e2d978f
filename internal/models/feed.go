package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feed represents an anonymous post sent to a user. The feed carries no
// author identity; ownership is tracked one-directionally through the
// receiving user's feeds array.
type Feed struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	Comments    []primitive.ObjectID `json:"-" bson:"comments"`
}

// SendFeedRequest defines the request body for sending a feed to a user
type SendFeedRequest struct {
	Username    string `json:"username" validate:"required"`
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,min=10,max=500"`
}

// CommentView is a comment joined with its author's public display fields
type CommentView struct {
	ID        primitive.ObjectID `json:"id"`
	Comment   string             `json:"comment"`
	CreatedAt time.Time          `json:"createdAt"`
	User      UserCompact        `json:"user"`
}

// FeedWithComments is a feed with its comments joined for a profile view
type FeedWithComments struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"createdAt"`
	Comments    []CommentView      `json:"comments"`
}

// ProfileFeeds is the composed response for a profile's feed list,
// including live-derived relationship counts and photo references.
type ProfileFeeds struct {
	Feeds          []FeedWithComments `json:"feeds"`
	ProfilePhoto   string             `json:"profilePhoto"`
	CoverPhoto     string             `json:"coverPhoto"`
	FollowersCount int                `json:"followersCount"`
	FollowingCount int                `json:"followingCount"`
}
