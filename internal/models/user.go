package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered user stored in MongoDB. Relationship edges
// are embedded ObjectID arrays on the document and are mutated with
// $addToSet/$pull so concurrent updates never rewrite the full document.
type User struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username         string             `json:"username" bson:"username"`
	Email            string             `json:"email" bson:"email"`
	Password         string             `json:"-" bson:"password"`
	VerifyCode       string             `json:"-" bson:"verifyCode"`
	VerifyCodeExpiry time.Time          `json:"-" bson:"verifyCodeExpiry"`
	Verified         bool               `json:"verified" bson:"verified"`
	IsAccepting      bool               `json:"isAccepting" bson:"isAccepting"`
	IsPublic         bool               `json:"isPublic" bson:"isPublic"`
	ProfilePhoto     string             `json:"profilePhoto" bson:"profilePhoto"`
	CoverPhoto       string             `json:"coverPhoto" bson:"coverPhoto"`

	Followers             []primitive.ObjectID `json:"-" bson:"followers"`
	Following             []primitive.ObjectID `json:"-" bson:"following"`
	PendingFollowRequests []primitive.ObjectID `json:"-" bson:"pendingFollowRequests"`
	SentFollowRequests    []primitive.ObjectID `json:"-" bson:"sentFollowRequests"`
	Feeds                 []primitive.ObjectID `json:"-" bson:"feeds"`
	Comments              []primitive.ObjectID `json:"-" bson:"comments"`
}

// HasFollower reports whether id is in the user's followers set.
func (u *User) HasFollower(id primitive.ObjectID) bool {
	return containsID(u.Followers, id)
}

// IsFollowing reports whether id is in the user's following set.
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	return containsID(u.Following, id)
}

// HasPendingRequestFrom reports whether id has an unapproved incoming request.
func (u *User) HasPendingRequestFrom(id primitive.ObjectID) bool {
	return containsID(u.PendingFollowRequests, id)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// UserCompact is the public projection of a user joined into responses.
type UserCompact struct {
	Username     string `json:"username" bson:"username"`
	ProfilePhoto string `json:"profilePhoto" bson:"profilePhoto"`
}

// ToCompact returns the public display fields of the user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{Username: u.Username, ProfilePhoto: u.ProfilePhoto}
}

// SignUpRequest defines the request body for registration
type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=2,max=20,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=32"`
}

// SignInRequest defines the request body for authentication
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyCodeRequest defines the request body for email verification
type VerifyCodeRequest struct {
	Username string `json:"username" validate:"required"`
	Code     string `json:"code" validate:"required,len=6"`
}

// UsernameRequest is the common body for relationship operations
type UsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

// AcceptFeedsRequest toggles whether the user accepts incoming feeds
type AcceptFeedsRequest struct {
	AcceptFeeds *bool `json:"acceptFeeds" validate:"required"`
}

// PublicProfileRequest toggles whether the profile is public. Public
// profiles are followed directly; private ones go through the
// request/accept flow.
type PublicProfileRequest struct {
	PublicProfile *bool `json:"publicProfile" validate:"required"`
}

// UpdatePhotoRequest carries a new photo reference returned by the CDN
type UpdatePhotoRequest struct {
	Photo string `json:"photo" validate:"required,url"`
}

// DeleteProfilePhotoRequest identifies the CDN asset to destroy
type DeleteProfilePhotoRequest struct {
	PublicID string `json:"publicId" validate:"required"`
}

// SessionClaims are custom claims extending standard jwt.RegisteredClaims
type SessionClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
