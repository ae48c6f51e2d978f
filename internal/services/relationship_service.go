package services

import (
	"context"

	"github.com/anonfeed/anonfeed/internal/models"
	"github.com/anonfeed/anonfeed/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultProfilePhoto is served when a user never uploaded one
const defaultProfilePhoto = "https://www.gravatar.com/avatar/00000000000000000000000000000000?d=mp&f=y"

// RelationshipService mutates follower/following/pending edges and
// answers visibility predicates. Public accounts are followed directly;
// private accounts go through the request/accept flow.
type RelationshipService struct {
	users repositories.UserRepository
}

// NewRelationshipService creates a new RelationshipService
func NewRelationshipService(users repositories.UserRepository) *RelationshipService {
	return &RelationshipService{users: users}
}

// FollowResult reports which follow mode was taken
type FollowResult struct {
	// Requested is true when a pending request was created instead of a
	// direct edge (private target).
	Requested bool
}

// Follow follows a public target directly, or records a pending follow
// request on a private target.
func (s *RelationshipService) Follow(ctx context.Context, viewerID primitive.ObjectID, username string) (*FollowResult, error) {
	target, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == viewerID {
		return nil, models.ErrSelfAction
	}

	if target.IsPublic {
		if target.HasFollower(viewerID) {
			return nil, models.ErrAlreadyFollowing
		}
		if err := s.users.CreateFollow(ctx, viewerID, target.ID); err != nil {
			return nil, err
		}
		return &FollowResult{Requested: false}, nil
	}

	if target.HasPendingRequestFrom(viewerID) {
		return nil, models.ErrAlreadyRequested
	}
	if err := s.users.AddPendingRequest(ctx, target.ID, viewerID); err != nil {
		return nil, err
	}
	return &FollowResult{Requested: true}, nil
}

// Accept promotes the requester's pending follow request into a
// follower/following edge pair on both documents.
func (s *RelationshipService) Accept(ctx context.Context, viewerID primitive.ObjectID, requesterUsername string) error {
	requester, err := s.users.GetUserByUsername(ctx, requesterUsername)
	if err != nil {
		return err
	}
	return s.users.AcceptFollow(ctx, viewerID, requester.ID)
}

// Reject drops the requester's pending follow request without creating
// any edge. Rejecting an absent request is a no-op.
func (s *RelationshipService) Reject(ctx context.Context, viewerID primitive.ObjectID, requesterUsername string) error {
	requester, err := s.users.GetUserByUsername(ctx, requesterUsername)
	if err != nil {
		return err
	}
	return s.users.RemovePendingRequest(ctx, viewerID, requester.ID)
}

// Unfollow removes the follower/following edge pair between the viewer
// and the target.
func (s *RelationshipService) Unfollow(ctx context.Context, viewerID primitive.ObjectID, username string) error {
	target, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.users.RemoveFollow(ctx, viewerID, target.ID)
}

// IsFollowing reports whether the viewer follows the named user
func (s *RelationshipService) IsFollowing(ctx context.Context, viewerID primitive.ObjectID, username string) (bool, error) {
	target, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return false, err
	}
	return viewer.IsFollowing(target.ID), nil
}

// HasBeenRequested reports whether the viewer has an unapproved follow
// request pending with the named user.
func (s *RelationshipService) HasBeenRequested(ctx context.Context, viewerID primitive.ObjectID, username string) (bool, error) {
	target, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return target.HasPendingRequestFrom(viewerID), nil
}

// PendingRequests returns the public display fields of everyone with an
// unapproved incoming request to the viewer.
func (s *RelationshipService) PendingRequests(ctx context.Context, viewerID primitive.ObjectID) ([]models.UserCompact, error) {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, viewer.PendingFollowRequests)
}

// Followers returns the public display fields of the named user's followers
func (s *RelationshipService) Followers(ctx context.Context, username string) ([]models.UserCompact, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, user.Followers)
}

// SetPublic toggles whether the viewer's profile is public. New
// accounts start private, so follows go through the request/accept
// flow until the owner opts into direct follows.
func (s *RelationshipService) SetPublic(ctx context.Context, viewerID primitive.ObjectID, public bool) error {
	return s.users.SetPublic(ctx, viewerID, public)
}

// Public reports whether the viewer's profile is public
func (s *RelationshipService) Public(ctx context.Context, viewerID primitive.ObjectID) (bool, error) {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return false, err
	}
	return viewer.IsPublic, nil
}

// FollowersCount returns the live size of the named user's followers set
func (s *RelationshipService) FollowersCount(ctx context.Context, username string) (int, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return len(user.Followers), nil
}

func (s *RelationshipService) populate(ctx context.Context, ids []primitive.ObjectID) ([]models.UserCompact, error) {
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	compact := make([]models.UserCompact, len(users))
	for i, u := range users {
		compact[i] = u.ToCompact()
		if compact[i].ProfilePhoto == "" {
			compact[i].ProfilePhoto = defaultProfilePhoto
		}
	}
	return compact, nil
}
