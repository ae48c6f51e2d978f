package services

import (
	"context"
	"time"

	"github.com/anonfeed/anonfeed/internal/models"
	"github.com/anonfeed/anonfeed/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedService creates and deletes feeds and comments, and composes the
// visibility-gated profile feed view.
type FeedService struct {
	users    repositories.UserRepository
	feeds    repositories.FeedRepository
	comments repositories.CommentRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(users repositories.UserRepository, feeds repositories.FeedRepository, comments repositories.CommentRepository) *FeedService {
	return &FeedService{users: users, feeds: feeds, comments: comments}
}

// CreateFeed sends an anonymous feed to the named user. The feed record
// carries no author identity.
func (s *FeedService) CreateFeed(ctx context.Context, username, title, description string) error {
	target, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !target.IsAccepting {
		return models.ErrNotAccepting
	}

	feed := &models.Feed{
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.feeds.CreateFeed(ctx, feed); err != nil {
		return err
	}
	return s.users.AddFeedRef(ctx, target.ID, feed.ID)
}

// DeleteFeed removes the feed, its reference on the owner, and cascades
// to every comment on the feed, stripping the comment references from
// each author's comment list.
func (s *FeedService) DeleteFeed(ctx context.Context, ownerID primitive.ObjectID, feedID string) error {
	id, err := primitive.ObjectIDFromHex(feedID)
	if err != nil {
		return models.ErrNotFound
	}

	if err := s.feeds.DeleteFeed(ctx, id); err != nil {
		return err
	}
	if err := s.users.RemoveFeedRef(ctx, ownerID, id); err != nil {
		return err
	}

	commentIDs, err := s.comments.DeleteCommentsByFeed(ctx, id)
	if err != nil {
		return err
	}
	return s.users.RemoveCommentRefs(ctx, commentIDs)
}

// AddComment attaches a comment to a feed and records the reference on
// both the feed and the author.
func (s *FeedService) AddComment(ctx context.Context, authorID primitive.ObjectID, feedID, text string) (*models.Comment, error) {
	id, err := primitive.ObjectIDFromHex(feedID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	if _, err := s.feeds.GetFeedByID(ctx, id); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Comment:   text,
		CreatedAt: time.Now(),
		User:      authorID,
		Feed:      id,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.feeds.AddCommentRef(ctx, id, comment.ID); err != nil {
		return nil, err
	}
	if err := s.users.AddCommentRef(ctx, authorID, comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment and its references from the parent
// feed and the author's comment list.
func (s *FeedService) DeleteComment(ctx context.Context, commentID string) error {
	id, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return models.ErrNotFound
	}

	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.feeds.GetFeedByID(ctx, comment.Feed); err != nil {
		return err
	}

	if err := s.comments.DeleteComment(ctx, id); err != nil {
		return err
	}
	if err := s.feeds.RemoveCommentRef(ctx, comment.Feed, id); err != nil {
		return err
	}
	return s.users.RemoveCommentRef(ctx, comment.User, id)
}

// ProfileFeeds composes the feed list of the named profile for a viewer.
// The list is visible to the profile owner and accepted followers only;
// everyone else gets ErrForbidden, never partial data. The join is
// read-only and counts are derived from live edge-set sizes.
func (s *FeedService) ProfileFeeds(ctx context.Context, viewerID primitive.ObjectID, username string) (*models.ProfileFeeds, error) {
	target, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if target.ID != viewerID {
		viewer, err := s.users.GetUserByID(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		if !viewer.IsFollowing(target.ID) {
			return nil, models.ErrForbidden
		}
	}

	return s.compose(ctx, target)
}

// OwnFeeds composes the session user's own feed list, without any gate
func (s *FeedService) OwnFeeds(ctx context.Context, viewerID primitive.ObjectID) (*models.ProfileFeeds, error) {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, viewer)
}

// SetAccepting toggles whether the user accepts incoming feeds
func (s *FeedService) SetAccepting(ctx context.Context, userID primitive.ObjectID, accepting bool) error {
	return s.users.SetAccepting(ctx, userID, accepting)
}

// Accepting reports whether the user accepts incoming feeds
func (s *FeedService) Accepting(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAccepting, nil
}

func (s *FeedService) compose(ctx context.Context, target *models.User) (*models.ProfileFeeds, error) {
	feeds, err := s.feeds.GetFeedsByIDs(ctx, target.Feeds)
	if err != nil {
		return nil, err
	}

	feedIDs := make([]primitive.ObjectID, len(feeds))
	for i, f := range feeds {
		feedIDs[i] = f.ID
	}

	comments, err := s.comments.GetCommentsByFeedIDs(ctx, feedIDs)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]primitive.ObjectID, 0, len(comments))
	seen := make(map[primitive.ObjectID]bool)
	for _, c := range comments {
		if !seen[c.User] {
			seen[c.User] = true
			authorIDs = append(authorIDs, c.User)
		}
	}
	authors, err := s.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	authorMap := make(map[primitive.ObjectID]models.UserCompact, len(authors))
	for _, a := range authors {
		authorMap[a.ID] = a.ToCompact()
	}

	composed := make([]models.FeedWithComments, len(feeds))
	for i, f := range feeds {
		views := []models.CommentView{}
		for _, c := range comments {
			if c.Feed == f.ID {
				views = append(views, models.CommentView{
					ID:        c.ID,
					Comment:   c.Comment,
					CreatedAt: c.CreatedAt,
					User:      authorMap[c.User],
				})
			}
		}
		composed[i] = models.FeedWithComments{
			ID:          f.ID,
			Title:       f.Title,
			Description: f.Description,
			CreatedAt:   f.CreatedAt,
			Comments:    views,
		}
	}

	return &models.ProfileFeeds{
		Feeds:          composed,
		ProfilePhoto:   target.ProfilePhoto,
		CoverPhoto:     target.CoverPhoto,
		FollowersCount: len(target.Followers),
		FollowingCount: len(target.Following),
	}, nil
}
