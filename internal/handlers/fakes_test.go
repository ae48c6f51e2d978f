package handlers

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/anonfeed/anonfeed/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the $addToSet/$pull semantics of
// the Mongo implementations.

type memUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *models.User) error {
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
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, models.ErrNotFound
}

func (r *memUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memUserRepo) GetVerifiedUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Verified {
			clone := *u
			return &clone, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memUserRepo) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	out := []models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) SearchByUsername(_ context.Context, query string) ([]models.UserCompact, error) {
	out := []models.UserCompact{}
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			out = append(out, u.ToCompact())
		}
	}
	return out, nil
}

func (r *memUserRepo) SetCredentials(_ context.Context, id primitive.ObjectID, passwordHash, verifyCode string, expiry time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Password = passwordHash
	u.VerifyCode = verifyCode
	u.VerifyCodeExpiry = expiry
	return nil
}

func (r *memUserRepo) MarkVerified(_ context.Context, id primitive.ObjectID) error {
	u, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Verified = true
	return nil
}

func (r *memUserRepo) SetAccepting(_ context.Context, id primitive.ObjectID, accepting bool) error {
	u, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.IsAccepting = accepting
	return nil
}

func (r *memUserRepo) SetPublic(_ context.Context, id primitive.ObjectID, public bool) error {
	u, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.IsPublic = public
	return nil
}

func (r *memUserRepo) SetProfilePhoto(_ context.Context, id primitive.ObjectID, url string) error {
	u, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.ProfilePhoto = url
	return nil
}

func (r *memUserRepo) SetCoverPhoto(_ context.Context, id primitive.ObjectID, url string) error {
	u, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.CoverPhoto = url
	return nil
}

func addToSet(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, v := range set {
		if v == id {
			return set
		}
	}
	return append(set, id)
}

func pull(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (r *memUserRepo) AddPendingRequest(_ context.Context, targetID, requesterID primitive.ObjectID) error {
	target, ok := r.users[targetID]
	if !ok {
		return models.ErrNotFound
	}
	requester, ok := r.users[requesterID]
	if !ok {
		return models.ErrNotFound
	}
	target.PendingFollowRequests = addToSet(target.PendingFollowRequests, requesterID)
	requester.SentFollowRequests = addToSet(requester.SentFollowRequests, targetID)
	return nil
}

func (r *memUserRepo) AcceptFollow(_ context.Context, targetID, requesterID primitive.ObjectID) error {
	target, ok := r.users[targetID]
	if !ok {
		return models.ErrNotFound
	}
	requester, ok := r.users[requesterID]
	if !ok {
		return models.ErrNotFound
	}
	target.PendingFollowRequests = pull(target.PendingFollowRequests, requesterID)
	target.Followers = addToSet(target.Followers, requesterID)
	requester.SentFollowRequests = pull(requester.SentFollowRequests, targetID)
	requester.Following = addToSet(requester.Following, targetID)
	return nil
}

func (r *memUserRepo) RemovePendingRequest(_ context.Context, targetID, requesterID primitive.ObjectID) error {
	target, ok := r.users[targetID]
	if !ok {
		return models.ErrNotFound
	}
	requester, ok := r.users[requesterID]
	if !ok {
		return models.ErrNotFound
	}
	target.PendingFollowRequests = pull(target.PendingFollowRequests, requesterID)
	requester.SentFollowRequests = pull(requester.SentFollowRequests, targetID)
	return nil
}

func (r *memUserRepo) CreateFollow(_ context.Context, followerID, targetID primitive.ObjectID) error {
	follower, ok := r.users[followerID]
	if !ok {
		return models.ErrNotFound
	}
	target, ok := r.users[targetID]
	if !ok {
		return models.ErrNotFound
	}
	follower.Following = addToSet(follower.Following, targetID)
	target.Followers = addToSet(target.Followers, followerID)
	return nil
}

func (r *memUserRepo) RemoveFollow(_ context.Context, followerID, targetID primitive.ObjectID) error {
	follower, ok := r.users[followerID]
	if !ok {
		return models.ErrNotFound
	}
	target, ok := r.users[targetID]
	if !ok {
		return models.ErrNotFound
	}
	follower.Following = pull(follower.Following, targetID)
	target.Followers = pull(target.Followers, followerID)
	return nil
}

func (r *memUserRepo) AddFeedRef(_ context.Context, userID, feedID primitive.ObjectID) error {
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.Feeds = addToSet(u.Feeds, feedID)
	return nil
}

func (r *memUserRepo) RemoveFeedRef(_ context.Context, userID, feedID primitive.ObjectID) error {
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	before := len(u.Feeds)
	u.Feeds = pull(u.Feeds, feedID)
	if len(u.Feeds) == before {
		return models.ErrNotFound
	}
	return nil
}

func (r *memUserRepo) AddCommentRef(_ context.Context, userID, commentID primitive.ObjectID) error {
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.Comments = addToSet(u.Comments, commentID)
	return nil
}

func (r *memUserRepo) RemoveCommentRef(_ context.Context, userID, commentID primitive.ObjectID) error {
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.Comments = pull(u.Comments, commentID)
	return nil
}

func (r *memUserRepo) RemoveCommentRefs(_ context.Context, commentIDs []primitive.ObjectID) error {
	for _, u := range r.users {
		for _, id := range commentIDs {
			u.Comments = pull(u.Comments, id)
		}
	}
	return nil
}

type memFeedRepo struct {
	feeds map[primitive.ObjectID]*models.Feed
	seq   []primitive.ObjectID
}

func newMemFeedRepo() *memFeedRepo {
	return &memFeedRepo{feeds: make(map[primitive.ObjectID]*models.Feed)}
}

func (r *memFeedRepo) CreateFeed(_ context.Context, feed *models.Feed) error {
	feed.ID = primitive.NewObjectID()
	if feed.CreatedAt.IsZero() {
		feed.CreatedAt = time.Now()
	}
	if feed.Comments == nil {
		feed.Comments = []primitive.ObjectID{}
	}
	clone := *feed
	r.feeds[feed.ID] = &clone
	r.seq = append(r.seq, feed.ID)
	return nil
}

func (r *memFeedRepo) GetFeedByID(_ context.Context, id primitive.ObjectID) (*models.Feed, error) {
	if f, ok := r.feeds[id]; ok {
		clone := *f
		return &clone, nil
	}
	return nil, models.ErrNotFound
}

func (r *memFeedRepo) GetFeedsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Feed, error) {
	wanted := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := []models.Feed{}
	for _, id := range r.seq {
		if wanted[id] {
			out = append(out, *r.feeds[id])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memFeedRepo) DeleteFeed(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.feeds[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.feeds, id)
	return nil
}

func (r *memFeedRepo) AddCommentRef(_ context.Context, feedID, commentID primitive.ObjectID) error {
	f, ok := r.feeds[feedID]
	if !ok {
		return models.ErrNotFound
	}
	f.Comments = addToSet(f.Comments, commentID)
	return nil
}

func (r *memFeedRepo) RemoveCommentRef(_ context.Context, feedID, commentID primitive.ObjectID) error {
	f, ok := r.feeds[feedID]
	if !ok {
		return models.ErrNotFound
	}
	f.Comments = pull(f.Comments, commentID)
	return nil
}

type memCommentRepo struct {
	comments map[primitive.ObjectID]*models.Comment
	seq      []primitive.ObjectID
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (r *memCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	clone := *comment
	r.comments[comment.ID] = &clone
	r.seq = append(r.seq, comment.ID)
	return nil
}

func (r *memCommentRepo) GetCommentByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	if c, ok := r.comments[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, models.ErrNotFound
}

func (r *memCommentRepo) GetCommentsByFeedIDs(_ context.Context, feedIDs []primitive.ObjectID) ([]models.Comment, error) {
	wanted := make(map[primitive.ObjectID]bool, len(feedIDs))
	for _, id := range feedIDs {
		wanted[id] = true
	}
	out := []models.Comment{}
	for _, id := range r.seq {
		if c, ok := r.comments[id]; ok && wanted[c.Feed] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCommentRepo) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.comments[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *memCommentRepo) DeleteCommentsByFeed(_ context.Context, feedID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{}
	for id, c := range r.comments {
		if c.Feed == feedID {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		delete(r.comments, id)
	}
	return ids, nil
}

// fakeMailer records sent verification emails and optionally fails.
type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to       string
	username string
	code     string
}

func (m *fakeMailer) SendVerificationEmail(to, username, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, username: username, code: code})
	return nil
}

// fakeImageStore records destroyed asset ids and optionally fails.
type fakeImageStore struct {
	destroyed []string
	err       error
}

func (s *fakeImageStore) Destroy(_ context.Context, publicID string) error {
	if s.err != nil {
		return s.err
	}
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

var errStoreDown = errors.New("store unavailable")
