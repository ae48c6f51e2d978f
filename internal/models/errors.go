package models

import "errors"

// Domain errors shared by repositories, services and handlers. Handlers
// map these onto the HTTP status taxonomy; anything else is logged and
// returned as a generic internal error.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrNotAccepting     = errors.New("user is not accepting feeds")
	ErrAlreadyRequested = errors.New("follow request already sent")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrSelfAction       = errors.New("cannot follow yourself")
)
