package handlers

import (
	"net/http"

	"github.com/anonfeed/anonfeed/internal/models"
	"github.com/anonfeed/anonfeed/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles relationship HTTP requests
type FollowHandler struct {
	relationships *services.RelationshipService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(relationships *services.RelationshipService) *FollowHandler {
	return &FollowHandler{relationships: relationships}
}

// RegisterFollowRoutes registers relationship routes on the protected group
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follow", h.Follow)
	g.POST("/accept-follow-request", h.AcceptFollowRequest)
	g.POST("/reject-follow-request", h.RejectFollowRequest)
	g.POST("/unfollow", h.Unfollow)
	g.POST("/is-following", h.IsFollowing)
	g.POST("/has-been-requested", h.HasBeenRequested)
	g.GET("/get-pending-follow-requests", h.GetPendingFollowRequests)
	g.GET("/show-followers", h.ShowFollowers)
	g.POST("/count-followers", h.CountFollowers)
	g.GET("/public-profile", h.GetPublicProfile)
	g.POST("/public-profile", h.SetPublicProfile)
}

func (h *FollowHandler) bindUsername(c echo.Context) (string, error) {
	var req models.UsernameRequest
	if err := c.Bind(&req); err != nil {
		return "", fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return "", err
	}
	return req.Username, nil
}

// Follow follows a public account directly or sends a follow request to
// a private one.
func (h *FollowHandler) Follow(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	username, err := h.bindUsername(c)
	if err != nil {
		return err
	}

	res, err := h.relationships.Follow(c.Request().Context(), viewerID, username)
	if err != nil {
		return respondError(c, err, "User to follow not found")
	}

	message := "Followed successfully"
	if res.Requested {
		message = "Follow request sent successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": message, "requested": res.Requested})
}

// AcceptFollowRequest approves a pending incoming follow request
func (h *FollowHandler) AcceptFollowRequest(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	username, err := h.bindUsername(c)
	if err != nil {
		return err
	}

	if err := h.relationships.Accept(c.Request().Context(), viewerID, username); err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Follow request accepted"})
}

// RejectFollowRequest drops a pending incoming follow request
func (h *FollowHandler) RejectFollowRequest(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	username, err := h.bindUsername(c)
	if err != nil {
		return err
	}

	if err := h.relationships.Reject(c.Request().Context(), viewerID, username); err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Follow request rejected"})
}

// Unfollow removes the follow edge in both directions
func (h *FollowHandler) Unfollow(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	username, err := h.bindUsername(c)
	if err != nil {
		return err
	}

	if err := h.relationships.Unfollow(c.Request().Context(), viewerID, username); err != nil {
		return respondError(c, err, "User to unfollow not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Unfollowed successfully"})
}

// IsFollowing reports whether the session user follows the named user
func (h *FollowHandler) IsFollowing(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	username, err := h.bindUsername(c)
	if err != nil {
		return err
	}

	following, err := h.relationships.IsFollowing(c.Request().Context(), viewerID, username)
	if err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "isFollowing": following})
}

// HasBeenRequested reports whether the session user has a pending
// request with the named user.
func (h *FollowHandler) HasBeenRequested(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	username, err := h.bindUsername(c)
	if err != nil {
		return err
	}

	requested, err := h.relationships.HasBeenRequested(c.Request().Context(), viewerID, username)
	if err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "hasBeenRequested": requested})
}

// GetPendingFollowRequests lists unapproved incoming requests
func (h *FollowHandler) GetPendingFollowRequests(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	pending, err := h.relationships.PendingRequests(c.Request().Context(), viewerID)
	if err != nil {
		return respondError(c, err, "Logged-in user not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "pendingFollowRequests": pending})
}

// ShowFollowers lists the named user's followers
func (h *FollowHandler) ShowFollowers(c echo.Context) error {
	if _, ok := sessionUserID(c); !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	username := c.QueryParam("username")
	if username == "" {
		return fail(c, http.StatusBadRequest, "No username provided")
	}

	followers, err := h.relationships.Followers(c.Request().Context(), username)
	if err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "followers": followers})
}

// GetPublicProfile reports whether the session user's profile is public
func (h *FollowHandler) GetPublicProfile(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	public, err := h.relationships.Public(c.Request().Context(), viewerID)
	if err != nil {
		return respondError(c, err, "Logged-in user not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "isPublic": public})
}

// SetPublicProfile toggles whether the session user's profile is
// public. Public profiles get direct follows; private ones keep the
// request/accept flow.
func (h *FollowHandler) SetPublicProfile(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req models.PublicProfileRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.relationships.SetPublic(c.Request().Context(), viewerID, *req.PublicProfile); err != nil {
		return respondError(c, err, "Logged-in user not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User status updated successfully"})
}

// CountFollowers returns the live follower count of the named user
func (h *FollowHandler) CountFollowers(c echo.Context) error {
	if _, ok := sessionUserID(c); !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	username, err := h.bindUsername(c)
	if err != nil {
		return err
	}

	count, err := h.relationships.FollowersCount(c.Request().Context(), username)
	if err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "followersCount": count})
}
