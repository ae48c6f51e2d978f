package handlers

import (
	"net/http"

	"github.com/anonfeed/anonfeed/internal/models"
	"github.com/anonfeed/anonfeed/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed HTTP requests
type FeedHandler struct {
	feeds       *services.FeedService
	suggestions *services.SuggestionService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feeds *services.FeedService, suggestions *services.SuggestionService) *FeedHandler {
	return &FeedHandler{feeds: feeds, suggestions: suggestions}
}

// RegisterPublicFeedRoutes registers the routes reachable without a
// session. Sending a feed is anonymous by design.
func (h *FeedHandler) RegisterPublicFeedRoutes(g *echo.Group) {
	g.POST("/send-feed", h.SendFeed)
	g.POST("/suggest-feeds", h.SuggestFeeds)
}

// RegisterFeedRoutes registers the session-scoped feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/get-feeds/:username", h.GetProfileFeeds)
	g.GET("/get-feeds", h.GetOwnFeeds)
	g.DELETE("/delete-feed/:feedId", h.DeleteFeed)
	g.GET("/accept-feeds", h.GetAcceptFeeds)
	g.POST("/accept-feeds", h.SetAcceptFeeds)
}

// SendFeed delivers an anonymous feed to the named user
func (h *FeedHandler) SendFeed(c echo.Context) error {
	var req models.SendFeedRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.feeds.CreateFeed(c.Request().Context(), req.Username, req.Title, req.Description); err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Feed added successfully"})
}

// GetProfileFeeds returns the visibility-gated feed list of a profile.
// Denied viewers get a 403 with an empty list, never partial data.
func (h *FeedHandler) GetProfileFeeds(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	username := c.Param("username")

	view, err := h.feeds.ProfileFeeds(c.Request().Context(), viewerID, username)
	if err != nil {
		if err == models.ErrForbidden {
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"message": "You must follow this user to see their feeds",
				"feeds":   []models.FeedWithComments{},
			})
		}
		return respondError(c, err, "User not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"feeds":          view.Feeds,
		"profilePhoto":   view.ProfilePhoto,
		"coverPhoto":     view.CoverPhoto,
		"followersCount": view.FollowersCount,
		"followingCount": view.FollowingCount,
	})
}

// GetOwnFeeds returns the session user's own feed list
func (h *FeedHandler) GetOwnFeeds(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	view, err := h.feeds.OwnFeeds(c.Request().Context(), viewerID)
	if err != nil {
		return respondError(c, err, "User not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"feeds":          view.Feeds,
		"profilePhoto":   view.ProfilePhoto,
		"coverPhoto":     view.CoverPhoto,
		"followersCount": view.FollowersCount,
		"followingCount": view.FollowingCount,
	})
}

// DeleteFeed removes one of the session user's feeds and cascades to its comments
func (h *FeedHandler) DeleteFeed(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	if err := h.feeds.DeleteFeed(c.Request().Context(), viewerID, c.Param("feedId")); err != nil {
		return respondError(c, err, "Feed not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Feed and associated comments deleted"})
}

// GetAcceptFeeds reports whether the session user accepts incoming feeds
func (h *FeedHandler) GetAcceptFeeds(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	accepting, err := h.feeds.Accepting(c.Request().Context(), viewerID)
	if err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "isAccepting": accepting})
}

// SetAcceptFeeds toggles whether the session user accepts incoming feeds
func (h *FeedHandler) SetAcceptFeeds(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req models.AcceptFeedsRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.feeds.SetAccepting(c.Request().Context(), viewerID, *req.AcceptFeeds); err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User status updated successfully"})
}

// SuggestFeeds returns three random feed prompts
func (h *FeedHandler) SuggestFeeds(c echo.Context) error {
	suggestions, err := h.suggestions.Suggest()
	if err != nil {
		return respondError(c, err, "Suggestions not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "suggestions": suggestions})
}
