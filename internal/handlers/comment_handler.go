package handlers

import (
	"net/http"

	"github.com/anonfeed/anonfeed/internal/models"
	"github.com/anonfeed/anonfeed/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	feeds *services.FeedService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(feeds *services.FeedService) *CommentHandler {
	return &CommentHandler{feeds: feeds}
}

// RegisterCommentRoutes registers comment routes on the protected group
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/add-comment", h.AddComment)
	g.DELETE("/delete-comment/:commentId", h.DeleteComment)
}

// AddComment attaches a comment by the session user to a feed
func (h *CommentHandler) AddComment(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req models.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.feeds.AddComment(c.Request().Context(), viewerID, req.FeedID, req.Comment)
	if err != nil {
		return respondError(c, err, "Feed not found")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// DeleteComment removes a comment and its references
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	if _, ok := sessionUserID(c); !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	if err := h.feeds.DeleteComment(c.Request().Context(), c.Param("commentId")); err != nil {
		return respondError(c, err, "Comment not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Comment deleted successfully"})
}
