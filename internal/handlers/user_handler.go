package handlers

import (
	"net/http"

	"github.com/anonfeed/anonfeed/internal/models"
	"github.com/anonfeed/anonfeed/internal/repositories"
	"github.com/anonfeed/anonfeed/pkg/images"
	"github.com/anonfeed/anonfeed/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler handles directory search and profile asset requests
type UserHandler struct {
	userRepository repositories.UserRepository
	imageStore     images.Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, imageStore images.Store) *UserHandler {
	return &UserHandler{userRepository: userRepo, imageStore: imageStore}
}

// RegisterUserRoutes registers user routes on the protected group
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/get-users", h.GetUsers)
	g.POST("/get-profile-photo", h.GetProfilePhoto)
	g.POST("/update-profile-photo", h.UpdateProfilePhoto)
	g.POST("/update-cover-photo", h.UpdateCoverPhoto)
	g.POST("/delete-profile-photo", h.DeleteProfilePhoto)
}

// GetUsers performs a case-insensitive username search
func (h *UserHandler) GetUsers(c echo.Context) error {
	if _, ok := sessionUserID(c); !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	query := c.QueryParam("query")
	if query == "" {
		return fail(c, http.StatusBadRequest, "No query provided")
	}

	users, err := h.userRepository.SearchByUsername(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": users})
}

// GetProfilePhoto returns the stored profile photo reference of a user
func (h *UserHandler) GetProfilePhoto(c echo.Context) error {
	if _, ok := sessionUserID(c); !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req models.UsernameRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), req.Username)
	if err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "profilePhoto": user.ProfilePhoto})
}

// UpdateProfilePhoto stores a new CDN reference for the session user's
// profile photo.
func (h *UserHandler) UpdateProfilePhoto(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req models.UpdatePhotoRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userRepository.SetProfilePhoto(c.Request().Context(), viewerID, req.Photo); err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UpdateCoverPhoto stores a new CDN reference for the session user's
// cover photo.
func (h *UserHandler) UpdateCoverPhoto(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req models.UpdatePhotoRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userRepository.SetCoverPhoto(c.Request().Context(), viewerID, req.Photo); err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteProfilePhoto destroys the CDN asset and clears the reference
func (h *UserHandler) DeleteProfilePhoto(c echo.Context) error {
	viewerID, ok := sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req models.DeleteProfilePhotoRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.imageStore.Destroy(ctx, req.PublicID); err != nil {
		logger.Get().Error("failed to destroy CDN asset", zap.String("publicId", req.PublicID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to delete profile photo")
	}

	if err := h.userRepository.SetProfilePhoto(ctx, viewerID, ""); err != nil {
		return respondError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
