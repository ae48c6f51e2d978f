package handlers

import (
	"errors"
	"net/http"

	"github.com/anonfeed/anonfeed/internal/models"
	"github.com/anonfeed/anonfeed/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// sessionFromContext returns the claims stored by the JWT middleware
func sessionFromContext(c echo.Context) *models.SessionClaims {
	claims, ok := c.Get("session").(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// sessionUserID extracts the session principal's ObjectID
func sessionUserID(c echo.Context) (primitive.ObjectID, bool) {
	claims := sessionFromContext(c)
	if claims == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// fail writes the standard failure envelope
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

// respondError maps a domain error onto the HTTP taxonomy. NotFound gets
// the route-specific message; unexpected errors are logged server-side
// and surface as a generic internal error.
func respondError(c echo.Context, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fail(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, models.ErrAlreadyRequested):
		return fail(c, http.StatusBadRequest, "Follow request already sent")
	case errors.Is(err, models.ErrAlreadyFollowing):
		return fail(c, http.StatusConflict, "Already following this user")
	case errors.Is(err, models.ErrSelfAction):
		return fail(c, http.StatusBadRequest, "Cannot follow yourself")
	case errors.Is(err, models.ErrNotAccepting):
		return fail(c, http.StatusForbidden, "User is not accepting feeds")
	case errors.Is(err, models.ErrForbidden):
		return fail(c, http.StatusForbidden, "Forbidden")
	default:
		logger.Get().Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
