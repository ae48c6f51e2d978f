package handlers

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anonfeed/anonfeed/internal/models"
	"github.com/anonfeed/anonfeed/internal/repositories"
	"github.com/anonfeed/anonfeed/pkg/logger"
	"github.com/anonfeed/anonfeed/pkg/mailer"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const verifyCodeTTL = time.Hour

// AuthHandler handles registration, verification and sign-in
type AuthHandler struct {
	userRepository repositories.UserRepository
	mailer         mailer.Mailer
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, m mailer.Mailer, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		mailer:         m,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers the unauthenticated account routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/sign-up", h.SignUp)
	g.POST("/sign-in", h.SignIn)
	g.POST("/verify-code", h.VerifyCode)
	g.GET("/check-username-unique", h.CheckUsernameUnique)
}

// SignUp registers a new unverified user and emails a verification code.
// Re-registering over an unverified email replaces the credentials and
// issues a fresh code.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req models.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	if _, err := h.userRepository.GetVerifiedUserByUsername(ctx, req.Username); err == nil {
		return fail(c, http.StatusBadRequest, "User with this username already exists.")
	} else if !errors.Is(err, models.ErrNotFound) {
		return respondError(c, err, "User not found")
	}

	code, err := generateVerifyCode()
	if err != nil {
		return respondError(c, err, "User not found")
	}
	expiry := time.Now().Add(verifyCodeTTL)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, err, "User not found")
	}

	existing, err := h.userRepository.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if existing.Verified {
			return fail(c, http.StatusBadRequest, "User with this email already exists.")
		}
		if err := h.userRepository.SetCredentials(ctx, existing.ID, string(hashed), code, expiry); err != nil {
			return respondError(c, err, "User not found")
		}
	case errors.Is(err, models.ErrNotFound):
		user := &models.User{
			Username:         req.Username,
			Email:            req.Email,
			Password:         string(hashed),
			VerifyCode:       code,
			VerifyCodeExpiry: expiry,
			Verified:         false,
			IsAccepting:      true,
			IsPublic:         false,
		}
		if err := h.userRepository.CreateUser(ctx, user); err != nil {
			return respondError(c, err, "User not found")
		}
	default:
		return respondError(c, err, "User not found")
	}

	if err := h.mailer.SendVerificationEmail(req.Email, req.Username, code); err != nil {
		logger.Get().Error("failed to send verification email", zap.String("email", req.Email), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Error sending verification email. Please try again later.")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully. Please verify your email address.",
	})
}

// VerifyCode checks the submitted verification code against the stored
// one and flips the verified flag when it matches before expiry.
func (h *AuthHandler) VerifyCode(c echo.Context) error {
	var req models.VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return respondError(c, err, "User not found")
	}

	if time.Now().After(user.VerifyCodeExpiry) {
		return fail(c, http.StatusBadRequest, "Verification code expired")
	}
	if user.VerifyCode != req.Code {
		return fail(c, http.StatusBadRequest, "Invalid verification code")
	}

	if err := h.userRepository.MarkVerified(ctx, user.ID); err != nil {
		return respondError(c, err, "User not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User verified successfully"})
}

// CheckUsernameUnique reports whether a verified user already holds the username
func (h *AuthHandler) CheckUsernameUnique(c echo.Context) error {
	query := struct {
		Username string `validate:"required,min=2,max=20,username"`
	}{Username: c.QueryParam("username")}
	if err := c.Validate(&query); err != nil {
		return err
	}

	_, err := h.userRepository.GetVerifiedUserByUsername(c.Request().Context(), query.Username)
	if err == nil {
		return fail(c, http.StatusConflict, "Username already exists")
	}
	if !errors.Is(err, models.ErrNotFound) {
		return respondError(c, err, "User not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Username is unique"})
}

// SignIn authenticates with email and password and issues a session token
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "Invalid email or password")
		}
		return respondError(c, err, "User not found")
	}

	if !user.Verified {
		return fail(c, http.StatusForbidden, "Please verify your account before signing in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateToken(user)
	if err != nil {
		return respondError(c, err, "User not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Signed in successfully",
		"token":    token,
		"username": user.Username,
	})
}

// generateToken signs session claims for the given user
func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := &models.SessionClaims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// generateVerifyCode produces a 6-digit numeric code
func generateVerifyCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	n := binary.BigEndian.Uint32(b)
	return fmt.Sprintf("%06d", 100000+int(n%900000)), nil
}
