package handlers

import (
	"errors"

	"github.com/arnold/simlegacy-api/internal/middleware"
	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/arnold/simlegacy-api/internal/repository"
	"github.com/arnold/simlegacy-api/internal/store"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// InvalidCredentials is returned for unknown emails and wrong passwords alike.
const InvalidCredentials = "Invalid email or password"

func (h *Handler) issueToken(c *fiber.Ctx, user models.User, status int) error {
	token, expires, err := middleware.GenerateToken(h.cfg.JWTSecret, h.cfg.JWTTTL, user.ID, user.Email)
	if err != nil {
		h.logger.Error("Failed to generate token", zap.String("userID", user.ID.String()), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}
	return c.Status(status).JSON(models.AuthResponse{
		Token:     token,
		ExpiresAt: expires,
		User:      user,
	})
}

func (h *Handler) SignUp(c *fiber.Ctx) error {
	var req models.SignUpRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := models.User{
		Email:       req.Email,
		Password:    string(hashedPassword),
		DisplayName: req.DisplayName,
	}
	if err := h.repo.CreateUser(c.UserContext(), &user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already registered",
			})
		}
		return h.fail(c, err, "User")
	}
	signupsTotal.Inc()
	return h.issueToken(c, user, fiber.StatusCreated)
}

func (h *Handler) SignIn(c *fiber.Ctx) error {
	var req models.SignInRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}

	user, err := h.repo.UserByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			loginAttemptsTotal.WithLabelValues("unknown_email").Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": InvalidCredentials})
		}
		return h.fail(c, err, "User")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		loginAttemptsTotal.WithLabelValues("bad_password").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": InvalidCredentials})
	}

	loginAttemptsTotal.WithLabelValues("success").Inc()
	return h.issueToken(c, *user, fiber.StatusOK)
}

// SignOut is stateless; the client drops its token.
func (h *Handler) SignOut(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) Session(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}
	var expiresAt interface{}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return c.JSON(fiber.Map{
		"userId":    claims.UserID,
		"email":     claims.Email,
		"expiresAt": expiresAt,
	})
}

func (h *Handler) GetMe(c *fiber.Ctx) error {
	user, err := h.repo.UserByID(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return h.fail(c, err, "User")
	}
	return c.JSON(user)
}
