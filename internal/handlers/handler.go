package handlers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/arnold/simlegacy-api/internal/config"
	"github.com/arnold/simlegacy-api/internal/middleware"
	"github.com/arnold/simlegacy-api/internal/repository"
	"github.com/arnold/simlegacy-api/internal/scoring"
	"github.com/arnold/simlegacy-api/internal/services"
	"github.com/arnold/simlegacy-api/internal/store"
	"github.com/arnold/simlegacy-api/internal/wizard"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	repo     *repository.Repository
	cfg      *config.Config
	logger   *zap.Logger
	validate *validator.Validate
	hub      *Hub
	notifier *services.Notifier
	drafts   *wizard.Drafts
}

func New(repo *repository.Repository, cfg *config.Config, logger *zap.Logger, hub *Hub, notifier *services.Notifier, drafts *wizard.Drafts) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		repo:     repo,
		cfg:      cfg,
		logger:   logger.Named("Handler"),
		validate: v,
		hub:      hub,
		notifier: notifier,
		drafts:   drafts,
	}
}

var errInvalidBody = errors.New("invalid request body")

// bind parses the JSON body into req and runs its validate tags.
func (h *Handler) bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errInvalidBody
	}
	return h.validate.Struct(req)
}

// ErrorHandler renders every error as {"error": message}. Errors that are
// not *fiber.Error become a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func badRequest(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, len(verrs))
		for i, fe := range verrs {
			fields[i] = fe.Field() + " failed " + fe.Tag()
		}
		return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+strings.Join(fields, ", "))
	}
	return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
}

// fail maps store and repository errors to HTTP errors. what names the
// resource in not-found messages.
func (h *Handler) fail(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNoChallenge):
		return fiber.NewError(fiber.StatusNotFound, what+" not found")
	case errors.Is(err, store.ErrTraitLimit):
		return fiber.NewError(fiber.StatusBadRequest, "Too many traits for this age stage")
	case errors.Is(err, store.ErrInvalidAgeStage):
		return fiber.NewError(fiber.StatusBadRequest, "Unknown age stage")
	case errors.Is(err, store.ErrSimNotInChallenge):
		return fiber.NewError(fiber.StatusBadRequest, "Sim does not belong to this challenge")
	case errors.Is(err, scoring.ErrInvalidThresholds):
		return fiber.NewError(fiber.StatusBadRequest, "Thresholds must be a JSON array of {value, points}")
	}
	h.logger.Error("Request failed",
		zap.String("path", c.Path()),
		zap.String("userID", middleware.GetUserID(c).String()),
		zap.Error(err),
	)
	return fiber.NewError(fiber.StatusInternalServerError, "Something went wrong")
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func invalidID(what string) error {
	return fiber.NewError(fiber.StatusBadRequest, "Invalid "+what+" ID")
}

func (h *Handler) newStore(c *fiber.Ctx) *store.Store {
	return store.New(h.repo, middleware.GetUserID(c), h.logger)
}

// challengeStore loads the challenge named by the :id param into a fresh
// store.
func (h *Handler) challengeStore(c *fiber.Ctx) (*store.Store, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, invalidID("challenge")
	}
	st := h.newStore(c)
	if err := st.FetchChallenge(c.UserContext(), id); err != nil {
		return nil, h.fail(c, err, "Challenge")
	}
	return st, nil
}

// simStore loads the challenge owning the sim named by :simId.
func (h *Handler) simStore(c *fiber.Ctx) (*store.Store, uuid.UUID, error) {
	simID, ok := paramID(c, "simId")
	if !ok {
		return nil, uuid.Nil, invalidID("sim")
	}
	sim, err := h.repo.GetSim(c.UserContext(), simID)
	if err != nil {
		return nil, uuid.Nil, h.fail(c, err, "Sim")
	}
	st := h.newStore(c)
	if err := st.FetchChallenge(c.UserContext(), sim.ChallengeID); err != nil {
		return nil, uuid.Nil, h.fail(c, err, "Sim")
	}
	return st, simID, nil
}

func pagination(c *fiber.Ctx) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

func (h *Handler) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
