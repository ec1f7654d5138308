package handlers

import (
	"github.com/arnold/simlegacy-api/internal/catalog"
	"github.com/arnold/simlegacy-api/internal/middleware"
	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/arnold/simlegacy-api/internal/store"
	"github.com/arnold/simlegacy-api/internal/wizard"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func challengeDetail(st *store.Store) fiber.Map {
	state := st.State()
	return fiber.Map{
		"challenge":      state.Challenge,
		"sims":           state.Sims,
		"goals":          state.Goals,
		"progress":       state.Progress,
		"points":         st.CalculatePoints(),
		"categoryPoints": st.CategoryPoints(),
	}
}

func (h *Handler) GetChallenges(c *fiber.Ctx) error {
	st := h.newStore(c)
	st.FetchChallenges(c.UserContext())
	list := st.State().Challenges
	if list == nil {
		list = []models.ChallengeSummary{}
	}
	return c.JSON(list)
}

// CreateChallenge creates a challenge and, for legacy challenges with
// seedGoals set, the standard legacy goal sheet. ?fromWizard=true also
// clears the caller's challenge wizard draft.
func (h *Handler) CreateChallenge(c *fiber.Ctx) error {
	var req models.CreateChallengeRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}

	challenge := models.Challenge{
		Name:          req.Name,
		Description:   req.Description,
		ChallengeType: req.ChallengeType,
		Config:        req.Config,
	}
	if challenge.ChallengeType == "" {
		challenge.ChallengeType = models.ChallengeTypeLegacy
	}

	var seed []models.Goal
	if req.SeedGoals && challenge.ChallengeType == models.ChallengeTypeLegacy {
		cfg, err := catalog.ParseLegacyConfig(req.Config)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid challenge config")
		}
		seed = catalog.LegacyGoals(cfg)
	}

	st := h.newStore(c)
	created, err := st.CreateChallenge(c.UserContext(), challenge, seed)
	if err != nil {
		return h.fail(c, err, "Challenge")
	}

	if c.QueryBool("fromWizard") {
		h.clearDraft(c, wizard.ChallengeFlow)
	}
	h.logger.Info("Challenge created",
		zap.String("challengeID", created.ID.String()),
		zap.String("userID", st.UserID().String()),
		zap.Int("seededGoals", len(seed)),
	)
	return c.Status(fiber.StatusCreated).JSON(challengeDetail(st))
}

func (h *Handler) GetChallenge(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	return c.JSON(challengeDetail(st))
}

func (h *Handler) UpdateChallenge(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	var req models.UpdateChallengeRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}

	changes := store.ChallengeChanges{
		Name:        req.Name,
		Description: req.Description,
		Config:      req.Config,
	}
	if req.Status != nil {
		status := models.ChallengeStatus(*req.Status)
		changes.Status = &status
	}
	updated, err := st.UpdateChallenge(c.UserContext(), changes)
	if err != nil {
		return h.fail(c, err, "Challenge")
	}

	h.hub.Broadcast(updated.ID, clientID(c), EventChallengeUpdated, updated)
	return c.JSON(updated)
}

func (h *Handler) DeleteChallenge(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	if err := st.DeleteChallenge(c.UserContext()); err != nil {
		return h.fail(c, err, "Challenge")
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetPoints returns the challenge total, or one category's subtotal when
// ?category= is given. Unknown categories score 0.
func (h *Handler) GetPoints(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	if category := c.Query("category"); category != "" {
		return c.JSON(fiber.Map{
			"category": category,
			"points":   st.CalculateCategoryPoints(category),
		})
	}
	return c.JSON(fiber.Map{
		"points":     st.CalculatePoints(),
		"categories": st.CategoryPoints(),
	})
}

func (h *Handler) GetChallengeAchievements(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	page, limit, offset := pagination(c)
	list, total, err := h.repo.AchievementsForChallenge(c.UserContext(), st.State().Challenge.ID, offset, limit)
	if err != nil {
		return h.fail(c, err, "Challenge")
	}
	return c.JSON(fiber.Map{
		"achievements": list,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

func (h *Handler) clearDraft(c *fiber.Ctx, flow wizard.Flow) {
	owner := middleware.GetUserID(c).String()
	if err := h.drafts.Clear(c.UserContext(), owner, flow); err != nil {
		h.logger.Warn("Failed to clear wizard draft", zap.String("flow", flow.Name), zap.String("userID", owner), zap.Error(err))
	}
}
