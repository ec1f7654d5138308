package handlers

import (
	"github.com/arnold/simlegacy-api/internal/middleware"
	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/arnold/simlegacy-api/internal/wizard"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// GetAllSims lists the sims of every challenge the user owns.
func (h *Handler) GetAllSims(c *fiber.Ctx) error {
	sims, err := h.repo.SimsForUser(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return h.fail(c, err, "Sim")
	}
	return c.JSON(sims)
}

func (h *Handler) GetChallengeSims(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	return c.JSON(st.State().Sims)
}

func (h *Handler) CreateSim(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	var req models.CreateSimRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}

	traits := req.Traits
	if traits == nil {
		traits = []string{}
	}
	sim := models.Sim{
		Name:       req.Name,
		AgeStage:   models.AgeStage(req.AgeStage),
		Generation: req.Generation,
		Career:     req.Career,
		Aspiration: req.Aspiration,
		Traits:     datatypes.NewJSONType(traits),
		AvatarURL:  req.AvatarURL,
	}
	if sim.AgeStage == "" {
		sim.AgeStage = models.AgeYoungAdult
	}
	if sim.Generation == 0 {
		sim.Generation = 1
	}

	created, err := st.AddSim(c.UserContext(), sim)
	if err != nil {
		return h.fail(c, err, "Challenge")
	}
	if c.QueryBool("fromWizard") {
		h.clearDraft(c, wizard.SimFlow)
	}
	h.hub.Broadcast(created.ChallengeID, clientID(c), EventSimUpdated, created)
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) UpdateSim(c *fiber.Ctx) error {
	st, simID, err := h.simStore(c)
	if err != nil {
		return err
	}
	var req models.UpdateSimRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}

	sim, _ := st.State().Sim(simID)
	if req.Name != nil {
		sim.Name = *req.Name
	}
	if req.AgeStage != nil {
		sim.AgeStage = models.AgeStage(*req.AgeStage)
	}
	if req.Generation != nil {
		sim.Generation = *req.Generation
	}
	if req.Career != nil {
		sim.Career = req.Career
	}
	if req.Aspiration != nil {
		sim.Aspiration = req.Aspiration
	}
	if req.Traits != nil {
		sim.Traits = datatypes.NewJSONType(*req.Traits)
	}
	if req.AvatarURL != nil {
		sim.AvatarURL = req.AvatarURL
	}

	updated, err := st.UpdateSim(c.UserContext(), sim)
	if err != nil {
		return h.fail(c, err, "Sim")
	}
	h.hub.Broadcast(updated.ChallengeID, clientID(c), EventSimUpdated, updated)
	return c.JSON(updated)
}

func (h *Handler) DeleteSim(c *fiber.Ctx) error {
	st, simID, err := h.simStore(c)
	if err != nil {
		return err
	}
	if err := st.DeleteSim(c.UserContext(), simID); err != nil {
		return h.fail(c, err, "Sim")
	}
	return c.JSON(fiber.Map{"success": true})
}

// SetHeir makes the sim the only heir of its challenge.
func (h *Handler) SetHeir(c *fiber.Ctx) error {
	st, simID, err := h.simStore(c)
	if err != nil {
		return err
	}
	if err := st.UpdateSimAsHeir(c.UserContext(), simID); err != nil {
		return h.fail(c, err, "Sim")
	}
	heirChangesTotal.Inc()

	sims := st.State().Sims
	h.hub.Broadcast(st.State().Challenge.ID, clientID(c), EventHeirChanged, fiber.Map{"heirId": simID})
	h.logger.Info("Heir changed",
		zap.String("challengeID", st.State().Challenge.ID.String()),
		zap.String("simID", simID.String()),
	)
	return c.JSON(sims)
}

// UploadAvatar stores a jpg, png or webp image of at most 5MB and points
// the sim's avatar at it.
func (h *Handler) UploadAvatar(c *fiber.Ctx) error {
	st, simID, err := h.simStore(c)
	if err != nil {
		return err
	}
	url, err := h.saveImage(c)
	if err != nil {
		return err
	}

	sim, _ := st.State().Sim(simID)
	sim.AvatarURL = &url
	updated, err := st.UpdateSim(c.UserContext(), sim)
	if err != nil {
		return h.fail(c, err, "Sim")
	}
	h.hub.Broadcast(updated.ChallengeID, clientID(c), EventSimUpdated, updated)
	return c.JSON(updated)
}

func (h *Handler) GetSimAchievements(c *fiber.Ctx) error {
	_, simID, err := h.simStore(c)
	if err != nil {
		return err
	}
	list, err := h.repo.AchievementsForSim(c.UserContext(), simID)
	if err != nil {
		return h.fail(c, err, "Sim")
	}
	return c.JSON(list)
}

// GetAchievements lists the user's achievements across all challenges,
// deleted ones included.
func (h *Handler) GetAchievements(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)
	list, total, err := h.repo.AchievementsForUser(c.UserContext(), middleware.GetUserID(c), offset, limit)
	if err != nil {
		return h.fail(c, err, "Achievement")
	}
	return c.JSON(fiber.Map{
		"achievements": list,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}
