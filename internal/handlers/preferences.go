package handlers

import (
	"github.com/arnold/simlegacy-api/internal/catalog"
	"github.com/arnold/simlegacy-api/internal/middleware"
	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/arnold/simlegacy-api/internal/wizard"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func (h *Handler) GetPreferences(c *fiber.Ctx) error {
	prefs, err := h.repo.Preferences(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return h.fail(c, err, "Preferences")
	}
	return c.JSON(prefs)
}

// UpdatePreferences replaces the owned pack selection. Unknown pack IDs are
// rejected. ?fromWizard=true also clears the onboarding draft.
func (h *Handler) UpdatePreferences(c *fiber.Ctx) error {
	var req models.UpdatePreferencesRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}
	for _, id := range req.Packs.All() {
		if _, ok := catalog.PackByID(id); !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown pack: "+id)
		}
	}

	prefs := models.UserPreferences{
		UserID: middleware.GetUserID(c),
		Packs:  datatypes.NewJSONType(req.Packs),
	}
	if err := h.repo.SavePreferences(c.UserContext(), &prefs); err != nil {
		return h.fail(c, err, "Preferences")
	}
	if c.QueryBool("fromWizard") {
		h.clearDraft(c, wizard.Onboarding)
	}
	return c.JSON(prefs)
}

// GetCatalog returns the game content available with the user's packs.
// ?all=true ignores the pack selection.
func (h *Handler) GetCatalog(c *fiber.Ctx) error {
	if c.QueryBool("all") {
		return c.JSON(catalog.Content{
			Packs:       catalog.Packs,
			Traits:      catalog.Traits,
			Careers:     catalog.Careers,
			Aspirations: catalog.Aspirations,
		})
	}
	prefs, err := h.repo.Preferences(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return h.fail(c, err, "Preferences")
	}
	return c.JSON(catalog.Filter(prefs.Packs.Data().All()))
}

func (h *Handler) GetTemplates(c *fiber.Ctx) error {
	return c.JSON(catalog.Templates)
}
