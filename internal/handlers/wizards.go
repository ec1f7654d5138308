package handlers

import (
	"encoding/json"
	"errors"

	"github.com/arnold/simlegacy-api/internal/catalog"
	"github.com/arnold/simlegacy-api/internal/middleware"
	"github.com/arnold/simlegacy-api/internal/wizard"
	"github.com/gofiber/fiber/v2"
)

type saveStepRequest struct {
	Data       json.RawMessage `json:"data"`
	TemplateID string          `json:"templateId"`
}

type moveStepRequest struct {
	Step       string `json:"step" validate:"required"`
	TemplateID string `json:"templateId"`
}

func flowParam(c *fiber.Ctx) (wizard.Flow, error) {
	flow, err := wizard.FlowByName(c.Params("flow"))
	if err != nil {
		return wizard.Flow{}, fiber.NewError(fiber.StatusNotFound, "Wizard not found")
	}
	return flow, nil
}

// needsConfiguration looks up the template; unknown or empty template IDs
// keep every step.
func needsConfiguration(templateID string) bool {
	if t, ok := catalog.TemplateByID(templateID); ok {
		return t.NeedsConfiguration
	}
	return true
}

func (h *Handler) GetWizard(c *fiber.Ctx) error {
	flow, err := flowParam(c)
	if err != nil {
		return err
	}
	draft, err := h.drafts.Load(c.UserContext(), middleware.GetUserID(c).String(), flow)
	if err != nil {
		return h.fail(c, err, "Wizard")
	}
	return c.JSON(draft)
}

// SaveWizardStep schedules the step's data for saving and makes it the
// current step. Writes are debounced.
func (h *Handler) SaveWizardStep(c *fiber.Ctx) error {
	flow, err := flowParam(c)
	if err != nil {
		return err
	}
	var req saveStepRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}
	if len(req.Data) == 0 {
		req.Data = json.RawMessage(`{}`)
	}

	progress := wizard.Progress{
		TemplateID:         req.TemplateID,
		NeedsConfiguration: needsConfiguration(req.TemplateID),
	}
	step := wizard.Step(c.Params("step"))
	err = h.drafts.SaveStep(middleware.GetUserID(c).String(), flow, step, req.Data, progress)
	if errors.Is(err, wizard.ErrUnknownStep) {
		return fiber.NewError(fiber.StatusNotFound, "Wizard step not found")
	}
	if err != nil {
		return badRequest(err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"step": step})
}

func (h *Handler) ClearWizard(c *fiber.Ctx) error {
	flow, err := flowParam(c)
	if err != nil {
		return err
	}
	if err := h.drafts.Clear(c.UserContext(), middleware.GetUserID(c).String(), flow); err != nil {
		return h.fail(c, err, "Wizard")
	}
	return c.JSON(fiber.Map{"success": true})
}

// NextWizardStep computes the step after the given one, skipping the
// configuration step for templates that do not need it.
func (h *Handler) NextWizardStep(c *fiber.Ctx) error {
	return h.moveWizardStep(c, true)
}

func (h *Handler) PrevWizardStep(c *fiber.Ctx) error {
	return h.moveWizardStep(c, false)
}

func (h *Handler) moveWizardStep(c *fiber.Ctx, forward bool) error {
	flow, err := flowParam(c)
	if err != nil {
		return err
	}
	var req moveStepRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}

	needsConf := needsConfiguration(req.TemplateID)
	current := wizard.Step(req.Step)
	var (
		step wizard.Step
		done bool
	)
	if forward {
		step, done, err = flow.Next(current, needsConf)
	} else {
		step, err = flow.Prev(current, needsConf)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown wizard step")
	}
	return c.JSON(fiber.Map{"step": step, "done": done})
}
