package handlers

import (
	"context"
	"time"

	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (h *Handler) CreateGoal(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	var req models.CreateGoalRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}

	goal := models.Goal{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		PointValue:   req.PointValue,
		MaxPoints:    req.MaxPoints,
		CurrentValue: req.CurrentValue,
		TargetValue:  req.TargetValue,
		Thresholds:   req.Thresholds,
		OrderIndex:   len(st.State().Goals),
	}
	if req.GoalType != nil {
		t := models.GoalType(*req.GoalType)
		goal.GoalType = &t
	}
	if req.OrderIndex != nil {
		goal.OrderIndex = *req.OrderIndex
	}

	created, err := st.AddGoal(c.UserContext(), goal)
	if err != nil {
		return h.fail(c, err, "Challenge")
	}
	h.hub.Broadcast(created.ChallengeID, clientID(c), EventGoalUpdated, created)
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) UpdateGoal(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	goalID, ok := paramID(c, "goalId")
	if !ok {
		return invalidID("goal")
	}
	goal, ok := st.State().Goal(goalID)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Goal not found")
	}
	var req models.UpdateGoalRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = req.Description
	}
	if req.Category != nil {
		goal.Category = req.Category
	}
	if req.GoalType != nil {
		t := models.GoalType(*req.GoalType)
		goal.GoalType = &t
	}
	if req.PointValue != nil {
		goal.PointValue = *req.PointValue
	}
	if req.MaxPoints != nil {
		goal.MaxPoints = req.MaxPoints
	}
	if req.TargetValue != nil {
		goal.TargetValue = req.TargetValue
	}
	if req.Thresholds != nil {
		goal.Thresholds = req.Thresholds
	}
	if req.OrderIndex != nil {
		goal.OrderIndex = *req.OrderIndex
	}

	updated, err := st.UpdateGoal(c.UserContext(), goal)
	if err != nil {
		return h.fail(c, err, "Goal")
	}
	if req.CurrentValue != nil {
		if updated, err = st.UpdateGoalValue(c.UserContext(), goalID, *req.CurrentValue); err != nil {
			return h.fail(c, err, "Goal")
		}
	}
	h.hub.Broadcast(updated.ChallengeID, clientID(c), EventGoalUpdated, updated)
	return c.JSON(updated)
}

func (h *Handler) DeleteGoal(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	goalID, ok := paramID(c, "goalId")
	if !ok {
		return invalidID("goal")
	}
	if err := st.DeleteGoal(c.UserContext(), goalID); err != nil {
		return h.fail(c, err, "Goal")
	}
	h.hub.Broadcast(st.State().Challenge.ID, clientID(c), EventGoalDeleted, fiber.Map{"goalId": goalID})
	return c.JSON(fiber.Map{"success": true})
}

// ToggleGoal flips the caller's completion of a goal.
func (h *Handler) ToggleGoal(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	goalID, ok := paramID(c, "goalId")
	if !ok {
		return invalidID("goal")
	}
	var req models.ToggleGoalRequest
	if len(c.Body()) > 0 {
		if err := h.bind(c, &req); err != nil {
			return badRequest(err)
		}
	}

	completed, err := st.ToggleGoalProgress(c.UserContext(), goalID, req.SimID)
	if err != nil {
		return h.fail(c, err, "Goal")
	}
	state := "uncompleted"
	if completed {
		state = "completed"
	}
	goalTogglesTotal.WithLabelValues(state).Inc()

	resp := fiber.Map{
		"goalId":    goalID,
		"completed": completed,
		"points":    st.CalculatePoints(),
	}
	h.hub.Broadcast(st.State().Challenge.ID, clientID(c), EventProgressToggled, resp)
	return c.JSON(resp)
}

// UpdateGoalValue sets the running value of a counter or threshold goal.
// Values are not clamped to the goal's target.
func (h *Handler) UpdateGoalValue(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	goalID, ok := paramID(c, "goalId")
	if !ok {
		return invalidID("goal")
	}
	var req models.UpdateGoalValueRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}

	goal, err := st.UpdateGoalValue(c.UserContext(), goalID, req.Value)
	if err != nil {
		return h.fail(c, err, "Goal")
	}
	h.hub.Broadcast(goal.ChallengeID, clientID(c), EventGoalUpdated, goal)
	return c.JSON(fiber.Map{
		"goal":   goal,
		"points": st.CalculatePoints(),
	})
}

// CompleteGoal records how and by which sim a goal was completed, appends
// the sim's achievement and notifies the owner.
func (h *Handler) CompleteGoal(c *fiber.Ctx) error {
	st, err := h.challengeStore(c)
	if err != nil {
		return err
	}
	goalID, ok := paramID(c, "goalId")
	if !ok {
		return invalidID("goal")
	}
	var req models.CompleteGoalRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}
	if req.SimID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "simId is required")
	}

	progress, achievement, err := st.CompleteGoalWithDetails(c.UserContext(), goalID, req.SimID, req.Method, req.Notes)
	if err != nil {
		return h.fail(c, err, "Goal")
	}
	achievementsRecordedTotal.Inc()

	sim, _ := st.State().Sim(req.SimID)
	go h.notifyAchievement(st.UserID(), sim, achievement)

	resp := fiber.Map{
		"progress":    progress,
		"achievement": achievement,
		"points":      st.CalculatePoints(),
	}
	h.hub.Broadcast(progress.ChallengeID, clientID(c), EventGoalCompleted, resp)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) notifyAchievement(userID uuid.UUID, sim models.Sim, a models.SimAchievement) {
	if h.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.notifier.AchievementRecorded(ctx, userID, sim, a); err != nil {
		h.logger.Warn("Achievement notification not recorded", zap.String("achievementID", a.ID.String()), zap.Error(err))
	}
}
