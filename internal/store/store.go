// Package store holds the working set of a challenge and mediates every
// change to it through a Repository. Each operation writes remotely first
// and then folds the result into State with a reducer.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/arnold/simlegacy-api/internal/scoring"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Store struct {
	repo   Repository
	userID uuid.UUID
	logger *zap.Logger
	now    func() time.Time
	state  State
}

// New returns an empty store acting on behalf of userID.
func New(repo Repository, userID uuid.UUID, logger *zap.Logger) *Store {
	return &Store{
		repo:   repo,
		userID: userID,
		logger: logger.Named("Store").With(zap.String("userID", userID.String())),
		now:    time.Now,
	}
}

func (s *Store) State() State { return s.state }

func (s *Store) UserID() uuid.UUID { return s.userID }

func (s *Store) challengeFields() []zap.Field {
	if s.state.Challenge == nil {
		return nil
	}
	return []zap.Field{zap.String("challengeID", s.state.Challenge.ID.String())}
}

// FetchChallenges loads the user's challenge list. Failures are logged and
// leave the previous list in place.
func (s *Store) FetchChallenges(ctx context.Context) {
	s.state.Loading = true
	defer func() { s.state.Loading = false }()

	list, err := s.repo.ChallengeSummaries(ctx, s.userID)
	if err != nil {
		s.logger.Error("Failed to fetch challenges", zap.Error(err))
		return
	}
	s.state.Challenges = list
}

// FetchChallenge replaces the working set with the challenge, its sims, its
// goals and the progress rows referencing those goals. Challenges owned by
// someone else are reported as ErrNotFound.
func (s *Store) FetchChallenge(ctx context.Context, id uuid.UUID) error {
	s.state.Loading = true
	defer func() { s.state.Loading = false }()

	fields := []zap.Field{zap.String("challengeID", id.String())}

	challenge, err := s.repo.GetChallenge(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("Failed to fetch challenge", append(fields, zap.Error(err))...)
		}
		return err
	}
	if challenge.UserID != s.userID {
		s.logger.Warn("Challenge requested by non-owner", fields...)
		return ErrNotFound
	}

	sims, err := s.repo.ListSims(ctx, id)
	if err != nil {
		s.logger.Error("Failed to fetch sims", append(fields, zap.Error(err))...)
		return err
	}
	goals, err := s.repo.ListGoals(ctx, id)
	if err != nil {
		s.logger.Error("Failed to fetch goals", append(fields, zap.Error(err))...)
		return err
	}
	goalIDs := make([]uuid.UUID, len(goals))
	for i, g := range goals {
		goalIDs[i] = g.ID
	}
	progress := []models.Progress{}
	if len(goalIDs) > 0 {
		progress, err = s.repo.ListProgress(ctx, goalIDs)
		if err != nil {
			s.logger.Error("Failed to fetch progress", append(fields, zap.Error(err))...)
			return err
		}
	}

	s.state = withChallenge(s.state, *challenge, sims, goals, progress)
	return nil
}

func (s *Store) requireChallenge() (*models.Challenge, error) {
	if s.state.Challenge == nil {
		return nil, ErrNoChallenge
	}
	return s.state.Challenge, nil
}

// CreateChallenge stores a new challenge owned by the store's user together
// with any seed goals, and makes it the current working set.
func (s *Store) CreateChallenge(ctx context.Context, challenge models.Challenge, seed []models.Goal) (models.Challenge, error) {
	challenge.UserID = s.userID
	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}
	for i := range seed {
		seed[i].ChallengeID = challenge.ID
		if seed[i].ID == uuid.Nil {
			seed[i].ID = uuid.New()
		}
	}
	if err := s.repo.CreateChallenge(ctx, &challenge, seed); err != nil {
		s.logger.Error("Failed to create challenge", zap.Error(err))
		return models.Challenge{}, err
	}
	if seed == nil {
		seed = []models.Goal{}
	}
	s.state = withChallenge(s.state, challenge, []models.Sim{}, seed, []models.Progress{})
	return challenge, nil
}

// ChallengeChanges is a partial update; nil fields are left alone.
type ChallengeChanges struct {
	Name        *string
	Description *string
	Config      *datatypes.JSON
	Status      *models.ChallengeStatus
}

func (s *Store) UpdateChallenge(ctx context.Context, changes ChallengeChanges) (models.Challenge, error) {
	current, err := s.requireChallenge()
	if err != nil {
		return models.Challenge{}, err
	}
	updated := *current
	if changes.Name != nil {
		updated.Name = *changes.Name
	}
	if changes.Description != nil {
		updated.Description = changes.Description
	}
	if changes.Config != nil {
		updated.Config = *changes.Config
	}
	if changes.Status != nil {
		updated.Status = *changes.Status
	}
	if err := s.repo.SaveChallenge(ctx, &updated); err != nil {
		s.logger.Error("Failed to update challenge", append(s.challengeFields(), zap.Error(err))...)
		return models.Challenge{}, err
	}
	s.state = withChallengeUpdated(s.state, updated)
	return updated, nil
}

// DeleteChallenge removes the current challenge and everything under it.
// Recorded achievements are kept.
func (s *Store) DeleteChallenge(ctx context.Context) error {
	current, err := s.requireChallenge()
	if err != nil {
		return err
	}
	if err := s.repo.DeleteChallenge(ctx, current.ID); err != nil {
		s.logger.Error("Failed to delete challenge", append(s.challengeFields(), zap.Error(err))...)
		return err
	}
	s.state = withoutChallenge(s.state)
	return nil
}

// AddGoal appends a goal to the current challenge.
func (s *Store) AddGoal(ctx context.Context, goal models.Goal) (models.Goal, error) {
	current, err := s.requireChallenge()
	if err != nil {
		return models.Goal{}, err
	}
	if err := scoring.ValidateThresholds(goal.Thresholds); err != nil {
		return models.Goal{}, err
	}
	goal.ChallengeID = current.ID
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	if err := s.repo.CreateGoal(ctx, &goal); err != nil {
		s.logger.Error("Failed to add goal", append(s.challengeFields(), zap.Error(err))...)
		return models.Goal{}, err
	}
	s.state = withGoalAdded(s.state, goal)
	return goal, nil
}

// UpdateGoal writes the definition of goal over the stored goal with the
// same ID. The running value is left to UpdateGoalValue; the returned goal
// carries whatever value is stored.
func (s *Store) UpdateGoal(ctx context.Context, goal models.Goal) (models.Goal, error) {
	existing, ok := s.state.Goal(goal.ID)
	if !ok {
		return models.Goal{}, ErrNotFound
	}
	if err := scoring.ValidateThresholds(goal.Thresholds); err != nil {
		return models.Goal{}, err
	}
	goal.ChallengeID = existing.ChallengeID
	goal.CreatedAt = existing.CreatedAt
	if err := s.repo.SaveGoal(ctx, &goal); err != nil {
		s.logger.Error("Failed to update goal", append(s.challengeFields(), zap.String("goalID", goal.ID.String()), zap.Error(err))...)
		return models.Goal{}, err
	}
	s.state = withGoalReplaced(s.state, goal)
	return goal, nil
}

func (s *Store) DeleteGoal(ctx context.Context, goalID uuid.UUID) error {
	if _, ok := s.state.Goal(goalID); !ok {
		return ErrNotFound
	}
	if err := s.repo.DeleteGoal(ctx, goalID); err != nil {
		s.logger.Error("Failed to delete goal", append(s.challengeFields(), zap.String("goalID", goalID.String()), zap.Error(err))...)
		return err
	}
	s.state = withGoalRemoved(s.state, goalID)
	return nil
}

// ToggleGoalProgress deletes the user's progress row for the goal if there
// is one, otherwise inserts one. It reports whether the goal is now
// completed.
func (s *Store) ToggleGoalProgress(ctx context.Context, goalID uuid.UUID, simID *uuid.UUID) (bool, error) {
	goal, ok := s.state.Goal(goalID)
	if !ok {
		return false, ErrNotFound
	}
	if simID != nil {
		if _, ok := s.state.Sim(*simID); !ok {
			return false, ErrSimNotInChallenge
		}
	}
	fields := append(s.challengeFields(), zap.String("goalID", goalID.String()))

	if existing, ok := s.state.UserProgress(goalID, s.userID); ok {
		if err := s.repo.DeleteProgress(ctx, existing.ID); err != nil {
			s.logger.Error("Failed to remove goal progress", append(fields, zap.Error(err))...)
			return true, err
		}
		s.state = withProgressRemoved(s.state, existing.ID)
		return false, nil
	}

	progress := models.Progress{
		ID:          uuid.New(),
		ChallengeID: goal.ChallengeID,
		GoalID:      goalID,
		UserID:      s.userID,
		SimID:       simID,
		CompletedAt: s.now(),
	}
	if err := s.repo.CreateProgress(ctx, &progress); err != nil {
		s.logger.Error("Failed to add goal progress", append(fields, zap.Error(err))...)
		return false, err
	}
	s.state = withProgressAdded(s.state, progress)
	return true, nil
}

// UpdateGoalValue sets a goal's running counter. The value is not checked
// against TargetValue or MaxPoints.
func (s *Store) UpdateGoalValue(ctx context.Context, goalID uuid.UUID, value int) (models.Goal, error) {
	if _, ok := s.state.Goal(goalID); !ok {
		return models.Goal{}, ErrNotFound
	}
	if err := s.repo.UpdateGoalValue(ctx, goalID, value); err != nil {
		s.logger.Error("Failed to update goal value", append(s.challengeFields(), zap.String("goalID", goalID.String()), zap.Int("value", value), zap.Error(err))...)
		return models.Goal{}, err
	}
	s.state = withGoalValue(s.state, goalID, value)
	goal, _ := s.state.Goal(goalID)
	return goal, nil
}

// CompleteGoalWithDetails upserts the user's progress row for the goal with
// a snapshot of the completing sim, then appends a SimAchievement.
func (s *Store) CompleteGoalWithDetails(ctx context.Context, goalID, simID uuid.UUID, method string, notes *string) (models.Progress, models.SimAchievement, error) {
	goal, ok := s.state.Goal(goalID)
	if !ok {
		return models.Progress{}, models.SimAchievement{}, ErrNotFound
	}
	sim, ok := s.state.Sim(simID)
	if !ok {
		return models.Progress{}, models.SimAchievement{}, ErrSimNotInChallenge
	}
	fields := append(s.challengeFields(), zap.String("goalID", goalID.String()), zap.String("simID", simID.String()))

	now := s.now()
	details := &models.CompletionDetails{
		Method:        method,
		SimID:         &sim.ID,
		SimName:       sim.Name,
		SimGeneration: sim.Generation,
		Notes:         notes,
		CompletedAt:   now,
	}

	progress, exists := s.state.UserProgress(goalID, s.userID)
	if !exists {
		progress = models.Progress{
			ID:          uuid.New(),
			ChallengeID: goal.ChallengeID,
			GoalID:      goalID,
			UserID:      s.userID,
		}
	}
	progress.SimID = &sim.ID
	progress.Notes = notes
	progress.CompletionDetails = datatypes.NewJSONType(details)
	progress.CompletedAt = now

	var err error
	if exists {
		err = s.repo.SaveProgress(ctx, &progress)
	} else {
		err = s.repo.CreateProgress(ctx, &progress)
	}
	if err != nil {
		s.logger.Error("Failed to record goal completion", append(fields, zap.Error(err))...)
		return models.Progress{}, models.SimAchievement{}, err
	}
	s.state = withProgressUpserted(s.state, progress)

	achievement := models.SimAchievement{
		ID:           uuid.New(),
		SimID:        sim.ID,
		ChallengeID:  goal.ChallengeID,
		UserID:       s.userID,
		GoalTitle:    goal.Title,
		Method:       method,
		PointsEarned: scoring.GoalPoints(&goal, true),
		Notes:        notes,
		AchievedAt:   now,
	}
	if err := s.repo.CreateAchievement(ctx, &achievement); err != nil {
		s.logger.Error("Failed to record sim achievement", append(fields, zap.Error(err))...)
		return progress, models.SimAchievement{}, fmt.Errorf("record achievement: %w", err)
	}
	return progress, achievement, nil
}

// AddSim validates the trait cap for the sim's age stage before writing.
func (s *Store) AddSim(ctx context.Context, sim models.Sim) (models.Sim, error) {
	current, err := s.requireChallenge()
	if err != nil {
		return models.Sim{}, err
	}
	if !sim.AgeStage.IsValid() {
		return models.Sim{}, ErrInvalidAgeStage
	}
	if len(sim.TraitList()) > sim.AgeStage.TraitCap() {
		return models.Sim{}, ErrTraitLimit
	}
	sim.ChallengeID = current.ID
	if sim.ID == uuid.Nil {
		sim.ID = uuid.New()
	}
	if err := s.repo.CreateSim(ctx, &sim); err != nil {
		s.logger.Error("Failed to add sim", append(s.challengeFields(), zap.Error(err))...)
		return models.Sim{}, err
	}
	s.state = withSimAdded(s.state, sim)
	return sim, nil
}

// UpdateSim writes the editable fields of sim. The heir flag is only
// changed by UpdateSimAsHeir.
func (s *Store) UpdateSim(ctx context.Context, sim models.Sim) (models.Sim, error) {
	existing, ok := s.state.Sim(sim.ID)
	if !ok {
		return models.Sim{}, ErrNotFound
	}
	if !sim.AgeStage.IsValid() {
		return models.Sim{}, ErrInvalidAgeStage
	}
	if len(sim.TraitList()) > sim.AgeStage.TraitCap() {
		return models.Sim{}, ErrTraitLimit
	}
	sim.ChallengeID = existing.ChallengeID
	sim.CreatedAt = existing.CreatedAt
	if err := s.repo.SaveSim(ctx, &sim); err != nil {
		s.logger.Error("Failed to update sim", append(s.challengeFields(), zap.String("simID", sim.ID.String()), zap.Error(err))...)
		return models.Sim{}, err
	}
	s.state = withSimReplaced(s.state, sim)
	return sim, nil
}

func (s *Store) DeleteSim(ctx context.Context, simID uuid.UUID) error {
	if _, ok := s.state.Sim(simID); !ok {
		return ErrNotFound
	}
	if err := s.repo.DeleteSim(ctx, simID); err != nil {
		s.logger.Error("Failed to delete sim", append(s.challengeFields(), zap.String("simID", simID.String()), zap.Error(err))...)
		return err
	}
	s.state = withSimRemoved(s.state, simID)
	return nil
}

// UpdateSimAsHeir makes simID the only heir of the challenge and reloads the
// sim list.
func (s *Store) UpdateSimAsHeir(ctx context.Context, simID uuid.UUID) error {
	current, err := s.requireChallenge()
	if err != nil {
		return err
	}
	if _, ok := s.state.Sim(simID); !ok {
		return ErrNotFound
	}
	fields := append(s.challengeFields(), zap.String("simID", simID.String()))
	if err := s.repo.SetHeir(ctx, current.ID, simID); err != nil {
		s.logger.Error("Failed to set heir", append(fields, zap.Error(err))...)
		return err
	}
	sims, err := s.repo.ListSims(ctx, current.ID)
	if err != nil {
		s.logger.Error("Failed to reload sims after heir change", append(fields, zap.Error(err))...)
		return err
	}
	s.state = withSims(s.state, sims)
	return nil
}

func (s *Store) CalculatePoints() int {
	return scoring.CalculatePoints(s.state.Goals, s.state.Progress)
}

func (s *Store) CalculateCategoryPoints(category string) int {
	return scoring.CalculateCategoryPoints(s.state.Goals, s.state.Progress, category)
}

func (s *Store) CategoryPoints() map[string]int {
	return scoring.CategoryBreakdown(s.state.Goals, s.state.Progress)
}
