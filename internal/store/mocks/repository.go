package mocks

import (
	"context"

	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Repository is a testify mock of store.Repository.
type Repository struct {
	mock.Mock
}

func (m *Repository) ChallengeSummaries(ctx context.Context, userID uuid.UUID) ([]models.ChallengeSummary, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.ChallengeSummary)
	return list, args.Error(1)
}

func (m *Repository) GetChallenge(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Challenge)
	return c, args.Error(1)
}

func (m *Repository) CreateChallenge(ctx context.Context, challenge *models.Challenge, goals []models.Goal) error {
	return m.Called(ctx, challenge, goals).Error(0)
}

func (m *Repository) SaveChallenge(ctx context.Context, challenge *models.Challenge) error {
	return m.Called(ctx, challenge).Error(0)
}

func (m *Repository) DeleteChallenge(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Repository) ListSims(ctx context.Context, challengeID uuid.UUID) ([]models.Sim, error) {
	args := m.Called(ctx, challengeID)
	sims, _ := args.Get(0).([]models.Sim)
	return sims, args.Error(1)
}

func (m *Repository) CreateSim(ctx context.Context, sim *models.Sim) error {
	return m.Called(ctx, sim).Error(0)
}

func (m *Repository) SaveSim(ctx context.Context, sim *models.Sim) error {
	return m.Called(ctx, sim).Error(0)
}

func (m *Repository) DeleteSim(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Repository) SetHeir(ctx context.Context, challengeID, simID uuid.UUID) error {
	return m.Called(ctx, challengeID, simID).Error(0)
}

func (m *Repository) ListGoals(ctx context.Context, challengeID uuid.UUID) ([]models.Goal, error) {
	args := m.Called(ctx, challengeID)
	goals, _ := args.Get(0).([]models.Goal)
	return goals, args.Error(1)
}

func (m *Repository) CreateGoal(ctx context.Context, goal *models.Goal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *Repository) SaveGoal(ctx context.Context, goal *models.Goal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *Repository) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Repository) UpdateGoalValue(ctx context.Context, id uuid.UUID, value int) error {
	return m.Called(ctx, id, value).Error(0)
}

func (m *Repository) ListProgress(ctx context.Context, goalIDs []uuid.UUID) ([]models.Progress, error) {
	args := m.Called(ctx, goalIDs)
	progress, _ := args.Get(0).([]models.Progress)
	return progress, args.Error(1)
}

func (m *Repository) CreateProgress(ctx context.Context, progress *models.Progress) error {
	return m.Called(ctx, progress).Error(0)
}

func (m *Repository) SaveProgress(ctx context.Context, progress *models.Progress) error {
	return m.Called(ctx, progress).Error(0)
}

func (m *Repository) DeleteProgress(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Repository) CreateAchievement(ctx context.Context, achievement *models.SimAchievement) error {
	return m.Called(ctx, achievement).Error(0)
}
