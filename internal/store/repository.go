package store

import (
	"context"
	"errors"

	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrTraitLimit        = errors.New("too many traits for age stage")
	ErrSimNotInChallenge = errors.New("sim does not belong to this challenge")
	ErrNoChallenge       = errors.New("no challenge loaded")
	ErrInvalidAgeStage   = errors.New("unknown age stage")
)

// Repository is the remote side of the store. Implementations return
// ErrNotFound for missing rows.
type Repository interface {
	ChallengeSummaries(ctx context.Context, userID uuid.UUID) ([]models.ChallengeSummary, error)
	GetChallenge(ctx context.Context, id uuid.UUID) (*models.Challenge, error)
	CreateChallenge(ctx context.Context, challenge *models.Challenge, goals []models.Goal) error
	SaveChallenge(ctx context.Context, challenge *models.Challenge) error
	DeleteChallenge(ctx context.Context, id uuid.UUID) error

	ListSims(ctx context.Context, challengeID uuid.UUID) ([]models.Sim, error)
	CreateSim(ctx context.Context, sim *models.Sim) error
	SaveSim(ctx context.Context, sim *models.Sim) error
	DeleteSim(ctx context.Context, id uuid.UUID) error
	// SetHeir clears is_heir on every sim of the challenge and sets it on
	// simID as a single atomic change.
	SetHeir(ctx context.Context, challengeID, simID uuid.UUID) error

	ListGoals(ctx context.Context, challengeID uuid.UUID) ([]models.Goal, error)
	CreateGoal(ctx context.Context, goal *models.Goal) error
	SaveGoal(ctx context.Context, goal *models.Goal) error
	DeleteGoal(ctx context.Context, id uuid.UUID) error
	UpdateGoalValue(ctx context.Context, id uuid.UUID, value int) error

	ListProgress(ctx context.Context, goalIDs []uuid.UUID) ([]models.Progress, error)
	CreateProgress(ctx context.Context, progress *models.Progress) error
	SaveProgress(ctx context.Context, progress *models.Progress) error
	DeleteProgress(ctx context.Context, id uuid.UUID) error

	CreateAchievement(ctx context.Context, achievement *models.SimAchievement) error
}
