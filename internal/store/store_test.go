package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/arnold/simlegacy-api/internal/store"
	"github.com/arnold/simlegacy-api/internal/store/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	repo      *mocks.Repository
	st        *store.Store
	userID    uuid.UUID
	challenge models.Challenge
	milestone models.Goal
	counter   models.Goal
	simA      models.Sim
	simB      models.Sim
}

// loaded returns a store that has already fetched a challenge with two
// goals and two sims, sim A being the heir.
func loaded(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{repo: new(mocks.Repository), userID: uuid.New()}
	f.challenge = models.Challenge{ID: uuid.New(), UserID: f.userID, Name: "Pastel Legacy", ChallengeType: models.ChallengeTypeLegacy}
	f.milestone = models.Goal{ID: uuid.New(), ChallengeID: f.challenge.ID, Title: "Max a career", GoalType: ptr(models.GoalTypeMilestone), Category: ptr(models.CategoryCareer), PointValue: 5}
	f.counter = models.Goal{ID: uuid.New(), ChallengeID: f.challenge.ID, Title: "Collect crystals", GoalType: ptr(models.GoalTypeCounter), Category: ptr(models.CategoryCollections), PointValue: 2, MaxPoints: ptr(15)}
	f.simA = models.Sim{ID: uuid.New(), ChallengeID: f.challenge.ID, Name: "Ada", Generation: 1, AgeStage: models.AgeAdult, IsHeir: true}
	f.simB = models.Sim{ID: uuid.New(), ChallengeID: f.challenge.ID, Name: "Bo", Generation: 2, AgeStage: models.AgeTeen}

	f.repo.On("GetChallenge", mock.Anything, f.challenge.ID).Return(&f.challenge, nil).Once()
	f.repo.On("ListSims", mock.Anything, f.challenge.ID).Return([]models.Sim{f.simA, f.simB}, nil).Once()
	f.repo.On("ListGoals", mock.Anything, f.challenge.ID).Return([]models.Goal{f.milestone, f.counter}, nil).Once()
	f.repo.On("ListProgress", mock.Anything, []uuid.UUID{f.milestone.ID, f.counter.ID}).Return([]models.Progress{}, nil).Once()

	f.st = store.New(f.repo, f.userID, zap.NewNop())
	require.NoError(t, f.st.FetchChallenge(context.Background(), f.challenge.ID))
	return f
}

func TestFetchChallenge(t *testing.T) {
	f := loaded(t)
	state := f.st.State()

	require.NotNil(t, state.Challenge)
	assert.Equal(t, f.challenge.ID, state.Challenge.ID)
	assert.Len(t, state.Sims, 2)
	assert.Len(t, state.Goals, 2)
	assert.Empty(t, state.Progress)
	assert.False(t, state.Loading)
	f.repo.AssertExpectations(t)
}

func TestFetchChallengeRejectsOtherOwner(t *testing.T) {
	repo := new(mocks.Repository)
	challenge := models.Challenge{ID: uuid.New(), UserID: uuid.New()}
	repo.On("GetChallenge", mock.Anything, challenge.ID).Return(&challenge, nil).Once()

	st := store.New(repo, uuid.New(), zap.NewNop())
	err := st.FetchChallenge(context.Background(), challenge.ID)

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Nil(t, st.State().Challenge)
	repo.AssertNotCalled(t, "ListSims", mock.Anything, mock.Anything)
}

func TestFetchChallengesKeepsPreviousOnError(t *testing.T) {
	repo := new(mocks.Repository)
	userID := uuid.New()
	first := []models.ChallengeSummary{{ID: uuid.New(), Name: "Legacy"}}
	repo.On("ChallengeSummaries", mock.Anything, userID).Return(first, nil).Once()
	repo.On("ChallengeSummaries", mock.Anything, userID).Return(nil, errors.New("connection refused")).Once()

	st := store.New(repo, userID, zap.NewNop())
	st.FetchChallenges(context.Background())
	assert.Equal(t, first, st.State().Challenges)

	st.FetchChallenges(context.Background())
	assert.Equal(t, first, st.State().Challenges)
	assert.False(t, st.State().Loading)
	repo.AssertExpectations(t)
}

func TestToggleGoalProgressCycle(t *testing.T) {
	f := loaded(t)
	ctx := context.Background()

	f.repo.On("CreateProgress", mock.Anything, mock.MatchedBy(func(p *models.Progress) bool {
		return p.GoalID == f.milestone.ID && p.UserID == f.userID
	})).Return(nil).Twice()
	f.repo.On("DeleteProgress", mock.Anything, mock.Anything).Return(nil).Once()

	completed, err := f.st.ToggleGoalProgress(ctx, f.milestone.ID, nil)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, 5, f.st.CalculatePoints())

	completed, err = f.st.ToggleGoalProgress(ctx, f.milestone.ID, nil)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, 0, f.st.CalculatePoints())
	assert.Empty(t, f.st.State().Progress)

	completed, err = f.st.ToggleGoalProgress(ctx, f.milestone.ID, &f.simB.ID)
	require.NoError(t, err)
	assert.True(t, completed)
	require.Len(t, f.st.State().Progress, 1)
	assert.Equal(t, f.simB.ID, *f.st.State().Progress[0].SimID)
	f.repo.AssertExpectations(t)
}

func TestToggleGoalProgressWriteFailure(t *testing.T) {
	f := loaded(t)
	f.repo.On("CreateProgress", mock.Anything, mock.Anything).Return(errors.New("boom")).Once()

	_, err := f.st.ToggleGoalProgress(context.Background(), f.milestone.ID, nil)

	assert.Error(t, err)
	assert.Empty(t, f.st.State().Progress)
}

func TestToggleGoalProgressUnknownGoal(t *testing.T) {
	f := loaded(t)
	_, err := f.st.ToggleGoalProgress(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.st.ToggleGoalProgress(context.Background(), f.milestone.ID, ptr(uuid.New()))
	assert.ErrorIs(t, err, store.ErrSimNotInChallenge)
}

func TestUpdateGoalValueIsUnbounded(t *testing.T) {
	f := loaded(t)
	f.repo.On("UpdateGoalValue", mock.Anything, f.counter.ID, 40).Return(nil).Once()

	goal, err := f.st.UpdateGoalValue(context.Background(), f.counter.ID, 40)

	require.NoError(t, err)
	assert.Equal(t, 40, goal.CurrentValue)
	assert.Equal(t, 15, f.st.CalculatePoints())
	assert.Equal(t, 15, f.st.CalculateCategoryPoints(models.CategoryCollections))
	assert.Equal(t, 0, f.st.CalculateCategoryPoints("deviance"))
}

func TestCompleteGoalWithDetails(t *testing.T) {
	f := loaded(t)
	ctx := context.Background()
	notes := "Painted the last masterpiece"

	f.repo.On("CreateProgress", mock.Anything, mock.MatchedBy(func(p *models.Progress) bool {
		d := p.Details()
		return d != nil && d.Method == "painting" && d.SimName == "Bo" && d.SimGeneration == 2
	})).Return(nil).Once()
	f.repo.On("CreateAchievement", mock.Anything, mock.MatchedBy(func(a *models.SimAchievement) bool {
		return a.SimID == f.simB.ID && a.UserID == f.userID && a.GoalTitle == "Max a career" && a.PointsEarned == 5
	})).Return(nil).Once()
	f.repo.On("CreateAchievement", mock.Anything, mock.MatchedBy(func(a *models.SimAchievement) bool {
		return a.SimID == f.simA.ID
	})).Return(nil).Once()
	f.repo.On("SaveProgress", mock.Anything, mock.Anything).Return(nil).Once()

	progress, achievement, err := f.st.CompleteGoalWithDetails(ctx, f.milestone.ID, f.simB.ID, "painting", &notes)
	require.NoError(t, err)
	assert.Equal(t, f.simB.ID, *progress.SimID)
	assert.Equal(t, "painting", achievement.Method)
	assert.Equal(t, 5, f.st.CalculatePoints())

	// a second completion updates the same progress row
	_, _, err = f.st.CompleteGoalWithDetails(ctx, f.milestone.ID, f.simA.ID, "career", nil)
	require.NoError(t, err)
	require.Len(t, f.st.State().Progress, 1)
	assert.Equal(t, "Ada", f.st.State().Progress[0].Details().SimName)
	f.repo.AssertExpectations(t)
}

func TestCompleteGoalWithDetailsAchievementFailure(t *testing.T) {
	f := loaded(t)
	f.repo.On("CreateProgress", mock.Anything, mock.Anything).Return(nil).Once()
	f.repo.On("CreateAchievement", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	_, _, err := f.st.CompleteGoalWithDetails(context.Background(), f.milestone.ID, f.simA.ID, "career", nil)

	assert.Error(t, err)
	assert.Len(t, f.st.State().Progress, 1)
}

func TestUpdateSimAsHeir(t *testing.T) {
	f := loaded(t)
	afterA := f.simA
	afterA.IsHeir = false
	afterB := f.simB
	afterB.IsHeir = true

	f.repo.On("SetHeir", mock.Anything, f.challenge.ID, f.simB.ID).Return(nil).Once()
	f.repo.On("ListSims", mock.Anything, f.challenge.ID).Return([]models.Sim{afterA, afterB}, nil).Once()

	require.NoError(t, f.st.UpdateSimAsHeir(context.Background(), f.simB.ID))

	heirs := f.st.State().Heirs()
	require.Len(t, heirs, 1)
	assert.Equal(t, f.simB.ID, heirs[0].ID)
	f.repo.AssertExpectations(t)
}

func TestAddSimTraitCap(t *testing.T) {
	f := loaded(t)
	toddler := models.Sim{Name: "Cy", AgeStage: models.AgeToddler, Traits: datatypes.NewJSONType([]string{"angelic", "silly"})}

	_, err := f.st.AddSim(context.Background(), toddler)
	assert.ErrorIs(t, err, store.ErrTraitLimit)

	toddler.Traits = datatypes.NewJSONType([]string{"angelic"})
	f.repo.On("CreateSim", mock.Anything, mock.Anything).Return(nil).Once()
	sim, err := f.st.AddSim(context.Background(), toddler)
	require.NoError(t, err)
	assert.Equal(t, f.challenge.ID, sim.ChallengeID)
	assert.Len(t, f.st.State().Sims, 3)
}

func TestAddSimRejectsUnknownAgeStage(t *testing.T) {
	f := loaded(t)

	_, err := f.st.AddSim(context.Background(), models.Sim{Name: "Cy", AgeStage: "ghost"})
	assert.ErrorIs(t, err, store.ErrInvalidAgeStage)

	sim := f.simB
	sim.AgeStage = "ghost"
	_, err = f.st.UpdateSim(context.Background(), sim)
	assert.ErrorIs(t, err, store.ErrInvalidAgeStage)

	f.repo.AssertNotCalled(t, "CreateSim", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "SaveSim", mock.Anything, mock.Anything)
}

func TestDeleteGoalDropsProgress(t *testing.T) {
	f := loaded(t)
	ctx := context.Background()
	f.repo.On("CreateProgress", mock.Anything, mock.Anything).Return(nil).Once()
	f.repo.On("DeleteGoal", mock.Anything, f.milestone.ID).Return(nil).Once()

	_, err := f.st.ToggleGoalProgress(ctx, f.milestone.ID, nil)
	require.NoError(t, err)
	require.NoError(t, f.st.DeleteGoal(ctx, f.milestone.ID))

	assert.Len(t, f.st.State().Goals, 1)
	assert.Empty(t, f.st.State().Progress)
}

func TestAddAndUpdateGoal(t *testing.T) {
	f := loaded(t)
	ctx := context.Background()
	f.repo.On("CreateGoal", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.st.AddGoal(ctx, models.Goal{Title: "bad", Thresholds: ptr("{")})
	assert.Error(t, err)

	g, err := f.st.AddGoal(ctx, models.Goal{
		Title:        "Skill levels",
		GoalType:     ptr(models.GoalTypeThreshold),
		Category:     ptr(models.CategorySkills),
		CurrentValue: 7,
		Thresholds:   ptr(`[{"value":5,"points":10},{"value":10,"points":25}]`),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, f.st.CalculateCategoryPoints(models.CategorySkills))

	f.repo.On("UpdateGoalValue", mock.Anything, g.ID, 12).Return(nil).Once()
	_, err = f.st.UpdateGoalValue(ctx, g.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 25, f.st.CalculateCategoryPoints(models.CategorySkills))

	// the repository reloads the stored row, whose value is newer than g's
	f.repo.On("SaveGoal", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Goal).CurrentValue = 12
	}).Return(nil).Once()
	g.Title = "Skill milestones"
	updated, err := f.st.UpdateGoal(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.CurrentValue)
	assert.Equal(t, map[string]int{"career": 0, "collections": 0, "skills": 25}, f.st.CategoryPoints())
}

func TestDeleteChallengeClearsState(t *testing.T) {
	f := loaded(t)
	f.repo.On("DeleteChallenge", mock.Anything, f.challenge.ID).Return(nil).Once()

	require.NoError(t, f.st.DeleteChallenge(context.Background()))

	assert.Nil(t, f.st.State().Challenge)
	assert.Empty(t, f.st.State().Goals)
	assert.ErrorIs(t, f.st.DeleteChallenge(context.Background()), store.ErrNoChallenge)
}
