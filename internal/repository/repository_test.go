package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arnold/simlegacy-api/internal/database"
	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/arnold/simlegacy-api/internal/repository"
	"github.com/arnold/simlegacy-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm/logger"
)

func newRepo(t *testing.T) *repository.Repository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return repository.New(db)
}

func seedChallenge(t *testing.T, repo *repository.Repository, userID uuid.UUID) *models.Challenge {
	t.Helper()
	milestone := models.GoalTypeMilestone
	c := &models.Challenge{UserID: userID, Name: "Alphabet Legacy", ChallengeType: models.ChallengeTypeLegacy}
	c.ID = uuid.New()
	goals := []models.Goal{
		{ChallengeID: c.ID, Title: "Max a career", GoalType: &milestone, PointValue: 5, OrderIndex: 1},
		{ChallengeID: c.ID, Title: "Marry", GoalType: &milestone, PointValue: 3, OrderIndex: 0},
	}
	require.NoError(t, repo.CreateChallenge(context.Background(), c, goals))
	return c
}

func TestCreateChallengeSeedsGoalsInOrder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	c := seedChallenge(t, repo, uuid.New())

	got, err := repo.GetChallenge(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusActive, got.Status)
	assert.JSONEq(t, `{}`, string(got.Config))

	goals, err := repo.ListGoals(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "Marry", goals[0].Title)
	assert.Equal(t, "Max a career", goals[1].Title)
}

func TestGetChallengeNotFound(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.GetChallenge(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetHeirLeavesExactlyOneHeir(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	c := seedChallenge(t, repo, uuid.New())

	sims := []*models.Sim{
		{ChallengeID: c.ID, Name: "Ada", IsHeir: true},
		{ChallengeID: c.ID, Name: "Bo", Generation: 2},
		{ChallengeID: c.ID, Name: "Cy", Generation: 2, IsHeir: true},
	}
	for _, s := range sims {
		require.NoError(t, repo.CreateSim(ctx, s))
	}

	require.NoError(t, repo.SetHeir(ctx, c.ID, sims[1].ID))

	list, err := repo.ListSims(ctx, c.ID)
	require.NoError(t, err)
	var heirs []string
	for _, s := range list {
		if s.IsHeir {
			heirs = append(heirs, s.Name)
		}
	}
	assert.Equal(t, []string{"Bo"}, heirs)
}

func TestSetHeirUnknownSimRollsBack(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	c := seedChallenge(t, repo, uuid.New())
	heir := &models.Sim{ChallengeID: c.ID, Name: "Ada", IsHeir: true}
	require.NoError(t, repo.CreateSim(ctx, heir))

	err := repo.SetHeir(ctx, c.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := repo.GetSim(ctx, heir.ID)
	require.NoError(t, err)
	assert.True(t, got.IsHeir)
}

func TestDeleteChallengeKeepsAchievements(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	c := seedChallenge(t, repo, userID)

	sim := &models.Sim{ChallengeID: c.ID, Name: "Ada"}
	require.NoError(t, repo.CreateSim(ctx, sim))
	goals, err := repo.ListGoals(ctx, c.ID)
	require.NoError(t, err)
	require.NoError(t, repo.CreateProgress(ctx, &models.Progress{ChallengeID: c.ID, GoalID: goals[0].ID, UserID: userID}))
	require.NoError(t, repo.CreateAchievement(ctx, &models.SimAchievement{SimID: sim.ID, ChallengeID: c.ID, UserID: userID, GoalTitle: goals[0].Title, PointsEarned: 3}))

	require.NoError(t, repo.DeleteChallenge(ctx, c.ID))

	_, err = repo.GetChallenge(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	left, err := repo.ListGoals(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	progress, err := repo.ListProgress(ctx, []uuid.UUID{goals[0].ID})
	require.NoError(t, err)
	assert.Empty(t, progress)

	achievements, err := repo.AchievementsForSim(ctx, sim.ID)
	require.NoError(t, err)
	assert.Len(t, achievements, 1)

	mine, total, err := repo.AchievementsForUser(ctx, userID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, c.ID, mine[0].ChallengeID)
}

func TestChallengeSummariesCounts(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	c := seedChallenge(t, repo, userID)
	seedChallenge(t, repo, uuid.New())

	require.NoError(t, repo.CreateSim(ctx, &models.Sim{ChallengeID: c.ID, Name: "Ada"}))
	goals, err := repo.ListGoals(ctx, c.ID)
	require.NoError(t, err)
	require.NoError(t, repo.CreateProgress(ctx, &models.Progress{ChallengeID: c.ID, GoalID: goals[0].ID, UserID: userID}))

	list, err := repo.ChallengeSummaries(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].SimCount)
	assert.Equal(t, 2, list[0].GoalCount)
	assert.Equal(t, 1, list[0].CompletedCount)
}

func TestSimsForUser(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	mine := seedChallenge(t, repo, userID)
	theirs := seedChallenge(t, repo, uuid.New())

	require.NoError(t, repo.CreateSim(ctx, &models.Sim{ChallengeID: mine.ID, Name: "Ada"}))
	require.NoError(t, repo.CreateSim(ctx, &models.Sim{ChallengeID: theirs.ID, Name: "Eve"}))

	sims, err := repo.SimsForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, sims, 1)
	assert.Equal(t, "Ada", sims[0].Name)
}

func TestUpdateGoalValue(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	c := seedChallenge(t, repo, uuid.New())
	goals, err := repo.ListGoals(ctx, c.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateGoalValue(ctx, goals[0].ID, 42))
	assert.ErrorIs(t, repo.UpdateGoalValue(ctx, uuid.New(), 1), store.ErrNotFound)

	goals, err = repo.ListGoals(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, goals[0].CurrentValue)
}

func TestUsersAreUniqueByEmail(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &models.User{Email: "Player@Example.com ", Password: "x"}))
	err := repo.CreateUser(ctx, &models.User{Email: "player@example.com", Password: "y"})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)

	u, err := repo.UserByEmail(ctx, "PLAYER@example.com")
	require.NoError(t, err)
	assert.Equal(t, "player@example.com", u.Email)

	_, err = repo.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPreferencesUpsert(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	prefs, err := repo.Preferences(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, prefs.Packs.Data().All())

	prefs.Packs = datatypes.NewJSONType(models.PackSelection{ExpansionPacks: []string{"ep01"}})
	require.NoError(t, repo.SavePreferences(ctx, prefs))
	prefs.Packs = datatypes.NewJSONType(models.PackSelection{ExpansionPacks: []string{"ep01", "ep02"}, GamePacks: []string{"gp01"}})
	require.NoError(t, repo.SavePreferences(ctx, prefs))

	got, err := repo.Preferences(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ep01", "ep02", "gp01"}, got.Packs.Data().All())
}

func TestNotifications(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	for _, title := range []string{"one", "two"} {
		require.NoError(t, repo.CreateNotification(ctx, &models.Notification{UserID: userID, Type: models.NotificationAchievementRecorded, Title: title}))
	}
	list, total, unread, err := repo.Notifications(ctx, userID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.EqualValues(t, 2, total)
	assert.EqualValues(t, 2, unread)

	require.NoError(t, repo.MarkNotificationRead(ctx, userID, list[0].ID))
	assert.ErrorIs(t, repo.MarkNotificationRead(ctx, uuid.New(), list[1].ID), store.ErrNotFound)

	_, _, unread, err = repo.Notifications(ctx, userID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	require.NoError(t, repo.MarkAllNotificationsRead(ctx, userID))
	_, _, unread, err = repo.Notifications(ctx, userID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}

func TestStaleSimEditKeepsSingleHeir(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	c := seedChallenge(t, repo, userID)
	ada := &models.Sim{ChallengeID: c.ID, Name: "Ada", AgeStage: models.AgeAdult, IsHeir: true}
	bo := &models.Sim{ChallengeID: c.ID, Name: "Bo", AgeStage: models.AgeTeen, Generation: 2}
	require.NoError(t, repo.CreateSim(ctx, ada))
	require.NoError(t, repo.CreateSim(ctx, bo))

	editor := store.New(repo, userID, zap.NewNop())
	require.NoError(t, editor.FetchChallenge(ctx, c.ID))
	heirPicker := store.New(repo, userID, zap.NewNop())
	require.NoError(t, heirPicker.FetchChallenge(ctx, c.ID))

	require.NoError(t, heirPicker.UpdateSimAsHeir(ctx, bo.ID))

	// editor still believes Ada is the heir
	stale, ok := editor.State().Sim(ada.ID)
	require.True(t, ok)
	require.True(t, stale.IsHeir)
	stale.Name = "Ada Pastel"
	updated, err := editor.UpdateSim(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, "Ada Pastel", updated.Name)
	assert.False(t, updated.IsHeir)

	sims, err := repo.ListSims(ctx, c.ID)
	require.NoError(t, err)
	var heirs []string
	for _, s := range sims {
		if s.IsHeir {
			heirs = append(heirs, s.Name)
		}
	}
	assert.Equal(t, []string{"Bo"}, heirs)
}

func TestStaleGoalEditKeepsCurrentValue(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	c := seedChallenge(t, repo, userID)

	editor := store.New(repo, userID, zap.NewNop())
	require.NoError(t, editor.FetchChallenge(ctx, c.ID))
	counter := store.New(repo, userID, zap.NewNop())
	require.NoError(t, counter.FetchChallenge(ctx, c.ID))

	goalID := editor.State().Goals[0].ID
	_, err := counter.UpdateGoalValue(ctx, goalID, 7)
	require.NoError(t, err)

	stale, ok := editor.State().Goal(goalID)
	require.True(t, ok)
	stale.Title = "Marry for love"
	updated, err := editor.UpdateGoal(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, "Marry for love", updated.Title)
	assert.Equal(t, 7, updated.CurrentValue)

	goals, err := repo.ListGoals(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, goals[0].CurrentValue)
	assert.Equal(t, "Marry for love", goals[0].Title)
}

func TestSaveSimUnknownID(t *testing.T) {
	repo := newRepo(t)
	err := repo.SaveSim(context.Background(), &models.Sim{ID: uuid.New(), Name: "Ghost", AgeStage: models.AgeAdult})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
