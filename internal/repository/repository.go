// Package repository implements store.Repository and the account-level
// queries on top of GORM.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/arnold/simlegacy-api/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

var _ store.Repository = (*Repository)(nil)

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

type countRow struct {
	ChallengeID uuid.UUID
	Count       int
}

func (r *Repository) countBy(ctx context.Context, model interface{}, expr string, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	var rows []countRow
	err := r.db.WithContext(ctx).Model(model).
		Select("challenge_id, "+expr+" as count").
		Where("challenge_id IN ?", ids).
		Group("challenge_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		out[row.ChallengeID] = row.Count
	}
	return out, nil
}

func (r *Repository) ChallengeSummaries(ctx context.Context, userID uuid.UUID) ([]models.ChallengeSummary, error) {
	var challenges []models.Challenge
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&challenges).Error; err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	summaries := make([]models.ChallengeSummary, len(challenges))
	if len(challenges) == 0 {
		return summaries, nil
	}

	ids := make([]uuid.UUID, len(challenges))
	for i, c := range challenges {
		ids[i] = c.ID
	}
	sims, err := r.countBy(ctx, &models.Sim{}, "COUNT(*)", ids)
	if err != nil {
		return nil, fmt.Errorf("count sims: %w", err)
	}
	goals, err := r.countBy(ctx, &models.Goal{}, "COUNT(*)", ids)
	if err != nil {
		return nil, fmt.Errorf("count goals: %w", err)
	}
	completed, err := r.countBy(ctx, &models.Progress{}, "COUNT(DISTINCT goal_id)", ids)
	if err != nil {
		return nil, fmt.Errorf("count progress: %w", err)
	}

	for i, c := range challenges {
		summaries[i] = models.ChallengeSummary{
			ID:             c.ID,
			Name:           c.Name,
			ChallengeType:  c.ChallengeType,
			Status:         c.Status,
			SimCount:       sims[c.ID],
			GoalCount:      goals[c.ID],
			CompletedCount: completed[c.ID],
			UpdatedAt:      c.UpdatedAt,
		}
	}
	return summaries, nil
}

func (r *Repository) GetChallenge(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.WithContext(ctx).First(&challenge, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &challenge, nil
}

func (r *Repository) CreateChallenge(ctx context.Context, challenge *models.Challenge, goals []models.Goal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(challenge).Error; err != nil {
			return fmt.Errorf("create challenge: %w", err)
		}
		if len(goals) == 0 {
			return nil
		}
		if err := tx.Create(&goals).Error; err != nil {
			return fmt.Errorf("seed goals: %w", err)
		}
		return nil
	})
}

func (r *Repository) SaveChallenge(ctx context.Context, challenge *models.Challenge) error {
	return r.db.WithContext(ctx).Save(challenge).Error
}

// DeleteChallenge removes the challenge with its sims, goals and progress.
// Sim achievements are history and stay.
func (r *Repository) DeleteChallenge(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("challenge_id = ?", id).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ?", id).Delete(&models.Goal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ?", id).Delete(&models.Sim{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Challenge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) ListSims(ctx context.Context, challengeID uuid.UUID) ([]models.Sim, error) {
	var sims []models.Sim
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("generation ASC, created_at ASC").
		Find(&sims).Error
	return sims, err
}

// SimsForUser returns the sims of every challenge the user owns.
func (r *Repository) SimsForUser(ctx context.Context, userID uuid.UUID) ([]models.Sim, error) {
	var sims []models.Sim
	err := r.db.WithContext(ctx).
		Joins("JOIN challenges ON challenges.id = sims.challenge_id").
		Where("challenges.user_id = ?", userID).
		Order("sims.generation ASC, sims.created_at ASC").
		Find(&sims).Error
	return sims, err
}

func (r *Repository) GetSim(ctx context.Context, id uuid.UUID) (*models.Sim, error) {
	var sim models.Sim
	if err := r.db.WithContext(ctx).First(&sim, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sim, nil
}

func (r *Repository) CreateSim(ctx context.Context, sim *models.Sim) error {
	return r.db.WithContext(ctx).Create(sim).Error
}

// simColumns are the columns an edit may change. is_heir is only written by
// SetHeir.
var simColumns = []string{"name", "age_stage", "generation", "career", "aspiration", "traits", "avatar_url", "updated_at"}

// SaveSim writes the editable columns of sim and reloads it, so the heir
// flag in sim reflects the stored row.
func (r *Repository) SaveSim(ctx context.Context, sim *models.Sim) error {
	db := r.db.WithContext(ctx)
	res := db.Model(sim).Select(simColumns).Updates(sim)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return notFound(db.First(sim, "id = ?", sim.ID).Error)
}

func (r *Repository) DeleteSim(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Sim{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) SetHeir(ctx context.Context, challengeID, simID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Sim{}).
			Where("challenge_id = ? AND id <> ? AND is_heir = ?", challengeID, simID, true).
			Update("is_heir", false).Error; err != nil {
			return fmt.Errorf("clear heirs: %w", err)
		}
		res := tx.Model(&models.Sim{}).
			Where("challenge_id = ? AND id = ?", challengeID, simID).
			Update("is_heir", true)
		if res.Error != nil {
			return fmt.Errorf("set heir: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) ListGoals(ctx context.Context, challengeID uuid.UUID) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("order_index ASC, created_at ASC").
		Find(&goals).Error
	return goals, err
}

func (r *Repository) CreateGoal(ctx context.Context, goal *models.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

// goalColumns leave out current_value, which only UpdateGoalValue writes.
var goalColumns = []string{"title", "description", "category", "goal_type", "point_value", "max_points", "target_value", "thresholds", "order_index", "updated_at"}

// SaveGoal writes the goal's definition and reloads it with the stored
// current value.
func (r *Repository) SaveGoal(ctx context.Context, goal *models.Goal) error {
	db := r.db.WithContext(ctx)
	res := db.Model(goal).Select(goalColumns).Updates(goal)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return notFound(db.First(goal, "id = ?", goal.ID).Error)
}

func (r *Repository) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", id).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Goal{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) UpdateGoalValue(ctx context.Context, id uuid.UUID, value int) error {
	res := r.db.WithContext(ctx).Model(&models.Goal{}).Where("id = ?", id).Update("current_value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) ListProgress(ctx context.Context, goalIDs []uuid.UUID) ([]models.Progress, error) {
	var progress []models.Progress
	err := r.db.WithContext(ctx).
		Where("goal_id IN ?", goalIDs).
		Order("completed_at ASC").
		Find(&progress).Error
	return progress, err
}

func (r *Repository) CreateProgress(ctx context.Context, progress *models.Progress) error {
	return r.db.WithContext(ctx).Create(progress).Error
}

func (r *Repository) SaveProgress(ctx context.Context, progress *models.Progress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}

func (r *Repository) DeleteProgress(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Progress{}).Error
}

func (r *Repository) CreateAchievement(ctx context.Context, achievement *models.SimAchievement) error {
	return r.db.WithContext(ctx).Create(achievement).Error
}

func (r *Repository) AchievementsForSim(ctx context.Context, simID uuid.UUID) ([]models.SimAchievement, error) {
	var out []models.SimAchievement
	err := r.db.WithContext(ctx).
		Where("sim_id = ?", simID).
		Order("achieved_at DESC").
		Find(&out).Error
	return out, err
}

func (r *Repository) AchievementsForChallenge(ctx context.Context, challengeID uuid.UUID, offset, limit int) ([]models.SimAchievement, int64, error) {
	var out []models.SimAchievement
	db := r.db.WithContext(ctx)
	if err := db.Where("challenge_id = ?", challengeID).
		Order("achieved_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	var total int64
	if err := db.Model(&models.SimAchievement{}).Where("challenge_id = ?", challengeID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// AchievementsForUser pages through every achievement the user recorded,
// including those whose sim or challenge has since been deleted.
func (r *Repository) AchievementsForUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.SimAchievement, int64, error) {
	var out []models.SimAchievement
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).
		Order("achieved_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	var total int64
	if err := db.Model(&models.SimAchievement{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Users

var ErrEmailTaken = errors.New("email already registered")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *Repository) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *Repository) SetDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", token).Error
}

// DeviceToken returns the user's push token, or "" when none is registered.
func (r *Repository) DeviceToken(ctx context.Context, userID uuid.UUID) (string, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("fcm_token").First(&user, "id = ?", userID).Error; err != nil {
		return "", notFound(err)
	}
	return user.FCMToken, nil
}

// Preferences returns the user's stored preferences, or an empty selection.
func (r *Repository) Preferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := r.db.WithContext(ctx).First(&prefs, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserPreferences{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (r *Repository) SavePreferences(ctx context.Context, prefs *models.UserPreferences) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"packs", "updated_at"}),
	}).Create(prefs).Error
}

// Notifications

func (r *Repository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *Repository) Notifications(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Notification, int64, int64, error) {
	db := r.db.WithContext(ctx)
	var list []models.Notification
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, 0, 0, err
	}
	var total, unread int64
	if err := db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}
	if err := db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", userID, false).Count(&unread).Error; err != nil {
		return nil, 0, 0, err
	}
	return list, total, unread, nil
}

func (r *Repository) MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
