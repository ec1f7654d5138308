package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

type Pusher interface {
	SendToUser(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) error
}

// Notifier records in-app notifications and mirrors them as pushes.
type Notifier struct {
	store  NotificationStore
	push   Pusher
	logger *zap.Logger
	// async runs push delivery; tests replace it to run inline.
	async func(func())
}

func NewNotifier(store NotificationStore, push Pusher, logger *zap.Logger) *Notifier {
	return &Notifier{
		store:  store,
		push:   push,
		logger: logger.Named("Notifier"),
		async:  func(f func()) { go f() },
	}
}

// AchievementRecorded notifies the challenge owner that a sim completed a goal.
func (n *Notifier) AchievementRecorded(ctx context.Context, userID uuid.UUID, sim models.Sim, a models.SimAchievement) error {
	challengeID := a.ChallengeID
	metadata := map[string]string{
		"type":          models.NotificationAchievementRecorded,
		"challengeId":   a.ChallengeID.String(),
		"simId":         sim.ID.String(),
		"achievementId": a.ID.String(),
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode notification metadata: %w", err)
	}
	meta := string(raw)

	notif := models.Notification{
		UserID:      userID,
		ChallengeID: &challengeID,
		Type:        models.NotificationAchievementRecorded,
		Title:       fmt.Sprintf("%s completed a goal", sim.Name),
		Body:        fmt.Sprintf("%s: %s (+%d points)", a.GoalTitle, a.Method, a.PointsEarned),
		Metadata:    &meta,
	}
	if err := n.store.CreateNotification(ctx, &notif); err != nil {
		n.logger.Error("Failed to create notification", zap.String("userID", userID.String()), zap.Error(err))
		return err
	}

	if n.push != nil {
		n.async(func() {
			pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := n.push.SendToUser(pushCtx, userID, notif.Title, notif.Body, metadata); err != nil {
				n.logger.Debug("Push not delivered", zap.String("userID", userID.String()), zap.Error(err))
			}
		})
	}
	return nil
}
