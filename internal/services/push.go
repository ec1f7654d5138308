package services

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// TokenSource looks up the push token registered for a user.
type TokenSource interface {
	DeviceToken(ctx context.Context, userID uuid.UUID) (string, error)
}

// PushService sends push notifications through Firebase Cloud Messaging.
// A PushService without a client drops every message.
type PushService struct {
	client *messaging.Client
	tokens TokenSource
	logger *zap.Logger
}

// NewPushService returns a disabled service when serviceAccountPath is empty
// or Firebase cannot be initialised.
func NewPushService(ctx context.Context, serviceAccountPath string, tokens TokenSource, logger *zap.Logger) *PushService {
	p := &PushService{tokens: tokens, logger: logger.Named("Push")}
	if serviceAccountPath == "" {
		p.logger.Info("No service account configured, push notifications disabled")
		return p
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		p.logger.Warn("Failed to initialize Firebase app", zap.Error(err))
		return p
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		p.logger.Warn("Failed to get messaging client", zap.Error(err))
		return p
	}

	p.client = client
	p.logger.Info("Push notifications enabled")
	return p
}

func (p *PushService) Enabled() bool { return p != nil && p.client != nil }

var errNoToken = errors.New("user has no device token")

// SendToUser is a no-op when push is disabled or the user has no token.
func (p *PushService) SendToUser(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) error {
	if !p.Enabled() {
		return nil
	}
	token, err := p.tokens.DeviceToken(ctx, userID)
	if err != nil {
		return err
	}
	if token == "" {
		return errNoToken
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := p.client.Send(ctx, msg); err != nil {
		p.logger.Warn("Failed to send push", zap.String("userID", userID.String()), zap.Error(err))
		return err
	}
	return nil
}
