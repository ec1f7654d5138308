package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const NotificationAchievementRecorded = "achievement_recorded"

type Notification struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `json:"userId" gorm:"type:uuid;index;not null"`
	ChallengeID *uuid.UUID `json:"challengeId" gorm:"type:uuid"`
	Type        string     `json:"type" gorm:"not null"`
	Title       string     `json:"title" gorm:"not null"`
	Body        string     `json:"body"`
	Read        bool       `json:"read" gorm:"default:false"`
	Metadata    *string    `json:"metadata"` // JSON string for navigation context
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
