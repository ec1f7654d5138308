package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SimAchievement is an append-only history entry. It keeps a copy of the
// goal title and the owner so it survives deletion of the goal, the sim and
// the challenge.
type SimAchievement struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SimID        uuid.UUID `json:"simId" gorm:"type:uuid;index;not null"`
	ChallengeID  uuid.UUID `json:"challengeId" gorm:"type:uuid;index;not null"`
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;index"`
	GoalTitle    string    `json:"goalTitle" gorm:"not null"`
	Method       string    `json:"method"`
	PointsEarned int       `json:"pointsEarned" gorm:"default:0"`
	Notes        *string   `json:"notes"`
	AchievedAt   time.Time `json:"achievedAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (a *SimAchievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AchievedAt.IsZero() {
		a.AchievedAt = time.Now()
	}
	return nil
}
