package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChallengeStatus string

const (
	ChallengeStatusActive    ChallengeStatus = "active"
	ChallengeStatusCompleted ChallengeStatus = "completed"
	ChallengeStatusPaused    ChallengeStatus = "paused"
	ChallengeStatusArchived  ChallengeStatus = "archived"
)

const ChallengeTypeLegacy = "legacy"

type Challenge struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `json:"userId" gorm:"type:uuid;index;not null"`
	Name          string          `json:"name" gorm:"not null"`
	Description   *string         `json:"description"`
	ChallengeType string          `json:"challengeType" gorm:"not null;default:'legacy'"`
	Config        datatypes.JSON  `json:"config" gorm:"not null;default:'{}'"` // succession rules, difficulty, packs
	Status        ChallengeStatus `json:"status" gorm:"not null;default:'active'"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if len(c.Config) == 0 {
		c.Config = datatypes.JSON("{}")
	}
	if c.Status == "" {
		c.Status = ChallengeStatusActive
	}
	return nil
}

// Challenge DTOs
type CreateChallengeRequest struct {
	Name          string         `json:"name" validate:"required,max=120"`
	Description   *string        `json:"description"`
	ChallengeType string         `json:"challengeType" validate:"omitempty,max=40"`
	Config        datatypes.JSON `json:"config"`
	SeedGoals     bool           `json:"seedGoals"`
}

type UpdateChallengeRequest struct {
	Name        *string         `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string         `json:"description"`
	Config      *datatypes.JSON `json:"config"`
	Status      *string         `json:"status" validate:"omitempty,oneof=active completed paused archived"`
}

type ChallengeSummary struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	ChallengeType  string          `json:"challengeType"`
	Status         ChallengeStatus `json:"status"`
	SimCount       int             `json:"simCount"`
	GoalCount      int             `json:"goalCount"`
	CompletedCount int             `json:"completedCount"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
