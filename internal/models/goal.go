package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoalType string

const (
	GoalTypeMilestone GoalType = "milestone"
	GoalTypeCounter   GoalType = "counter"
	GoalTypeThreshold GoalType = "threshold"
)

// Well-known goal categories. Category is free text; other values are allowed.
const (
	CategoryCareer      = "career"
	CategoryFamily      = "family"
	CategorySkills      = "skills"
	CategoryCollections = "collections"
	CategoryAspirations = "aspirations"
	CategoryOther       = "other"
)

type Goal struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ChallengeID  uuid.UUID `json:"challengeId" gorm:"type:uuid;index;not null"`
	Title        string    `json:"title" gorm:"not null"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category" gorm:"index"`
	GoalType     *GoalType `json:"goalType"` // nil on rows created before goal types existed
	PointValue   int       `json:"pointValue" gorm:"not null;default:0"`
	MaxPoints    *int      `json:"maxPoints"`
	CurrentValue int       `json:"currentValue" gorm:"not null;default:0"`
	TargetValue  *int      `json:"targetValue"`
	Thresholds   *string   `json:"thresholds" gorm:"type:text"` // JSON array of {value, points}
	OrderIndex   int       `json:"orderIndex" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Type returns the goal type, or "" for untyped rows.
func (g *Goal) Type() GoalType {
	if g.GoalType == nil {
		return ""
	}
	return *g.GoalType
}

func (g *Goal) CategoryName() string {
	if g.Category == nil {
		return ""
	}
	return *g.Category
}

// Goal DTOs
type CreateGoalRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  *string `json:"description"`
	Category     *string `json:"category" validate:"omitempty,max=40"`
	GoalType     *string `json:"goalType" validate:"omitempty,oneof=milestone counter threshold"`
	PointValue   int     `json:"pointValue" validate:"min=0"`
	MaxPoints    *int    `json:"maxPoints" validate:"omitempty,min=0"`
	CurrentValue int     `json:"currentValue"`
	TargetValue  *int    `json:"targetValue" validate:"omitempty,min=0"`
	Thresholds   *string `json:"thresholds"`
	OrderIndex   *int    `json:"orderIndex"`
}

type UpdateGoalRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description"`
	Category     *string `json:"category" validate:"omitempty,max=40"`
	GoalType     *string `json:"goalType" validate:"omitempty,oneof=milestone counter threshold"`
	PointValue   *int    `json:"pointValue" validate:"omitempty,min=0"`
	MaxPoints    *int    `json:"maxPoints" validate:"omitempty,min=0"`
	CurrentValue *int    `json:"currentValue"`
	TargetValue  *int    `json:"targetValue" validate:"omitempty,min=0"`
	Thresholds   *string `json:"thresholds"`
	OrderIndex   *int    `json:"orderIndex"`
}

type UpdateGoalValueRequest struct {
	Value int `json:"value"`
}

type ToggleGoalRequest struct {
	SimID *uuid.UUID `json:"simId"`
}

type CompleteGoalRequest struct {
	SimID  uuid.UUID `json:"simId" validate:"required"`
	Method string    `json:"method" validate:"required,max=120"`
	Notes  *string   `json:"notes"`
}
