package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CompletionDetails records how a goal was completed and by whom.
type CompletionDetails struct {
	Method        string     `json:"method"`
	SimID         *uuid.UUID `json:"simId,omitempty"`
	SimName       string     `json:"simName,omitempty"`
	SimGeneration int        `json:"simGeneration,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	CompletedAt   time.Time  `json:"completedAt"`
}

// Progress marks a goal as completed by a user. For counter and threshold
// goals the row only records history; points come from CurrentValue.
type Progress struct {
	ID                uuid.UUID                              `json:"id" gorm:"type:uuid;primaryKey"`
	ChallengeID       uuid.UUID                              `json:"challengeId" gorm:"type:uuid;index;not null"`
	GoalID            uuid.UUID                              `json:"goalId" gorm:"type:uuid;index;not null"`
	UserID            uuid.UUID                              `json:"userId" gorm:"type:uuid;index;not null"`
	SimID             *uuid.UUID                             `json:"simId" gorm:"type:uuid"`
	Notes             *string                                `json:"notes"`
	CompletionDetails datatypes.JSONType[*CompletionDetails] `json:"completionDetails"`
	CompletedAt       time.Time                              `json:"completedAt"`
	CreatedAt         time.Time                              `json:"createdAt"`
	UpdatedAt         time.Time                              `json:"updatedAt"`
}

func (p *Progress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CompletedAt.IsZero() {
		p.CompletedAt = time.Now()
	}
	return nil
}

func (p *Progress) Details() *CompletionDetails {
	return p.CompletionDetails.Data()
}

func (Progress) TableName() string { return "progress" }
