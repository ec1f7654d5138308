package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PackSelection lists the packs a player owns, by catalog pack ID.
type PackSelection struct {
	ExpansionPacks []string `json:"expansionPacks"`
	GamePacks      []string `json:"gamePacks"`
	StuffPacks     []string `json:"stuffPacks"`
}

// All returns every selected pack ID.
func (p PackSelection) All() []string {
	all := make([]string, 0, len(p.ExpansionPacks)+len(p.GamePacks)+len(p.StuffPacks))
	all = append(all, p.ExpansionPacks...)
	all = append(all, p.GamePacks...)
	return append(all, p.StuffPacks...)
}

type UserPreferences struct {
	UserID    uuid.UUID                         `json:"userId" gorm:"type:uuid;primaryKey"`
	Packs     datatypes.JSONType[PackSelection] `json:"packs"`
	CreatedAt time.Time                         `json:"createdAt"`
	UpdatedAt time.Time                         `json:"updatedAt"`
}

type UpdatePreferencesRequest struct {
	Packs PackSelection `json:"packs"`
}

func (UserPreferences) TableName() string { return "user_preferences" }
