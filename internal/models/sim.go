package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AgeStage string

const (
	AgeBaby       AgeStage = "baby"
	AgeToddler    AgeStage = "toddler"
	AgeChild      AgeStage = "child"
	AgeTeen       AgeStage = "teen"
	AgeYoungAdult AgeStage = "young_adult"
	AgeAdult      AgeStage = "adult"
	AgeElder      AgeStage = "elder"
)

func (a AgeStage) IsValid() bool {
	switch a {
	case AgeBaby, AgeToddler, AgeChild, AgeTeen, AgeYoungAdult, AgeAdult, AgeElder:
		return true
	default:
		return false
	}
}

// TraitCap is the number of traits a sim may carry at the given age stage.
func (a AgeStage) TraitCap() int {
	switch a {
	case AgeBaby:
		return 0
	case AgeToddler, AgeChild:
		return 1
	default:
		return 3
	}
}

type Sim struct {
	ID          uuid.UUID                    `json:"id" gorm:"type:uuid;primaryKey"`
	ChallengeID uuid.UUID                    `json:"challengeId" gorm:"type:uuid;index;not null"`
	Name        string                       `json:"name" gorm:"not null"`
	AgeStage    AgeStage                     `json:"ageStage" gorm:"not null;default:'young_adult'"`
	Generation  int                          `json:"generation" gorm:"not null;default:1"`
	Career      *string                      `json:"career"`
	Aspiration  *string                      `json:"aspiration"`
	Traits      datatypes.JSONType[[]string] `json:"traits"`
	IsHeir      bool                         `json:"isHeir" gorm:"default:false"`
	AvatarURL   *string                      `json:"avatarUrl"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`
}

func (s *Sim) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.AgeStage == "" {
		s.AgeStage = AgeYoungAdult
	}
	if s.Generation < 1 {
		s.Generation = 1
	}
	if s.Traits.Data() == nil {
		s.Traits = datatypes.NewJSONType([]string{})
	}
	return nil
}

// TraitList never returns nil.
func (s *Sim) TraitList() []string {
	if t := s.Traits.Data(); t != nil {
		return t
	}
	return []string{}
}

// Sim DTOs
type CreateSimRequest struct {
	Name       string   `json:"name" validate:"required,max=80"`
	AgeStage   string   `json:"ageStage" validate:"omitempty,oneof=baby toddler child teen young_adult adult elder"`
	Generation int      `json:"generation" validate:"omitempty,min=1,max=100"`
	Career     *string  `json:"career"`
	Aspiration *string  `json:"aspiration"`
	Traits     []string `json:"traits" validate:"omitempty,dive,required"`
	AvatarURL  *string  `json:"avatarUrl"`
}

type UpdateSimRequest struct {
	Name       *string   `json:"name" validate:"omitempty,min=1,max=80"`
	AgeStage   *string   `json:"ageStage" validate:"omitempty,oneof=baby toddler child teen young_adult adult elder"`
	Generation *int      `json:"generation" validate:"omitempty,min=1,max=100"`
	Career     *string   `json:"career"`
	Aspiration *string   `json:"aspiration"`
	Traits     *[]string `json:"traits"`
	AvatarURL  *string   `json:"avatarUrl"`
}
