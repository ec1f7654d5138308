package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/arnold/simlegacy-api/internal/models"
	"gorm.io/datatypes"
)

// Template is a starting point offered by the challenge wizard. Templates
// without configuration skip the wizard's config step.
type Template struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	ChallengeType      string         `json:"challengeType"`
	NeedsConfiguration bool           `json:"needsConfiguration"`
	DefaultConfig      datatypes.JSON `json:"defaultConfig"`
}

var Templates = []Template{
	{
		ID:                 "legacy",
		Name:               "Legacy Challenge",
		Description:        "Ten generations, succession laws and a scored goal sheet.",
		ChallengeType:      models.ChallengeTypeLegacy,
		NeedsConfiguration: true,
		DefaultConfig:      datatypes.JSON(`{"genderLaw":"equality","bloodlineLaw":"traditional","heirLaw":"first_born","speciesLaw":"tolerant","difficulty":"normal"}`),
	},
	{
		ID:            "custom",
		Name:          "Custom Challenge",
		Description:   "Start empty and add your own goals.",
		ChallengeType: "custom",
		DefaultConfig: datatypes.JSON(`{}`),
	},
}

func TemplateByID(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// LegacyConfig is the part of a legacy challenge's config that affects the
// seeded goal sheet. Unknown fields are preserved in the challenge row but
// ignored here.
type LegacyConfig struct {
	GenderLaw    string `json:"genderLaw"`
	BloodlineLaw string `json:"bloodlineLaw"`
	HeirLaw      string `json:"heirLaw"`
	SpeciesLaw   string `json:"speciesLaw"`
	Difficulty   string `json:"difficulty"`
}

func ParseLegacyConfig(raw datatypes.JSON) (LegacyConfig, error) {
	var cfg LegacyConfig
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse legacy config: %w", err)
	}
	return cfg, nil
}

func intp(v int) *int { return &v }

func goalType(t models.GoalType) *models.GoalType { return &t }

func strp(s string) *string { return &s }

func thresholds(pairs ...[2]int) *string {
	type entry struct {
		Value  int `json:"value"`
		Points int `json:"points"`
	}
	list := make([]entry, len(pairs))
	for i, p := range pairs {
		list[i] = entry{Value: p[0], Points: p[1]}
	}
	b, _ := json.Marshal(list)
	s := string(b)
	return &s
}

// LegacyGoals returns the standard legacy goal sheet in display order. The
// goals carry no IDs or challenge ID; the caller assigns them.
func LegacyGoals(cfg LegacyConfig) []models.Goal {
	goals := []models.Goal{
		{Title: "Generations completed", Category: strp(models.CategoryFamily), GoalType: goalType(models.GoalTypeCounter), PointValue: 1, MaxPoints: intp(10), TargetValue: intp(10)},
		{Title: "Twins or triplets born", Category: strp(models.CategoryFamily), GoalType: goalType(models.GoalTypeMilestone), PointValue: 1},
		{Title: "Every heir reaches elder", Category: strp(models.CategoryFamily), GoalType: goalType(models.GoalTypeMilestone), PointValue: 1},
		{Title: "Careers maxed", Category: strp(models.CategoryCareer), GoalType: goalType(models.GoalTypeCounter), PointValue: 1, MaxPoints: intp(10), TargetValue: intp(10)},
		{Title: "Founder reaches the top of a career", Category: strp(models.CategoryCareer), GoalType: goalType(models.GoalTypeMilestone), PointValue: 1},
		{Title: "Skills maxed", Category: strp(models.CategorySkills), GoalType: goalType(models.GoalTypeCounter), PointValue: 1, MaxPoints: intp(10), TargetValue: intp(35)},
		{Title: "Aspirations completed", Category: strp(models.CategoryAspirations), GoalType: goalType(models.GoalTypeCounter), PointValue: 1, MaxPoints: intp(10), TargetValue: intp(10)},
		{Title: "Collections completed", Category: strp(models.CategoryCollections), GoalType: goalType(models.GoalTypeCounter), PointValue: 1, MaxPoints: intp(10), TargetValue: intp(10)},
		{
			Title:       "Household wealth",
			Description: strp("Points for the highest household funds reached."),
			Category:    strp(models.CategoryOther),
			GoalType:    goalType(models.GoalTypeThreshold),
			TargetValue: intp(1000000),
			Thresholds:  thresholds([2]int{100000, 2}, [2]int{250000, 4}, [2]int{500000, 7}, [2]int{1000000, 10}),
		},
		{
			Title:       "Friends made",
			Category:    strp(models.CategoryOther),
			GoalType:    goalType(models.GoalTypeThreshold),
			TargetValue: intp(50),
			Thresholds:  thresholds([2]int{10, 1}, [2]int{25, 3}, [2]int{50, 5}),
		},
	}
	if cfg.Difficulty == "hard" {
		goals = append(goals,
			models.Goal{Title: "No money cheats for ten generations", Category: strp(models.CategoryOther), GoalType: goalType(models.GoalTypeMilestone), PointValue: 5},
			models.Goal{Title: "Heir chosen by the succession laws every generation", Category: strp(models.CategoryFamily), GoalType: goalType(models.GoalTypeMilestone), PointValue: 3},
		)
	}
	for i := range goals {
		goals[i].OrderIndex = i
	}
	return goals
}
