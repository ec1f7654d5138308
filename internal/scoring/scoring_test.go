package scoring

import (
	"testing"

	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func goal(t models.GoalType, category string) models.Goal {
	g := models.Goal{ID: uuid.New(), ChallengeID: uuid.New(), Title: string(t)}
	if t != "" {
		g.GoalType = ptr(t)
	}
	if category != "" {
		g.Category = ptr(category)
	}
	return g
}

func TestMilestoneScoring(t *testing.T) {
	g := goal(models.GoalTypeMilestone, "")
	g.PointValue = 5

	assert.Equal(t, 0, CalculatePoints([]models.Goal{g}, nil))

	one := []models.Progress{{GoalID: g.ID}}
	assert.Equal(t, 5, CalculatePoints([]models.Goal{g}, one))

	dup := []models.Progress{{GoalID: g.ID}, {GoalID: g.ID}}
	assert.Equal(t, 5, CalculatePoints([]models.Goal{g}, dup))

	other := []models.Progress{{GoalID: uuid.New()}}
	assert.Equal(t, 0, CalculatePoints([]models.Goal{g}, other))
}

func TestCounterScoringCap(t *testing.T) {
	g := goal(models.GoalTypeCounter, "")
	g.PointValue = 2
	g.CurrentValue = 10
	g.MaxPoints = ptr(15)
	assert.Equal(t, 15, GoalPoints(&g, false))

	g.MaxPoints = nil
	assert.Equal(t, 20, GoalPoints(&g, false))

	// progress rows do not matter for counters
	assert.Equal(t, 20, CalculatePoints([]models.Goal{g}, []models.Progress{{GoalID: g.ID}}))
}

func TestThresholdScoring(t *testing.T) {
	tests := []struct {
		name       string
		thresholds string
		current    int
		want       int
	}{
		{"highest met", `[{"value":5,"points":10},{"value":10,"points":25}]`, 12, 25},
		{"first met", `[{"value":5,"points":10},{"value":10,"points":25}]`, 7, 10},
		{"none met", `[{"value":5,"points":10},{"value":10,"points":25}]`, 3, 0},
		{"exact boundary", `[{"value":5,"points":10},{"value":10,"points":25}]`, 10, 25},
		{"descending stops at first unmet", `[{"value":10,"points":25},{"value":5,"points":10}]`, 12, 10},
		{"descending below first", `[{"value":10,"points":25},{"value":5,"points":10}]`, 7, 0},
		{"malformed", `{"value":5`, 12, 0},
		{"empty", ``, 12, 0},
		{"not an array", `{"value":5,"points":10}`, 12, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := goal(models.GoalTypeThreshold, "")
			g.CurrentValue = tt.current
			g.Thresholds = ptr(tt.thresholds)
			assert.Equal(t, tt.want, GoalPoints(&g, true))
		})
	}
}

func TestThresholdOrderDependence(t *testing.T) {
	// value 10 is met, then value 5 is also met, so the scan keeps the last
	// met entry's points. Descending input scores the last met entry, not the
	// largest: 10 here rather than 25. It scores 0 only when an earlier entry
	// is unmet, as below, because the scan stops there.
	desc := `[{"value":10,"points":25},{"value":5,"points":10}]`
	g := goal(models.GoalTypeThreshold, "")
	g.CurrentValue = 12
	g.Thresholds = &desc
	assert.Equal(t, 10, GoalPoints(&g, false))

	// with the first entry unmet, nothing after it is considered
	desc = `[{"value":20,"points":50},{"value":5,"points":10}]`
	assert.Equal(t, 0, GoalPoints(&g, false))
}

func TestLegacyFallback(t *testing.T) {
	legacy := goal("", "")
	legacy.PointValue = 3
	milestone := goal(models.GoalTypeMilestone, "")
	milestone.PointValue = 3

	for _, completed := range []bool{true, false} {
		assert.Equal(t, GoalPoints(&milestone, completed), GoalPoints(&legacy, completed))
	}
	assert.Equal(t, 3, CalculatePoints([]models.Goal{legacy}, []models.Progress{{GoalID: legacy.ID}}))
}

func TestCategoryPartition(t *testing.T) {
	a := goal(models.GoalTypeMilestone, models.CategoryFamily)
	a.PointValue = 4
	b := goal(models.GoalTypeCounter, models.CategoryCareer)
	b.PointValue = 1
	b.CurrentValue = 7
	c := goal(models.GoalTypeThreshold, models.CategorySkills)
	c.CurrentValue = 8
	c.Thresholds = ptr(`[{"value":5,"points":10},{"value":10,"points":25}]`)
	d := goal("", models.CategoryFamily)
	d.PointValue = 2
	goals := []models.Goal{a, b, c, d}
	progress := []models.Progress{{GoalID: a.ID}, {GoalID: d.ID}}

	sum := 0
	for _, cat := range Categories(goals) {
		sum += CalculateCategoryPoints(goals, progress, cat)
	}
	assert.Equal(t, CalculatePoints(goals, progress), sum)
	assert.Equal(t, 23, sum)

	assert.Equal(t, 0, CalculateCategoryPoints(goals, progress, "deviance"))
	assert.Equal(t, map[string]int{"career": 7, "family": 6, "skills": 10}, CategoryBreakdown(goals, progress))
}

func TestValidateThresholds(t *testing.T) {
	assert.NoError(t, ValidateThresholds(nil))
	assert.NoError(t, ValidateThresholds(ptr(`[{"value":10,"points":25},{"value":5,"points":10}]`)))
	assert.ErrorIs(t, ValidateThresholds(ptr(`nope`)), ErrInvalidThresholds)
}
