// Package scoring derives challenge points from goals and progress rows.
// Every function here is pure; callers recompute on each read.
package scoring

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/google/uuid"
)

// Threshold is one step of a threshold goal.
type Threshold struct {
	Value  int `json:"value"`
	Points int `json:"points"`
}

var ErrInvalidThresholds = errors.New("thresholds must be a JSON array of {value, points}")

// ParseThresholds decodes a goal's thresholds. Missing or malformed input
// yields an empty list.
func ParseThresholds(raw *string) []Threshold {
	if raw == nil || *raw == "" {
		return nil
	}
	var out []Threshold
	if err := json.Unmarshal([]byte(*raw), &out); err != nil {
		return nil
	}
	return out
}

// ValidateThresholds checks that raw decodes. Order is not checked: entries
// are scored in the order given.
func ValidateThresholds(raw *string) error {
	if raw == nil || *raw == "" {
		return nil
	}
	var out []Threshold
	if err := json.Unmarshal([]byte(*raw), &out); err != nil {
		return ErrInvalidThresholds
	}
	return nil
}

// ThresholdPoints scans thresholds in array order and returns the points of
// the last entry met before the first unmet one. Unsorted input under-scores.
func ThresholdPoints(thresholds []Threshold, current int) int {
	points := 0
	for _, t := range thresholds {
		if t.Value > current {
			break
		}
		points = t.Points
	}
	return points
}

// CounterPoints is CurrentValue * PointValue, capped by MaxPoints when set.
func CounterPoints(g *models.Goal) int {
	total := g.CurrentValue * g.PointValue
	if g.MaxPoints != nil && total > *g.MaxPoints {
		return *g.MaxPoints
	}
	return total
}

// GoalPoints returns what a single goal contributes. completed is only
// consulted for milestone and untyped goals.
func GoalPoints(g *models.Goal, completed bool) int {
	switch g.Type() {
	case models.GoalTypeCounter:
		return CounterPoints(g)
	case models.GoalTypeThreshold:
		return ThresholdPoints(ParseThresholds(g.Thresholds), g.CurrentValue)
	default:
		if completed {
			return g.PointValue
		}
		return 0
	}
}

// CompletedGoals returns the set of goal IDs referenced by at least one
// progress row.
func CompletedGoals(progress []models.Progress) map[uuid.UUID]bool {
	done := make(map[uuid.UUID]bool, len(progress))
	for _, p := range progress {
		done[p.GoalID] = true
	}
	return done
}

// CalculatePoints is the challenge total.
func CalculatePoints(goals []models.Goal, progress []models.Progress) int {
	done := CompletedGoals(progress)
	total := 0
	for i := range goals {
		total += GoalPoints(&goals[i], done[goals[i].ID])
	}
	return total
}

// CalculateCategoryPoints totals only goals whose category equals category.
// Unknown categories yield 0.
func CalculateCategoryPoints(goals []models.Goal, progress []models.Progress, category string) int {
	done := CompletedGoals(progress)
	total := 0
	for i := range goals {
		if goals[i].Category == nil || *goals[i].Category != category {
			continue
		}
		total += GoalPoints(&goals[i], done[goals[i].ID])
	}
	return total
}

// Categories lists the distinct non-empty categories present, sorted.
func Categories(goals []models.Goal) []string {
	seen := map[string]bool{}
	var out []string
	for i := range goals {
		c := goals[i].CategoryName()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CategoryBreakdown maps every category present to its subtotal.
func CategoryBreakdown(goals []models.Goal, progress []models.Progress) map[string]int {
	out := make(map[string]int)
	for _, c := range Categories(goals) {
		out[c] = CalculateCategoryPoints(goals, progress, c)
	}
	return out
}
