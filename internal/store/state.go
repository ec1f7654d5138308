package store

import (
	"slices"

	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/google/uuid"
)

// State is the working set for one user and, once fetched, one challenge.
// Reducers below never mutate the slices of the state they are given.
type State struct {
	Challenges []models.ChallengeSummary `json:"challenges,omitempty"`
	Challenge  *models.Challenge         `json:"challenge,omitempty"`
	Sims       []models.Sim              `json:"sims"`
	Goals      []models.Goal             `json:"goals"`
	Progress   []models.Progress         `json:"progress"`
	Loading    bool                      `json:"-"`
}

func (s State) Goal(id uuid.UUID) (models.Goal, bool) {
	for _, g := range s.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return models.Goal{}, false
}

func (s State) Sim(id uuid.UUID) (models.Sim, bool) {
	for _, sim := range s.Sims {
		if sim.ID == id {
			return sim, true
		}
	}
	return models.Sim{}, false
}

// UserProgress returns the progress row for (goal, user), if any.
func (s State) UserProgress(goalID, userID uuid.UUID) (models.Progress, bool) {
	for _, p := range s.Progress {
		if p.GoalID == goalID && p.UserID == userID {
			return p, true
		}
	}
	return models.Progress{}, false
}

// Heirs returns every sim currently flagged as heir.
func (s State) Heirs() []models.Sim {
	var out []models.Sim
	for _, sim := range s.Sims {
		if sim.IsHeir {
			out = append(out, sim)
		}
	}
	return out
}

func withChallenge(s State, c models.Challenge, sims []models.Sim, goals []models.Goal, progress []models.Progress) State {
	s.Challenge = &c
	s.Sims = sims
	s.Goals = goals
	s.Progress = progress
	return s
}

func withoutChallenge(s State) State {
	s.Challenge = nil
	s.Sims = nil
	s.Goals = nil
	s.Progress = nil
	return s
}

func withChallengeUpdated(s State, c models.Challenge) State {
	s.Challenge = &c
	return s
}

func withGoalAdded(s State, g models.Goal) State {
	s.Goals = append(slices.Clone(s.Goals), g)
	return s
}

func withGoalReplaced(s State, g models.Goal) State {
	goals := slices.Clone(s.Goals)
	for i := range goals {
		if goals[i].ID == g.ID {
			goals[i] = g
		}
	}
	s.Goals = goals
	return s
}

func withGoalRemoved(s State, id uuid.UUID) State {
	s.Goals = slices.DeleteFunc(slices.Clone(s.Goals), func(g models.Goal) bool { return g.ID == id })
	s.Progress = slices.DeleteFunc(slices.Clone(s.Progress), func(p models.Progress) bool { return p.GoalID == id })
	return s
}

func withGoalValue(s State, id uuid.UUID, value int) State {
	goals := slices.Clone(s.Goals)
	for i := range goals {
		if goals[i].ID == id {
			goals[i].CurrentValue = value
		}
	}
	s.Goals = goals
	return s
}

func withProgressAdded(s State, p models.Progress) State {
	s.Progress = append(slices.Clone(s.Progress), p)
	return s
}

func withProgressRemoved(s State, id uuid.UUID) State {
	s.Progress = slices.DeleteFunc(slices.Clone(s.Progress), func(p models.Progress) bool { return p.ID == id })
	return s
}

func withProgressUpserted(s State, p models.Progress) State {
	progress := slices.Clone(s.Progress)
	for i := range progress {
		if progress[i].ID == p.ID {
			progress[i] = p
			s.Progress = progress
			return s
		}
	}
	s.Progress = append(progress, p)
	return s
}

func withSims(s State, sims []models.Sim) State {
	s.Sims = sims
	return s
}

func withSimAdded(s State, sim models.Sim) State {
	s.Sims = append(slices.Clone(s.Sims), sim)
	return s
}

func withSimReplaced(s State, sim models.Sim) State {
	sims := slices.Clone(s.Sims)
	for i := range sims {
		if sims[i].ID == sim.ID {
			sims[i] = sim
		}
	}
	s.Sims = sims
	return s
}

func withSimRemoved(s State, id uuid.UUID) State {
	s.Sims = slices.DeleteFunc(slices.Clone(s.Sims), func(sim models.Sim) bool { return sim.ID == id })
	return s
}
