// Package wizard models the multi-step creation flows and keeps their
// drafts in a Persistence so an interrupted flow can be resumed.
package wizard

import "errors"

type Step string

const (
	StepAccount     Step = "account"
	StepPacks       Step = "packs"
	StepBasicInfo   Step = "basic-info"
	StepConfig      Step = "config"
	StepReview      Step = "review"
	StepTraits      Step = "traits"
	StepPersonality Step = "personality"
)

// Storage keys. They are part of the draft format and must not change.
const (
	KeyOnboardingProgress = "onboarding-progress"
	KeyOnboardingAccount  = "onboarding-account-data"
	KeyOnboardingPacks    = "onboarding-packs-data"

	KeyChallengeProgress  = "challenge-wizard-progress"
	KeyChallengeBasicInfo = "challenge-wizard-basic-info"
	KeyChallengeConfig    = "challenge-wizard-config"

	KeySimProgress    = "sim-wizard-progress"
	KeySimBasicInfo   = "sim-wizard-basic-info"
	KeySimTraits      = "sim-wizard-traits"
	KeySimPersonality = "sim-wizard-personality"
)

var (
	ErrUnknownFlow = errors.New("unknown wizard flow")
	ErrUnknownStep = errors.New("unknown wizard step")
)

type StepDef struct {
	Step Step
	// Key is where the step's data is stored. Steps without data, like
	// review, have no key.
	Key string
	// Optional steps are skipped when the selected template does not need
	// configuration.
	Optional bool
}

type Flow struct {
	Name        string
	ProgressKey string
	Steps       []StepDef
}

var (
	Onboarding = Flow{
		Name:        "onboarding",
		ProgressKey: KeyOnboardingProgress,
		Steps: []StepDef{
			{Step: StepAccount, Key: KeyOnboardingAccount},
			{Step: StepPacks, Key: KeyOnboardingPacks},
		},
	}
	ChallengeFlow = Flow{
		Name:        "challenge",
		ProgressKey: KeyChallengeProgress,
		Steps: []StepDef{
			{Step: StepBasicInfo, Key: KeyChallengeBasicInfo},
			{Step: StepConfig, Key: KeyChallengeConfig, Optional: true},
			{Step: StepReview},
		},
	}
	SimFlow = Flow{
		Name:        "sim",
		ProgressKey: KeySimProgress,
		Steps: []StepDef{
			{Step: StepBasicInfo, Key: KeySimBasicInfo},
			{Step: StepTraits, Key: KeySimTraits},
			{Step: StepPersonality, Key: KeySimPersonality},
		},
	}
)

var flows = map[string]Flow{
	Onboarding.Name:    Onboarding,
	ChallengeFlow.Name: ChallengeFlow,
	SimFlow.Name:       SimFlow,
}

func FlowByName(name string) (Flow, error) {
	f, ok := flows[name]
	if !ok {
		return Flow{}, ErrUnknownFlow
	}
	return f, nil
}

func (f Flow) First() Step { return f.Steps[0].Step }

func (f Flow) index(step Step) int {
	for i, s := range f.Steps {
		if s.Step == step {
			return i
		}
	}
	return -1
}

func (f Flow) Def(step Step) (StepDef, error) {
	i := f.index(step)
	if i < 0 {
		return StepDef{}, ErrUnknownStep
	}
	return f.Steps[i], nil
}

// Next returns the step after step. done is true when step is the last one.
// Optional steps are skipped unless needsConfiguration is set.
func (f Flow) Next(step Step, needsConfiguration bool) (next Step, done bool, err error) {
	i := f.index(step)
	if i < 0 {
		return "", false, ErrUnknownStep
	}
	for j := i + 1; j < len(f.Steps); j++ {
		if f.Steps[j].Optional && !needsConfiguration {
			continue
		}
		return f.Steps[j].Step, false, nil
	}
	return step, true, nil
}

// Prev returns the step before step, or step itself on the first one.
func (f Flow) Prev(step Step, needsConfiguration bool) (Step, error) {
	i := f.index(step)
	if i < 0 {
		return "", ErrUnknownStep
	}
	for j := i - 1; j >= 0; j-- {
		if f.Steps[j].Optional && !needsConfiguration {
			continue
		}
		return f.Steps[j].Step, nil
	}
	return step, nil
}

// Keys lists every storage key the flow writes, progress key first.
func (f Flow) Keys() []string {
	keys := []string{f.ProgressKey}
	for _, s := range f.Steps {
		if s.Key != "" {
			keys = append(keys, s.Key)
		}
	}
	return keys
}
