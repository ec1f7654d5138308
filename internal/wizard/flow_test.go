package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeFlowSkipsConfig(t *testing.T) {
	tests := []struct {
		name      string
		needsConf bool
		from      Step
		want      Step
		wantDone  bool
	}{
		{"basic info to config", true, StepBasicInfo, StepConfig, false},
		{"basic info skips config", false, StepBasicInfo, StepReview, false},
		{"config to review", true, StepConfig, StepReview, false},
		{"review is last", true, StepReview, StepReview, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, done, err := ChallengeFlow.Next(tt.from, tt.needsConf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, next)
			assert.Equal(t, tt.wantDone, done)
		})
	}
}

func TestPrev(t *testing.T) {
	prev, err := ChallengeFlow.Prev(StepReview, false)
	require.NoError(t, err)
	assert.Equal(t, StepBasicInfo, prev)

	prev, err = ChallengeFlow.Prev(StepReview, true)
	require.NoError(t, err)
	assert.Equal(t, StepConfig, prev)

	prev, err = SimFlow.Prev(StepBasicInfo, true)
	require.NoError(t, err)
	assert.Equal(t, StepBasicInfo, prev)
}

func TestUnknownStepAndFlow(t *testing.T) {
	_, _, err := SimFlow.Next(StepConfig, true)
	assert.ErrorIs(t, err, ErrUnknownStep)

	_, err = FlowByName("dynasty")
	assert.ErrorIs(t, err, ErrUnknownFlow)
}

func TestFlowKeys(t *testing.T) {
	assert.Equal(t, []string{KeyChallengeProgress, KeyChallengeBasicInfo, KeyChallengeConfig}, ChallengeFlow.Keys())
	assert.Equal(t, []string{KeySimProgress, KeySimBasicInfo, KeySimTraits, KeySimPersonality}, SimFlow.Keys())
	assert.Equal(t, []string{KeyOnboardingProgress, KeyOnboardingAccount, KeyOnboardingPacks}, Onboarding.Keys())
}
