package wizard

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDrafts() (*Drafts, *MemoryPersistence) {
	mem := NewMemoryPersistence()
	return NewDrafts(mem, NewAutoSaver(mem, time.Hour, zap.NewNop()), zap.NewNop()), mem
}

func TestDraftDefaults(t *testing.T) {
	d, _ := newDrafts()
	draft, err := d.Load(context.Background(), "u1", ChallengeFlow)
	require.NoError(t, err)
	assert.Equal(t, StepBasicInfo, draft.Progress.Step)
	assert.Empty(t, draft.Data)
}

func TestDraftRoundTripAndClear(t *testing.T) {
	d, mem := newDrafts()
	ctx := context.Background()

	require.NoError(t, d.SaveStep("u1", ChallengeFlow, StepBasicInfo, json.RawMessage(`{"name":"Plumbob Legacy"}`), Progress{TemplateID: "legacy", NeedsConfiguration: true}))
	require.NoError(t, d.SaveStep("u1", ChallengeFlow, StepConfig, json.RawMessage(`{"difficulty":"hard"}`), Progress{TemplateID: "legacy", NeedsConfiguration: true}))

	draft, err := d.Load(ctx, "u1", ChallengeFlow)
	require.NoError(t, err)
	assert.Equal(t, StepConfig, draft.Progress.Step)
	assert.Equal(t, "legacy", draft.Progress.TemplateID)
	assert.JSONEq(t, `{"name":"Plumbob Legacy"}`, string(draft.Data[StepBasicInfo]))
	assert.JSONEq(t, `{"difficulty":"hard"}`, string(draft.Data[StepConfig]))

	require.NoError(t, d.Clear(ctx, "u1", ChallengeFlow))
	for _, k := range ChallengeFlow.Keys() {
		_, err := mem.Load(ctx, "u1", k)
		assert.ErrorIs(t, err, ErrNoDraft, k)
	}
}

func TestDraftRejectsInvalidStepData(t *testing.T) {
	d, _ := newDrafts()
	err := d.SaveStep("u1", SimFlow, StepTraits, json.RawMessage(`[`), Progress{})
	assert.Error(t, err)
	err = d.SaveStep("u1", SimFlow, StepConfig, json.RawMessage(`{}`), Progress{})
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestDraftFallsBackOnCorruptData(t *testing.T) {
	d, mem := newDrafts()
	ctx := context.Background()
	require.NoError(t, mem.Save(ctx, "u1", KeySimProgress, []byte(`{"step":`)))
	require.NoError(t, mem.Save(ctx, "u1", KeySimTraits, []byte(`not json`)))
	require.NoError(t, mem.Save(ctx, "u1", KeySimBasicInfo, []byte(`{"name":"Ada"}`)))

	draft, err := d.Load(ctx, "u1", SimFlow)
	require.NoError(t, err)
	assert.Equal(t, StepBasicInfo, draft.Progress.Step)
	assert.NotContains(t, draft.Data, StepTraits)
	assert.Contains(t, draft.Data, StepBasicInfo)
}
