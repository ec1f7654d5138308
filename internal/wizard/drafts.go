package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Progress is what the progress key of a flow holds.
type Progress struct {
	Step               Step   `json:"step"`
	TemplateID         string `json:"templateId,omitempty"`
	NeedsConfiguration bool   `json:"needsConfiguration"`
}

// Draft is the resumable state of one flow.
type Draft struct {
	Flow     string                   `json:"flow"`
	Progress Progress                 `json:"progress"`
	Data     map[Step]json.RawMessage `json:"data"`
}

// Drafts reads and writes flow drafts. Writes of step data go through the
// AutoSaver; reads flush the owner's pending writes first.
type Drafts struct {
	store  Persistence
	saver  *AutoSaver
	logger *zap.Logger
}

func NewDrafts(store Persistence, saver *AutoSaver, logger *zap.Logger) *Drafts {
	return &Drafts{store: store, saver: saver, logger: logger.Named("WizardDrafts")}
}

// Load returns the owner's draft for flow. Missing or unreadable entries
// fall back to the flow's defaults; unreadable ones are logged.
func (d *Drafts) Load(ctx context.Context, owner string, flow Flow) (Draft, error) {
	d.saver.Flush(ctx, owner)

	draft := Draft{
		Flow:     flow.Name,
		Progress: Progress{Step: flow.First()},
		Data:     make(map[Step]json.RawMessage),
	}
	fields := []zap.Field{zap.String("owner", owner), zap.String("flow", flow.Name)}

	raw, err := d.store.Load(ctx, owner, flow.ProgressKey)
	switch {
	case errors.Is(err, ErrNoDraft):
	case err != nil:
		return Draft{}, err
	default:
		var p Progress
		if err := json.Unmarshal(raw, &p); err != nil {
			d.logger.Warn("Discarding unreadable wizard progress", append(fields, zap.Error(err))...)
		} else if _, err := flow.Def(p.Step); err != nil {
			d.logger.Warn("Discarding wizard progress with unknown step", append(fields, zap.String("step", string(p.Step)))...)
		} else {
			draft.Progress = p
		}
	}

	for _, s := range flow.Steps {
		if s.Key == "" {
			continue
		}
		raw, err := d.store.Load(ctx, owner, s.Key)
		if errors.Is(err, ErrNoDraft) {
			continue
		}
		if err != nil {
			return Draft{}, err
		}
		if !json.Valid(raw) {
			d.logger.Warn("Discarding unreadable wizard step data", append(fields, zap.String("key", s.Key))...)
			continue
		}
		draft.Data[s.Step] = json.RawMessage(raw)
	}
	return draft, nil
}

// SaveStep schedules the data of step and records step as the current one.
func (d *Drafts) SaveStep(owner string, flow Flow, step Step, data json.RawMessage, progress Progress) error {
	def, err := flow.Def(step)
	if err != nil {
		return err
	}
	if def.Key != "" {
		if !json.Valid(data) {
			return fmt.Errorf("step %s: invalid JSON", step)
		}
		d.saver.Save(owner, def.Key, data)
	}
	progress.Step = step
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	d.saver.Save(owner, flow.ProgressKey, raw)
	return nil
}

// Clear drops every key of the flow, pending or stored. It is used on final
// submission and on cancel.
func (d *Drafts) Clear(ctx context.Context, owner string, flow Flow) error {
	return d.saver.Discard(ctx, owner, flow.Keys()...)
}
