package wizard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type pendingSave struct {
	timer *time.Timer
	data  []byte
}

// AutoSaver coalesces rapid saves of the same (owner, key) and writes only
// the latest data once delay has passed without a newer save.
type AutoSaver struct {
	store   Persistence
	delay   time.Duration
	timeout time.Duration
	logger  *zap.Logger

	// io is held across every write to store and every Discard, so a
	// discard never lands while an older write is still on its way.
	io sync.Mutex

	mu      sync.Mutex
	pending map[string]*pendingSave
	owners  map[string]string
	keys    map[string]string
}

func NewAutoSaver(store Persistence, delay time.Duration, logger *zap.Logger) *AutoSaver {
	return &AutoSaver{
		store:   store,
		delay:   delay,
		timeout: 5 * time.Second,
		logger:  logger.Named("WizardAutoSaver"),
		pending: make(map[string]*pendingSave),
		owners:  make(map[string]string),
		keys:    make(map[string]string),
	}
}

// Save schedules data to be written after the debounce delay, replacing any
// save still pending for the same owner and key.
func (a *AutoSaver) Save(owner, key string, data []byte) {
	id := draftKey(owner, key)
	buf := append([]byte(nil), data...)

	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.pending[id]; ok {
		p.timer.Stop()
	}
	p := &pendingSave{data: buf}
	p.timer = time.AfterFunc(a.delay, func() { a.fire(id, p) })
	a.pending[id] = p
	a.owners[id] = owner
	a.keys[id] = key
}

func (a *AutoSaver) fire(id string, p *pendingSave) {
	a.io.Lock()
	defer a.io.Unlock()

	a.mu.Lock()
	if a.pending[id] != p {
		a.mu.Unlock()
		return
	}
	owner, key := a.owners[id], a.keys[id]
	a.forget(id)
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	a.write(ctx, owner, key, p.data)
}

func (a *AutoSaver) write(ctx context.Context, owner, key string, data []byte) {
	if err := a.store.Save(ctx, owner, key, data); err != nil {
		a.logger.Warn("Draft autosave failed", zap.String("owner", owner), zap.String("key", key), zap.Error(err))
	}
}

// forget must be called with mu held.
func (a *AutoSaver) forget(id string) {
	delete(a.pending, id)
	delete(a.owners, id)
	delete(a.keys, id)
}

// Flush writes every pending save of owner immediately. An empty owner
// flushes everything.
func (a *AutoSaver) Flush(ctx context.Context, owner string) {
	type job struct {
		owner, key string
		data       []byte
	}
	var jobs []job

	a.io.Lock()
	defer a.io.Unlock()

	a.mu.Lock()
	for id, p := range a.pending {
		if owner != "" && a.owners[id] != owner {
			continue
		}
		p.timer.Stop()
		jobs = append(jobs, job{owner: a.owners[id], key: a.keys[id], data: p.data})
		a.forget(id)
	}
	a.mu.Unlock()

	for _, j := range jobs {
		a.write(ctx, j.owner, j.key, j.data)
	}
}

// Cancel drops pending saves for the given keys without writing them.
func (a *AutoSaver) Cancel(owner string, keys ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, k := range keys {
		id := draftKey(owner, k)
		if p, ok := a.pending[id]; ok {
			p.timer.Stop()
			a.forget(id)
		}
	}
}

// Discard cancels pending saves for keys and removes them from the store.
// It waits for any write already in progress.
func (a *AutoSaver) Discard(ctx context.Context, owner string, keys ...string) error {
	a.io.Lock()
	defer a.io.Unlock()

	a.Cancel(owner, keys...)
	return a.store.Clear(ctx, owner, keys...)
}

// Pending reports how many saves are waiting.
func (a *AutoSaver) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}
