package service

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/ports"
)

const (
	defaultShards  = 16
	defaultIdleTTL = 30 * time.Minute
)

// WorkspaceFactory builds a fresh workspace for a client id.
type WorkspaceFactory func(clientID string) *Workspace

type shard struct {
	mu    sync.Mutex
	items map[string]*Workspace
}

// Registry keeps one workspace per client, sharded by client id. Idle
// workspaces are evicted by per-shard sweepers; their durable session stays
// in storage and is restored on the next visit.
type Registry struct {
	shards   []*shard
	factory  WorkspaceFactory
	idleTTL  time.Duration
	observer ports.Observer
	log      zerolog.Logger
	now      func() time.Time
}

func NewRegistry(factory WorkspaceFactory, idleTTL time.Duration, observer ports.Observer, log zerolog.Logger) *Registry {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	if observer == nil {
		observer = ports.NopObserver{}
	}
	r := &Registry{
		shards:   make([]*shard, defaultShards),
		factory:  factory,
		idleTTL:  idleTTL,
		observer: observer,
		log:      log.With().Str("component", "registry").Logger(),
		now:      time.Now,
	}
	for i := range r.shards {
		r.shards[i] = &shard{items: make(map[string]*Workspace)}
	}
	return r
}

// Get returns the client's workspace, creating and restoring it on first use.
func (r *Registry) Get(ctx context.Context, clientID string) *Workspace {
	sh := r.shardFor(clientID)

	sh.mu.Lock()
	ws, ok := sh.items[clientID]
	if !ok {
		ws = r.factory(clientID)
		sh.items[clientID] = ws
		r.observer.WorkspaceOpened()
	}
	sh.mu.Unlock()

	ws.Touch(r.now())
	ws.Restore(ctx)
	return ws
}

// Evict drops the client's workspace and stops its timers.
func (r *Registry) Evict(clientID string) bool {
	sh := r.shardFor(clientID)
	sh.mu.Lock()
	ws, ok := sh.items[clientID]
	delete(sh.items, clientID)
	sh.mu.Unlock()
	if ok {
		ws.Close()
		r.observer.WorkspaceClosed()
	}
	return ok
}

func (r *Registry) Len() int {
	n := 0
	for _, sh := range r.shards {
		sh.mu.Lock()
		n += len(sh.items)
		sh.mu.Unlock()
	}
	return n
}

// Start launches one sweeper per shard. Sweepers stop when ctx is cancelled.
func (r *Registry) Start(ctx context.Context) {
	interval := r.idleTTL / 2
	for i, sh := range r.shards {
		go r.runSweeper(ctx, i, sh, interval)
	}
}

func (r *Registry) runSweeper(ctx context.Context, id int, sh *shard, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.sweep(sh, r.now()); n > 0 {
				r.log.Debug().Int("shard", id).Int("evicted", n).Msg("idle workspaces evicted")
			}
		}
	}
}

// Sweep evicts every workspace idle for longer than the TTL as of now.
func (r *Registry) Sweep(now time.Time) int {
	n := 0
	for _, sh := range r.shards {
		n += r.sweep(sh, now)
	}
	return n
}

func (r *Registry) sweep(sh *shard, now time.Time) int {
	var idle []*Workspace
	sh.mu.Lock()
	for id, ws := range sh.items {
		if now.Sub(ws.LastSeen()) > r.idleTTL {
			idle = append(idle, ws)
			delete(sh.items, id)
		}
	}
	sh.mu.Unlock()

	for _, ws := range idle {
		ws.Close()
		r.observer.WorkspaceClosed()
	}
	return len(idle)
}

// Close evicts every workspace.
func (r *Registry) Close() {
	for _, sh := range r.shards {
		sh.mu.Lock()
		items := sh.items
		sh.items = make(map[string]*Workspace)
		sh.mu.Unlock()
		for _, ws := range items {
			ws.Close()
			r.observer.WorkspaceClosed()
		}
	}
}

// shardFor maps a client id deterministically to a shard.
func (r *Registry) shardFor(clientID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return r.shards[int(h.Sum32()%uint32(len(r.shards)))]
}
