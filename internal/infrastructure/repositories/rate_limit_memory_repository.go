package repositories

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
)

const defaultRateLimitShards = 32

type rateLimitShard struct {
	mu      sync.Mutex
	clients map[string]*ratelimit.ClientWindow
}

// RateLimitMemoryRepository keeps client windows in process memory, sharded by
// client id so unrelated clients do not contend on one lock.
type RateLimitMemoryRepository struct {
	shards []*rateLimitShard
}

func NewRateLimitMemoryRepository(shardCount int) *RateLimitMemoryRepository {
	if shardCount <= 0 {
		shardCount = defaultRateLimitShards
	}
	shards := make([]*rateLimitShard, shardCount)
	for i := range shards {
		shards[i] = &rateLimitShard{clients: make(map[string]*ratelimit.ClientWindow)}
	}
	return &RateLimitMemoryRepository{shards: shards}
}

func (r *RateLimitMemoryRepository) shardFor(clientID string) *rateLimitShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return r.shards[h.Sum32()%uint32(len(r.shards))]
}

func (r *RateLimitMemoryRepository) Admit(_ context.Context, clientID string, now time.Time, policy ratelimit.Policy) (ratelimit.Decision, error) {
	s := r.shardFor(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.clients[clientID]
	if !ok {
		w = &ratelimit.ClientWindow{}
	}
	decision := w.Admit(now, policy)
	if w.Empty() {
		delete(s.clients, clientID)
		return decision, nil
	}
	s.clients[clientID] = w
	return decision, nil
}

// Sweep locks one shard at a time; Admit calls on other shards proceed meanwhile.
func (r *RateLimitMemoryRepository) Sweep(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	evicted := 0
	for _, s := range r.shards {
		if err := ctx.Err(); err != nil {
			return evicted, err
		}
		s.mu.Lock()
		for id, w := range s.clients {
			w.Prune(now, window)
			if w.Empty() {
				delete(s.clients, id)
				evicted++
			}
		}
		s.mu.Unlock()
	}
	return evicted, nil
}

func (r *RateLimitMemoryRepository) Tracked(_ context.Context) (int, error) {
	n := 0
	for _, s := range r.shards {
		s.mu.Lock()
		n += len(s.clients)
		s.mu.Unlock()
	}
	return n, nil
}

// Window returns a copy of the client's recorded instants.
func (r *RateLimitMemoryRepository) Window(clientID string) []time.Time {
	s := r.shardFor(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.clients[clientID]
	if !ok {
		return nil
	}
	return append([]time.Time(nil), w.Timestamps...)
}
