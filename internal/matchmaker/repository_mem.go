package matchmaker

import (
	"context"
	"math/rand"
	"sync"
)

type memEntry struct {
	pool   string
	member string
}

type memRepo struct {
	mu      sync.Mutex
	pools   map[string]map[string]struct{} // pool -> set(member)
	players map[string]memEntry            // playerID -> queue entry
}

// NewMemoryRepo is the redis-free repo, used in tests and when no
// redis address is configured.
func NewMemoryRepo() Repo {
	return &memRepo{
		pools:   make(map[string]map[string]struct{}),
		players: make(map[string]memEntry),
	}
}

func (m *memRepo) Enqueue(ctx context.Context, pool, member, playerID string, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pools[pool]; !ok {
		m.pools[pool] = make(map[string]struct{})
	}
	// TTL is ignored in memory; entries live until popped or removed
	m.pools[pool][member] = struct{}{}
	m.players[playerID] = memEntry{pool: pool, member: member}
	return nil
}

func (m *memRepo) PopNRandom(ctx context.Context, pool string, n int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.pools[pool]
	if !ok || len(set) < n {
		return []string{}, nil
	}

	members := make([]string, 0, len(set))
	for member := range set {
		members = append(members, member)
	}
	rand.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
	chosen := members[:n]

	for _, member := range chosen {
		delete(set, member)
		for id, e := range m.players {
			if e.pool == pool && e.member == member {
				delete(m.players, id)
			}
		}
	}
	if len(set) == 0 {
		delete(m.pools, pool)
	}
	return chosen, nil
}

func (m *memRepo) Remove(ctx context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.players[playerID]
	if !ok {
		return nil
	}
	if set, ok := m.pools[e.pool]; ok {
		delete(set, e.member)
		if len(set) == 0 {
			delete(m.pools, e.pool)
		}
	}
	delete(m.players, playerID)
	return nil
}

func (m *memRepo) Count(ctx context.Context, pool string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.pools[pool])), nil
}
