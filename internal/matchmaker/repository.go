package matchmaker

import "context"

// Repo is the queue storage abstraction. Members are opaque strings;
// the service layer encodes player identity into them.
type Repo interface {
	// Enqueue adds a member to the pool's queue.
	Enqueue(ctx context.Context, pool, member, playerID string, ttlSeconds int) error
	// PopNRandom atomically removes and returns n random members once
	// the pool holds at least n.
	PopNRandom(ctx context.Context, pool string, n int) ([]string, error)
	// Remove takes a player out of whatever queue they are in.
	Remove(ctx context.Context, playerID string) error
	// Count reports the pool's queue length.
	Count(ctx context.Context, pool string) (int64, error)
}
