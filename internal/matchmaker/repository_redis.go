package matchmaker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

// key 约定：
//
//	set: cb:queue:{pool}        -> Set(member,...)
//	kv : cb:player:{playerID}   -> "pool\x00member" (so Remove can locate the entry)
//
// player keys carry a TTL so abandoned queue entries do not linger.
func queueKey(pool string) string {
	return fmt.Sprintf("cb:queue:%s", pool)
}

func playerKey(id string) string {
	return fmt.Sprintf("cb:player:%s", id)
}

func (r *redisRepo) Enqueue(ctx context.Context, pool, member, playerID string, ttlSeconds int) error {
	p := r.rdb.Pipeline()
	p.SAdd(ctx, queueKey(pool), member)
	p.Set(ctx, playerKey(playerID), pool+"\x00"+member, time.Duration(ttlSeconds)*time.Second)
	_, err := p.Exec(ctx)
	return err
}

func (r *redisRepo) PopNRandom(ctx context.Context, pool string, n int) ([]string, error) {
	// SPOP with COUNT removes n random members atomically
	res, err := r.rdb.SPopN(ctx, queueKey(pool), int64(n)).Result()
	if err != nil {
		return nil, err
	}
	if len(res) > 0 {
		p := r.rdb.Pipeline()
		for _, member := range res {
			if pl, ok := decodePlayer(member); ok {
				p.Del(ctx, playerKey(pl.ID))
			}
		}
		_, _ = p.Exec(ctx)
	}
	return res, nil
}

func (r *redisRepo) Remove(ctx context.Context, playerID string) error {
	kv, err := r.rdb.Get(ctx, playerKey(playerID)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	pool, member, ok := strings.Cut(kv, "\x00")
	if !ok {
		return r.rdb.Del(ctx, playerKey(playerID)).Err()
	}

	qKey := queueKey(pool)
	pKey := playerKey(playerID)

	// delete the player key and the set member together; drop the set
	// once it is empty
	script := `
        redis.call("DEL", KEYS[1])
        redis.call("SREM", KEYS[2], ARGV[1])
        if redis.call("SCARD", KEYS[2]) == 0 then
            redis.call("DEL", KEYS[2])
        end
        return 1
    `
	if err := r.rdb.Eval(ctx, script, []string{pKey, qKey}, member).Err(); err != nil {
		// some test servers lack EVAL support; fall back to a
		// non-atomic pipeline
		p := r.rdb.Pipeline()
		p.SRem(ctx, qKey, member)
		p.Del(ctx, pKey)
		if _, execErr := p.Exec(ctx); execErr != nil {
			return execErr
		}
		if n, _ := r.rdb.SCard(ctx, qKey).Result(); n == 0 {
			_ = r.rdb.Del(ctx, qKey).Err()
		}
	}
	return nil
}

func (r *redisRepo) Count(ctx context.Context, pool string) (int64, error) {
	return r.rdb.SCard(ctx, queueKey(pool)).Result()
}
