package service

import (
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/pkg/redis"
	"context"
	"time"

	"github.com/google/uuid"
)

// rankingLockTTL 锁超时，超过说明持有方已死，允许下一轮计算抢占
const rankingLockTTL = 5 * time.Minute

// RunLocker 同一周期的榜单计算互斥。拿不到锁表示别处正在算同一周期，
// 调用方按空跑处理即可，靠 (story_id, date) 的幂等 Upsert 收敛结果。
type RunLocker interface {
	TryLock(ctx context.Context, horizon mongo.Horizon) (release func(), ok bool)
}

type redisRunLocker struct{}

func NewRedisRunLocker() RunLocker {
	return &redisRunLocker{}
}

func (l *redisRunLocker) TryLock(ctx context.Context, horizon mongo.Horizon) (func(), bool) {
	key := consts.RankingLockKey + horizon.String()
	token := uuid.NewString()

	ok, err := redis.TryLock(ctx, key, token, rankingLockTTL, 1)
	if err != nil || !ok {
		return nil, false
	}
	return func() {
		redis.UnLock(context.Background(), key, token)
	}, true
}
