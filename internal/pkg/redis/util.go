package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetValue 设置键值对
func SetValue(ctx context.Context, key string, value interface{}) error {
	return Rdb.Set(ctx, key, value, 0).Err()
}

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值
func GetValue(ctx context.Context, key string) (string, error) {
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// IncrKey 自增计数器
func IncrKey(ctx context.Context, key string) error {
	return Rdb.Incr(ctx, key).Err()
}

// PFAddKey HyperLogLog 去重计数写入
func PFAddKey(ctx context.Context, key string, members ...interface{}) error {
	return Rdb.PFAdd(ctx, key, members...).Err()
}

// PFCountKey HyperLogLog 去重计数读取
func PFCountKey(ctx context.Context, key string) (int64, error) {
	return Rdb.PFCount(ctx, key).Result()
}

// SAddKey 向集合添加成员
func SAddKey(ctx context.Context, key string, members ...interface{}) error {
	return Rdb.SAdd(ctx, key, members...).Err()
}

// GetSet 获取集合
func GetSet(ctx context.Context, key string) ([]string, error) {
	value, err := Rdb.SMembers(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

// Rename 重命名键，键不存在时返回错误
func Rename(ctx context.Context, key, newKey string) error {
	return Rdb.Rename(ctx, key, newKey).Err()
}

// IsKeyMissing RENAME 这类命令对不存在的键返回的错误，
// 调用方据此区分"键不存在"和真正的 Redis 故障
func IsKeyMissing(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, redis.Nil) {
		return true
	}
	return strings.Contains(err.Error(), "no such key")
}

// DeleteKey 删除键
func DeleteKey(ctx context.Context, keys ...string) error {
	return Rdb.Del(ctx, keys...).Err()
}

// TryLock SETNX 抢占互斥锁
func TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error) {
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := Rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		time.Sleep(time.Millisecond * 200)
	}
	return false, nil
}

// UnLock 释放锁，仅当持有者匹配时删除
func UnLock(ctx context.Context, key string, value interface{}) {
	Rdb.Eval(ctx, "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end", []string{key}, value)
}
