package keyValue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Value struct {
	value   string
	expires time.Time
}

var mutex sync.RWMutex
var hashmap = make(map[string]Value)
var sweeperOnce sync.Once

var sugar *zap.SugaredLogger
var redisClient *redis.Client
var selfContained = true

func Setup(_sugar *zap.SugaredLogger, _redisClient *redis.Client, _selfContained bool) {
	sugar = _sugar
	redisClient = _redisClient
	selfContained = _selfContained

	if selfContained {
		sweeperOnce.Do(func() {
			go checkForLocalExpiredKeys()
		})
	}
}

func checkForLocalExpiredKeys() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		removeExpired(time.Now())
	}
}

func removeExpired(now time.Time) {
	mutex.Lock()
	defer mutex.Unlock()

	for key, v := range hashmap {
		if v.expires.Before(now) {
			delete(hashmap, key)
		}
	}
}

// Get returns an empty string when the key doesn't exist or has expired.
func Get(ctx context.Context, key string) (string, error) {
	if selfContained {
		sugar.Debugf("Getting value of key [%s] from hashmap", key)

		mutex.RLock()
		defer mutex.RUnlock()

		v, ok := hashmap[key]
		if !ok || v.expires.Before(time.Now()) {
			return "", nil
		}
		return v.value, nil
	}

	sugar.Debugf("Getting value of key [%s] from redis", key)

	value, err := redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	} else if err != nil {
		return "", err
	}

	return value, nil
}

func GetDel(ctx context.Context, key string) (string, error) {
	if selfContained {
		sugar.Debugf("Getting and deleting value of key [%s] from hashmap", key)

		mutex.Lock()
		defer mutex.Unlock()

		v, ok := hashmap[key]
		delete(hashmap, key)
		if !ok || v.expires.Before(time.Now()) {
			return "", nil
		}
		return v.value, nil
	}

	sugar.Debugf("Getting and deleting value of key [%s] from redis", key)

	value, err := redisClient.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	} else if err != nil {
		return "", err
	}

	return value, nil
}

func Set(ctx context.Context, key string, value string, expires time.Duration) error {
	if selfContained {
		sugar.Debugf("Setting key [%s] in hashmap, expires in %s", key, expires)

		mutex.Lock()
		defer mutex.Unlock()

		hashmap[key] = Value{value, time.Now().Add(expires)}

		return nil
	}

	sugar.Debugf("Setting key [%s] in redis, expires in %s", key, expires)
	return redisClient.Set(ctx, key, value, expires).Err()
}
