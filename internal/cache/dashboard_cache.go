package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Dias221467/Social_Network/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	keyPrefix     = "dashboard:"
	versionPrefix = "dashboard:ver:"
)

// DashboardCache stores rendered dashboard views for a short TTL. Callers
// must Invalidate every account a mutation can change the view of.
//
// Every Invalidate bumps the account's version. A reader takes Version
// before loading from the store and passes it to Set, which drops the view
// if an Invalidate happened in between. A negative version never caches.
type DashboardCache interface {
	Version(ctx context.Context, userID primitive.ObjectID) int64
	Get(ctx context.Context, userID primitive.ObjectID) (*models.ProfileView, bool)
	Set(ctx context.Context, view *models.ProfileView, version int64)
	Invalidate(ctx context.Context, userIDs ...primitive.ObjectID)
}

// setIfCurrent writes the view only while the version key still holds the
// version the reader started from. A missing version key counts as 0.
var setIfCurrent = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if not cur then cur = '0' end
if cur ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// RedisDashboardCache keeps dashboard views as JSON strings in Redis.
// Cache failures are logged and treated as misses.
type RedisDashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDashboardCache(rdb *redis.Client, ttl time.Duration) *RedisDashboardCache {
	return &RedisDashboardCache{rdb: rdb, ttl: ttl}
}

func key(id primitive.ObjectID) string {
	return keyPrefix + id.Hex()
}

func versionKey(id primitive.ObjectID) string {
	return versionPrefix + id.Hex()
}

// Version returns the account's invalidation counter, or -1 when Redis
// cannot be read.
func (c *RedisDashboardCache) Version(ctx context.Context, userID primitive.ObjectID) int64 {
	v, err := c.rdb.Get(ctx, versionKey(userID)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0
	case err != nil:
		logrus.WithError(err).WithField("userID", userID.Hex()).Warn("Dashboard cache version read failed")
		return -1
	}
	return v
}

func (c *RedisDashboardCache) Get(ctx context.Context, userID primitive.ObjectID) (*models.ProfileView, bool) {
	raw, err := c.rdb.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("userID", userID.Hex()).Warn("Dashboard cache read failed")
		}
		return nil, false
	}

	var view models.ProfileView
	if err := json.Unmarshal(raw, &view); err != nil {
		logrus.WithError(err).WithField("userID", userID.Hex()).Warn("Dropping undecodable dashboard cache entry")
		_ = c.rdb.Del(ctx, key(userID)).Err()
		return nil, false
	}
	return &view, true
}

func (c *RedisDashboardCache) Set(ctx context.Context, view *models.ProfileView, version int64) {
	if version < 0 {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		logrus.WithError(err).Warn("Failed to encode dashboard view")
		return
	}
	err = setIfCurrent.Run(ctx, c.rdb,
		[]string{versionKey(view.ID), key(view.ID)},
		strconv.FormatInt(version, 10), raw, c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		logrus.WithError(err).WithField("userID", view.ID.Hex()).Warn("Dashboard cache write failed")
	}
}

func (c *RedisDashboardCache) Invalidate(ctx context.Context, userIDs ...primitive.ObjectID) {
	if len(userIDs) == 0 {
		return
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, versionKey(id))
			pipe.Del(ctx, key(id))
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).Warn("Dashboard cache invalidation failed")
	}
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Version(context.Context, primitive.ObjectID) int64                    { return 0 }
func (Noop) Get(context.Context, primitive.ObjectID) (*models.ProfileView, bool) { return nil, false }
func (Noop) Set(context.Context, *models.ProfileView, int64)                    {}
func (Noop) Invalidate(context.Context, ...primitive.ObjectID)                  {}
