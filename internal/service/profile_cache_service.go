package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lifesaver-qr/internal/delivery/dto"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// RedisProfileKeyPrefix namespaces cached public profiles
	RedisProfileKeyPrefix = "profile:"

	// Timeout for individual Redis operations
	redisCacheTimeout = 2 * time.Second
)

// ProfileCacheService stores public profiles in Redis. Only the public
// projection is ever written, so a leaked cache exposes nothing a sticker
// does not already show.
type ProfileCacheService struct {
	redisClient *redis.Client
	ttl         time.Duration
	log         *logrus.Logger
}

func NewProfileCacheService(redisClient *redis.Client, ttl time.Duration, log *logrus.Logger) *ProfileCacheService {
	return &ProfileCacheService{
		redisClient: redisClient,
		ttl:         ttl,
		log:         log,
	}
}

func profileKey(id string) string {
	return RedisProfileKeyPrefix + id
}

// Get returns the cached profile for id, or nil on a miss.
func (s *ProfileCacheService) Get(ctx context.Context, id string) (*dto.PublicProfileResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	raw, err := s.redisClient.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached profile %s: %w", id, err)
	}

	var profile dto.PublicProfileResponse
	if err := json.Unmarshal(raw, &profile); err != nil {
		s.log.Warnf("Dropping unreadable cached profile %s: %+v", id, err)
		s.redisClient.Del(ctx, profileKey(id))
		return nil, nil
	}

	s.log.Debugf("Profile cache hit for %s", id)
	return &profile, nil
}

// Set caches profile for id with the configured TTL.
func (s *ProfileCacheService) Set(ctx context.Context, id string, profile dto.PublicProfileResponse) error {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", id, err)
	}

	if err := s.redisClient.Set(ctx, profileKey(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache profile %s: %w", id, err)
	}
	return nil
}
