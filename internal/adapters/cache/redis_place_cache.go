package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const placeKeyPrefix = "place:"

// RedisPlaceCache stores place id -> "lat,lng" strings with a TTL.
type RedisPlaceCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPlaceCache(client *redis.Client, ttl time.Duration) *RedisPlaceCache {
	return &RedisPlaceCache{Client: client, TTL: ttl}
}

func (r *RedisPlaceCache) GetMany(
	ctx context.Context,
	placeIDs []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "place.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("redis place cache: client is nil")
	}

	uniq := uniqueKeys(placeIDs)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, id := range uniq {
		keys = append(keys, placeKeyPrefix+id)
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get redis place cache: mget: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		c, err := decodeCoordinates(s)
		if err != nil {
			return nil, fmt.Errorf("get redis place cache: place_id=%q: %w", uniq[i], err)
		}
		out[uniq[i]] = c
	}

	return out, nil
}

func (r *RedisPlaceCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if r.Client == nil {
		return errors.New("redis place cache: client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := r.Client.TxPipeline()
	for id, c := range results {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("insert redis place cache: empty place id key")
		}
		pipe.Set(ctx, placeKeyPrefix+id, encodeCoordinates(c), r.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert redis place cache: exec: %w", err)
	}

	return nil
}

func encodeCoordinates(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

func decodeCoordinates(s string) (domain.Coordinates, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("malformed coordinate %q", s)
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("latitude %q: %w", lat, err)
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("longitude %q: %w", lng, err)
	}
	return domain.Coordinates{Lat: la, Lng: ln}, nil
}
