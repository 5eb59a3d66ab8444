// Package cache memoizes serialized prediction responses. The pipeline is deterministic
// over immutable artifacts, so a request body scored against the same model always
// yields the same response.
package cache

import (
	"encoding/binary"
	"time"

	"github.com/Meesho/BharatMLStack/housing-inference/pkg/metric"
	"github.com/coocood/freecache"
	"github.com/rs/zerolog/log"
	"github.com/spaolacci/murmur3"
)

const (
	HitRate       = "prediction_cache_hit_rate"
	ItemCount     = "prediction_cache_item_count"
	EvacuateCount = "prediction_cache_evacuate_count"
	ExpiryCount   = "prediction_cache_expiry_count"
)

const metricUpdateInterval = 1 * time.Minute

type ResponseCache interface {
	Get(key []byte) ([]byte, error)
	SetEx(key, value []byte, expiryInSec int) error
	Delete(key []byte) bool
}

type V1 struct {
	cacheName  string
	inMemCache *freecache.Cache
	done       chan struct{}
}

// NewV1 returns nil when sizeInBytes is not positive; callers treat a nil cache as disabled.
func NewV1(cacheName string, sizeInBytes int) *V1 {
	if sizeInBytes <= 0 {
		return nil
	}
	c := &V1{
		cacheName:  cacheName,
		inMemCache: freecache.NewCache(sizeInBytes),
		done:       make(chan struct{}),
	}
	go c.publishMetric()
	log.Info().Str("cache_name", cacheName).Int("size_in_bytes", sizeInBytes).Msg("prediction cache created")
	return c
}

func (c *V1) Get(key []byte) ([]byte, error) {
	return c.inMemCache.Get(key)
}

func (c *V1) SetEx(key, value []byte, expiryInSec int) error {
	return c.inMemCache.Set(key, value, expiryInSec)
}

func (c *V1) Delete(key []byte) bool {
	return c.inMemCache.Del(key)
}

func (c *V1) Close() {
	close(c.done)
}

func (c *V1) publishMetric() {
	ticker := time.NewTicker(metricUpdateInterval)
	defer ticker.Stop()
	tags := metric.BuildTag(metric.NewTag("cache_name", c.cacheName))
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			metric.Gauge(HitRate, c.inMemCache.HitRate(), tags)
			metric.Gauge(ItemCount, float64(c.inMemCache.EntryCount()), tags)
			metric.Gauge(EvacuateCount, float64(c.inMemCache.EvacuateCount()), tags)
			metric.Gauge(ExpiryCount, float64(c.inMemCache.ExpiredCount()), tags)
		}
	}
}

// Key hashes the scope (artifact paths, alignment tolerances) and the raw request body
// into a 16 byte murmur3 key.
func Key(scope string, body []byte) []byte {
	h := murmur3.New128()
	_, _ = h.Write([]byte(scope))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(body)
	hi, lo := h.Sum128()
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], hi)
	binary.BigEndian.PutUint64(key[8:], lo)
	return key
}
