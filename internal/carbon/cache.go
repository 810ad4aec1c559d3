package carbon

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"backend/internal/logger"
	"backend/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store 碳强度缓存后端
type Store interface {
	Get(ctx context.Context, key string) (Intensity, bool)
	Set(ctx context.Context, key string, intensity Intensity, ttl time.Duration)
}

// CachedProvider 按坐标缓存装饰器
// 同一坐标在短窗口内不重复请求外部服务；降级结果不会进入缓存
// （降级装饰器包在缓存外层，缓存只见到真实查询结果）
type CachedProvider struct {
	inner Provider
	store Store
	ttl   time.Duration
}

// NewCachedProvider 创建缓存装饰器
func NewCachedProvider(inner Provider, store Store, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		store: store,
		ttl:   ttl,
	}
}

// cacheKey 坐标保留两位小数作为缓存键，约公里级粒度
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("carbon:intensity:%.2f:%.2f", lat, lon)
}

// IntensityAt 获取碳强度，命中缓存则直接返回
func (p *CachedProvider) IntensityAt(ctx context.Context, lat, lon float64) (Intensity, error) {
	key := cacheKey(lat, lon)

	if cached, ok := p.store.Get(ctx, key); ok {
		metrics.IntensityCacheHitsTotal.Inc()
		return cached, nil
	}

	intensity, err := p.inner.IntensityAt(ctx, lat, lon)
	if err != nil {
		return Intensity{}, err
	}

	p.store.Set(ctx, key, intensity, p.ttl)
	return intensity, nil
}

// ============================================================================
// 内存缓存后端
// ============================================================================

// memoryEntry 内存缓存条目
type memoryEntry struct {
	intensity Intensity
	expiresAt time.Time
}

// MemoryStore 进程内缓存后端
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore 创建内存缓存后端
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
	}
}

// Get 读取缓存条目，过期视为未命中
func (s *MemoryStore) Get(ctx context.Context, key string) (Intensity, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return Intensity{}, false
	}
	return entry.intensity, true
}

// Set 写入缓存条目
func (s *MemoryStore) Set(ctx context.Context, key string, intensity Intensity, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = memoryEntry{
		intensity: intensity,
		expiresAt: time.Now().Add(ttl),
	}
	s.mu.Unlock()
}

// ============================================================================
// Redis 缓存后端
// ============================================================================

// RedisStore Redis 缓存后端，多实例部署时共享缓存窗口
// Redis 故障一律按未命中处理，不影响请求
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 缓存后端
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get 从 Redis 读取缓存条目
func (s *RedisStore) Get(ctx context.Context, key string) (Intensity, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.WithContext(ctx).Debug("Redis 读取碳强度缓存失败", zap.Error(err))
		}
		return Intensity{}, false
	}

	var intensity Intensity
	if err := json.Unmarshal(data, &intensity); err != nil {
		logger.WithContext(ctx).Debug("Redis 碳强度缓存内容损坏", zap.Error(err))
		return Intensity{}, false
	}
	return intensity, true
}

// Set 写入 Redis 缓存条目
func (s *RedisStore) Set(ctx context.Context, key string, intensity Intensity, ttl time.Duration) {
	data, err := json.Marshal(intensity)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.WithContext(ctx).Debug("Redis 写入碳强度缓存失败", zap.Error(err))
	}
}
