package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Cache - TTL кэш в памяти с инвалидацией по префиксу. Используется для агрегатов реестра платежей.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
	// gen растёт при каждой инвалидации
	gen uint64
}

type entry struct {
	data      any
	expiresAt time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// StartCleanup периодически удаляет протухшие записи до отмены ctx.
func (c *Cache) StartCleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.evictExpired()
			}
		}
	}()
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{data: value, expiresAt: c.now().Add(ttl)}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateByPrefix удаляет все ключи с префиксом.
func (c *Cache) InvalidateByPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// GetOrSet возвращает значение из кэша или вычисляет и сохраняет его.
// Если за время вычисления была инвалидация, результат отдаётся, но не кэшируется.
func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) (any, error)) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	gen := c.gen
	c.mu.RUnlock()
	if ok && !c.now().After(e.expiresAt) {
		return e.data, nil
	}

	v, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.entries[key] = &entry{data: v, expiresAt: c.now().Add(ttl)}
	}
	return v, nil
}

func (c *Cache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Ключи агрегатов реестра платежей.
const PaymentsPrefix = "payments:"

func PaymentStatsKey() string {
	return PaymentsPrefix + "stats"
}

func MonthlyRevenueKey(months int) string {
	return PaymentsPrefix + "revenue:" + strconv.Itoa(months)
}
