package utils

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheEntry 包装缓存数据和过期时间
type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// PageCache 信息流页面的本地 LRU 缓存。
// 容量固定，过期惰性淘汰（读时检查），写路径负责主动失效热点 key。
type PageCache struct {
	lruCache *lru.Cache[string, cacheEntry]
}

var (
	cacheInstance *PageCache
	cacheOnce     sync.Once
)

// GetCache 获取单例缓存实例，并发首次调用也只构造一次
func GetCache() *PageCache {
	cacheOnce.Do(func() {
		l, err := lru.New[string, cacheEntry](500)
		if err != nil {
			log.Fatalf("Failed to create LRU cache: %v", err)
		}
		cacheInstance = &PageCache{lruCache: l}
	})
	return cacheInstance
}

// Set 设置缓存，TTL 为过期时间
func (c *PageCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, cacheEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 nil
func (c *PageCache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	// 惰性过期
	if time.Now().After(val.expiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.data
}

// Delete 删除指定缓存
func (c *PageCache) Delete(key string) {
	c.lruCache.Remove(key)
}

// Remember 读穿缓存：命中直接返回，未命中调用 fill 并回填。
// fill 出错时不缓存，错误原样上抛
func (c *PageCache) Remember(key string, ttl time.Duration, fill func() (interface{}, error)) (interface{}, error) {
	if v := c.Get(key); v != nil {
		return v, nil
	}
	v, err := fill()
	if err != nil {
		return nil, err
	}
	c.Set(key, v, ttl)
	return v, nil
}
