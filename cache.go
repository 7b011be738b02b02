package dbal

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

//
// =====================================================================================
// 📚 GO-DBAL – RESULT CACHE BİRİMİ
// -------------------------------------------------------------------------------------
// Bu dosya, sorgu sonuçlarının önbelleğe alınmasını sağlayan ResultCache
// altyapısını içerir. İki hazır implementasyon sunulur:
//
//   ✔ MemoryCache → süreç içi LRU; tek örnekli uygulamalar ve testler için
//   ✔ RedisCache  → go-redis üzerinden paylaşımlı önbellek; çok örnekli
//                   dağıtımlarda sorgu sonuçlarını örnekler arası paylaşır
//
// Önbellek anahtarı, çözümlenmiş SQL metni ve argümanlarından türetilen bir
// özettir; aynı sorgu aynı parametrelerle aynı anahtara düşer. Değerler JSON
// olarak saklanır, böylece iki implementasyon da aynı byte formatını paylaşır.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// ResultCache, sorgu sonucu önbelleklerinin davranış sözleşmesidir.
// Get, kayıt yoksa ErrCacheMiss döndürür.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ----------------------------------------------------------------------------
// Memory Cache (LRU)
// ----------------------------------------------------------------------------

// MemoryCache, süreç içi LRU önbelleğidir. Goroutine-güvenlidir.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // MRU önde
}

// memoryEntry, tek bir önbellek kaydıdır.
type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache, verilen kapasiteyle bir LRU önbelleği oluşturur.
// Kapasite 0 veya negatifse 128 kayıt varsayılır.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = 128
	}
	return &MemoryCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get, anahtarın değerini döndürür; kayıt yok veya süresi dolmuşsa ErrCacheMiss.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}

	entry := elem.Value.(*memoryEntry)
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return nil, ErrCacheMiss
	}

	c.order.MoveToFront(elem)
	return entry.value, nil
}

// Set, anahtara değer yazar. Kapasite dolunca en uzun süredir kullanılmayan
// kayıt düşürülür. ttl 0 ise kayıt süresizdir.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return nil
	}

	c.entries[key] = c.order.PushFront(&memoryEntry{key: key, value: value, expiresAt: expiresAt})

	for len(c.entries) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*memoryEntry).key)
	}
	return nil
}

// Delete, anahtarı önbellekten düşürür.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
	return nil
}

// Len, aktif kayıt sayısını döndürür.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ----------------------------------------------------------------------------
// Redis Cache
// ----------------------------------------------------------------------------

// RedisCache, ResultCache'i go-redis üzerinde implemente eder.
// Birden çok uygulama örneğinin sorgu sonuçlarını paylaşması içindir.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache, verilen istemci ve anahtar ön ekiyle bir RedisCache oluşturur.
// Ön ek boşsa "dbal:cache:" kullanılır.
func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "dbal:cache:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Get, anahtarın değerini döndürür; redis.Nil, ErrCacheMiss'e çevrilir.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, WrapError("cache get", err)
	}
	return value, nil
}

// Set, anahtara değer yazar.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return WrapError("cache set", err)
	}
	return nil
}

// Delete, anahtarı önbellekten düşürür.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return WrapError("cache delete", err)
	}
	return nil
}

// Derleme zamanı kontratları.
var (
	_ ResultCache = (*MemoryCache)(nil)
	_ ResultCache = (*RedisCache)(nil)
)

// ----------------------------------------------------------------------------
// Cached Queries
// ----------------------------------------------------------------------------

// cacheKey, çözümlenmiş sorgu ve argümanlarından deterministik anahtar üretir.
func cacheKey(query string, args []any) string {
	h := sha256.New()
	h.Write([]byte(query))
	fmt.Fprintf(h, "|%v", args)
	return hex.EncodeToString(h.Sum(nil))
}

// CachedQuery, sorgu sonucunu önbellek üzerinden döndürür. Önbellek
// yapılandırılmamışsa sorgu doğrudan çalıştırılır. Sonuçlar assoc map dilimi
// olarak döner; TTL, WithResultCache ile ayarlanır.
func (c *Connection) CachedQuery(ctx context.Context, query string, params ...any) ([]map[string]any, error) {
	resolved, args, err := c.resolvePositional(query, params)
	if err != nil {
		return nil, err
	}

	if c.cache == nil {
		return c.fetchAll(ctx, resolved, args)
	}

	key := cacheKey(resolved, args)
	if cached, err := c.cache.Get(ctx, key); err == nil {
		var rows []map[string]any
		if err := json.Unmarshal(cached, &rows); err == nil {
			return rows, nil
		}
		// Bozuk kayıt: düşür ve sorguya devam et.
		_ = c.cache.Delete(ctx, key)
	} else if !errors.Is(err, ErrCacheMiss) {
		return nil, err
	}

	rows, err := c.fetchAll(ctx, resolved, args)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(rows)
	if err != nil {
		return nil, WrapError("cache encode", err)
	}
	if err := c.cache.Set(ctx, key, encoded, c.cacheTTL); err != nil {
		return nil, err
	}
	return rows, nil
}

// fetchAll, çözümlenmiş sorguyu çalıştırıp tüm satırları döndürür.
func (c *Connection) fetchAll(ctx context.Context, query string, args []any) ([]map[string]any, error) {
	stmt, err := c.queryArgs(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return stmt.FetchAll()
}
