// -----------------------------------------------------------------------------
// Redis Cache Driver
// -----------------------------------------------------------------------------
// Redis-based Store implementation.
//
// Birden fazla süreç aynı sorgu sonuçlarını paylaşacaksa önerilen driver.
//
// Özellikler:
// - Key prefix (namespace) desteği
// - TTL support
// - Prefix'e sınırlı Flush (SCAN + DEL)
// - Connection pooling (go-redis)
// -----------------------------------------------------------------------------

package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig, Redis bağlantı yapılandırması.
type RedisConfig struct {
	Host         string        // Redis sunucu adresi
	Port         int           // Redis port
	Password     string        // Redis şifresi (opsiyonel)
	DB           int           // Database numarası (0-15)
	PoolSize     int           // Connection pool boyutu
	MinIdleConns int           // Minimum idle connection sayısı
	MaxRetries   int           // Maksimum retry sayısı
	DialTimeout  time.Duration // Bağlantı timeout süresi
	ReadTimeout  time.Duration // Okuma timeout süresi
	WriteTimeout time.Duration // Yazma timeout süresi
}

// DefaultRedisConfig, varsayılan Redis yapılandırması.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:         "127.0.0.1",
		Port:         6379,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// NewRedisClient, connection pool'u başlatır ve bağlantıyı Ping ile test eder.
//
// Örnek:
//
//	client, err := cache.NewRedisClient(cache.DefaultRedisConfig(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// Güvenlik Notu:
// - Redis şifresi environment variable'dan okunmalı (STORM_REDIS_PASSWORD)
func NewRedisClient(config *RedisConfig, logger *log.Logger) (*redis.Client, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	if logger == nil {
		logger = log.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		logger.Printf("❌ Redis bağlantı hatası: %v", err)
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Printf("✅ Redis bağlantısı başarılı: %s:%d (DB: %d)", config.Host, config.Port, config.DB)
	return client, nil
}

// RedisStore, Redis-based Store implementation.
type RedisStore struct {
	client *redis.Client
	logger *log.Logger
	prefix string // Key prefix (namespace)
}

// NewRedisStore, yeni bir Redis store oluşturur.
//
// Örnek:
//
//	store := cache.NewRedisStore(client, logger, "stormq:")
//	// Gerçek key: "stormq:<key>"
func NewRedisStore(client *redis.Client, logger *log.Logger, prefix string) *RedisStore {
	if logger == nil {
		logger = log.Default()
	}
	return &RedisStore{client: client, logger: logger, prefix: prefix}
}

func (r *RedisStore) prefixKey(key string) string {
	return r.prefix + key
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefixKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		r.logger.Printf("❌ Redis Get hatası [%s]: %v", key, err)
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return val, true, nil
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefixKey(key), value, ttl).Err(); err != nil {
		r.logger.Printf("❌ Redis Set hatası [%s]: %v", key, err)
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefixKey(key)).Err(); err != nil {
		r.logger.Printf("❌ Redis Delete hatası [%s]: %v", key, err)
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Flush implements Store.
//
// UYARI: Prefix varsa sadece o namespace temizlenir.
// Prefix yoksa TÜM Redis database temizlenir!
func (r *RedisStore) Flush(ctx context.Context) error {
	if r.prefix == "" {
		if err := r.client.FlushDB(ctx).Err(); err != nil {
			r.logger.Printf("❌ Redis FlushDB hatası: %v", err)
			return fmt.Errorf("redis flushdb failed: %w", err)
		}
		r.logger.Println("⚠️  Redis database tamamen temizlendi (FlushDB)")
		return nil
	}

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Printf("❌ Redis Scan hatası: %v", err)
		return fmt.Errorf("redis scan failed: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			r.logger.Printf("❌ Redis Flush hatası: %v", err)
			return fmt.Errorf("redis flush failed: %w", err)
		}
	}

	r.logger.Printf("⚠️  Redis cache temizlendi [prefix: %s, keys: %d]", r.prefix, len(keys))
	return nil
}

// Stats implements Stats.
func (r *RedisStore) Stats() map[string]any {
	ps := r.client.PoolStats()
	return map[string]any{
		"driver":      DriverRedis,
		"hits":        ps.Hits,
		"misses":      ps.Misses,
		"timeouts":    ps.Timeouts,
		"total_conns": ps.TotalConns,
		"idle_conns":  ps.IdleConns,
		"stale_conns": ps.StaleConns,
	}
}
