// -----------------------------------------------------------------------------
// Cache Interface
// -----------------------------------------------------------------------------
// Sorgu sonuçlarını saklayan byte tabanlı cache arayüzü.
//
// Değerler çağıran tarafından encode edilir (database paketi satırları
// msgpack ile encode eder); store yalnızca byte dizileri saklar. Böylece
// her driver aynı veriyi aynı biçimde döndürür.
//
// Driver'lar: memory, redis, file, none
// -----------------------------------------------------------------------------

package cache

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Driver adları.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverFile   = "file"
	DriverNone   = "none"
)

// Store, tüm cache driver'ların implement etmesi gereken interface.
//
// Örnek kullanım:
//
//	var store cache.Store = cache.NewMemoryStore(logger)
//	store.Set(ctx, "q:abc", payload, time.Minute)
type Store interface {
	// Get, cache'den veri okur. Key yoksa veya süresi dolmuşsa
	// (nil, false, nil) döner.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set, cache'e veri yazar. ttl = 0 ise süresiz saklanır.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete, key'i siler. Key yoksa hata vermez.
	Delete(ctx context.Context, key string) error

	// Flush, store'daki tüm veriyi temizler.
	//
	// UYARI: Bu operasyon geri alınamaz!
	Flush(ctx context.Context) error
}

// Stats, cache istatistikleri interface.
//
// Tüm driver'lar optional olarak implement edebilir:
//
//	if s, ok := store.(cache.Stats); ok {
//	    log.Printf("Cache stats: %+v", s.Stats())
//	}
type Stats interface {
	Stats() map[string]any
}

// Config, store seçimi için yapılandırma.
type Config struct {
	Driver string // memory, redis, file, none
	Prefix string // redis key prefix
	Dir    string // file driver dizini
}

// New, yapılandırmadaki driver'a göre bir Store oluşturur.
//
// Parametreler:
//   - cfg: driver seçimi
//   - client: redis driver'ı için bağlı client (diğerlerinde nil olabilir)
//   - logger: Log instance
//
// Döndürür:
//   - Store: seçilen driver
//   - error: bilinmeyen driver veya eksik bağımlılık
func New(cfg Config, client *redis.Client, logger *log.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverMemory:
		return NewMemoryStore(logger), nil
	case DriverRedis:
		if client == nil {
			return nil, fmt.Errorf("cache: redis driver requires a client")
		}
		return NewRedisStore(client, logger, cfg.Prefix), nil
	case DriverFile:
		store, err := NewFileStore(cfg.Dir, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverNone, "":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}

// NopStore, hiçbir şey saklamayan store'dur. Her Get cache miss döner.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NopStore) Delete(context.Context, string) error { return nil }

func (NopStore) Flush(context.Context) error { return nil }
