// -----------------------------------------------------------------------------
// Memory Cache Driver
// -----------------------------------------------------------------------------
// In-memory cache implementation (non-persistent).
//
// Testing, CLI ve tek süreçli kullanım için idealdir.
//
// Özellikler:
// - Thread-safe (sync.RWMutex)
// - TTL support (periyodik temizlik)
// - Close ile durdurulabilen garbage collector
//
// Sınırlamalar:
// - Non-persistent (restart'ta kaybolur)
// - Single-server only (distributed değil)
// -----------------------------------------------------------------------------

package cache

import (
	"context"
	"log"
	"sync"
	"time"
)

// memoryEntry, memory'de saklanan veri yapısı.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero value = süresiz
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore, in-memory Store implementation.
type MemoryStore struct {
	store  map[string]memoryEntry
	mu     sync.RWMutex
	logger *log.Logger

	hits   uint64
	misses uint64

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// gcInterval, süresi dolmuş kayıtların temizlenme periyodu.
var gcInterval = time.Minute

// NewMemoryStore, yeni bir Memory store oluşturur ve garbage collector'ı başlatır.
// Kullanım bitince Close çağrılmalıdır.
//
// Örnek:
//
//	store := cache.NewMemoryStore(logger)
//	defer store.Close()
func NewMemoryStore(logger *log.Logger) *MemoryStore {
	if logger == nil {
		logger = log.Default()
	}
	m := &MemoryStore{
		store:  make(map[string]memoryEntry),
		logger: logger,
		stop:   make(chan struct{}),
	}

	m.wg.Add(1)
	go m.garbageCollectionLoop()

	logger.Println("✅ Memory cache başlatıldı")
	return m
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.store[key]
	if !ok || entry.expired(time.Now()) {
		m.misses++
		return nil, false, nil
	}
	m.hits++
	return append([]byte(nil), entry.value...), true, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = memoryEntry{value: append([]byte(nil), value...), expiresAt: expiresAt}
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, key)
	return nil
}

// Flush implements Store.
func (m *MemoryStore) Flush(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]memoryEntry)
	m.logger.Println("⚠️  Memory cache temizlendi")
	return nil
}

// Len, saklanan (süresi dolmuş olanlar dahil) kayıt sayısını döndürür.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// Stats implements Stats.
func (m *MemoryStore) Stats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]any{
		"driver": DriverMemory,
		"keys":   len(m.store),
		"hits":   m.hits,
		"misses": m.misses,
	}
}

// Close, garbage collector'ı durdurur. Birden fazla kez çağrılabilir.
func (m *MemoryStore) Close() error {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.wg.Wait()
	})
	return nil
}

func (m *MemoryStore) garbageCollectionLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanExpiredEntries()
		case <-m.stop:
			m.logger.Println("🛑 Memory cache garbage collector durduruluyor...")
			return
		}
	}
}

// cleanExpiredEntries, süresi dolmuş kayıtları siler ve silinen sayısını döndürür.
func (m *MemoryStore) cleanExpiredEntries() int {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.store {
		if entry.expired(now) {
			delete(m.store, key)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Printf("🧹 Memory cache: %d expired kayıt temizlendi", removed)
	}
	return removed
}
