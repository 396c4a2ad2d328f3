package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// -----------------------------------------------------------------------------
// File Cache Driver
// -----------------------------------------------------------------------------
// Her key, hash'inin ilk iki karakteriyle adlandırılan bir alt dizinde tek
// bir dosya olarak saklanır. Dosya içeriği msgpack ile encode edilmiş
// fileEntry'dir. Süresi dolmuş ve bozuk dosyalar okunurken ya da periyodik
// garbage collection sırasında silinir.
// -----------------------------------------------------------------------------

type fileEntry struct {
	Value     []byte `msgpack:"v"`
	ExpiresAt int64  `msgpack:"e"` // unix nano, 0 = süresiz
}

func (e fileEntry) expired(now time.Time) bool {
	return e.ExpiresAt > 0 && now.UnixNano() > e.ExpiresAt
}

// FileStore, dosya sistemi tabanlı Store implementation.
type FileStore struct {
	dir    string
	logger *log.Logger
	mu     sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFileStore, dizini oluşturur ve garbage collector'ı başlatır.
// Kullanım bitince Close çağrılmalıdır.
func NewFileStore(dir string, logger *log.Logger) (*FileStore, error) {
	if logger == nil {
		logger = log.Default()
	}
	if dir == "" {
		return nil, fmt.Errorf("cache: file driver requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Printf("❌ Cache dizini oluşturma hatası [%s]: %v", dir, err)
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	f := &FileStore{dir: dir, logger: logger, ctx: ctx, cancel: cancel}

	f.wg.Add(1)
	go f.garbageCollectionLoop()

	logger.Printf("✅ File cache başlatıldı: %s", dir)
	return f, nil
}

// Close, garbage collector'ı durdurur.
func (f *FileStore) Close() error {
	f.cancel()
	f.wg.Wait()
	return nil
}

func (f *FileStore) filePath(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	return filepath.Join(f.dir, name[:2], name)
}

// Get implements Store.
func (f *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := f.filePath(key)

	f.mu.RLock()
	data, err := os.ReadFile(path)
	f.mu.RUnlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		f.logger.Printf("❌ File cache okuma hatası [%s]: %v", key, err)
		return nil, false, fmt.Errorf("file cache read failed: %w", err)
	}

	var entry fileEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil || entry.expired(time.Now()) {
		f.mu.Lock()
		os.Remove(path)
		f.mu.Unlock()
		return nil, false, nil
	}
	return entry.Value, true, nil
}

// Set implements Store.
func (f *FileStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := fileEntry{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl).UnixNano()
	}
	data, err := msgpack.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("file cache encode failed: %w", err)
	}

	path := f.filePath(key)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("file cache write failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		f.logger.Printf("❌ File cache yazma hatası [%s]: %v", key, err)
		return fmt.Errorf("file cache write failed: %w", err)
	}
	return nil
}

// Delete implements Store.
func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.filePath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		f.logger.Printf("❌ File cache silme hatası [%s]: %v", key, err)
		return fmt.Errorf("file cache delete failed: %w", err)
	}
	return nil
}

// Flush implements Store.
func (f *FileStore) Flush(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.RemoveAll(f.dir); err != nil {
		f.logger.Printf("❌ Cache temizleme hatası: %v", err)
		return fmt.Errorf("cache flush failed: %w", err)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to recreate cache directory: %w", err)
	}

	f.logger.Println("⚠️  File cache tamamen temizlendi")
	return nil
}

// Stats implements Stats.
func (f *FileStore) Stats() map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var (
		count int
		size  int64
	)
	filepath.WalkDir(f.dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			count++
			size += info.Size()
		}
		return nil
	})

	return map[string]any{
		"driver":     DriverFile,
		"directory":  f.dir,
		"file_count": count,
		"total_size": size,
	}
}

func (f *FileStore) garbageCollectionLoop() {
	defer f.wg.Done()

	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.cleanExpiredFiles()
		case <-f.ctx.Done():
			f.logger.Println("🛑 File cache garbage collector durduruluyor...")
			return
		}
	}
}

// cleanExpiredFiles, süresi dolmuş ve bozuk dosyaları siler.
func (f *FileStore) cleanExpiredFiles() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	cleaned := 0

	filepath.WalkDir(f.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var entry fileEntry
		if err := msgpack.Unmarshal(data, &entry); err != nil || entry.expired(now) {
			if os.Remove(path) == nil {
				cleaned++
			}
		}
		return nil
	})

	if cleaned > 0 {
		f.logger.Printf("🧹 Garbage collection: %d expired file silindi", cleaned)
	}
	return cleaned
}
