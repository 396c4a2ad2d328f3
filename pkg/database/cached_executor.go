package database

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/biyonik/stormquery/pkg/cache"
	"github.com/biyonik/stormquery/pkg/events"
	"github.com/biyonik/stormquery/pkg/mapper"
)

// -----------------------------------------------------------------------------
// CACHED EXECUTOR
// -----------------------------------------------------------------------------
// CachedExecutor, ham satırları bir cache.Store'da saklar. Anahtar SQL metni
// ve parametrelerin sha256 özetidir; değer, satırların msgpack kodlamasıdır.
//
// Yalnızca düz satırlar cache'lenir. Hydration her Find/FindAll çağrısında
// yeniden ve izole yapılır; cache'ten gelen satırlar da aynı identity
// normalizasyonundan geçer.
//
// Cache hataları sorguyu düşürmez: okunamayan veya yazılamayan kayıt
// loglanır ve doğrudan alttaki Executor kullanılır.
// -----------------------------------------------------------------------------

// CachedExecutor, cache'li Executor dekoratörüdür.
type CachedExecutor struct {
	next       Executor
	store      cache.Store
	ttl        time.Duration
	prefix     string
	logger     *log.Logger
	dispatcher *events.Dispatcher
}

// NewCachedExecutor, next'i store ile sarar. ttl = 0 süresiz saklar.
func NewCachedExecutor(next Executor, store cache.Store, ttl time.Duration, logger *log.Logger) *CachedExecutor {
	if logger == nil {
		logger = DefaultLogger()
	}
	return &CachedExecutor{
		next:   next,
		store:  store,
		ttl:    ttl,
		prefix: "query:",
		logger: logger,
	}
}

// WithDispatcher, her okumada cache.hit veya cache.miss yayınlar.
func (c *CachedExecutor) WithDispatcher(d *events.Dispatcher) *CachedExecutor {
	c.dispatcher = d
	return c
}

func (c *CachedExecutor) dispatch(key string, hit bool) {
	if c.dispatcher != nil {
		_ = c.dispatcher.Dispatch(events.NewCacheEvent(key, hit))
	}
}

// Execute implements Executor.
func (c *CachedExecutor) Execute(ctx context.Context, query string, params []any) ([]mapper.Row, error) {
	key, err := c.key(query, params)
	if err != nil {
		c.logger.Printf("⚠️  Cache anahtarı üretilemedi, cache atlanıyor: %v", err)
		return c.next.Execute(ctx, query, params)
	}

	if data, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Printf("⚠️  Cache okuma hatası [%s]: %v", key, err)
	} else if ok {
		if rows, err := decodeRows(data); err == nil {
			c.dispatch(key, true)
			return rows, nil
		}
		c.logger.Printf("⚠️  Bozuk cache kaydı siliniyor [%s]", key)
		c.store.Delete(ctx, key)
	}

	c.dispatch(key, false)
	rows, err := c.next.Execute(ctx, query, params)
	if err != nil {
		return nil, err
	}

	data, err := msgpack.Marshal(rows)
	if err != nil {
		c.logger.Printf("⚠️  Satırlar encode edilemedi, cache'lenmiyor: %v", err)
		return rows, nil
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Printf("⚠️  Cache yazma hatası [%s]: %v", key, err)
	}
	return rows, nil
}

// Invalidate, verilen sorgunun cache kaydını siler.
func (c *CachedExecutor) Invalidate(ctx context.Context, query string, params []any) error {
	key, err := c.key(query, params)
	if err != nil {
		return err
	}
	return c.store.Delete(ctx, key)
}

// decodeRows, tamsayıları int64/uint64 olarak çözer (int8, int16 vb. değil).
func decodeRows(data []byte) ([]mapper.Row, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	var rows []mapper.Row
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *CachedExecutor) key(query string, params []any) (string, error) {
	encoded, err := msgpack.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode params: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte{0})
	h.Write(encoded)
	return c.prefix + hex.EncodeToString(h.Sum(nil)), nil
}
