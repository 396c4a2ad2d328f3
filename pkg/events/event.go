// -----------------------------------------------------------------------------
// Query Events
// -----------------------------------------------------------------------------
// Bu dosya, sorgu yaşam döngüsü boyunca yayınlanan event'leri içerir.
//
// Event'ler gözlem içindir: listener'lar süre ölçer, yavaş sorguları
// raporlar veya cache isabet oranını sayar. Sorgu sonucunu değiştiremezler.
//
//	d := events.NewDispatcher(logger)
//	d.Listen(events.QueryExecuted, events.ListenerFunc(func(e events.Event) error {
//	    q := e.(*events.QueryEvent)
//	    if q.Duration > time.Second {
//	        logger.Printf("🐢 yavaş sorgu (%s): %s", q.Duration, q.SQL)
//	    }
//	    return nil
//	}))
//	queries := database.New(conn, database.WithDispatcher(d))
// -----------------------------------------------------------------------------

package events

import (
	"time"
)

// Event adları.
const (
	QueryExecuted = "query.executed"
	QueryFailed   = "query.failed"
	CacheHit      = "cache.hit"
	CacheMiss     = "cache.miss"
)

// Event, tüm event'lerin implement etmesi gereken interface.
type Event interface {
	// Name, event'in adını döndürür (örn: "query.executed").
	Name() string

	// OccurredAt, event'in gerçekleşme zamanını döndürür.
	OccurredAt() time.Time
}

// QueryEvent, bir SELECT çalıştırıldıktan sonra yayınlanır.
type QueryEvent struct {
	name       string
	occurredAt time.Time

	SQL      string
	Params   []any
	Rows     int
	Duration time.Duration
	Err      error
}

// NewQueryEvent, err'e göre query.executed veya query.failed event'i üretir.
func NewQueryEvent(sql string, params []any, rows int, duration time.Duration, err error) *QueryEvent {
	name := QueryExecuted
	if err != nil {
		name = QueryFailed
	}
	return &QueryEvent{
		name:       name,
		occurredAt: time.Now(),
		SQL:        sql,
		Params:     params,
		Rows:       rows,
		Duration:   duration,
		Err:        err,
	}
}

func (e *QueryEvent) Name() string          { return e.name }
func (e *QueryEvent) OccurredAt() time.Time { return e.occurredAt }

// CacheEvent, cache'li executor'ın her okumasında yayınlanır.
type CacheEvent struct {
	name       string
	occurredAt time.Time

	Key string
}

// NewCacheEvent, isabet durumuna göre cache.hit veya cache.miss üretir.
func NewCacheEvent(key string, hit bool) *CacheEvent {
	name := CacheMiss
	if hit {
		name = CacheHit
	}
	return &CacheEvent{name: name, occurredAt: time.Now(), Key: key}
}

func (e *CacheEvent) Name() string          { return e.name }
func (e *CacheEvent) OccurredAt() time.Time { return e.occurredAt }
