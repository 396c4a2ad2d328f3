package database

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/biyonik/stormquery/pkg/mapper"
)

// ThrottledExecutor, alttaki Executor'a gönderilen sorgu hızını token bucket
// ile sınırlar. Limit aşıldığında çağrı bekletilir; context iptal edilirse
// sorgu hiç gönderilmeden hata döner.
type ThrottledExecutor struct {
	next    Executor
	limiter *rate.Limiter
}

// NewThrottledExecutor, saniyede limit kadar sorguya burst kadar ani
// artışla izin veren bir dekoratör oluşturur.
//
// Örnek:
//
//	exec := database.NewThrottledExecutor(conn, rate.Limit(100), 20)
func NewThrottledExecutor(next Executor, limit rate.Limit, burst int) *ThrottledExecutor {
	if burst < 1 {
		burst = 1
	}
	return &ThrottledExecutor{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// Execute implements Executor.
func (t *ThrottledExecutor) Execute(ctx context.Context, query string, params []any) ([]mapper.Row, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return t.next.Execute(ctx, query, params)
}
