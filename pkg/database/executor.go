package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/biyonik/stormquery/pkg/mapper"
)

// -----------------------------------------------------------------------------
// EXECUTOR
// -----------------------------------------------------------------------------
// Executor, render edilmiş bir SQL'i çalıştırıp düz satırlar döndüren dış
// bağımlılıktır. Facade yalnızca bu arayüzü bilir; sürücü, transaction,
// cache ve hız sınırlama bunun arkasında birbirini sarmalayabilir:
//
//	exec := database.NewThrottledExecutor(
//	    database.NewCachedExecutor(database.NewConn(db, "mysql"), store, time.Minute, logger),
//	    rate.Limit(50), 10,
//	)
// -----------------------------------------------------------------------------

// Executor, SQL + parametreleri çalıştırıp kolon adı → değer satırları döndürür.
type Executor interface {
	Execute(ctx context.Context, query string, params []any) ([]mapper.Row, error)
}

// ExecutorFunc, sıradan bir fonksiyonu Executor'a dönüştürür.
type ExecutorFunc func(ctx context.Context, query string, params []any) ([]mapper.Row, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, query string, params []any) ([]mapper.Row, error) {
	return f(ctx, query, params)
}

// QueryExecutor, hem *sql.DB (havuz) hem de *sql.Tx (transaction) tarafından
// örtük olarak uygulanan metodları tanımlar. Conn bu arayüze kilitlenir;
// böylece hem normal sorgularda hem de transaction içinde çalışabilir.
type QueryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn, bir QueryExecutor'ı Executor'a uyarlar.
//
// postgres ve pgx sürücüleri için "?" placeholder'ları "$1, $2, ..."
// biçimine çevrilir.
type Conn struct {
	db     QueryExecutor
	driver string
}

// NewConn, verilen sürücü adıyla bir Conn oluşturur.
//
// Örnek:
//
//	db, _ := database.Connect(cfg)
//	exec := database.NewConn(db, cfg.Driver)
func NewConn(db QueryExecutor, driver string) *Conn {
	return &Conn{db: db, driver: strings.ToLower(driver)}
}

// Execute implements Executor.
func (c *Conn) Execute(ctx context.Context, query string, params []any) ([]mapper.Row, error) {
	if usesNumberedPlaceholders(c.driver) {
		query = rebind(query)
	}
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return rowsToMaps(rows)
}

func usesNumberedPlaceholders(driver string) bool {
	return driver == DriverPostgres || driver == DriverPgx
}

// rebind, "?" placeholder'larını "$n" biçimine çevirir. Tek tırnaklı
// string literal'ler içindeki "?" karakterlerine dokunulmaz.
func rebind(query string) string {
	var (
		sb      strings.Builder
		n       int
		inQuote bool
	)
	sb.Grow(len(query) + 8)
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			sb.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}
