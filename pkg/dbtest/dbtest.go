// -----------------------------------------------------------------------------
// Database Testing Helpers
// -----------------------------------------------------------------------------
// Bu paket, sorgu katmanını kullanan paketlerin testlerini kolaylaştırır.
//
// Özellikler:
// - RefreshDatabase: şemalı, test sonunda kapanan SQLite veritabanı
// - DatabaseTransaction: test gövdesini geri alınan bir transaction'da çalıştırır
// - RecordingExecutor: SQL'i kaydeden ve sabit satır döndüren sahte Executor
//
// Kullanım:
//
//	func TestCustomerOrders(t *testing.T) {
//	    db := dbtest.RefreshDatabase(t, "", dbtest.ShopSchema()...)
//	    q := database.New(database.NewConn(db, database.DriverSQLite))
//	    ...
//	}
// -----------------------------------------------------------------------------

package dbtest

import (
	"context"
	"database/sql"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/biyonik/stormquery/pkg/database"
	"github.com/biyonik/stormquery/pkg/mapper"
)

// QuietLogger, çıktıyı atan logger döndürür.
func QuietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// RefreshDatabase, dsn'deki SQLite veritabanını açar, statements'ı sırayla
// çalıştırır ve test bitince kapatır. dsn boşsa ":memory:" kullanılır;
// bellek içi veritabanı bağlantıya özel olduğundan havuz tek bağlantıyla
// sınırlanır.
func RefreshDatabase(t testing.TB, dsn string, statements ...string) *sql.DB {
	t.Helper()

	cfg := database.DefaultDBConfig()
	cfg.Driver = database.DriverSQLite
	cfg.DSN = dsn
	if dsn == "" || dsn == ":memory:" {
		cfg.DSN = ":memory:"
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
	}

	db, err := database.Connect(cfg, QuietLogger())
	if err != nil {
		t.Fatalf("dbtest: connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("dbtest: %v\n%s", err, stmt)
		}
	}
	return db
}

// DatabaseTransaction, fn'i bir transaction içinde çalıştırır ve ardından
// her durumda geri alır.
func DatabaseTransaction(t testing.TB, db *sql.DB, driver string, fn func(tx *database.Transaction)) {
	t.Helper()

	tx, err := database.BeginTransaction(context.Background(), db, driver, QuietLogger())
	if err != nil {
		t.Fatalf("dbtest: begin: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil {
			t.Errorf("dbtest: rollback: %v", err)
		}
	}()
	fn(tx)
}

// ShopSchema, müşteri/sipariş/sevkiyat örnek şemasını ve verisini döndürür.
//
//	customers 1 (2 sipariş), 2 (1 sipariş), 3 (siparişsiz)
func ShopSchema() []string {
	return []string{
		`CREATE TABLE customers (customer_id INTEGER PRIMARY KEY, customer_name TEXT NOT NULL, country TEXT)`,
		`CREATE TABLE shippers (shipper_id INTEGER PRIMARY KEY, shipper_name TEXT NOT NULL)`,
		`CREATE TABLE orders (order_id INTEGER PRIMARY KEY, customer_id INTEGER NOT NULL, shipper_id INTEGER)`,
		`INSERT INTO customers VALUES (1, 'Alfreds Futterkiste', 'Germany'), (2, 'Ana Trujillo', 'Mexico'), (3, 'Around the Horn', 'UK')`,
		`INSERT INTO shippers VALUES (1, 'Speedy Express'), (2, 'United Package')`,
		`INSERT INTO orders VALUES (10, 1, 1), (11, 1, NULL), (12, 2, 2)`,
	}
}

// RecordingExecutor, çağrıları kaydeden ve sabit satırlar döndüren sahte
// Executor. Eşzamanlı kullanım için güvenlidir.
type RecordingExecutor struct {
	Rows []mapper.Row
	Err  error

	mu      sync.Mutex
	queries []string
	params  [][]any
}

// Execute implements database.Executor.
func (r *RecordingExecutor) Execute(_ context.Context, query string, params []any) ([]mapper.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
	r.params = append(r.params, params)
	return r.Rows, r.Err
}

// Calls, Execute çağrı sayısını döndürür.
func (r *RecordingExecutor) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

// Last, son çalıştırılan SQL'i ve parametreleri döndürür.
func (r *RecordingExecutor) Last() (string, []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queries) == 0 {
		return "", nil
	}
	return r.queries[len(r.queries)-1], r.params[len(r.params)-1]
}
