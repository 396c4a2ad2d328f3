// pkg/database/transaction.go
//
// Transaction, sorguların tek bir veritabanı işlemi içinde, tutarlı bir
// anlık görüntü üzerinden çalışmasını sağlar. Facade yalnızca Executor
// bildiği için transaction içindeki sorgular için ayrı bir API gerekmez:
//
//   tx, _ := database.BeginTransaction(ctx, db, "mysql", logger)
//   q := database.New(tx)           // facade transaction içinde çalışır
//   customers, err := q.From("customers c", m).FindAll(ctx)
//   if err != nil {
//       tx.Rollback()
//   }
//   tx.Commit()

package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/biyonik/stormquery/pkg/mapper"
)

// Transaction
//
// sql.Tx nesnesini saklar, commit/rollback operasyonlarını okunabilir bir
// API ile sunar ve kendisi bir Executor'dır.
type Transaction struct {
	Tx     *sql.Tx
	conn   *Conn
	logger *log.Logger
}

// BeginTransaction
//
// Yeni bir veritabanı transaction'ı başlatır.
// Dönen Transaction mutlaka Commit() veya Rollback() ile sonlandırılmalıdır.
//
// Parametreler:
//   - ctx: transaction'ın yaşam süresini belirleyen context
//   - db: işlem yapılacak veritabanı havuzu
//   - driver: placeholder biçimi için sürücü adı
//   - logger: nil ise varsayılan logger
func BeginTransaction(ctx context.Context, db *sql.DB, driver string, logger *log.Logger) (*Transaction, error) {
	if logger == nil {
		logger = DefaultLogger()
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	logger.Println("🔄 Transaction başladı.")
	return &Transaction{Tx: tx, conn: NewConn(tx, driver), logger: logger}, nil
}

// Execute implements Executor.
func (t *Transaction) Execute(ctx context.Context, query string, params []any) ([]mapper.Row, error) {
	return t.conn.Execute(ctx, query, params)
}

// Commit
//
// Başlatılmış olan transaction'ı başarılı şekilde sonlandırır.
func (t *Transaction) Commit() error {
	err := t.Tx.Commit()
	if err == nil {
		t.logger.Println("✅ Transaction commit edildi.")
	}
	return err
}

// Rollback
//
// Yapılmış tüm değişiklikleri geri alır.
func (t *Transaction) Rollback() error {
	err := t.Tx.Rollback()
	if err == nil {
		t.logger.Println("❌ Transaction geri alındı.")
	}
	return err
}
