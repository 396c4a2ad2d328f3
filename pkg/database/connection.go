// -----------------------------------------------------------------------------
// Database Package
// -----------------------------------------------------------------------------
// Bu dosya, veritabanına bağlanmayı sağlayan merkezi bağlantı fonksiyonunu
// içerir. Sürücü adı yapılandırmadan okunur; desteklenen sürücüler:
//
//   - mysql    → github.com/go-sql-driver/mysql
//   - postgres → github.com/lib/pq
//   - pgx      → github.com/jackc/pgx/v5/stdlib
//   - sqlite   → modernc.org/sqlite (CGO gerektirmez)
//
// Bağlantı açıldıktan sonra havuz ayarları uygulanır ve Ping ile
// ulaşılabilirlik kontrol edilir.
// -----------------------------------------------------------------------------

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Desteklenen sürücü adları.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

// DBConfig, veritabanı bağlantı yapılandırmasıdır.
type DBConfig struct {
	Driver          string        // mysql, postgres, pgx, sqlite
	DSN             string        // sürücüye özgü bağlantı dizesi
	MaxOpenConns    int           // maksimum açık bağlantı
	MaxIdleConns    int           // maksimum idle bağlantı
	ConnMaxLifetime time.Duration // bağlantı ömrü
	PingTimeout     time.Duration // Ping için süre sınırı
}

// DefaultDBConfig, havuz için makul varsayılanları döndürür.
func DefaultDBConfig() DBConfig {
	return DBConfig{
		Driver:          DriverMySQL,
		MaxOpenConns:    25,
		MaxIdleConns:    25,
		ConnMaxLifetime: 5 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

// Connect, yapılandırmadaki sürücü ve DSN ile bağlanır ve *sql.DB döndürür.
// Bağlantı sırasında şu adımlar gerçekleştirilir:
//  1. Sürücü adı doğrulanır.
//  2. sql.Open ile bağlantı nesnesi oluşturulur.
//  3. Havuz ayarları uygulanır.
//  4. PingContext ile veritabanının ulaşılabilirliği kontrol edilir.
//  5. Hata varsa bağlantı kapatılır ve error döner.
func Connect(cfg DBConfig, logger *log.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = DefaultLogger()
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case DriverMySQL, DriverPostgres, DriverPgx, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is required for driver %q", driver)
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Printf("Veritabanına bağlanılıyor (%s)...", driver)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		logger.Printf("❌ Veritabanı bağlantı hatası: %v", err)
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	logger.Println("✅ Veritabanı bağlantısı başarılı!")
	return db, nil
}
