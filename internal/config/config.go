// -----------------------------------------------------------------------------
// Config Package
// -----------------------------------------------------------------------------
// Bu dosya, stormq aracının ve kütüphaneyi gömen uygulamaların merkezi
// konfigürasyon yönetimini sağlar.
//
// Öncelik sırası (yüksekten düşüğe):
//   - STORM_ önekli ortam değişkenleri (STORM_DB_DSN, STORM_CACHE_DRIVER, ...)
//   - YAML konfigürasyon dosyası (opsiyonel)
//   - Varsayılan değerler
//
// Config yapısı tip güvenlidir; Validate bilinmeyen driver'ları ve anlamsız
// değerleri yükleme anında reddeder.
// -----------------------------------------------------------------------------

package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/biyonik/stormquery/pkg/cache"
	"github.com/biyonik/stormquery/pkg/database"
)

// EnvPrefix, ortam değişkenlerinin öneki.
const EnvPrefix = "STORM"

// Config, uygulamanın merkezi yapılandırma nesnesidir.
//
// Nested struct yapısı kullanılarak ilgili ayarlar gruplandırılmıştır:
//   - App: Uygulama genel ayarları
//   - DB: Veritabanı bağlantı ve pool ayarları
//   - Query: Lehçe ve sorgu hız sınırı
//   - Cache: Sorgu sonucu cache ayarları
//   - Redis: Redis bağlantı ayarları (cache.driver=redis için)
type Config struct {
	App struct {
		Name string `mapstructure:"name"` // Uygulama adı
		Env  string `mapstructure:"env"`  // Ortam (development, production, test)
	} `mapstructure:"app"`

	DB struct {
		Driver          string        `mapstructure:"driver"`            // mysql, postgres, pgx, sqlite
		DSN             string        `mapstructure:"dsn"`               // Bağlantı string'i
		MaxOpenConns    int           `mapstructure:"max_open_conns"`    // Maksimum açık bağlantı
		MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // Maksimum boşta bağlantı
		ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // Bağlantı ömrü
		PingTimeout     time.Duration `mapstructure:"ping_timeout"`      // Açılıştaki ping süresi
	} `mapstructure:"db"`

	Query struct {
		Dialect   string  `mapstructure:"dialect"`    // standard veya sqlsrv
		RateLimit float64 `mapstructure:"rate_limit"` // saniyedeki sorgu; 0 = sınırsız
		Burst     int     `mapstructure:"burst"`
	} `mapstructure:"query"`

	Cache struct {
		Driver string        `mapstructure:"driver"` // memory, redis, file, none
		Prefix string        `mapstructure:"prefix"` // Redis key prefix
		Dir    string        `mapstructure:"dir"`    // File cache dizini
		TTL    time.Duration `mapstructure:"ttl"`    // Sorgu sonucu ömrü
	} `mapstructure:"cache"`

	Redis struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
}

// Load, varsayılanları, opsiyonel YAML dosyasını ve STORM_ ortam
// değişkenlerini birleştirerek Config döndürür.
//
// path boşsa yalnızca varsayılanlar ve ortam değişkenleri kullanılır.
//
// Örnek kullanım:
//
//	cfg, err := config.Load("stormq.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db, err := database.Connect(cfg.Database(), logger)
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "stormq")
	v.SetDefault("app.env", "development")

	v.SetDefault("db.driver", database.DriverMySQL)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 25)
	v.SetDefault("db.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("db.ping_timeout", 5*time.Second)

	v.SetDefault("query.dialect", "standard")
	v.SetDefault("query.rate_limit", 0.0)
	v.SetDefault("query.burst", 1)

	v.SetDefault("cache.driver", cache.DriverNone)
	v.SetDefault("cache.prefix", "stormq:")
	v.SetDefault("cache.dir", "./storage/cache")
	v.SetDefault("cache.ttl", time.Minute)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

// Validate, config değerlerinin geçerliliğini kontrol eder.
func (c *Config) Validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case database.DriverMySQL, database.DriverPostgres, database.DriverPgx, database.DriverSQLite:
	default:
		return fmt.Errorf("geçersiz db.driver: %q (mysql, postgres, pgx veya sqlite olmalı)", c.DB.Driver)
	}

	validDrivers := map[string]bool{
		cache.DriverMemory: true,
		cache.DriverRedis:  true,
		cache.DriverFile:   true,
		cache.DriverNone:   true,
	}
	if !validDrivers[c.Cache.Driver] {
		return fmt.Errorf("geçersiz cache.driver: %q (memory, redis, file veya none olmalı)", c.Cache.Driver)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl negatif olamaz: %s", c.Cache.TTL)
	}

	if c.Query.RateLimit < 0 {
		return fmt.Errorf("query.rate_limit negatif olamaz: %v", c.Query.RateLimit)
	}
	if c.Query.RateLimit > 0 && c.Query.Burst < 1 {
		return fmt.Errorf("query.burst en az 1 olmalı")
	}

	if c.IsProduction() && c.Cache.Driver == cache.DriverMemory {
		log.Println("⚠️  UYARI: Memory cache çoklu instance çalışan production ortamı için önerilmez!")
	}
	return nil
}

// IsProduction, uygulamanın production ortamında çalışıp çalışmadığını kontrol eder.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Database, bağlantı ayarlarını database.Connect'in beklediği biçime çevirir.
func (c *Config) Database() database.DBConfig {
	return database.DBConfig{
		Driver:          strings.ToLower(c.DB.Driver),
		DSN:             c.DB.DSN,
		MaxOpenConns:    c.DB.MaxOpenConns,
		MaxIdleConns:    c.DB.MaxIdleConns,
		ConnMaxLifetime: c.DB.ConnMaxLifetime,
		PingTimeout:     c.DB.PingTimeout,
	}
}

// CacheStore, cache.New için store seçimini döndürür.
func (c *Config) CacheStore() cache.Config {
	return cache.Config{
		Driver: c.Cache.Driver,
		Prefix: c.Cache.Prefix,
		Dir:    c.Cache.Dir,
	}
}

// RedisClient, Redis bağlantı ayarlarını döndürür. Pool ve timeout
// değerleri cache.DefaultRedisConfig'den gelir.
func (c *Config) RedisClient() *cache.RedisConfig {
	rc := cache.DefaultRedisConfig()
	rc.Host = c.Redis.Host
	rc.Port = c.Redis.Port
	rc.Password = c.Redis.Password
	rc.DB = c.Redis.DB
	return rc
}

// Limit, sorgu hız sınırını döndürür. RateLimit 0 ise ok false döner.
func (c *Config) Limit() (limit rate.Limit, burst int, ok bool) {
	if c.Query.RateLimit <= 0 {
		return 0, 0, false
	}
	return rate.Limit(c.Query.RateLimit), c.Query.Burst, true
}
