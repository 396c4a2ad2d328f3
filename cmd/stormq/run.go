package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/biyonik/stormquery/internal/config"
	"github.com/biyonik/stormquery/internal/querydef"
	"github.com/biyonik/stormquery/pkg/cache"
	"github.com/biyonik/stormquery/pkg/database"
	"github.com/biyonik/stormquery/pkg/events"
)

var (
	runFile    string
	runRaw     bool
	runTiming  bool
	runTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a query definition and print the hydrated result as JSON",
	Example: `  # Run against the configured database
  STORM_DB_DRIVER=postgres STORM_DB_DSN=postgres://localhost/shop stormq run -f customer_orders.yaml

  # Print the flat result rows instead of the object graph
  stormq run -f customer_orders.yaml --raw`,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := querydef.Load(runFile)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
		defer cancel()

		dispatcher := events.NewDispatcher(logger)
		defer dispatcher.Shutdown()
		if runTiming {
			reportTiming(dispatcher, cmd.ErrOrStderr())
		}

		exec, cleanup, err := openExecutor(cfg, logger, dispatcher)
		if err != nil {
			return err
		}
		defer cleanup()

		query := def.Build(database.New(exec,
			database.WithDialect(cfg.Query.Dialect),
			database.WithLogger(logger),
			database.WithDispatcher(dispatcher),
		))

		var result any
		if runRaw {
			result, err = query.Rows(ctx)
		} else {
			result, err = query.FindAll(ctx)
		}
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFile, "file", "f", "", "query definition file")
	f.BoolVar(&runRaw, "raw", false, "print flat result rows without hydration")
	f.BoolVar(&runTiming, "timing", false, "report execution time and cache use on stderr")
	f.DurationVar(&runTimeout, "timeout", 30*time.Second, "query timeout")
	_ = runCmd.MarkFlagRequired("file")
}

// openExecutor, yapılandırmaya göre Executor zincirini kurar:
// Conn -> (opsiyonel) ThrottledExecutor -> (opsiyonel) CachedExecutor.
func openExecutor(cfg *config.Config, logger *log.Logger, dispatcher *events.Dispatcher) (database.Executor, func(), error) {
	db, err := database.Connect(cfg.Database(), logger)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{db.Close}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	var exec database.Executor = database.NewConn(db, cfg.DB.Driver)
	if limit, burst, ok := cfg.Limit(); ok {
		exec = database.NewThrottledExecutor(exec, limit, burst)
	}

	if cfg.Cache.Driver == cache.DriverNone {
		return exec, cleanup, nil
	}
	store, storeClose, err := openStore(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, storeClose)
	return database.NewCachedExecutor(exec, store, cfg.Cache.TTL, logger).WithDispatcher(dispatcher), cleanup, nil
}

// reportTiming, sorgu ve cache event'lerini w'ye SQL yorumu olarak yazar.
func reportTiming(d *events.Dispatcher, w io.Writer) {
	d.Subscribe([]string{events.QueryExecuted, events.QueryFailed}, events.ListenerFunc(func(e events.Event) error {
		q := e.(*events.QueryEvent)
		if q.Err != nil {
			fmt.Fprintf(w, "-- failed after %s\n", q.Duration)
			return nil
		}
		fmt.Fprintf(w, "-- %d rows in %s\n", q.Rows, q.Duration)
		return nil
	}))
	d.Subscribe([]string{events.CacheHit, events.CacheMiss}, events.ListenerFunc(func(e events.Event) error {
		fmt.Fprintf(w, "-- %s\n", e.Name())
		return nil
	}))
}

// openStore, yapılandırılmış cache store'u ve onu kapatan fonksiyonu döndürür.
func openStore(cfg *config.Config, logger *log.Logger) (cache.Store, func() error, error) {
	noop := func() error { return nil }

	var client *redis.Client
	if cfg.Cache.Driver == cache.DriverRedis {
		c, err := cache.NewRedisClient(cfg.RedisClient(), logger)
		if err != nil {
			return nil, nil, err
		}
		client = c
		noop = c.Close
	}

	store, err := cache.New(cfg.CacheStore(), client, logger)
	if err != nil {
		_ = noop()
		return nil, nil, err
	}
	if c, ok := store.(io.Closer); ok {
		return store, c.Close, nil
	}
	return store, noop, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}
