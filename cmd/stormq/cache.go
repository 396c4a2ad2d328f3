package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/biyonik/stormquery/pkg/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the query result cache",
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Remove every cached query result",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Cache.Driver == cache.DriverNone {
			fmt.Fprintln(cmd.OutOrStdout(), "cache disabled, nothing to flush")
			return nil
		}
		store, closeStore, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		if err := store.Flush(cmd.Context()); err != nil {
			return fmt.Errorf("flushing %s cache: %w", cfg.Cache.Driver, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s cache flushed\n", cfg.Cache.Driver)
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		s, ok := store.(cache.Stats)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "driver: %s (no statistics)\n", cfg.Cache.Driver)
			return nil
		}
		stats := s.Stats()
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", k, stats[k])
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheFlushCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
}
