package main

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/biyonik/stormquery/internal/config"
	"github.com/biyonik/stormquery/pkg/database"
)

var (
	// PersistentPreRunE içinde doldurulur.
	cfg    *config.Config
	logger *log.Logger

	cfgFile string
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "stormq",
	Short: "Render and run hydrated SQL queries",
	Long: `stormq - hydrated SQL query runner

stormq reads YAML query definitions, renders them to SQL for the configured
dialect and, against a live database, hydrates the joined rows into nested
JSON documents.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		logger = database.DefaultLogger()
		if quiet {
			logger = log.New(io.Discard, "", 0)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: defaults + STORM_* environment)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cacheCmd)
}

// resolveString, boş olmayan ilk değeri döndürür (flag > config > default).
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
