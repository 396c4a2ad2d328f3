package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biyonik/stormquery/internal/querydef"
	"github.com/biyonik/stormquery/pkg/database"
)

var (
	renderFile    string
	renderDialect string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the SQL and parameters of a query definition",
	Example: `  # Render for the configured dialect
  stormq render -f queries/customer_orders.yaml

  # Render for SQL Server pagination
  stormq render -f queries/customer_orders.yaml --dialect sqlsrv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := querydef.Load(renderFile)
		if err != nil {
			return err
		}

		queries := database.New(nil, database.WithDialect(resolveString(renderDialect, cfg.Query.Dialect)))
		stmt, err := def.Build(queries).Statement()
		if err != nil {
			return err
		}

		params, err := json.Marshal(stmt.Parameters())
		if err != nil {
			return fmt.Errorf("encoding parameters: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, stmt.SQL())
		fmt.Fprintf(out, "-- params: %s\n", params)
		return nil
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFile, "file", "f", "", "query definition file")
	f.StringVar(&renderDialect, "dialect", "", "pagination dialect (standard or sqlsrv)")
	_ = renderCmd.MarkFlagRequired("file")
}
