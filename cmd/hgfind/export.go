package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mnahinkhan/hgfind/internal/duckdb"
)

func newExportCmd(verbose *bool) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the gene index to a DuckDB database",
		Long:  "Write the alias and coordinate tables into a DuckDB database so they can be queried with SQL.",
		Example: `  hgfind export
  hgfind export --db /data/genes.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*verbose)
			defer logger.Sync()

			r, err := newResolver(logger)
			if err != nil {
				return err
			}
			idx, err := r.Index()
			if err != nil {
				return err
			}

			if dbPath == "" {
				dbPath = filepath.Join(viper.GetString("cache.dir"), "genes.duckdb")
			}

			s, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ExportIndex(idx); err != nil {
				return fmt.Errorf("export index: %w", err)
			}

			fmt.Printf("Exported %d genes and %d names to %s\n",
				idx.GeneCount(), idx.AliasCount(), dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB file path (default: <cache-dir>/genes.duckdb)")
	return cmd
}
