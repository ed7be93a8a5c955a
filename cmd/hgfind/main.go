// Package main provides the hgfind command-line tool: human gene name to
// hg38 coordinates.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mnahinkhan/hgfind/internal/gene"
	"github.com/mnahinkhan/hgfind/internal/resolve"
	"github.com/mnahinkhan/hgfind/internal/store"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errNotRecognized signals that the user-facing message has already been
// printed; main only needs the non-zero exit.
var errNotRecognized = errors.New("gene not recognized")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errNotRecognized) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "hgfind <gene>",
		Short:   "Get the human genome (hg38) coordinates of a gene",
		Long:    "Resolve a human gene name (official symbol or synonym) to its chromosome and coordinate span on hg38, using a BioMart gene coordinate export.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Example: `  hgfind HNRNPC
  hgfind auf1
  hgfind build --table /data/biomart-gene-coordinates.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(args[0], verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log ingestion and cache activity to stderr")
	cmd.PersistentFlags().String("table", "", "Path to the BioMart gene coordinate export")
	cmd.PersistentFlags().String("cache-dir", "", "Directory for the index snapshot (default: ~/.hgfind)")
	viper.BindPFlag("data.table", cmd.PersistentFlags().Lookup("table"))
	viper.BindPFlag("cache.dir", cmd.PersistentFlags().Lookup("cache-dir"))

	cmd.AddCommand(newBuildCmd(&verbose))
	cmd.AddCommand(newExportCmd(&verbose))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig wires viper to ~/.hgfind.yaml and HGFIND_* env vars.
func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hgfind")
		viper.SetDefault("cache.dir", filepath.Join(home, ".hgfind"))
		viper.SetDefault("data.table", filepath.Join(home, ".hgfind", "biomart-gene-coordinates.txt"))
	}

	viper.SetEnvPrefix("HGFIND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// newLogger builds the CLI logger; quiet by default.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newResolver builds a resolver from the configured table and cache paths.
func newResolver(logger *zap.Logger) (*resolve.Resolver, error) {
	tablePath := viper.GetString("data.table")

	fp, err := store.StatFile(tablePath)
	if err != nil {
		return nil, fmt.Errorf("gene coordinate table %s: %w\nHint: set data.table with 'hgfind config set data.table <path>' or pass --table", tablePath, err)
	}

	st := store.NewGobStore(viper.GetString("cache.dir"), fp)
	r := resolve.New(tablePath, st)
	r.SetLogger(logger)
	return r, nil
}

func runLookup(query string, verbose bool) error {
	logger := newLogger(verbose)
	defer logger.Sync()

	r, err := newResolver(logger)
	if err != nil {
		return err
	}

	res, err := r.Find(query)
	if err != nil {
		var nf *gene.NotFoundError
		if errors.As(err, &nf) {
			fmt.Printf("%s not recognized as a gene\n", query)
			return errNotRecognized
		}
		return err
	}

	fmt.Printf("%s => %s:%d-%d\n", res.OfficialName, res.Chrom, res.Start, res.End)
	return nil
}

func newBuildCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Re-ingest the gene coordinate table and rewrite the snapshot",
		Long:  "Force a full re-ingestion of the BioMart table, replacing any existing index snapshot. Lookups do this automatically when the snapshot is missing or stale.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*verbose)
			defer logger.Sync()

			r, err := newResolver(logger)
			if err != nil {
				return err
			}
			if err := r.Rebuild(); err != nil {
				return err
			}

			idx, err := r.Index()
			if err != nil {
				return err
			}
			fmt.Printf("Indexed %d genes (%d names) from %s\n",
				idx.GeneCount(), idx.AliasCount(), viper.GetString("data.table"))
			return nil
		},
	}
}
