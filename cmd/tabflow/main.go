// Tabflow - tabular data ingestion and column type inference.
// Parses CSV, TSV, XLSX, and JSON files into typed tables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabflow/tabflow/pkg/config"
	"github.com/tabflow/tabflow/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// CLI flags
var (
	inputFile     string
	delimiterFlag string
	jsonColumns   string
	verbose       bool

	// Stats flags
	statsColumn    string
	statsThreshold float64

	// Schema flags
	schemaOut      string
	schemaBaseline string

	// Batch flags
	parallelWorkers int
	manifestDir     string
	failFast        bool

	// Watch flags
	watchDebounce string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tabflow",
	Short: "Tabflow - Parse tabular data files into typed tables",
	Long: `Tabflow is a CLI tool for ingesting tabular data (CSV, TSV, XLSX, JSON)
and inferring per-column types (number, date, boolean, category, text).`,
	Version: fmt.Sprintf("%s (%s)", version, commit),
	RunE: func(cmd *cobra.Command, args []string) error {
		tui.PrintHeader(version)
		return cmd.Help()
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Parse a file and display its columns and inferred types",
	Long: `Parse a tabular data file and display its shape and the inferred type
of every column.

Examples:
  tabflow inspect sales.csv
  tabflow inspect -i data.xlsx
  tabflow inspect sales.csv.gz`,
	RunE: runInspect,
}

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Summarize numeric columns",
	Long: `Parse a file and print min/max/mean/median/stddev for numeric columns,
flagging z-score outliers.

Examples:
  tabflow stats sales.csv
  tabflow stats sales.csv --column Revenue --threshold 3`,
	RunE: runStats,
}

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check files against format and size limits",
	RunE:  runValidate,
}

var schemaCmd = &cobra.Command{
	Use:   "schema [file]",
	Short: "Infer and display a file's schema",
	Long: `Parse a file, display its schema snapshot, and optionally save it or
compare it against a previously saved baseline.

Examples:
  tabflow schema sales.csv
  tabflow schema sales.csv --save
  tabflow schema sales.csv --baseline sales.schema.json`,
	RunE: runSchema,
}

var batchCmd = &cobra.Command{
	Use:   "batch [files or globs...]",
	Short: "Ingest many files concurrently",
	Long: `Ingest multiple files in parallel and write a run manifest recording
per-file results.

Examples:
  tabflow batch data/*.csv
  tabflow batch --workers 8 exports/*.xlsx logs/*.json`,
	RunE: runBatch,
}

var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Re-ingest files on change and report schema drift",
	RunE:  runWatch,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Inspect command flags
	inspectCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file path")
	inspectCmd.Flags().StringVar(&delimiterFlag, "delimiter", "", "Field delimiter override for delimited files")
	inspectCmd.Flags().StringVar(&jsonColumns, "json-columns", "", "JSON column policy (first, union)")

	// Stats command flags
	statsCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file path")
	statsCmd.Flags().StringVar(&statsColumn, "column", "", "Limit the report to one column")
	statsCmd.Flags().Float64Var(&statsThreshold, "threshold", 0, "Z-score outlier threshold (0 = config default)")

	// Schema command flags
	schemaCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file path")
	schemaCmd.Flags().StringVar(&schemaOut, "save", "", "Write the snapshot to a file ('' = <input>.schema.json when flag given without value)")
	schemaCmd.Flags().Lookup("save").NoOptDefVal = "auto"
	schemaCmd.Flags().StringVar(&schemaBaseline, "baseline", "", "Compare against a saved schema file")

	// Batch command flags
	batchCmd.Flags().IntVar(&parallelWorkers, "workers", 0, "Number of concurrent workers (0 = config default)")
	batchCmd.Flags().StringVar(&manifestDir, "manifest-dir", "", "Directory for run manifests (default from config)")
	batchCmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop on the first failure")

	// Watch command flags
	watchCmd.Flags().StringVar(&watchDebounce, "debounce", "", "Debounce interval, e.g. 500ms")

	// Add commands
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// resolveInput returns the input path from the positional argument or
// the -i flag.
func resolveInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if inputFile != "" {
		return inputFile, nil
	}
	return "", fmt.Errorf("input file required")
}

func runConfig(cmd *cobra.Command, args []string) error {
	mgr := config.Global()
	cfg := mgr.Get()

	fmt.Printf("json_columns:      %s\n", cfg.Ingest.JSONColumns)
	fmt.Printf("max_size_mb:       %d\n", cfg.Validate.MaxSizeMB)
	fmt.Printf("outlier_threshold: %g\n", cfg.Stats.OutlierThreshold)
	fmt.Printf("watch_debounce:    %s\n", cfg.Watch.Debounce)
	fmt.Printf("batch_workers:     %d\n", cfg.Batch.Workers)
	fmt.Printf("manifest_dir:      %s\n", cfg.Batch.ManifestDir)

	if paths := mgr.GetPaths(); len(paths) > 0 {
		fmt.Println("\nloaded from:")
		for _, p := range paths {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}
