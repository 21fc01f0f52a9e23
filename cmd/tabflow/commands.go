package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tabflow/tabflow/internal/model"
	"github.com/tabflow/tabflow/pkg/config"
	"github.com/tabflow/tabflow/pkg/ingest"
	"github.com/tabflow/tabflow/pkg/schema"
	"github.com/tabflow/tabflow/pkg/source"
	"github.com/tabflow/tabflow/pkg/stats"
	"github.com/tabflow/tabflow/pkg/tui"
	"github.com/tabflow/tabflow/pkg/validate"
	"github.com/tabflow/tabflow/pkg/watch"
)

// ingestConfig builds the parse configuration from config files and
// CLI flags (flags win).
func ingestConfig() (ingest.Config, error) {
	cfg := ingest.DefaultConfig()

	fileCfg := config.Global().Get()
	delim := fileCfg.Ingest.Delimiter
	if delimiterFlag != "" {
		delim = delimiterFlag
	}
	if delim != "" {
		if len(delim) != 1 {
			return cfg, fmt.Errorf("delimiter must be a single character, got %q", delim)
		}
		cfg.Delimiter = delim[0]
	}

	mode := fileCfg.Ingest.JSONColumns
	if jsonColumns != "" {
		mode = jsonColumns
	}
	if mode == "union" {
		cfg.JSONColumns = ingest.JSONColumnsUnion
	}

	return cfg, nil
}

// validator builds the file checker from configuration.
func validator() *validate.Validator {
	cfg := config.Global().Get()
	var opts []validate.Option
	if len(cfg.Validate.Extensions) > 0 {
		opts = append(opts, validate.WithExtensions(cfg.Validate.Extensions))
	}
	if cfg.Validate.MaxSizeMB > 0 {
		opts = append(opts, validate.WithMaxSize(int64(cfg.Validate.MaxSizeMB)*1024*1024))
	}
	return validate.New(opts...)
}

// loadTable validates, opens, and parses a single file.
func loadTable(ctx context.Context, path string) (*model.Table, source.File, error) {
	f, err := source.Open(path)
	if err != nil {
		return nil, nil, err
	}

	if result := validator().Check(f); !result.Valid {
		return nil, nil, fmt.Errorf("%s: %s", path, result.Reason)
	}

	cfg, err := ingestConfig()
	if err != nil {
		return nil, nil, err
	}
	table, err := ingest.ParseFileWith(ctx, f, cfg)
	if err != nil {
		return nil, nil, err
	}
	return table, f, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted, cleaning up...")
		cancel()
	}()

	return ctx, cancel
}

func runInspect(cmd *cobra.Command, args []string) error {
	path, err := resolveInput(args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	table, _, err := loadTable(ctx, path)
	if err != nil {
		return err
	}

	tui.PrintTable(filepath.Base(path), table)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	path, err := resolveInput(args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	table, _, err := loadTable(ctx, path)
	if err != nil {
		return err
	}

	threshold := statsThreshold
	if threshold <= 0 {
		threshold = config.Global().Get().Stats.OutlierThreshold
	}

	var summaries []*stats.Summary
	if statsColumn != "" {
		s, err := stats.Describe(table, statsColumn, threshold)
		if err != nil {
			return err
		}
		summaries = []*stats.Summary{s}
	} else {
		summaries = stats.DescribeTable(table, threshold)
	}

	tui.PrintStats(summaries)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one file required")
	}

	v := validator()
	invalid := 0
	for _, path := range args {
		f, err := source.Open(path)
		if err != nil {
			tui.PrintValidation(path, validate.Result{Reason: err.Error()})
			invalid++
			continue
		}
		result := v.Check(f)
		tui.PrintValidation(path, result)
		if !result.Valid {
			invalid++
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d files invalid", invalid, len(args))
	}
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	path, err := resolveInput(args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	table, _, err := loadTable(ctx, path)
	if err != nil {
		return err
	}

	current := schema.FromTable(table, path)

	fmt.Printf("Schema for %s:\n", path)
	fmt.Printf("%-30s %-10s %s\n", "Column", "Type", "Nullable")
	for _, col := range current.Columns {
		nullable := ""
		if col.Nullable {
			nullable = "yes"
		}
		fmt.Printf("%-30s %-10s %s\n", col.Name, col.Type, nullable)
	}

	if schemaBaseline != "" {
		baseline, err := schema.Load(schemaBaseline)
		if err != nil {
			return fmt.Errorf("failed to load baseline: %w", err)
		}
		fmt.Println()
		tui.PrintDiff(filepath.Base(path), schema.Compare(baseline, current))
	}

	if schemaOut != "" {
		out := schemaOut
		if out == "auto" {
			out = schema.SchemaFile(path)
		}
		if err := current.Save(out); err != nil {
			return fmt.Errorf("failed to save schema: %w", err)
		}
		if verbose {
			fmt.Printf("Saved: %s\n", out)
		}
	}

	return nil
}

// BatchResult holds results from a single file ingestion.
type BatchResult struct {
	InputPath   string        `json:"input"`
	Rows        int           `json:"rows"`
	Columns     int           `json:"columns"`
	Fingerprint string        `json:"fingerprint,omitempty"`
	SchemaReuse bool          `json:"schema_reuse,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
	Error       string        `json:"error,omitempty"`
}

// RunManifest records one batch run.
type RunManifest struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Workers   int           `json:"workers"`
	Results   []BatchResult `json:"results"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	// Expand glob patterns and collect all input files
	var inputFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			// Try as literal path
			if _, err := os.Stat(pattern); err == nil {
				inputFiles = append(inputFiles, pattern)
			} else {
				fmt.Fprintf(os.Stderr, "Warning: no files match pattern %q\n", pattern)
			}
		} else {
			inputFiles = append(inputFiles, matches...)
		}
	}

	if len(inputFiles) == 0 {
		return fmt.Errorf("no input files found")
	}

	cfg := config.Global().Get()
	workers := parallelWorkers
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}
	if workers <= 0 {
		workers = 4
	}

	outDir := manifestDir
	if outDir == "" {
		outDir = cfg.Batch.ManifestDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	fmt.Printf("Ingesting %d files with %d workers...\n\n", len(inputFiles), workers)

	ctx, cancel := signalContext()
	defer cancel()

	var (
		mu         sync.Mutex
		allResults []BatchResult
	)
	var failed atomic.Int64
	var totalRows atomic.Int64
	var totalBytes atomic.Int64

	// Same-shaped files across the run share one schema snapshot.
	schemaCache := schema.NewCache()

	bar := tui.ShowProgress(int64(len(inputFiles)), "ingesting")

	// Use errgroup with limited concurrency
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	startTime := time.Now()

	for _, inputPath := range inputFiles {
		inputPath := inputPath // capture
		g.Go(func() error {
			result := ingestOne(ctx, inputPath, schemaCache)

			mu.Lock()
			allResults = append(allResults, result)
			mu.Unlock()

			bar.Add(1)

			if result.Error != "" {
				failed.Add(1)
				if failFast {
					return fmt.Errorf("%s: %s", inputPath, result.Error)
				}
				return nil
			}

			totalRows.Add(int64(result.Rows))
			if stat, err := os.Stat(inputPath); err == nil {
				totalBytes.Add(stat.Size())
			}
			return nil
		})
	}

	err := g.Wait()
	bar.Finish()
	tui.ClearLine()
	totalDuration := time.Since(startTime)

	manifest := &RunManifest{
		RunID:     uuid.New().String(),
		StartedAt: startTime,
		Duration:  totalDuration,
		Workers:   workers,
		Results:   allResults,
	}
	manifestPath := filepath.Join(outDir, manifest.RunID+".json")
	if werr := writeManifest(manifestPath, manifest); werr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write manifest: %v\n", werr)
	} else if verbose {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	tui.PrintIngestReport(&tui.IngestReport{
		Files:     len(inputFiles),
		Failed:    int(failed.Load()),
		Rows:      totalRows.Load(),
		InputSize: totalBytes.Load(),
		Duration:  totalDuration,
	})

	// Print errors if any
	if failed.Load() > 0 {
		fmt.Println("Errors:")
		for _, r := range allResults {
			if r.Error != "" {
				fmt.Printf("  %s: %s\n", filepath.Base(r.InputPath), r.Error)
			}
		}
	}

	if err != nil && failFast {
		return fmt.Errorf("batch ingestion failed: %w", err)
	}
	if failed.Load() > 0 {
		return fmt.Errorf("%d files failed to ingest", failed.Load())
	}
	return nil
}

// ingestOne parses a single file and returns the result. Files whose
// column shape was already seen this run reuse the cached snapshot.
func ingestOne(ctx context.Context, inputPath string, cache *schema.Cache) BatchResult {
	start := time.Now()
	result := BatchResult{InputPath: inputPath}

	table, _, err := loadTable(ctx, inputPath)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	snapshot, reused := cache.Snapshot(table, inputPath)
	result.Fingerprint = snapshot.Fingerprint
	result.SchemaReuse = reused
	result.Rows = table.RowCount()
	result.Columns = table.ColumnCount()
	return result
}

func writeManifest(path string, m *RunManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one file required")
	}

	cfg := config.Global().Get()
	debounce := cfg.Watch.Debounce
	if watchDebounce != "" {
		d, err := time.ParseDuration(watchDebounce)
		if err != nil {
			return fmt.Errorf("invalid debounce: %w", err)
		}
		debounce = d
	}

	ctx, cancel := signalContext()
	defer cancel()

	w, err := watch.NewWatcher(debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	r := watch.NewReingester()
	r.OnTable = func(path string, t *model.Table) {
		tui.PrintTable(filepath.Base(path), t)
	}
	r.OnDrift = func(path string, d *schema.Diff) {
		tui.PrintDiff(filepath.Base(path), d)
	}

	w.OnChange = func(path string) error {
		return r.Handle(ctx, path)
	}
	w.OnError = func(path string, err error) {
		fmt.Fprintf(os.Stderr, "watch error: %s: %v\n", path, err)
	}

	for _, path := range args {
		if err := w.Watch(path); err != nil {
			return err
		}
		// Establish the schema baseline up front.
		if err := r.Handle(ctx, path); err != nil {
			fmt.Fprintf(os.Stderr, "initial ingest failed: %s: %v\n", path, err)
		}
	}

	fmt.Printf("Watching %d files (debounce %s). Ctrl-C to stop.\n", len(args), debounce)

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
