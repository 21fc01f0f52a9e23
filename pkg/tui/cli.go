// Package tui provides a minimal streaming CLI surface.
// Simple prompts and styled output, no full-screen TUI.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"

	"github.com/tabflow/tabflow/internal/model"
	"github.com/tabflow/tabflow/pkg/schema"
	"github.com/tabflow/tabflow/pkg/stats"
	"github.com/tabflow/tabflow/pkg/validate"
)

// Colors (Swiss minimal)
var (
	accent  = lipgloss.Color("#FF0000")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	white   = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(white)
	accentStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
)

const rule = "  ─────────────────────────────────────"

// PrintHeader prints the program banner.
func PrintHeader(version string) {
	fmt.Println()
	fmt.Println(titleStyle.Render("  TABFLOW") + mutedStyle.Render(" v"+version))
	fmt.Println(mutedStyle.Render("  Tabular data ingestion and type inference"))
	fmt.Println()
}

// PrintTable prints a table summary: source, dimensions, and one line
// per column with its inferred type.
func PrintTable(name string, t *model.Table) {
	fmt.Println()
	fmt.Println(accentStyle.Render("▸ " + name))
	fmt.Println(mutedStyle.Render(rule))
	fmt.Printf("  %s %s rows, %s columns\n",
		mutedStyle.Render("Shape:"),
		titleStyle.Render(formatNumber(int64(t.RowCount()))),
		titleStyle.Render(formatNumber(int64(t.ColumnCount()))))
	fmt.Println(mutedStyle.Render(rule))
	for i, col := range t.Columns {
		fmt.Printf("  %-24s %s\n", col, mutedStyle.Render(t.Types[i].String()))
	}
	fmt.Println()
}

// PrintStats prints numeric column summaries.
func PrintStats(summaries []*stats.Summary) {
	if len(summaries) == 0 {
		fmt.Println(mutedStyle.Render("  no numeric columns"))
		return
	}

	for _, s := range summaries {
		fmt.Println()
		fmt.Println(accentStyle.Render("▸ " + s.Column))
		fmt.Printf("  %s %d %s\n", mutedStyle.Render("count:"), s.Count,
			mutedStyle.Render(fmt.Sprintf("(%d null)", s.NullCount)))
		if s.Count > 0 {
			fmt.Printf("  %s %s  %s %s\n",
				mutedStyle.Render("min:"), formatFloat(s.Min),
				mutedStyle.Render("max:"), formatFloat(s.Max))
			fmt.Printf("  %s %s  %s %s  %s %s\n",
				mutedStyle.Render("mean:"), formatFloat(s.Mean),
				mutedStyle.Render("median:"), formatFloat(s.Median),
				mutedStyle.Render("stddev:"), formatFloat(s.StdDev))
		}
		for _, o := range s.Outliers {
			fmt.Printf("  %s row %d: %s %s\n",
				accentStyle.Render("!"), o.Row, formatFloat(o.Value),
				mutedStyle.Render(fmt.Sprintf("(z=%.2f)", o.Score)))
		}
	}
	fmt.Println()
}

// PrintValidation prints the result of a file check.
func PrintValidation(name string, r validate.Result) {
	if r.Valid {
		fmt.Printf("  %s %s\n", successStyle.Render("✓"), name)
		return
	}
	fmt.Printf("  %s %s %s\n", accentStyle.Render("✗"), name, mutedStyle.Render(r.Reason))
}

// PrintDiff prints a schema drift report.
func PrintDiff(name string, d *schema.Diff) {
	if !d.HasChanges() {
		fmt.Printf("  %s %s %s\n", successStyle.Render("✓"), name, mutedStyle.Render("schema unchanged"))
		return
	}
	header := "schema drift"
	if d.HasBreaking() {
		header = "breaking schema drift"
	}
	fmt.Printf("  %s %s %s\n", accentStyle.Render("!"), name, mutedStyle.Render(header))
	for _, line := range strings.Split(d.Summary(), "\n") {
		fmt.Println("    " + line)
	}
}

// IngestReport summarizes a batch run.
type IngestReport struct {
	Files     int
	Failed    int
	Rows      int64
	InputSize int64
	Duration  time.Duration
}

// PrintIngestReport prints results after a batch run.
func PrintIngestReport(report *IngestReport) {
	fmt.Println()
	if report.Failed == 0 {
		fmt.Println(successStyle.Render("  ✓ INGESTION COMPLETE"))
	} else {
		fmt.Println(accentStyle.Render(fmt.Sprintf("  ✗ %d of %d files failed", report.Failed, report.Files)))
	}
	fmt.Println()
	fmt.Printf("  %s %s files, %s rows\n",
		mutedStyle.Render("Processed:"),
		titleStyle.Render(formatNumber(int64(report.Files-report.Failed))),
		titleStyle.Render(formatNumber(report.Rows)))

	if report.Duration > 0 {
		throughput := float64(report.InputSize) / report.Duration.Seconds()
		fmt.Printf("  %s %s %s\n",
			mutedStyle.Render("Time:"),
			titleStyle.Render(formatDuration(report.Duration)),
			mutedStyle.Render(fmt.Sprintf("(%s/sec)", formatBytes(int64(throughput)))))
	}
	fmt.Println()
}

// ClearLine clears the current line.
func ClearLine() {
	fmt.Print("\r\033[K")
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

func formatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

func formatFloat(f float64) string {
	return titleStyle.Render(fmt.Sprintf("%g", f))
}

// ShowProgress creates a progress bar for batch processing.
func ShowProgress(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
