// Package report renders the cross-framework comparison document from
// aggregated benchmark results. The output is Markdown meant for humans;
// nothing parses it back.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/copyleftdev/optbench/internal/compare"
	"github.com/copyleftdev/optbench/internal/errors"
	"github.com/copyleftdev/optbench/internal/logging"
	"github.com/copyleftdev/optbench/internal/matrix"
	"github.com/copyleftdev/optbench/internal/result"
)

// Generate renders the full comparison document for results to w. It always
// produces a document: missing frameworks or an empty result set reduce what
// is rendered, never abort it.
func Generate(results []result.BenchmarkResult, now time.Time, w io.Writer, logger *logging.Logger) error {
	grouped := compare.GroupByConfig(results, logger)

	fmt.Fprintf(w, "# Cross-Framework Benchmark Comparison\n\n")
	fmt.Fprintf(w, "**Generated:** %s\n\n", now.UTC().Format("2006-01-02 15:04:05 UTC"))
	completed, total := grouped.Progress()
	fmt.Fprintf(w, "**Progress:** %d/%d configuration pairs completed\n\n", completed, total)

	frameworks := grouped.Frameworks()
	if len(frameworks) >= 2 {
		a, b := frameworks[0], frameworks[1]
		writeQualityTable(w, grouped, a, b)
		writeThroughputTable(w, grouped, a, b)
	}
	writeConvergenceSections(w, grouped)
	if len(frameworks) >= 2 {
		writePruningTable(w, grouped, frameworks[0], frameworks[1])
	}

	fmt.Fprintf(w, "---\n\n")
	fmt.Fprintf(w, "*Lower is better for quality metrics (best value). Higher is better for throughput.*\n")
	return nil
}

// WriteFile renders the document to path, creating parent directories.
func WriteFile(results []result.BenchmarkResult, now time.Time, path string, logger *logging.Logger) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating report directory").WithComponent("report")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating report file").WithComponent("report")
	}
	defer f.Close()
	return Generate(results, now, f, logger)
}

func writeQualityTable(w io.Writer, grouped compare.Grouped, a, b string) {
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "### Best Value Quality (lower = better)\n\n")
	fmt.Fprintf(w, "| Objective | Sampler | Params | Trials | Pruner | %s | %s | Winner |\n", a, b)
	fmt.Fprintf(w, "|---|---|---|---|---|---|---|---|\n")

	for _, key := range grouped.SortedKeys() {
		ra, okA := grouped[key][a]
		rb, okB := grouped[key][b]
		if !okA || !okB {
			continue
		}
		fmt.Fprintf(w, "| %s | %s | %d | %d | %s | %s | %s | %s |\n",
			key.Objective, key.Sampler, key.NParams, key.NTrials, key.Pruner,
			FormatValue(float64(ra.BestValue)), FormatValue(float64(rb.BestValue)),
			compare.QualityWinner(ra, rb))
	}
	fmt.Fprintln(w)
}

func writeThroughputTable(w io.Writer, grouped compare.Grouped, a, b string) {
	fmt.Fprintf(w, "### Throughput (trials/sec, higher = better)\n\n")
	fmt.Fprintf(w, "| Objective | Sampler | Params | Trials | %s | %s | Winner |\n", a, b)
	fmt.Fprintf(w, "|---|---|---|---|---|---|---|\n")

	for _, key := range grouped.SortedKeys() {
		// Pruning changes how many full evaluations actually run, which
		// makes raw throughput non-comparable. Unpruned cells only.
		if key.Pruner != matrix.PrunerNone {
			continue
		}
		ra, okA := grouped[key][a]
		rb, okB := grouped[key][b]
		if !okA || !okB {
			continue
		}
		fmt.Fprintf(w, "| %s | %s | %d | %d | %s | %s | %s |\n",
			key.Objective, key.Sampler, key.NParams, key.NTrials,
			FormatValue(ra.TrialsPerSecond), FormatValue(rb.TrialsPerSecond),
			compare.ThroughputWinner(ra, rb))
	}
	fmt.Fprintln(w)
}

func writeConvergenceSections(w io.Writer, grouped compare.Grouped) {
	seen := make(map[matrix.Objective]bool)
	var objectives []matrix.Objective
	for _, key := range grouped.SortedKeys() {
		if !seen[key.Objective] {
			seen[key.Objective] = true
			objectives = append(objectives, key.Objective)
		}
	}
	if len(objectives) == 0 {
		return
	}

	fmt.Fprintf(w, "## Per-Objective Results\n\n")
	for _, obj := range objectives {
		fmt.Fprintf(w, "### %s\n\n", obj)
		fmt.Fprintf(w, "#### Convergence (best value at checkpoints)\n\n")
		fmt.Fprintf(w, "| Config | 20%% | 40%% | 60%% | 80%% | 100%% |\n")
		fmt.Fprintf(w, "|---|---|---|---|---|---|\n")

		for _, key := range grouped.SortedKeys() {
			if key.Objective != obj {
				continue
			}
			byFramework := grouped[key]
			for _, fw := range grouped.Frameworks() {
				res, ok := byFramework[fw]
				if !ok {
					continue
				}
				fmt.Fprintf(w, "| %s/%s/%dp/%dt/%s |", fw, key.Sampler, key.NParams, key.NTrials, key.Pruner)
				for _, v := range res.Convergence {
					fmt.Fprintf(w, " %s |", FormatValue(float64(v)))
				}
				fmt.Fprintln(w)
			}
		}
		fmt.Fprintln(w)
	}
}

func writePruningTable(w io.Writer, grouped compare.Grouped, a, b string) {
	var keys []matrix.Key
	for _, key := range grouped.SortedKeys() {
		if key.Pruner == matrix.PrunerNone {
			continue
		}
		if _, okA := grouped[key][a]; !okA {
			continue
		}
		if _, okB := grouped[key][b]; !okB {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return
	}

	fmt.Fprintf(w, "## Pruning Effectiveness\n\n")
	fmt.Fprintf(w, "| Pruner | Sampler | Objective | %s Rate | %s Rate | %s TPS | %s TPS |\n", a, b, a, b)
	fmt.Fprintf(w, "|---|---|---|---|---|---|---|\n")
	for _, key := range keys {
		ra, rb := grouped[key][a], grouped[key][b]
		fmt.Fprintf(w, "| %s | %s | %s | %.1f%% | %.1f%% | %s | %s |\n",
			key.Pruner, key.Sampler, key.Objective,
			ra.PruningRate*100, rb.PruningRate*100,
			FormatValue(ra.TrialsPerSecond), FormatValue(rb.TrialsPerSecond))
	}
	fmt.Fprintln(w)
}

// FormatValue renders a metric value for display: scientific notation below
// 0.001 in magnitude, four decimals below 1, two decimals otherwise. A
// non-finite value renders as N/A, never as a raw infinity token.
func FormatValue(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "N/A"
	}
	abs := math.Abs(v)
	switch {
	case abs < 0.001:
		return fmt.Sprintf("%.2e", v)
	case abs < 1:
		return fmt.Sprintf("%.4f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// FormatDuration renders an elapsed-milliseconds value: whole milliseconds
// below a minute, otherwise seconds with one decimal.
func FormatDuration(ms float64) string {
	if math.IsInf(ms, 0) || math.IsNaN(ms) {
		return "N/A"
	}
	if ms >= 60000 {
		return fmt.Sprintf("%.1fs", ms/1000)
	}
	return fmt.Sprintf("%.0fms", ms)
}
