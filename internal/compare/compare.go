// Package compare correlates benchmark results across frameworks by
// canonical configuration key and computes head-to-head winners.
package compare

import (
	"math"
	"sort"

	"github.com/copyleftdev/optbench/internal/logging"
	"github.com/copyleftdev/optbench/internal/matrix"
	"github.com/copyleftdev/optbench/internal/result"
)

// Grouped maps each canonical key to the results for it, one per framework.
type Grouped map[matrix.Key]map[string]result.BenchmarkResult

// Tie marks a head-to-head comparison with no winner.
const Tie = "Tie"

// GroupByConfig partitions results by canonical key. Every input result lands
// in exactly one group. At most one result per framework per key is retained;
// on duplicates the later one in input order wins, which is a sign of a stale
// results directory and is logged as such.
func GroupByConfig(results []result.BenchmarkResult, logger *logging.Logger) Grouped {
	grouped := make(Grouped)
	for _, res := range results {
		key := res.Key()
		byFramework, ok := grouped[key]
		if !ok {
			byFramework = make(map[string]result.BenchmarkResult)
			grouped[key] = byFramework
		}
		if _, dup := byFramework[res.Framework]; dup && logger != nil {
			logger.Warn("duplicate result for configuration, keeping the later one", map[string]interface{}{
				"configuration": key.String(),
				"framework":     res.Framework,
			})
		}
		byFramework[res.Framework] = res
	}
	return grouped
}

// SortedKeys returns the group keys in canonical order.
func (g Grouped) SortedKeys() []matrix.Key {
	keys := make([]matrix.Key, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Frameworks returns every framework name seen across all groups, sorted.
func (g Grouped) Frameworks() []string {
	seen := make(map[string]struct{})
	for _, byFramework := range g {
		for name := range byFramework {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Progress reports completed pairs (keys with results from both frameworks)
// against all distinct keys seen. 0/0 means no experiments yet; it is a
// valid state, not an error.
func (g Grouped) Progress() (completed, total int) {
	for _, byFramework := range g {
		if len(byFramework) >= 2 {
			completed++
		}
	}
	return completed, len(g)
}

// QualityWinner compares best values under the lower-is-better convention.
// The strictly smaller finite value wins; equal values, or any non-finite
// value on either side, yield a tie.
func QualityWinner(a, b result.BenchmarkResult) string {
	av, bv := float64(a.BestValue), float64(b.BestValue)
	if !finite(av) || !finite(bv) {
		return Tie
	}
	switch {
	case av < bv:
		return a.Framework
	case bv < av:
		return b.Framework
	}
	return Tie
}

// ThroughputWinner compares trials/second, higher is better. Only meaningful
// for unpruned cells; callers filter on pruner == none.
func ThroughputWinner(a, b result.BenchmarkResult) string {
	switch {
	case a.TrialsPerSecond > b.TrialsPerSecond:
		return a.Framework
	case b.TrialsPerSecond > a.TrialsPerSecond:
		return b.Framework
	}
	return Tie
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
