package result

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/copyleftdev/optbench/internal/errors"
	"github.com/copyleftdev/optbench/internal/logging"
)

// Save serializes one result record to path, creating intermediate
// directories as needed. An existing file at path is replaced.
func Save(res *BenchmarkResult, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating result directory").WithComponent("result")
		}
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling result").WithComponent("result")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing result file").WithComponent("result")
	}
	return nil
}

// LoadAll reads every .json record in dir, in name order. Records that fail
// to parse or validate are skipped with a warning; a missing directory is the
// expected pre-run state and yields an empty list.
func LoadAll(dir string, logger *logging.Logger) ([]BenchmarkResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading results directory").WithComponent("result")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var results []BenchmarkResult
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable result file", map[string]interface{}{"path": path, "error": err.Error()})
			continue
		}
		var res BenchmarkResult
		if err := json.Unmarshal(data, &res); err != nil {
			logger.Warn("skipping unparsable result file", map[string]interface{}{"path": path, "error": err.Error()})
			continue
		}
		if err := res.Validate(); err != nil {
			logger.Warn("skipping incomplete result file", map[string]interface{}{"path": path, "error": err.Error()})
			continue
		}
		results = append(results, res)
	}
	return results, nil
}
