// Package report writes analysis reports to disk as JSON, the primary
// data contract consumers depend on.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/drey-val/instapilot/internal/types"
)

// Writer persists reports into an output directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a report writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// Write saves the report as JSON and returns the file path. File names
// lead with the timestamp so reports sort chronologically.
func (w *Writer) Write(r *types.AnalysisReport) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0700); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s.json", r.GeneratedAt.Format("20060102-150405"), r.SubjectHandle)
	path := filepath.Join(w.outputDir, name)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// Latest returns the path of the most recent report in the directory.
func Latest(outputDir string) (string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no reports found in %s", outputDir)
	}

	// Timestamped names make lexicographic order chronological.
	sort.Strings(names)
	return filepath.Join(outputDir, names[len(names)-1]), nil
}
