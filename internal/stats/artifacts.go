package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"aethelgard/internal/model"
)

// Artifacts is everything exported for one run: the record itself, the
// per-step history (evolution runs), and an optional g00 mid-plane
// slice for plotting.
type Artifacts struct {
	Run      model.RunRecord
	History  []model.StepSummary
	G00Slice [][]float64
}

// Write materializes the artifacts under dir/<run-id>/ and returns the
// run directory. Numbers are serialized with full float64 precision so
// exported runs stay bit-comparable.
func (a Artifacts) Write(dir string) (string, error) {
	if a.Run.ID == "" {
		return "", fmt.Errorf("run record has no id")
	}
	runDir := filepath.Join(dir, a.Run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "run.json"), a.Run); err != nil {
		return "", err
	}
	if len(a.History) > 0 {
		if err := writeHistoryCSV(filepath.Join(runDir, "history.csv"), a.History); err != nil {
			return "", err
		}
	}
	if len(a.G00Slice) > 0 {
		if err := writeSliceCSV(filepath.Join(runDir, "g00_midplane.csv"), a.G00Slice); err != nil {
			return "", err
		}
	}
	return runDir, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func writeHistoryCSV(path string, steps []model.StepSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "time", "g00_mean", "g00_std", "k_mean_abs", "entropy_mean"}); err != nil {
		return err
	}
	for _, s := range steps {
		record := []string{
			strconv.Itoa(s.Step),
			formatFloat(s.Time),
			formatFloat(s.G00Mean),
			formatFloat(s.G00Std),
			formatFloat(s.KMeanAbs),
			formatFloat(s.EntropyMean),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeSliceCSV(path string, plane [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range plane {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatFloat(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
