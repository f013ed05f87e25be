package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"aethelgard/internal/metric"
	"aethelgard/internal/model"
)

// MetricSummary aggregates the g00 component of a metric field.
type MetricSummary struct {
	G00Mean float64
	G00Std  float64
	G00Min  float64
	G00Max  float64
}

func SummarizeMetric(m *metric.Field) MetricSummary {
	g00 := m.G00Slice()
	return MetricSummary{
		G00Mean: stat.Mean(g00, nil),
		G00Std:  stat.StdDev(g00, nil),
		G00Min:  floats.Min(g00),
		G00Max:  floats.Max(g00),
	}
}

func MeanOf(xs []float64) float64 {
	return stat.Mean(xs, nil)
}

// ApplySummary copies a metric summary onto a run record.
func ApplySummary(rec *model.RunRecord, s MetricSummary) {
	rec.G00Mean = s.G00Mean
	rec.G00Std = s.G00Std
	rec.G00Min = s.G00Min
	rec.G00Max = s.G00Max
}
