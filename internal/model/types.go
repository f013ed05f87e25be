package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunKind distinguishes the one-shot relaxation from the stepwise
// evolution variant.
const (
	RunKindStatic    = "static"
	RunKindEvolution = "evolution"
)

// RunRecord is the persisted summary of a single solve or evolve call.
type RunRecord struct {
	VersionedRecord
	ID           string  `json:"id"`
	CreatedAtUTC string  `json:"created_at_utc"`
	Kind         string  `json:"kind"`
	Scenario     string  `json:"scenario,omitempty"`
	GridSize     int     `json:"grid_size"`
	DomainLength float64 `json:"domain_length"`
	Iterations   int     `json:"iterations,omitempty"`
	Steps        int     `json:"steps,omitempty"`
	TimeStep     float64 `json:"time_step,omitempty"`
	Backend      string  `json:"backend"`
	Seed         int64   `json:"seed,omitempty"`
	G00Mean      float64 `json:"g00_mean"`
	G00Std       float64 `json:"g00_std"`
	G00Min       float64 `json:"g00_min"`
	G00Max       float64 `json:"g00_max"`
	Hazard       float64 `json:"hazard"`
}

// StepSummary is the per-step diagnostic row recorded during time
// evolution: one entry per executed step, matching the snapshot times.
type StepSummary struct {
	Step        int     `json:"step"`
	Time        float64 `json:"time"`
	G00Mean     float64 `json:"g00_mean"`
	G00Std      float64 `json:"g00_std"`
	KMeanAbs    float64 `json:"k_mean_abs"`
	EntropyMean float64 `json:"entropy_mean"`
}
