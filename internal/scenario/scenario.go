package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"aethelgard/internal/grid"
	"aethelgard/internal/ops"
	"aethelgard/internal/solver"
)

// FieldSpec describes how to synthesize a scalar input field. Profiles
// are radial around the domain center unless noted. A nonzero
// Fluctuation adds seeded Gaussian noise; fields are clamped positive
// afterwards, matching the reference scenarios.
type FieldSpec struct {
	Profile     string  `yaml:"profile"` // zero|uniform|gaussian|ring|inverse-square|point
	Scale       float64 `yaml:"scale"`
	Sigma       float64 `yaml:"sigma"`
	Radius      float64 `yaml:"radius"`    // ring profile: shell radius
	Softening   float64 `yaml:"softening"` // inverse-square: keeps the center finite
	Fluctuation float64 `yaml:"fluctuation"`
}

// SourceSpec describes the time-varying entropy source for evolution
// runs. When absent, the entropy FieldSpec is frozen into a static
// source.
type SourceSpec struct {
	Kind        string  `yaml:"kind"` // static|wave|collapse|diffusion
	Amplitude   float64 `yaml:"amplitude"`
	Wavelength  float64 `yaml:"wavelength"`
	Velocity    float64 `yaml:"velocity"`
	Base        float64 `yaml:"base"`
	Width       float64 `yaml:"width"`
	ShrinkRate  float64 `yaml:"shrink_rate"`
	Coefficient float64 `yaml:"coefficient"`
}

// Definition is a complete canned parameter set for a solve or evolve
// run. Definitions are data only; validation happens in the solvers.
type Definition struct {
	Name         string      `yaml:"name"`
	Description  string      `yaml:"description"`
	GridSize     int         `yaml:"grid_size"`
	DomainLength float64     `yaml:"domain_length"`
	Iterations   int         `yaml:"iterations"`
	Steps        int         `yaml:"steps"`
	TimeStep     float64     `yaml:"time_step"`
	Seed         int64       `yaml:"seed"`
	Mass         FieldSpec   `yaml:"mass"`
	Entropy      FieldSpec   `yaml:"entropy"`
	Source       *SourceSpec `yaml:"source,omitempty"`
}

// Load reads a scenario definition from a YAML file.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, err
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if def.Name == "" {
		return Definition{}, fmt.Errorf("scenario %s has no name", path)
	}
	return def, nil
}

// BuildMass synthesizes the mass-density input for the grid.
func (d Definition) BuildMass(spec grid.Spec) (*grid.ScalarField, error) {
	return buildField(spec, d.Mass, d.Seed)
}

// BuildEntropy synthesizes the static entropy input for the grid.
func (d Definition) BuildEntropy(spec grid.Spec) (*grid.ScalarField, error) {
	// Offset the seed so mass and entropy noise are decorrelated while
	// the run stays reproducible.
	return buildField(spec, d.Entropy, d.Seed+1)
}

// BuildSource assembles the entropy source for evolution runs.
func (d Definition) BuildSource(spec grid.Spec, backend ops.Backend) (solver.EntropySource, error) {
	if d.Source == nil || d.Source.Kind == "" || d.Source.Kind == "static" {
		entropy, err := d.BuildEntropy(spec)
		if err != nil {
			return nil, err
		}
		return solver.StaticSource(entropy), nil
	}
	switch d.Source.Kind {
	case "wave":
		return solver.WaveSource(spec, d.Source.Amplitude, d.Source.Wavelength, d.Source.Velocity), nil
	case "collapse":
		return solver.CollapseSource(spec, d.Source.Base, d.Source.Width, d.Source.ShrinkRate), nil
	case "diffusion":
		entropy, err := d.BuildEntropy(spec)
		if err != nil {
			return nil, err
		}
		return solver.DiffusionSource(spec, entropy, d.Source.Coefficient, backend), nil
	default:
		return nil, fmt.Errorf("unknown source kind: %s", d.Source.Kind)
	}
}

func buildField(spec grid.Spec, fs FieldSpec, seed int64) (*grid.ScalarField, error) {
	out := grid.NewScalarField(spec)
	center := spec.DomainLength() / 2
	n := spec.Size()

	fill := func(value func(r2 float64) float64) {
		for i := 0; i < n; i++ {
			dx := spec.Coordinate(i) - center
			for j := 0; j < n; j++ {
				dy := spec.Coordinate(j) - center
				for k := 0; k < n; k++ {
					dz := spec.Coordinate(k) - center
					out.Set(i, j, k, value(dx*dx+dy*dy+dz*dz))
				}
			}
		}
	}

	switch fs.Profile {
	case "", "zero":
		// stays zero
	case "uniform":
		out.Fill(fs.Scale)
	case "gaussian":
		sigma := fs.Sigma
		if sigma <= 0 {
			sigma = 1
		}
		fill(func(r2 float64) float64 {
			return fs.Scale * math.Exp(-r2/(2*sigma*sigma))
		})
	case "ring":
		width := fs.Sigma
		if width <= 0 {
			width = 1
		}
		fill(func(r2 float64) float64 {
			d := math.Sqrt(r2) - fs.Radius
			return fs.Scale * math.Exp(-d*d/width)
		})
	case "inverse-square":
		soft := fs.Softening
		if soft <= 0 {
			soft = 0.5
		}
		fill(func(r2 float64) float64 {
			return fs.Scale / (r2 + soft)
		})
	case "point":
		mid := n / 2
		out.Set(mid, mid, mid, fs.Scale)
	default:
		return nil, fmt.Errorf("unknown field profile: %s", fs.Profile)
	}

	if fs.Fluctuation != 0 {
		rng := rand.New(rand.NewSource(seed))
		data := out.Data()
		for c := range data {
			data[c] = math.Abs(data[c] + fs.Fluctuation*rng.NormFloat64())
		}
	}
	return out, nil
}
