package scenario

// Builtins mirrors the canned parameter sets shipped with the reference
// engine: three static configurations plus the two evolution examples.
func Builtins() []Definition {
	return []Definition{
		{
			Name:         "black-hole-quantum-core",
			Description:  "Singularity prevention via quantum repulsion: 1/r^2 mass profile against a high-entropy core.",
			GridSize:     64,
			DomainLength: 20.0,
			Iterations:   200,
			Seed:         42,
			Mass:         FieldSpec{Profile: "inverse-square", Scale: 5e27, Softening: 0.5},
			Entropy:      FieldSpec{Profile: "gaussian", Scale: 1.5e68, Sigma: 1.4, Fluctuation: 5e66},
		},
		{
			Name:         "wormhole-stabilization",
			Description:  "Quantum pressure stabilizing an exotic toroidal geometry around a throat.",
			GridSize:     48,
			DomainLength: 15.0,
			Iterations:   150,
			Seed:         123,
			Mass:         FieldSpec{Profile: "ring", Scale: 8e11, Radius: 2.5, Sigma: 0.8},
			Entropy:      FieldSpec{Profile: "ring", Scale: 20, Radius: 2.5, Sigma: 0.5, Fluctuation: 0.3},
		},
		{
			Name:         "dark-energy-cosmology",
			Description:  "Emergent cosmological constant: near-empty universe with a fluctuating vacuum entropy.",
			GridSize:     32,
			DomainLength: 100.0,
			Iterations:   100,
			Seed:         42,
			Mass:         FieldSpec{Profile: "uniform", Scale: 1e6, Fluctuation: 1e7},
			Entropy:      FieldSpec{Profile: "uniform", Scale: 5.0, Fluctuation: 0.5},
		},
		{
			Name:         "gravitational-wave",
			Description:  "Entropy wave traveling through nearly empty space.",
			GridSize:     32,
			DomainLength: 10.0,
			Steps:        100,
			TimeStep:     0.02,
			Mass:         FieldSpec{Profile: "uniform", Scale: 1e5},
			Entropy:      FieldSpec{Profile: "zero"},
			Source:       &SourceSpec{Kind: "wave", Amplitude: 2.0, Wavelength: 3.0, Velocity: 1.0},
		},
		{
			Name:         "collapsing-star",
			Description:  "Stellar core collapse with entropy concentrating toward a quantum bounce.",
			GridSize:     32,
			DomainLength: 10.0,
			Steps:        80,
			TimeStep:     0.01,
			Mass:         FieldSpec{Profile: "gaussian", Scale: 5e11, Sigma: 1.4},
			Entropy:      FieldSpec{Profile: "zero"},
			Source:       &SourceSpec{Kind: "collapse", Base: 2.0, Width: 3.0, ShrinkRate: 0.5},
		},
	}
}

// Lookup finds a builtin definition by name.
func Lookup(name string) (Definition, bool) {
	for _, def := range Builtins() {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// Names lists the builtin scenario names in registry order.
func Names() []string {
	defs := Builtins()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}
