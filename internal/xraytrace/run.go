package xraytrace

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"
)

// Run executes one simulation: load the instrument config, trace
// NPhotons through the element chain and write the detector readout.
// Independent photon batches are the unit of parallelism: every worker
// builds its own instrument with its own seeded random source, so a run
// is reproducible for a fixed seed and worker count, and no element
// state is shared between goroutines.
func Run(cfgPath string) error {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > cfg.NPhotons {
		workers = cfg.NPhotons
	}
	per, rem := cfg.NPhotons/workers, cfg.NPhotons%workers
	DebugLog("Launching %d workers (%d photons each, +1 for first %d workers)", workers, per, rem)

	start := time.Now()
	results := make([]*PhotonBatch, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		n := per
		if w < rem {
			n++
		}
		go func(wid, n int) {
			defer wg.Done()
			seed := cfg.Seed ^ int64(uint64(wid)*0x9e3779b97f4a7c15)
			rng := rand.New(rand.NewSource(seed))

			seq, err := cfg.BuildInstrument(rng)
			if err != nil {
				errs[wid] = err
				return
			}
			beam, err := NewParallelBeam(cfg.Source.Direction, cfg.Source.Energy, rng)
			if err != nil {
				errs[wid] = err
				return
			}
			out, err := seq.Process(beam.Generate(n))
			if err != nil {
				errs[wid] = err
				return
			}
			results[wid] = out
		}(w, n)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	photons, err := Concat(results...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	DebugLog("Photons: %d, time: %s", photons.Len(), elapsed)

	detected, weight := 0, 0.0
	if photons.HasColumn(colDetPixX) {
		px := photons.Extra[colDetPixX]
		for i := 0; i < photons.Len(); i++ {
			if !math.IsNaN(px[i]) {
				detected++
				weight += photons.Probability[i]
			}
		}
	}
	fmt.Printf("Traced %d photons: %d detected, summed weight %.4g\n", photons.Len(), detected, weight)
	if Debug {
		tallyStats()
	}

	if cfg.PNGOut != "" {
		det := lastFlatDetector(cfg, rand.New(rand.NewSource(cfg.Seed)))
		if det == nil {
			return fmt.Errorf("pngOut set but config has no flat_detector")
		}
		counts := DetectorImage(photons, det)
		if err := SaveDetectorPNG(counts, cfg.PNGOut, cfg.Gamma); err != nil {
			return err
		}
		DebugLog("Saved detector image: %s", cfg.PNGOut)
	}
	return nil
}

// lastFlatDetector rebuilds the readout detector to recover its pixel
// grid; nil when the config has none.
func lastFlatDetector(cfg *Config, rng *rand.Rand) *FlatDetector {
	var det *FlatDetector
	for _, ec := range cfg.Elements {
		if ec.Kind != "flat_detector" {
			continue
		}
		e, err := ec.Build(rng)
		if err != nil {
			continue
		}
		det = e.(*FlatDetector)
	}
	return det
}
