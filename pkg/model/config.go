package model

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
)

// Alignment modes for the domain-order aligner.
const (
	ModeGlobal = "global"
	ModeGlocal = "glocal"
	ModeAuto   = "auto"
)

// ErrBadConfig wraps every configuration validation failure so callers
// can fail fast before any distance is computed.
var ErrBadConfig = errors.New("invalid run configuration")

// RunConfig carries the run parameters handed to the core by the
// orchestration layer.
type RunConfig struct {
	Cutoffs           []float64 `json:"cutoffs"`
	ClanClustering    bool      `json:"clan_clustering"`
	ClanCutoff        float64   `json:"clan_cutoff"`
	IncludeSingletons bool      `json:"include_singletons"`
	Cores             int       `json:"cores"`
	Mode              string    `json:"mode"`
	Hybrids           bool      `json:"hybrids"`

	// QueryBGC is the global index of the query BGC in targeted
	// expansion mode, or -1 for all-vs-all.
	QueryBGC int `json:"query_bgc"`
}

// MaxCutoff returns the loosest configured cutoff.
func (c *RunConfig) MaxCutoff() float64 {
	m := 0.0
	for _, cut := range c.Cutoffs {
		m = math.Max(m, cut)
	}
	return m
}

// Validate checks the configuration and the class weight table before
// any computation starts.
func (c *RunConfig) Validate() error {
	if len(c.Cutoffs) == 0 {
		return fmt.Errorf("%w: no cutoffs configured", ErrBadConfig)
	}
	for _, cut := range c.Cutoffs {
		if cut <= 0 || cut > 1 {
			return fmt.Errorf("%w: cutoff %.2f outside (0,1]", ErrBadConfig, cut)
		}
	}
	if c.ClanClustering {
		for _, cut := range c.Cutoffs {
			if c.ClanCutoff < cut {
				return fmt.Errorf("%w: clan cutoff %.2f below family cutoff %.2f",
					ErrBadConfig, c.ClanCutoff, cut)
			}
		}
	}
	switch c.Mode {
	case ModeGlobal, ModeGlocal, ModeAuto:
	default:
		return fmt.Errorf("%w: unknown alignment mode %q", ErrBadConfig, c.Mode)
	}
	if c.Cores < 1 {
		c.Cores = runtime.NumCPU()
	}
	for class, w := range CLASS_WEIGHTS {
		sum := w.Jaccard + w.Adjacency + w.Identity
		if math.Abs(sum-1.0) > 1e-9 {
			return fmt.Errorf("%w: weights for class %s sum to %.4f", ErrBadConfig, class, sum)
		}
	}
	sort.Float64s(c.Cutoffs)
	return nil
}
