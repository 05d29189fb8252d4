// Package network enumerates candidate BGC pairs, fans the distance
// computation out over a fixed worker pool and assembles the resulting
// records into the per-class distance matrix.
package network

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/yumyai/gcfnet/logger"
	"github.com/yumyai/gcfnet/pkg/distance"
	"github.com/yumyai/gcfnet/pkg/model"
)

// ErrIncompleteMatrix reports that fewer records came back than pairs
// were submitted. Fatal for the affected class group.
var ErrIncompleteMatrix = errors.New("incomplete distance matrix")

// Pair is one unordered candidate pair of global BGC indices, stored
// with A < B.
type Pair struct {
	A, B int
}

// AllPairs enumerates the deduplicated pair set over a class group.
// Self pairs are excluded.
func AllPairs(members []int) []Pair {
	var pairs []Pair
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			pairs = append(pairs, newPair(members[i], members[j]))
		}
	}
	return pairs
}

// QueryPairs enumerates (query, other) pairs only.
func QueryPairs(query int, members []int) []Pair {
	var pairs []Pair
	for _, m := range members {
		if m == query {
			continue
		}
		pairs = append(pairs, newPair(query, m))
	}
	return pairs
}

func newPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Builder dispatches pair distance computations across workers. The BGC
// slice and calculator are read-only while a build runs.
type Builder struct {
	BGCs  []*model.BGC
	Calc  *distance.Calculator
	Cores int
}

func NewBuilder(bgcs []*model.BGC, calc *distance.Calculator, cores int) *Builder {
	if cores < 1 {
		cores = 1
	}
	return &Builder{BGCs: bgcs, Calc: calc, Cores: cores}
}

// Build computes every submitted pair and returns the raw matrix in task
// completion order. A per-pair data gap degrades that record, never the
// build; a missing record is fatal for the class group.
func (b *Builder) Build(class string, pairs []Pair) ([]distance.Record, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	logger.Info("Calculating pairwise distances",
		zap.String("class", class), zap.Int("pairs", len(pairs)), zap.Int("cores", b.Cores))

	jobs := make(chan Pair)
	results := make(chan distance.Record, len(pairs))

	var wg sync.WaitGroup
	for w := 0; w < b.Cores; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				results <- b.Calc.Distance(p.A, p.B, b.BGCs[p.A], b.BGCs[p.B], class)
			}
		}()
	}

	for _, p := range pairs {
		jobs <- p
	}
	close(jobs)
	wg.Wait()
	close(results)

	matrix := make([]distance.Record, 0, len(pairs))
	for rec := range results {
		matrix = append(matrix, rec)
	}

	if len(matrix) != len(pairs) {
		return nil, fmt.Errorf("%w: class %s got %d of %d records",
			ErrIncompleteMatrix, class, len(matrix), len(pairs))
	}
	return matrix, nil
}

// BuildQuery runs the two-phase targeted expansion around a query BGC:
// query-vs-all first, then all pairwise distances among the BGCs found
// within maxCutoff of the query. Returns the combined matrix and the
// final member list (neighborhood plus the query, sorted).
func (b *Builder) BuildQuery(class string, query int, members []int, maxCutoff float64) ([]distance.Record, []int, error) {
	phase1, err := b.Build(class, QueryPairs(query, members))
	if err != nil {
		return nil, nil, err
	}

	var kept []distance.Record
	var neighborhood []int
	for _, rec := range phase1 {
		if rec.Distance > maxCutoff {
			continue
		}
		kept = append(kept, rec)
		if rec.A == query {
			neighborhood = append(neighborhood, rec.B)
		} else {
			neighborhood = append(neighborhood, rec.A)
		}
	}

	phase2, err := b.Build(class, AllPairs(neighborhood))
	if err != nil {
		return nil, nil, err
	}

	matrix := append(kept, phase2...)
	final := append(neighborhood, query)
	sort.Ints(final)
	return matrix, final, nil
}

// SortMatrix orders records by (A, B) for stable output files.
func SortMatrix(matrix []distance.Record) {
	sort.Slice(matrix, func(i, j int) bool {
		if matrix[i].A != matrix[j].A {
			return matrix[i].A < matrix[j].A
		}
		return matrix[i].B < matrix[j].B
	})
}
